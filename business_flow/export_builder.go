package businessflow

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is a read-only snapshot of one open sales order as served to the reviewer
type OrderLine struct {
	ID             uint
	DocumentNumber string
	CustomerName   string
	Memo           string
	Amount         decimal.Decimal
	CreatedAt      time.Time
}

// ExportLine is a selected order line together with its reason for delay
type ExportLine struct {
	OrderLine
	Reason string
}

// Export file names and content types
const (
	csvFileNameFormat         = "Open Sales Orders - Sales Rep: %d.csv"
	spreadsheetFileNameFormat = "Open_SO of EmpId: %d.xls"

	CSVContentType         = "text/csv"
	SpreadsheetContentType = "application/vnd.ms-excel"
	XLSXContentType        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// CSVFileName returns the name of the delimited export of a sales rep
func CSVFileName(salesRepID uint) string {
	return fmt.Sprintf(csvFileNameFormat, salesRepID)
}

// SpreadsheetFileName returns the name of the spreadsheet export of a sales rep
func SpreadsheetFileName(salesRepID uint) string {
	return fmt.Sprintf(spreadsheetFileNameFormat, salesRepID)
}

var delimitedHeader = []string{"Document Number", "Memo", "Customer", "Sales Order Amount", "Reason for Delay"}

// BuildDelimitedText renders the lines as comma separated text: a fixed header
// plus one line per input, joined by newlines with no trailing newline.
// Fields are written as is; commas inside memo or customer names are not quoted.
func BuildDelimitedText(lines []ExportLine) []byte {
	out := make([]string, 0, len(lines)+1)
	out = append(out, strings.Join(delimitedHeader, ","))
	for _, l := range lines {
		out = append(out, strings.Join([]string{
			l.DocumentNumber,
			l.Memo,
			l.CustomerName,
			formatAmount(l.Amount),
			l.Reason,
		}, ","))
	}
	return []byte(strings.Join(out, "\n"))
}

var spreadsheetHeader = []string{"Document Number", "Memo", "Customer Name", "Sales Order Amount", "Reason for Delay"}

const spreadsheetPreamble = `<?xml version="1.0"?>
<?mso-application progid="Excel.Sheet"?>
<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet" xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:x="urn:schemas-microsoft-com:office:excel" xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet" xmlns:html="http://www.w3.org/TR/REC-html40">
<Styles>
<Style ss:ID="Default" ss:Name="Normal">
<Alignment ss:Vertical="Bottom"/>
<Font ss:FontName="Arial" ss:Size="11" ss:Color="#000000"/>
</Style>
<Style ss:ID="Header">
<Alignment ss:Horizontal="Center" ss:Vertical="Center"/>
<Font ss:Bold="1" ss:Color="#FFFFFF"/>
<Interior ss:Color="#AAAAAA" ss:Pattern="Solid"/>
</Style>
<Style ss:ID="s156">
<Alignment ss:Horizontal="Center" ss:Vertical="Center"/>
<Borders/>
<Font ss:FontName="Times New Roman" x:Family="Roman" ss:Color="#000000"/>
<Interior/>
</Style>
</Styles>
<Worksheet ss:Name="Sheet1">
<Table>
`

const spreadsheetTrailer = `</Table>
</Worksheet>
</Workbook>`

// BuildSpreadsheetMarkup renders the lines as a single sheet SpreadsheetML 2003 workbook
// with one Header styled row followed by one row per line. Cell text is XML escaped.
func BuildSpreadsheetMarkup(lines []ExportLine) []byte {
	var buf bytes.Buffer
	buf.WriteString(spreadsheetPreamble)

	buf.WriteString("<Row>\n")
	for _, h := range spreadsheetHeader {
		writeCell(&buf, "Header", "String", h)
	}
	buf.WriteString("</Row>\n")

	for _, l := range lines {
		buf.WriteString("<Row>\n")
		writeCell(&buf, "s156", "String", l.DocumentNumber)
		writeCell(&buf, "s156", "String", l.Memo)
		writeCell(&buf, "s156", "String", l.CustomerName)
		writeCell(&buf, "s156", "Number", formatAmount(l.Amount))
		writeCell(&buf, "s156", "String", l.Reason)
		buf.WriteString("</Row>\n")
	}

	buf.WriteString(spreadsheetTrailer)
	return buf.Bytes()
}

func writeCell(buf *bytes.Buffer, style, dataType, value string) {
	fmt.Fprintf(buf, `<Cell ss:StyleID="%s"><Data ss:Type="%s">`, style, dataType)
	// EscapeText only fails when the writer does; bytes.Buffer never does
	_ = xml.EscapeText(buf, []byte(value))
	buf.WriteString("</Data></Cell>\n")
}

// formatAmount keeps the scale the amount was stored with
func formatAmount(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
