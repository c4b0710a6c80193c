package handlers

import (
	"bytes"
	"html/template"

	"github.com/amirphl/open-so-review/app/dto"
	businessflow "github.com/amirphl/open-so-review/business_flow"
)

var reviewPageTemplate = template.Must(template.New("review").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.View.Title}}</title>
</head>
<body>
<h1>{{.View.Title}}</h1>
<form id="page-selector" method="get" action="{{.Action}}">
<input type="hidden" name="salesRepId" value="{{.View.SalesRepID}}">
<label>Employee Name <input type="text" value="{{.View.SalesRepName}}" readonly></label>
{{if .View.PageOptions}}<label>Page <select name="pageIndex" onchange="this.form.submit()">
{{range .View.PageOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
{{end}}</select></label>{{end}}
</form>
{{if .View.Empty}}<p class="warning">{{.View.Message}}</p>
{{else}}<form id="review" method="post" action="{{.Action}}">
<input type="hidden" name="salesRepId" value="{{.View.SalesRepID}}">
<input type="hidden" name="pageToken" value="{{.View.PageToken}}">
<table>
<thead><tr><th>Internal Id</th><th>Document Number</th><th>Customer Name</th><th>Memo</th><th>Sales Order Amount</th><th>Reason for Delay</th><th>Select</th></tr></thead>
<tbody>
{{range .View.Rows}}<tr>
<td>{{.ID}}</td><td>{{.DocumentNumber}}</td><td>{{.CustomerName}}</td><td>{{.Memo}}</td><td>{{.Amount}}</td>
<td><input type="text" name="reason_{{.ID}}"></td>
<td><input type="checkbox" name="select_{{.ID}}"></td>
</tr>
{{end}}</tbody>
</table>
<button type="submit">Send Email</button>
</form>
{{end}}</body>
</html>
`))

type reviewPageData struct {
	Action string
	View   *dto.ReviewPageView
}

func renderReviewPage(view *dto.ReviewPageView) ([]byte, error) {
	var buf bytes.Buffer
	if err := reviewPageTemplate.Execute(&buf, reviewPageData{Action: businessflow.ReviewPagePath, View: view}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
