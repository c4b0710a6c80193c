package dto

// ReviewPageRequest selects one page of a sales rep's open sales orders
type ReviewPageRequest struct {
	SalesRepID uint `json:"sales_rep_id" query:"sales_rep_id" validate:"required"`
	PageIndex  int  `json:"page_index" query:"page_index"`
}

// OrderLineItem is one row of the review sublist
type OrderLineItem struct {
	ID             uint   `json:"id"`
	DocumentNumber string `json:"document_number"`
	CustomerName   string `json:"customer_name"`
	Memo           string `json:"memo"`
	Amount         string `json:"amount"`
	CreatedAt      string `json:"created_at"`
}

// PageOption is one entry of the page selector
type PageOption struct {
	Value    int    `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// ReviewPageView is everything the review form renders.
// Empty is set when there is nothing to review, with Message explaining why.
type ReviewPageView struct {
	Title        string          `json:"title"`
	SalesRepID   uint            `json:"sales_rep_id"`
	SalesRepName string          `json:"sales_rep_name"`
	PageIndex    int             `json:"page_index"`
	PageSize     int             `json:"page_size"`
	TotalPages   int             `json:"total_pages"`
	TotalCount   int64           `json:"total_count"`
	Rows         []OrderLineItem `json:"rows"`
	PageOptions  []PageOption    `json:"page_options"`
	PageToken    string          `json:"page_token,omitempty"`
	Empty        bool            `json:"empty"`
	Message      string          `json:"message,omitempty"`
}

// ReviewSelection is one checked row with its reason for delay. Reason may be empty.
type ReviewSelection struct {
	SalesOrderID uint   `json:"sales_order_id" validate:"required"`
	Reason       string `json:"reason" validate:"max=4000"`
}

// ReviewSubmitRequest is a submitted review form
type ReviewSubmitRequest struct {
	SalesRepID uint              `json:"sales_rep_id" validate:"required"`
	PageToken  string            `json:"page_token"`
	Selections []ReviewSelection `json:"selections" validate:"omitempty,dive"`
}

// SubmissionStep reports the outcome of one submission step
type SubmissionStep struct {
	Step    string `json:"step"`
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// RecipientInfo describes who the notification went to
type RecipientInfo struct {
	EmployeeID uint   `json:"employee_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Fallback   bool   `json:"fallback"`
}

// SubmissionResult is the outcome of a review submission.
// Messages holds one line per step outcome, in order.
type SubmissionResult struct {
	SalesRepID        uint             `json:"sales_rep_id"`
	NoneSelected      bool             `json:"none_selected"`
	RecordedCount     int              `json:"recorded_count"`
	CSVFileID         string           `json:"csv_file_id,omitempty"`
	SpreadsheetFileID string           `json:"spreadsheet_file_id,omitempty"`
	EmailSent         bool             `json:"email_sent"`
	Recipient         *RecipientInfo   `json:"recipient,omitempty"`
	Messages          []string         `json:"messages"`
	Steps             []SubmissionStep `json:"steps"`
}
