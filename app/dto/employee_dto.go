package dto

// ReviewActionResponse tells the employee view whether to show the "Email" action
type ReviewActionResponse struct {
	EmployeeID      uint   `json:"employee_id"`
	EmployeeName    string `json:"employee_name"`
	ShowEmailAction bool   `json:"show_email_action"`
	ReviewURL       string `json:"review_url,omitempty"`
}
