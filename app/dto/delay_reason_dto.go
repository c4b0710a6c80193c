package dto

// DelayReasonItem is a recorded delay reason with the order it belongs to
type DelayReasonItem struct {
	ID             uint   `json:"id"`
	UUID           string `json:"uuid"`
	SalesOrderID   uint   `json:"sales_order_id"`
	SalesRepID     uint   `json:"sales_rep_id"`
	DocumentNumber string `json:"document_number"`
	CustomerName   string `json:"customer_name"`
	Amount         string `json:"amount"`
	Reason         string `json:"reason"`
	RecordedAt     string `json:"recorded_at"`
}

// ListDelayReasonsResponse lists the delay reasons of one sales order, newest first
type ListDelayReasonsResponse struct {
	SalesOrderID   uint              `json:"sales_order_id"`
	DocumentNumber string            `json:"document_number"`
	Items          []DelayReasonItem `json:"items"`
}
