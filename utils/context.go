package utils

type contextKey string

// Request-scoped context keys set by handlers before calling into flows
const (
	RequestIDKey  contextKey = "request_id"
	UserAgentKey  contextKey = "user_agent"
	IPAddressKey  contextKey = "ip_address"
	EndpointKey   contextKey = "endpoint"
	TimeoutKey    contextKey = "timeout"
	CancelFuncKey contextKey = "cancel_func"
)
