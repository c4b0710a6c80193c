package utils

import (
	"time"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Review workflow constants
const (
	// DefaultReviewPageSize is used when no page size is configured
	DefaultReviewPageSize = 10

	// DefaultRequestTimeout bounds a single page view or submission
	DefaultRequestTimeout = 30 * time.Second

	// NotAvailable is displayed for missing customer names and memos
	NotAvailable = "N/A"
)
