package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for admin access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for admin refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Invoice constants
const (
	USDCurrency = "USD"

	// DefaultInvoiceTaxRate is applied when settings carry no tax rate (7%)
	DefaultInvoiceTaxRate = 0.07

	// InvoiceNumberPrefix prefixes generated invoice numbers
	InvoiceNumberPrefix = "RME"
)
