package model

import "errors"

// Input rejection: surfaced before any processing.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds size limit")
	ErrCorruptFile       = errors.New("file could not be decoded")
	ErrNoDataRows        = errors.New("no data rows found")
)

// Mapping / calculation integrity: block confirmation, never coerced.
var (
	ErrNetSalesColumnRequired    = errors.New("no net sales column mapped")
	ErrCategoryBreakdownRequired = errors.New("contract has category rates but period has no category breakdown")
	ErrUnknownCategory           = errors.New("category not present in contract rate table")
	ErrNegativeNetSales          = errors.New("aggregate net sales is negative")
)

// Session lifecycle.
var (
	ErrSessionExpired  = errors.New("upload session expired or not found")
	ErrDuplicatePeriod = errors.New("a confirmed period already exists for this contract and period")
)
