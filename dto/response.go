package dto

import "errors"

// Custom errors
var (
	ErrDuplicateReceipt = errors.New("receipt already exists")
	ErrReceiptNotFound  = errors.New("receipt not found")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ParseResponse is the result of parsing one receipt.
type ParseResponse struct {
	Receipt ParsedReceipt `json:"receipt"`
	Items   []LineItem    `json:"items"`
}

// UploadResponse is returned after an uploaded receipt has been
// OCR'd, parsed and stored.
type UploadResponse struct {
	Receipt     ParsedReceipt `json:"receipt"`
	Items       []LineItem    `json:"items"`
	Saved       bool          `json:"saved"`
	Duplicate   bool          `json:"duplicate"`
	OCRSource   string        `json:"ocr_source"`
	ProcessedAt string        `json:"processed_at"`
}

// ReceiptListResponse wraps stored receipts for a user.
type ReceiptListResponse struct {
	Receipts []StoredReceipt `json:"receipts"`
	Count    int             `json:"count"`
}
