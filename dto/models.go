package dto

// ParsedReceipt is the structured record recovered from raw receipt text.
// Every field is always populated: extractors fall back to documented
// defaults instead of failing, so callers must compare against those
// defaults to detect low-confidence output.
type ParsedReceipt struct {
	BillID   string  `json:"bill_id"`
	Vendor   string  `json:"vendor"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Amount   float64 `json:"amount"`
	Tax      float64 `json:"tax"`
	Subtotal float64 `json:"subtotal"`
	Category string  `json:"category"`
}

// LineItem is a single purchased item row extracted from the receipt body.
// Quantity is zero when the line carried no leading quantity.
type LineItem struct {
	Name     string  `json:"Item"`
	Quantity int     `json:"Quantity,omitempty"`
	Price    float64 `json:"Price"`
}

// StoredReceipt is a persisted receipt row, keyed by bill_id per user.
type StoredReceipt struct {
	BillID    string  `json:"bill_id"`
	UserEmail string  `json:"user_email"`
	Vendor    string  `json:"vendor"`
	Date      string  `json:"date"`
	Amount    float64 `json:"amount"`
	Tax       float64 `json:"tax"`
	Subtotal  float64 `json:"subtotal"`
	Category  string  `json:"category"`
}

// Fallback values shared by the parser and the AI extraction path.
const (
	UnknownVendor        = "Unknown Vendor"
	UncategorizedLabel   = "Uncategorized"
	UnknownBillID        = "UNKNOWN"
	BillIDFallbackPrefix = "BILL-"
)
