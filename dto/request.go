package dto

// ParseTextRequest carries raw OCR text for parsing without persistence.
// Empty text is allowed: the parser returns a full-default record for it.
type ParseTextRequest struct {
	Text string `json:"text"`
}

// UploadRequest carries the optional user key attached to an uploaded receipt.
type UploadRequest struct {
	UserEmail string `form:"user_email"`
}

// UpdateCategoryRequest changes the category of a stored receipt.
type UpdateCategoryRequest struct {
	Category string `json:"category" binding:"required"`
}
