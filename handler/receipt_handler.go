package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/billsnap/receipt-ocr-tracker/dto"
	"github.com/billsnap/receipt-ocr-tracker/service"

	"github.com/gin-gonic/gin"
)

type ReceiptHandler struct {
	receiptService *service.ReceiptService
	maxFileSize    int64
}

func NewReceiptHandler(receiptService *service.ReceiptService, maxFileSize int64) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		maxFileSize:    maxFileSize,
	}
}

// ParseText handles the POST /api/v1/receipts/parse endpoint. It parses
// caller-supplied receipt text without OCR or persistence.
func (h *ReceiptHandler) ParseText(c *gin.Context) {
	var request dto.ParseTextRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	receipt, items := h.receiptService.ParseText(request.Text)

	c.JSON(http.StatusOK, dto.ParseResponse{
		Receipt: receipt,
		Items:   items,
	})
}

// Upload handles the POST /api/v1/receipts/upload endpoint
func (h *ReceiptHandler) Upload(c *gin.Context) {
	log.Println("Received receipt upload request")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "No file provided", err)
		return
	}

	if fileHeader.Size > h.maxFileSize {
		h.sendError(c, http.StatusRequestEntityTooLarge, "File exceeds size limit", nil)
		return
	}

	var request dto.UploadRequest
	if err := c.ShouldBind(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	userEmail := request.UserEmail
	if userEmail == "" {
		userEmail = "default"
	}

	response, err := h.receiptService.ProcessUpload(c.Request.Context(), fileHeader, userEmail)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to process receipt", err)
		return
	}

	log.Printf("Processed receipt %s (source=%s, saved=%v, duplicate=%v)",
		response.Receipt.BillID, response.OCRSource, response.Saved, response.Duplicate)
	c.JSON(http.StatusOK, response)
}

// List handles the GET /api/v1/receipts endpoint
func (h *ReceiptHandler) List(c *gin.Context) {
	userEmail := c.DefaultQuery("user_email", "default")

	receipts, err := h.receiptService.ListReceipts(c.Request.Context(), userEmail)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to fetch receipts", err)
		return
	}

	c.JSON(http.StatusOK, dto.ReceiptListResponse{
		Receipts: receipts,
		Count:    len(receipts),
	})
}

// Get handles the GET /api/v1/receipts/:bill_id endpoint
func (h *ReceiptHandler) Get(c *gin.Context) {
	billID := c.Param("bill_id")
	userEmail := c.DefaultQuery("user_email", "default")

	receipt, items, err := h.receiptService.GetReceipt(c.Request.Context(), billID, userEmail)
	if err != nil {
		if errors.Is(err, dto.ErrReceiptNotFound) {
			h.sendError(c, http.StatusNotFound, "Receipt not found", nil)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to fetch receipt", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"receipt": receipt, "items": items})
}

// UpdateCategory handles the PATCH /api/v1/receipts/:bill_id/category endpoint
func (h *ReceiptHandler) UpdateCategory(c *gin.Context) {
	billID := c.Param("bill_id")
	userEmail := c.DefaultQuery("user_email", "default")

	var request dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Category is required", err)
		return
	}

	err := h.receiptService.UpdateCategory(c.Request.Context(), billID, userEmail, request.Category)
	if err != nil {
		if errors.Is(err, dto.ErrReceiptNotFound) {
			h.sendError(c, http.StatusNotFound, "Receipt not found", nil)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to update category", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bill_id": billID, "category": request.Category})
}

// Delete handles the DELETE /api/v1/receipts/:bill_id endpoint
func (h *ReceiptHandler) Delete(c *gin.Context) {
	billID := c.Param("bill_id")
	userEmail := c.DefaultQuery("user_email", "default")

	err := h.receiptService.DeleteReceipt(c.Request.Context(), billID, userEmail)
	if err != nil {
		if errors.Is(err, dto.ErrReceiptNotFound) {
			h.sendError(c, http.StatusNotFound, "Receipt not found", nil)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to delete receipt", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// sendError sends a structured error response
func (h *ReceiptHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "RECEIPT_PROCESSING_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
