package client

import (
	"encoding/json"
	"fmt"
	"image"
	"log"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// gstInvoicePayload is the JSON payload embedded in GST e-invoice QR codes.
// Only the document number is of interest here; the rest of the payload is
// already recovered from the printed text.
type gstInvoicePayload struct {
	DocNo       string `json:"DocNo"`
	DocDt       string `json:"DocDt"`
	SellerGstin string `json:"SellerGstin"`
}

// DecodeReceiptQR decodes a QR code from a receipt image and returns its
// raw text payload.
func DecodeReceiptQR(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to create binary bitmap: %w", err)
	}

	qrReader := qrcode.NewQRCodeReader()

	result, err := qrReader.Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decode QR code: %w", err)
	}

	qrText := result.GetText()
	log.Printf("Receipt QR code decoded, length: %d bytes", len(qrText))

	return qrText, nil
}

// BillIDFromQR pulls an authoritative bill id out of a decoded QR payload.
// GST e-invoice QRs carry JSON with a DocNo field; anything else yields "".
func BillIDFromQR(qrText string) string {
	var payload gstInvoicePayload
	if err := json.Unmarshal([]byte(qrText), &payload); err != nil {
		return ""
	}
	return payload.DocNo
}
