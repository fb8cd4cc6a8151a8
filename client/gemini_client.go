package client

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/billsnap/receipt-ocr-tracker/dto"
)

const receiptExtractionPrompt = `You are a receipt data extraction system.
Analyze the receipt image and respond with ONLY a JSON object in this exact shape:
{
  "bill_id": "receipt or invoice number",
  "vendor": "store name",
  "date": "YYYY-MM-DD",
  "amount": 0.0,
  "tax": 0.0,
  "subtotal": 0.0,
  "category": "one of Utility, Food, Grocery, Medical, Travel, Shopping, Entertainment, Uncategorized",
  "items": [{"Item": "name", "Quantity": 1, "Price": 0.0}]
}
Use null for anything you cannot read. Do not include any other text.`

// GeminiClient is the alternative extraction path: a vision model produces
// the same record shape as the text parser, with its own defaulting rules.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a Gemini-backed receipt extractor.
func NewGeminiClient(apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// ExtractReceipt sends a receipt image to Gemini and returns the structured
// record. Missing or null keys get the documented defaults, so the output
// is always shape-compatible with the text parsing pipeline.
func (g *GeminiClient) ExtractReceipt(imageData []byte, format string) (dto.ParsedReceipt, []dto.LineItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	parts := []genai.Part{
		genai.ImageData(format, imageData),
		genai.Text(receiptExtractionPrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return dto.ParsedReceipt{}, nil, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return dto.ParsedReceipt{}, nil, fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	receipt, items, err := ParseGeminiResponse(responseText.String())
	if err != nil {
		return dto.ParsedReceipt{}, nil, fmt.Errorf("parsing receipt data: %w", err)
	}

	log.Printf("Gemini extracted receipt %s from %s", receipt.BillID, receipt.Vendor)
	return receipt, items, nil
}

// Close closes the Gemini client
func (g *GeminiClient) Close() error {
	return g.client.Close()
}
