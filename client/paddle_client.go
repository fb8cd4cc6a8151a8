package client

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/exec"
	"strings"
)

// PaddleClient wraps PaddleOCR for text extraction from receipt photos.
// PaddleOCR handles dense, low-contrast thermal prints better than
// Tesseract, so it runs as the fallback engine when Tesseract confidence
// comes back low.
type PaddleClient struct {
	modelDir string
}

// NewPaddleClient creates a new PaddleOCR client
// It loads the model path from environment variables
func NewPaddleClient() (*PaddleClient, error) {
	modelDir := os.Getenv("PADDLE_OCR_MODEL_DIR")
	if modelDir == "" {
		modelDir = "/opt/paddleocr/models/en"
	}

	log.Printf("PaddleOCR initialized with model dir: %s", modelDir)

	return &PaddleClient{
		modelDir: modelDir,
	}, nil
}

// ExtractText extracts text from a receipt image using PaddleOCR
func (p *PaddleClient) ExtractText(img image.Image) (string, error) {
	// Save image to temporary file
	tempFile, err := saveTempImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to save temp image: %w", err)
	}
	defer os.Remove(tempFile)

	return p.ExtractTextFromPath(tempFile)
}

// ExtractTextFromPath runs PaddleOCR over an image file on disk.
func (p *PaddleClient) ExtractTextFromPath(imagePath string) (string, error) {
	text, err := p.runPaddleOCR(imagePath, p.modelDir)
	if err != nil {
		return "", err
	}

	text = dropBlankLines(text)
	if text == "" {
		return "", fmt.Errorf("PaddleOCR extracted no text from image")
	}

	log.Printf("PaddleOCR extracted %d characters", len(text))
	return text, nil
}

// runPaddleOCR executes the PaddleOCR Python CLI with angle classification
// enabled, since receipt photos are frequently rotated.
func (p *PaddleClient) runPaddleOCR(imagePath, modelDir string) (string, error) {
	cmd := exec.Command("python3", "-c", fmt.Sprintf(`
import sys
from paddleocr import PaddleOCR
import warnings
warnings.filterwarnings('ignore')

ocr = PaddleOCR(
    use_angle_cls=True,
    lang='en',
    det_model_dir='%s/det',
    rec_model_dir='%s/rec',
    cls_model_dir='%s/cls',
    use_gpu=False,
    show_log=False
)

result = ocr.ocr('%s', cls=True)
if result and result[0]:
    for line in result[0]:
        if line and len(line) > 1:
            print(line[1][0])
`, modelDir, modelDir, modelDir, imagePath))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", fmt.Errorf("PaddleOCR command failed: %v, stderr: %s", err, stderr.String())
	}

	return stdout.String(), nil
}

func dropBlankLines(text string) string {
	var result []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// saveTempImage saves an image.Image to a temporary PNG file
func saveTempImage(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "paddle-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	if err := png.Encode(tempFile, img); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return tempFile.Name(), nil
}
