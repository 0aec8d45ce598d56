package ocr

import (
	"context"
	"regexp"
	"strings"

	"github.com/chronoslabs/chronos/errors"
	"github.com/chronoslabs/chronos/logger"
)

// NoTextMessage is returned when recognition succeeds but finds no text.
const NoTextMessage = "No text could be extracted from this image. Please ensure the image contains readable text."

var whitespaceRe = regexp.MustCompile(`\s+`)

// Processor validates image uploads and extracts their text.
type Processor struct {
	engine Engine
	log    *logger.Logger
}

// New creates an OCR processor backed by Tesseract.
func New(cfg Config, log *logger.Logger) *Processor {
	cfg.ApplyDefaults()
	return &Processor{
		engine: newTesseractEngine(cfg),
		log:    log.WithComponent("ocr"),
	}
}

// NewWithEngine creates a processor with a caller-supplied engine.
func NewWithEngine(engine Engine, log *logger.Logger) *Processor {
	return &Processor{engine: engine, log: log.WithComponent("ocr")}
}

// ExtractText validates the upload and runs recognition on it. Invalid
// uploads fail fast; a readable image with no recognizable text returns
// NoTextMessage rather than an error.
func (p *Processor) ExtractText(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		return "", errors.InvalidInput("file", "File must be an image (jpg, png, tiff, etc.)")
	}
	if len(data) == 0 {
		return "", errors.InvalidInput("file", "Empty file uploaded")
	}
	if len(data) > MaxImageSize {
		return "", errors.InvalidInput("file", "File size too large. Maximum 10MB allowed.")
	}
	if err := ctx.Err(); err != nil {
		return "", errors.Timeout("ocr extract")
	}

	raw, err := p.engine.Recognize(data)
	if err != nil {
		p.log.Error("OCR recognition failed", logger.Fields("filename", filename, logger.FieldError, err.Error()))
		return "", errors.ExternalServiceError("OCR", err)
	}

	text := cleanText(raw)
	if text == "" {
		p.log.Warn("No text extracted from image", logger.Fields("filename", filename))
		return NoTextMessage, nil
	}

	p.log.Info("OCR extraction succeeded", logger.Fields("filename", filename, "chars", len(text)))
	return text, nil
}

// cleanText strips control characters, folds line breaks into spaces, and
// collapses runs of whitespace.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
