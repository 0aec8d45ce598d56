package ocr

import (
	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in an image payload.
type Engine interface {
	Recognize(data []byte) (string, error)
}

// tesseractEngine runs Tesseract through gosseract. Each recognition uses
// a fresh client because gosseract clients are not safe for concurrent use.
type tesseractEngine struct {
	cfg Config
}

func newTesseractEngine(cfg Config) *tesseractEngine {
	return &tesseractEngine{cfg: cfg}
}

func (e *tesseractEngine) Recognize(data []byte) (string, error) {
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if e.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.cfg.TessdataPrefix); err != nil {
			return "", err
		}
	}
	if err := client.SetLanguage(e.cfg.Language); err != nil {
		return "", err
	}
	if err := client.SetWhitelist(charWhitelist); err != nil {
		return "", err
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", err
	}
	return client.Text()
}
