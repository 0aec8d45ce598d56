package ocr

// charWhitelist limits recognition to characters safe for downstream JSON
// payloads. Quote characters are deliberately absent.
const charWhitelist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz .,;:!?-()[]{}/"

// MaxImageSize is the largest accepted upload in bytes.
const MaxImageSize = 10 * 1024 * 1024

// Config holds OCR processor configuration.
type Config struct {
	// TessdataPrefix overrides the tessdata directory. Empty uses the
	// library default.
	TessdataPrefix string `mapstructure:"tessdata_prefix" yaml:"tessdata_prefix"`
	// Language is the recognition language.
	Language string `mapstructure:"language" yaml:"language"`
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Language == "" {
		c.Language = "eng"
	}
}
