package pubmed

import "time"

// Config holds PubMed client configuration.
type Config struct {
	// BaseURL is the E-utilities endpoint root.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// APIKey is the optional NCBI API key. Unset is valid and simply
	// runs at the anonymous rate tier.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// CacheTTL is how long search results stay cached.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	// RequestsPerSecond paces outbound requests across both search phases.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = time.Hour
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 3.0
	}
}
