package main

import (
	"os"

	"github.com/chronoslabs/chronos/cache"
	"github.com/chronoslabs/chronos/config"
	"github.com/chronoslabs/chronos/graph"
	"github.com/chronoslabs/chronos/llm"
	"github.com/chronoslabs/chronos/logger"
	"github.com/chronoslabs/chronos/ocr"
	"github.com/chronoslabs/chronos/pubmed"
	"github.com/chronoslabs/chronos/server"
)

// AppConfig aggregates the configuration of every Chronos component.
type AppConfig struct {
	Logger logger.Config `yaml:"logger" mapstructure:"logger"`
	Server server.Config `yaml:"server" mapstructure:"server"`
	Graph  graph.Config  `yaml:"graph" mapstructure:"graph"`
	Cache  cache.Config  `yaml:"cache" mapstructure:"cache"`
	PubMed pubmed.Config `yaml:"pubmed" mapstructure:"pubmed"`
	LLM    llm.Config    `yaml:"llm" mapstructure:"llm"`
	OCR    ocr.Config    `yaml:"ocr" mapstructure:"ocr"`
}

// loadConfig reads config.yml and .env, then applies the flat environment
// variable spellings the deployment has always used.
func loadConfig() (*AppConfig, error) {
	var cfg AppConfig
	if err := config.Load("chronos", &cfg); err != nil {
		return nil, err
	}
	applyLegacyEnv(&cfg)
	return &cfg, nil
}

// applyLegacyEnv maps the original flat environment variables onto the
// nested config structure. They win over file values.
func applyLegacyEnv(cfg *AppConfig) {
	setIfEnv("NEO4J_URI", &cfg.Graph.URI)
	setIfEnv("NEO4J_USER", &cfg.Graph.Username)
	setIfEnv("NEO4J_PASSWORD", &cfg.Graph.Password)
	setIfEnv("REDIS_URL", &cfg.Cache.URL)
	setIfEnv("PUBMED_API_KEY", &cfg.PubMed.APIKey)
	setIfEnv("GROK_API_KEY", &cfg.LLM.APIKey)
	setIfEnv("GROK_API_URL", &cfg.LLM.APIURL)
	setIfEnv("GROK_MODEL", &cfg.LLM.Model)
	setIfEnv("TESSDATA_PREFIX", &cfg.OCR.TessdataPrefix)
}

func setIfEnv(key string, dest *string) {
	if v := os.Getenv(key); v != "" {
		*dest = v
	}
}
