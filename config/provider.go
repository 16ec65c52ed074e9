package config

import (
	"fmt"
	"os"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
	ProviderStatic = "static"
)

type ProviderConfig struct {
	Name   string
	ApiUrl string
	ApiKey string
	Model  string
	Stream bool
}

func GetProviderConfig() (*ProviderConfig, error) {
	name := os.Getenv("PROVIDER")
	if name == "" {
		return nil, fmt.Errorf("PROVIDER must be set")
	}

	switch name {
	case ProviderOpenAI, ProviderGemini, ProviderLocal, ProviderStatic:
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}

	cfg := &ProviderConfig{
		Name:   name,
		ApiUrl: os.Getenv("PROVIDER_API_URL"),
		ApiKey: os.Getenv("PROVIDER_API_KEY"),
		Model:  os.Getenv("PROVIDER_MODEL"),
		Stream: os.Getenv("PROVIDER_STREAM") == "true",
	}

	if name == ProviderStatic {
		return cfg, nil
	}

	if cfg.ApiUrl == "" {
		return nil, fmt.Errorf("PROVIDER_API_URL must be set")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("PROVIDER_MODEL must be set")
	}
	if name != ProviderLocal && cfg.ApiKey == "" {
		return nil, fmt.Errorf("PROVIDER_API_KEY must be set")
	}

	return cfg, nil
}
