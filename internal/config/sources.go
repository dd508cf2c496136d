package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source is one token list to ingest on startup. The URL may use the https,
// ipfs or ipns scheme.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// defaultSources is used when no sources file is present.
var defaultSources = []Source{
	{Name: "Uniswap Labs Default", URL: "ipns://tokens.uniswap.org"},
	{Name: "CoinGecko", URL: "https://tokens.coingecko.com/uniswap/all.json"},
}

// LoadSources reads the token list sources file. A missing file is not an
// error; the built-in default sources are returned instead.
func LoadSources(path string) ([]Source, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSources, nil
		}
		return nil, fmt.Errorf("failed to read sources file %s: %w", path, err)
	}

	var parsed sourcesFile
	if err := yaml.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse sources file %s: %w", path, err)
	}
	if len(parsed.Sources) == 0 {
		return defaultSources, nil
	}
	return parsed.Sources, nil
}
