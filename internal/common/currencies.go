package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type CurrencyConfig struct {
	Code   string `yaml:"code"`
	Symbol string `yaml:"symbol"`
}

type CurrenciesConfig struct {
	Currencies []CurrencyConfig `yaml:"currencies"`
}

// LoadCurrencyConfig reads the currency display configuration used when
// formatting amounts for the console and the Telegram digest.
func LoadCurrencyConfig(currenciesFile string) ([]CurrencyConfig, error) {
	var currenciesPath string
	if filepath.IsAbs(currenciesFile) {
		currenciesPath = currenciesFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		currenciesPath = filepath.Join(wd, currenciesFile)
	}

	data, err := os.ReadFile(currenciesPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", currenciesFile, err)
	}

	var config CurrenciesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", currenciesFile, err)
	}

	for i, currency := range config.Currencies {
		if currency.Code == "" {
			return nil, fmt.Errorf("currency at index %d missing code", i)
		}
		if currency.Symbol == "" {
			return nil, fmt.Errorf("currency at index %d missing symbol", i)
		}
	}

	return config.Currencies, nil
}

// SymbolFor returns the display symbol for a currency code, or the empty
// string when the code is not configured.
func SymbolFor(currencies []CurrencyConfig, code string) string {
	for _, currency := range currencies {
		if currency.Code == code {
			return currency.Symbol
		}
	}
	return ""
}
