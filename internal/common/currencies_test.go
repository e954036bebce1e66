package common

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCurrenciesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "currencies.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write currencies file: %v", err)
	}
	return path
}

func TestLoadCurrencyConfig(t *testing.T) {
	path := writeCurrenciesFile(t, `
currencies:
  - code: USD
    symbol: "$"
  - code: EUR
    symbol: "€"
`)

	currencies, err := LoadCurrencyConfig(path)
	if err != nil {
		t.Fatalf("LoadCurrencyConfig failed: %v", err)
	}
	if len(currencies) != 2 {
		t.Fatalf("Expected 2 currencies, got %d", len(currencies))
	}
	if currencies[0].Code != "USD" || currencies[0].Symbol != "$" {
		t.Errorf("Unexpected first currency: %+v", currencies[0])
	}
}

func TestLoadCurrencyConfig_MissingCode(t *testing.T) {
	path := writeCurrenciesFile(t, `
currencies:
  - symbol: "$"
`)

	if _, err := LoadCurrencyConfig(path); err == nil {
		t.Fatalf("Expected error for currency without code")
	}
}

func TestLoadCurrencyConfig_MissingFile(t *testing.T) {
	if _, err := LoadCurrencyConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("Expected error for missing file")
	}
}

func TestSymbolFor(t *testing.T) {
	currencies := []CurrencyConfig{
		{Code: "USD", Symbol: "$"},
		{Code: "GBP", Symbol: "£"},
	}

	if got := SymbolFor(currencies, "GBP"); got != "£" {
		t.Errorf("SymbolFor(GBP) = %q, want £", got)
	}
	if got := SymbolFor(currencies, "JPY"); got != "" {
		t.Errorf("SymbolFor(JPY) = %q, want empty string", got)
	}
}
