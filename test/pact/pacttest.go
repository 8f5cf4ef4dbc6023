//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-web"

	StateProductInStock  = "product pact-lamp is active with 5 in stock"
	StateProductLastUnit = "product pact-lamp has 1 left"
	StateProductMissing  = "no product pact-ghost"
)

const (
	ProductID        = "pact-lamp"
	MissingProductID = "pact-ghost"
	GuestCartKey     = "pact-guest"

	ProductTitle = "Pact Desk Lamp"
	ProductImage = "https://example.pact/products/lamp.png"
	ProductPrice = "1200.00"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload is the legacy-shaped document the provider states seed.
func ExampleProductPayload(stock int) map[string]any {
	return map[string]any{
		"name":   ProductTitle,
		"Price":  1200,
		"Images": []string{ProductImage},
		"stock":  stock,
		"active": true,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
