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

	StateProductExists  = "product with id 101 exists"
	StateProductMissing = "no product with id 404"
	StateCheckoutReady  = "verified customer 501 and product 101 in stock"
	StateCustomerOrders = "customer 501 has placed an order"
)

const (
	ExistingProductID int64 = 101
	MissingProductID  int64 = 404
	CustomerID        int64 = 501

	ProductName  = "Pact Desk Lamp"
	ProductPrice = "49.90"
	ProductStock = 10

	CustomerName  = "Pact Customer"
	CustomerEmail = "pact.customer@example.com"
	CustomerPhone = "+10000000501"
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

// PactFile returns the canonical pact file path for the storefront web consumer.
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

// ExampleCheckoutPayload is the cart the consumer posts to /orders.
func ExampleCheckoutPayload() map[string]any {
	return map[string]any{
		"userId":  CustomerID,
		"name":    CustomerName,
		"address": "1 Contract Street",
		"phone":   CustomerPhone,
		"comment": "ring twice",
		"items": []map[string]any{
			{"id": ExistingProductID, "price": ProductPrice, "quantity": 2},
		},
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
