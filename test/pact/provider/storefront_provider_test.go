//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/storefront-api/test/pact"

	storefrontserver "github.com/Apurer/storefront-api/go"
	accountsmemory "github.com/Apurer/storefront-api/internal/domains/accounts/adapters/memory"
	accountsobs "github.com/Apurer/storefront-api/internal/domains/accounts/adapters/observability"
	accountsapp "github.com/Apurer/storefront-api/internal/domains/accounts/application"
	accountsdomain "github.com/Apurer/storefront-api/internal/domains/accounts/domain"
	catalogmemory "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/directory"
	ordersmemory "github.com/Apurer/storefront-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/storefront-api/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateProductExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.seedProduct(t)
			}
			return nil, nil
		},
		pacttest.StateProductMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			return nil, nil
		},
		pacttest.StateCheckoutReady: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.seedProduct(t)
				app.seedCustomer(t)
			}
			return nil, nil
		},
		pacttest.StateCustomerOrders: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.seedProduct(t)
				app.seedCustomer(t)
				app.seedOrder(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset()
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the in-memory stack on every reset so each
// interaction starts from empty stores.
type contractProviderApp struct {
	mu       sync.RWMutex
	router   *gin.Engine
	products *catalogmemory.Repository
	accounts *accountsmemory.Repository
	orders   *ordersmemory.Repository
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset()
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset() {
	products := catalogmemory.NewRepository()
	accounts := accountsmemory.NewRepository()
	orders := ordersmemory.NewRepository(products, accounts)
	products.UseReferenceCheck(orders.ReferencesProduct)
	accounts.UseDeleteHook(orders.DeleteByUser)

	catalogService := catalogobs.New(catalogapp.NewService(products))
	accountService := accountsobs.New(accountsapp.NewService(accounts))
	orderService := ordersobs.New(ordersapp.NewService(orders,
		directory.NewCatalog(catalogService),
		directory.NewAccounts(accountService),
	))

	handlers := storefrontserver.ApiHandleFunctions{
		CatalogAPI: storefrontserver.NewCatalogAPI(catalogService),
		AccountAPI: storefrontserver.NewAccountAPI(accountService),
		OrderAPI:   storefrontserver.NewOrderAPI(orderService),
		AdminAPI:   storefrontserver.NewAdminAPI(orderService, accountService, catalogService),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = storefrontserver.NewRouterWithGinEngine(router, handlers)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.router = router
	a.products = products
	a.accounts = accounts
	a.orders = orders
}

func (a *contractProviderApp) seedProduct(t testing.TB) {
	t.Helper()
	product, err := catalogdomain.NewProduct(catalogdomain.Attributes{
		Name:        pacttest.ProductName,
		Price:       decimal.RequireFromString(pacttest.ProductPrice),
		Stock:       pacttest.ProductStock,
		Category:    "lighting",
		Description: "adjustable arm",
		ImageURL:    "https://example.pact/lamp.png",
	})
	require.NoError(t, err)
	product.ID = pacttest.ExistingProductID
	product.CreatedAt = time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	_, err = a.products.Create(context.Background(), product)
	require.NoError(t, err)
}

func (a *contractProviderApp) seedCustomer(t testing.TB) {
	t.Helper()
	account, err := accountsdomain.NewAccount(accountsdomain.Registration{
		Name:     pacttest.CustomerName,
		Email:    pacttest.CustomerEmail,
		Phone:    pacttest.CustomerPhone,
		Password: "pact-pass",
	})
	require.NoError(t, err)
	account.ID = pacttest.CustomerID
	account.Verify()
	_, err = a.accounts.Create(context.Background(), account)
	require.NoError(t, err)
}

func (a *contractProviderApp) seedOrder(t testing.TB) {
	t.Helper()
	order, err := ordersdomain.NewOrder(ordersdomain.Cart{
		UserID: pacttest.CustomerID,
		Items: []ordersdomain.CartItem{{
			ProductID: pacttest.ExistingProductID,
			Price:     decimal.RequireFromString(pacttest.ProductPrice),
			Quantity:  2,
		}},
		Contact: ordersdomain.ContactInfo{Name: pacttest.CustomerName, Address: "1 Contract Street", Phone: pacttest.CustomerPhone},
	}, time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = a.orders.Create(context.Background(), order)
	require.NoError(t, err)
}
