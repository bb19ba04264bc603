//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/storefront-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type productPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int32  `json:"stock"`
}

type placeOrderPayload struct {
	Message string `json:"message"`
	OrderID int64  `json:"orderId"`
}

type orderPayload struct {
	ID             int64  `json:"id"`
	TotalPrice     string `json:"total_price"`
	DeliveryStatus string `json:"delivery_status"`
	Items          []struct {
		Name     string `json:"name"`
		Quantity int32  `json:"quantity"`
	} `json:"items"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestStorefrontWebContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	productMatcher := matchers.Map{
		"id":          matchers.Like(pacttest.ExistingProductID),
		"name":        matchers.Like(pacttest.ProductName),
		"price":       matchers.Term(pacttest.ProductPrice, "^\\d+\\.\\d{2}$"),
		"category":    matchers.Like("lighting"),
		"description": matchers.Like("adjustable arm"),
		"image_url":   matchers.Like("https://example.pact/lamp.png"),
		"stock":       matchers.Like(pacttest.ProductStock),
		"created_at":  matchers.Like("2024-06-12T10:00:00Z"),
	}

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a request to fetch an existing product").
		WithRequest("GET", fmt.Sprintf("/products/%d", pacttest.ExistingProductID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", fmt.Sprintf("/products/%d", pacttest.MissingProductID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCheckoutReady).
		UponReceiving("a checkout for a verified customer").
		WithRequest("POST", "/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleCheckoutPayload())
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"message": matchers.S("Order placed"),
				"orderId": matchers.Like(1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCustomerOrders).
		UponReceiving("a request for a customer's order history").
		WithRequest("GET", fmt.Sprintf("/orders/user/%d", pacttest.CustomerID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.ArrayMinLike(matchers.Map{
				"id":              matchers.Like(1),
				"total_price":     matchers.Term("99.80", "^\\d+\\.\\d{2}$"),
				"created_at":      matchers.Like("2024-06-12T10:00:00Z"),
				"delivery_status": matchers.Term("pending", "pending|shipped|delivered|cancelled"),
				"items": matchers.ArrayMinLike(matchers.Map{
					"name":      matchers.Like(pacttest.ProductName),
					"price":     matchers.Term(pacttest.ProductPrice, "^\\d+\\.\\d{2}$"),
					"image_url": matchers.Like("https://example.pact/lamp.png"),
					"quantity":  matchers.Like(2),
				}, 1),
			}, 1))
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var product productPayload
		if err := client.get(ctx, fmt.Sprintf("/products/%d", pacttest.ExistingProductID), &product); err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if product.ID != pacttest.ExistingProductID {
			return fmt.Errorf("expected product id %d, got %+v", pacttest.ExistingProductID, product)
		}

		err := client.get(ctx, fmt.Sprintf("/products/%d", pacttest.MissingProductID), &product)
		if err == nil {
			return fmt.Errorf("expected 404 for product %d", pacttest.MissingProductID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		var placed placeOrderPayload
		if err := client.post(ctx, "/orders", pacttest.ExampleCheckoutPayload(), &placed); err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if placed.OrderID == 0 {
			return fmt.Errorf("expected order id to be set")
		}

		var orders []orderPayload
		if err := client.get(ctx, fmt.Sprintf("/orders/user/%d", pacttest.CustomerID), &orders); err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		if len(orders) == 0 || len(orders[0].Items) == 0 {
			return fmt.Errorf("expected at least one order with items, got %+v", orders)
		}
		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *storefrontClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *storefrontClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *storefrontClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
