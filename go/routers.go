package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the storefront routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the CatalogAPI part of the API
	CatalogAPI CatalogAPI
	// Routes for the AccountAPI part of the API
	AccountAPI AccountAPI
	// Routes for the OrderAPI part of the API
	OrderAPI OrderAPI
	// Routes for the AdminAPI part of the API
	AdminAPI AdminAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Health", http.MethodGet, "/healthz", Health},

		{"ListProducts", http.MethodGet, "/products", handleFunctions.CatalogAPI.ListProducts},
		{"GetProduct", http.MethodGet, "/products/:id", handleFunctions.CatalogAPI.GetProduct},

		{"Register", http.MethodPost, "/register", handleFunctions.AccountAPI.Register},
		{"Login", http.MethodPost, "/login", handleFunctions.AccountAPI.Login},

		{"PlaceOrder", http.MethodPost, "/orders", handleFunctions.OrderAPI.PlaceOrder},
		{"ListUserOrders", http.MethodGet, "/orders/user/:userId", handleFunctions.OrderAPI.ListUserOrders},
		{"DeleteOrder", http.MethodDelete, "/orders/:orderId", handleFunctions.OrderAPI.DeleteOrder},

		{"ListAllOrders", http.MethodGet, "/api/admin/orders", handleFunctions.AdminAPI.ListOrders},
		{"UpdateOrderStatus", http.MethodPost, "/api/admin/orders/:orderId/status", handleFunctions.AdminAPI.UpdateOrderStatus},
		{"ListUsers", http.MethodGet, "/api/admin/users", handleFunctions.AdminAPI.ListUsers},
		{"VerifyUser", http.MethodPost, "/api/admin/verify-user/:id", handleFunctions.AdminAPI.VerifyUser},
		{"DeleteUser", http.MethodDelete, "/api/admin/delete-user/:id", handleFunctions.AdminAPI.DeleteUser},
		{"AdminListProducts", http.MethodGet, "/api/admin/products", handleFunctions.CatalogAPI.ListProducts},
		{"AddProduct", http.MethodPost, "/api/admin/add-product", handleFunctions.AdminAPI.AddProduct},
		{"UpdateProduct", http.MethodPut, "/api/admin/product/:id", handleFunctions.AdminAPI.UpdateProduct},
		{"DeleteProduct", http.MethodDelete, "/api/admin/product/:id", handleFunctions.AdminAPI.DeleteProduct},
		{"SendCheck", http.MethodPost, "/api/admin/send-check/:orderId", handleFunctions.AdminAPI.SendCheck},
		{"GenerateReport", http.MethodPost, "/api/admin/generate-report", handleFunctions.AdminAPI.GenerateReport},
	}
}

// Get /healthz
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
