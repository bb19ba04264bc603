package storefrontserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	accounthttpmapper "github.com/Apurer/storefront-api/internal/domains/accounts/adapters/http/mapper"
	accountsports "github.com/Apurer/storefront-api/internal/domains/accounts/ports"
	cataloghttpmapper "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	orderhttpmapper "github.com/Apurer/storefront-api/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	reportsdomain "github.com/Apurer/storefront-api/internal/domains/reports/domain"
)

// AdminAPI groups the back-office endpoints.
type AdminAPI struct {
	orders   ordersports.Service
	accounts accountsports.Service
	catalog  catalogports.Service
}

func NewAdminAPI(orders ordersports.Service, accounts accountsports.Service, catalog catalogports.Service) AdminAPI {
	return AdminAPI{orders: orders, accounts: accounts, catalog: catalog}
}

// Get /api/admin/orders
// Lists every order with its customer email and products
func (api *AdminAPI) ListOrders(c *gin.Context) {
	orders, err := api.orders.ListAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainAdminOrders(orders))
}

// Post /api/admin/orders/:orderId/status
// Updates the delivery status of an order
func (api *AdminAPI) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload orderhttpmapper.StatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := api.orders.UpdateDeliveryStatus(c.Request.Context(), orderID, payload.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Get /api/admin/users
func (api *AdminAPI) ListUsers(c *gin.Context) {
	users, err := api.accounts.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounthttpmapper.FromDomainAdminUsers(users))
}

// Post /api/admin/verify-user/:id
// Approves a pending account and notifies its owner
func (api *AdminAPI) VerifyUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := api.accounts.VerifyUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User verified"})
}

// Delete /api/admin/delete-user/:id
func (api *AdminAPI) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.accounts.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// Post /api/admin/add-product
func (api *AdminAPI) AddProduct(c *gin.Context) {
	var payload cataloghttpmapper.ProductInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.catalog.CreateProduct(c.Request.Context(), cataloghttpmapper.ToAttributes(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product added",
		"product": cataloghttpmapper.FromDomainProduct(product),
	})
}

// Put /api/admin/product/:id
func (api *AdminAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload cataloghttpmapper.ProductInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.catalog.UpdateProduct(c.Request.Context(), id, cataloghttpmapper.ToAttributes(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated",
		"product": cataloghttpmapper.FromDomainProduct(product),
	})
}

// Delete /api/admin/product/:id
// Refused while any order line references the product
func (api *AdminAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// Post /api/admin/send-check/:orderId
// Re-sends the order receipt and waits for delivery
func (api *AdminAPI) SendCheck(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := api.orders.ResendReceipt(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Receipt sent"})
}

// Post /api/admin/generate-report
// Streams an XLSX report of orders in the requested period
func (api *AdminAPI) GenerateReport(c *gin.Context) {
	var payload orderhttpmapper.ReportRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	filter, err := reportsdomain.ParseFilter(payload.From, payload.To, payload.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	doc, err := api.orders.GenerateReport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
