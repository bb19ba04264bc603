package storefrontserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/storefront-api/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

// OrderAPI handles checkout and order history.
type OrderAPI struct {
	service ordersports.Service
}

func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

const idempotencyKeyHeader = "Idempotency-Key"

// Post /orders
// Places an order for the posted cart. Retries carrying the same
// Idempotency-Key header return the first order.
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload orderhttpmapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	cart := orderhttpmapper.ToCart(payload)
	cart.IdempotencyKey = strings.TrimSpace(c.GetHeader(idempotencyKeyHeader))
	order, err := api.service.PlaceOrder(c.Request.Context(), cart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.PlaceOrderResponse{Message: "Order placed", OrderID: order.ID})
}

// Get /orders/user/:userId
// Lists a customer's orders, newest first
func (api *OrderAPI) ListUserOrders(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	views, err := api.service.ListOrdersForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrderViews(views))
}

// Delete /orders/:orderId
// Deletes an order; unknown ids succeed
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
