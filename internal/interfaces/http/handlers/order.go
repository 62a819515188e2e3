// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

// OrderHandler handles checkout and order endpoints
type OrderHandler struct {
	orders    *order.Service
	addresses *user.AddressService
	pdf       *pdf.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service, addresses *user.AddressService, pdfSvc *pdf.Service) *OrderHandler {
	return &OrderHandler{orders: orders, addresses: addresses, pdf: pdfSvc}
}

// Checkout handles POST /api/v1/orders. The buyer email in the body must
// match the authenticated user.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req order.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if req.Email != middleware.UserEmail(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "email does not match authenticated user"})
		return
	}

	summary, err := h.orders.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// Get handles GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	summary, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if summary.Email != middleware.UserEmail(c) && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetByNumber handles GET /api/v1/orders/number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	summary, err := h.orders.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	if summary.Email != middleware.UserEmail(c) && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// History handles GET /api/v1/orders
func (h *OrderHandler) History(c *gin.Context) {
	var req struct {
		Page  int `form:"page,default=1"`
		Limit int `form:"limit,default=20"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	resp, err := h.orders.GetUserOrders(c.Request.Context(), middleware.UserEmail(c), req.Page, req.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Invoice handles GET /api/v1/orders/:id/invoice, returning the PDF
func (h *OrderHandler) Invoice(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	ord, err := h.orders.GetOrderEntity(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if ord.Email != middleware.UserEmail(c) && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
		return
	}

	address, err := h.addresses.ByID(c.Request.Context(), ord.AddressID)
	if err != nil {
		address = nil
	}

	data, err := h.pdf.GenerateInvoice(ord, address)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", ord.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", data)
}
