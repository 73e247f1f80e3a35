package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/kds"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type OrderController struct {
	Service *services.OrderService
	Hub     *kds.Hub
}

func NewOrderController(service *services.OrderService, hub *kds.Hub) *OrderController {
	return &OrderController{Service: service, Hub: hub}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// queryInt reads an optional integer query parameter. Absent means zero.
func queryInt(c *gin.Context, name string, fields *[]string) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*fields = append(*fields, name+" must be a number")
		return 0
	}
	return n
}

// GetOrders lists orders newest first with optional status, page and limit.
func (oc *OrderController) GetOrders(c *gin.Context) {
	var fields []string
	q := services.ListOrdersQuery{
		Status: models.OrderStatus(c.Query("status")),
		Page:   queryInt(c, "page", &fields),
		Limit:  queryInt(c, "limit", &fields),
	}
	if len(fields) > 0 {
		utils.RespondError(c, utils.ValidationFailed("Validation error", fields...))
		return
	}

	page, err := oc.Service.ListOrders(c.Request.Context(), q)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "List of orders", page.Orders, utils.Meta{
		Count: len(page.Orders),
		Total: page.Total,
		Page:  page.Page,
		Pages: page.Pages,
	})
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	order, err := oc.Service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order found", order)
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, invalidBody(err))
		return
	}

	order, err := oc.Service.CreateOrder(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	oc.Hub.BroadcastOrderCreated(order)
	utils.RespondJSON(c, http.StatusCreated, "Order created successfully", order)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, invalidBody(err))
		return
	}

	order, err := oc.Service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	oc.Hub.BroadcastOrderStatusUpdated(order)
	utils.RespondJSON(c, http.StatusOK, "Order status updated successfully", order)
}

func (oc *OrderController) GetTopSelling(c *gin.Context) {
	sellers, err := oc.Service.TopSellers(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Top selling items", sellers, utils.Meta{Count: len(sellers)})
}

func (oc *OrderController) GetSummary(c *gin.Context) {
	counts, err := oc.Service.StatusSummary(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order summary", counts)
}
