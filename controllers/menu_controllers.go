package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/kds"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type MenuController struct {
	Service *services.MenuService
	Hub     *kds.Hub
}

func NewMenuController(service *services.MenuService, hub *kds.Hub) *MenuController {
	return &MenuController{Service: service, Hub: hub}
}

// GetMenuItems lists the catalog, optionally filtered by category,
// is_available, min_price and max_price.
func (mc *MenuController) GetMenuItems(c *gin.Context) {
	items, err := mc.Service.ListMenuItems(c.Request.Context(), services.MenuQuery{
		Category:    c.Query("category"),
		IsAvailable: c.Query("is_available"),
		MinPrice:    c.Query("min_price"),
		MaxPrice:    c.Query("max_price"),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "List of menu items", items, utils.Meta{Count: len(items)})
}

func (mc *MenuController) SearchMenuItems(c *gin.Context) {
	items, err := mc.Service.SearchMenuItems(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondList(c, http.StatusOK, "Search results", items, utils.Meta{Count: len(items)})
}

func (mc *MenuController) GetMenuItem(c *gin.Context) {
	item, err := mc.Service.GetMenuItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item found", item)
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req services.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, invalidBody(err))
		return
	}

	item, err := mc.Service.CreateMenuItem(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	mc.Hub.BroadcastMenuItemCreated(item)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created successfully", item)
}

// UpdateMenuItem applies a partial update; fields absent from the body keep
// their value.
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	var req services.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, invalidBody(err))
		return
	}

	item, err := mc.Service.UpdateMenuItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	mc.Hub.BroadcastMenuItemUpdated(item)
	utils.RespondJSON(c, http.StatusOK, "Menu item updated successfully", item)
}

func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id := c.Param("id")
	if err := mc.Service.DeleteMenuItem(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	mc.Hub.BroadcastMenuItemDeleted(id)
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted successfully", nil)
}

func (mc *MenuController) ToggleAvailability(c *gin.Context) {
	item, err := mc.Service.ToggleAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	mc.Hub.BroadcastMenuItemUpdated(item)
	utils.RespondJSON(c, http.StatusOK, "Availability updated successfully", item)
}
