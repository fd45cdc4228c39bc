package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medrelease/internal/middleware"
	"medrelease/internal/model"
	"medrelease/internal/service"
	"medrelease/pkg/response"
)

type ReferenceHandler struct {
	refService service.ReferenceService
}

// NewReferenceHandler sets up the routing dependencies for reference-list endpoints
func NewReferenceHandler(refService service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refService: refService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	refs := router.Group("/references/:kind")
	refs.Use(middleware.RequireRole(model.RoleSuperAdmin, model.RoleAdmin, model.RolePetugas))
	{
		refs.GET("", h.ListItems)
		refs.POST("", h.CreateItem)
		refs.PUT("/:id", h.UpdateItem)
		refs.DELETE("/:id", h.DeleteItem)
	}
}

// ListItems handles GET /references/:kind
// @Summary      List a reference collection
// @Description  kind is one of doctors, insurances, services, requestPurposes
// @Tags         references
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "Reference kind"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /references/{kind} [get]
func (h *ReferenceHandler) ListItems(c *gin.Context) {
	items, err := h.refService.List(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// CreateItem handles POST /references/:kind
// @Summary      Add a reference item
// @Tags         references
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind     path      string  true  "Reference kind"
// @Param        payload  body      object  true  "Free-form item"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /references/{kind} [post]
func (h *ReferenceHandler) CreateItem(c *gin.Context) {
	var item model.ReferenceItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	created, err := h.refService.Create(c.Param("kind"), item)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, created))
}

// UpdateItem handles PUT /references/:kind/:id
// @Summary      Update a reference item
// @Tags         references
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind     path      string  true  "Reference kind"
// @Param        id       path      int     true  "Item ID"
// @Param        payload  body      object  true  "Free-form item"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /references/{kind}/{id} [put]
func (h *ReferenceHandler) UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid item id"))
		return
	}

	var item model.ReferenceItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	updated, err := h.refService.Update(c.Param("kind"), id, item)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, updated))
}

// DeleteItem handles DELETE /references/:kind/:id
// @Summary      Delete a reference item
// @Tags         references
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "Reference kind"
// @Param        id    path      int     true  "Item ID"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /references/{kind}/{id} [delete]
func (h *ReferenceHandler) DeleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid item id"))
		return
	}

	if err := h.refService.Delete(c.Param("kind"), id); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Data referensi dihapus"))
}
