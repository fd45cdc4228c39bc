package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medrelease/internal/middleware"
	"medrelease/internal/model"
	"medrelease/internal/service"
	"medrelease/pkg/pagination"
	"medrelease/pkg/response"
)

type RequestHandler struct {
	requestService service.RequestService
}

// NewRequestHandler sets up the routing dependencies for request endpoints
func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/requests")
	requests.Use(middleware.RequireRole(model.RoleSuperAdmin, model.RoleAdmin, model.RolePetugas))
	{
		requests.GET("", h.ListRequests)
		requests.GET("/:id", h.GetRequest)
		requests.POST("", h.CreateRequest)
		requests.PATCH("/:id", h.PatchRequest)
		requests.POST("/:id/history", h.AppendHistory)
		requests.DELETE("/:id", h.DeleteRequest)
	}
}

// ListRequests handles GET /requests with in-memory pagination
// @Summary      List release requests
// @Description  Retrieves a paginated list of medical-information-release requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	requests, err := h.requestService.List()
	if err != nil {
		fail(c, err)
		return
	}

	p := pagination.Parse(c)
	start, end := p.Bounds(len(requests))

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"requests": requests[start:end],
		"total":    len(requests),
		"page":     p.Page,
		"limit":    p.Limit,
	}))
}

// GetRequest handles GET /requests/:id
// @Summary      Get request by ID
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /requests/{id} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	req, err := h.requestService.Get(id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// CreateRequest handles POST /requests: allocates the id and the
// month-scoped registration number and seeds the history ledger
// @Summary      Create a release request
// @Description  Creates a request with a generated id, registration number and seeded history
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      object  true  "Request fields plus optional status"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	created, err := h.requestService.Create(actor(c), fields)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, created))
}

// PatchRequest handles PATCH /requests/:id. Protected keys (id, regNumber,
// status, createdAt, history) in the payload are discarded
// @Summary      Patch a request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int     true  "Request ID"
// @Param        payload  body      object  true  "Partial request fields"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /requests/{id} [patch]
func (h *RequestHandler) PatchRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	patched, err := h.requestService.Patch(id, fields)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, patched))
}

// AppendHistory handles POST /requests/:id/history, the only path that
// changes a request's status
// @Summary      Append a history entry
// @Description  Appends a status-change event; the request status is projected from it
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                 true  "Request ID"
// @Param        payload  body      model.HistoryEntry  true  "History entry"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /requests/{id}/history [post]
func (h *RequestHandler) AppendHistory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	var entry model.HistoryEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid history payload"))
		return
	}
	if entry.User == "" {
		entry.User = actor(c)
	}

	updated, err := h.requestService.AppendHistory(id, entry)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, updated))
}

// DeleteRequest handles DELETE /requests/:id
// @Summary      Delete a request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /requests/{id} [delete]
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	if err := h.requestService.Delete(id); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Permohonan dihapus"))
}
