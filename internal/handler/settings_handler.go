package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medrelease/internal/middleware"
	"medrelease/internal/model"
	"medrelease/internal/service"
	"medrelease/pkg/response"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

// NewSettingsHandler sets up the routing dependencies for settings endpoints
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/settings")
	settings.Use(middleware.RequireRole(model.RoleSuperAdmin, model.RoleAdmin))
	{
		settings.GET("", h.GetSettings)
		settings.PATCH("", h.UpdateSettings)
		settings.GET("/auto-backup", h.GetAutoBackup)
		settings.PATCH("/auto-backup", h.UpdateAutoBackup)
	}
}

// GetSettings handles GET /settings
// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.Settings}
// @Failure      500  {object}  response.Response
// @Router       /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

// UpdateSettings handles PATCH /settings with a partial record
// @Summary      Update settings
// @Description  Merges a partial settings record onto the current one
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      object  true  "Partial settings"
// @Success      200      {object}  response.Response{data=model.Settings}
// @Failure      400      {object}  response.Response
// @Router       /settings [patch]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	settings, err := h.settingsService.Update(patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

// GetAutoBackup handles GET /settings/auto-backup
// @Summary      Get auto-backup policy
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.AutoBackupConfig}
// @Failure      500  {object}  response.Response
// @Router       /settings/auto-backup [get]
func (h *SettingsHandler) GetAutoBackup(c *gin.Context) {
	cfg, err := h.settingsService.GetAutoBackup()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, cfg))
}

// UpdateAutoBackup handles PATCH /settings/auto-backup and restarts the
// backup scheduler with the merged policy
// @Summary      Update auto-backup policy
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      object  true  "Partial auto-backup config"
// @Success      200      {object}  response.Response{data=model.AutoBackupConfig}
// @Failure      400      {object}  response.Response
// @Router       /settings/auto-backup [patch]
func (h *SettingsHandler) UpdateAutoBackup(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	cfg, err := h.settingsService.UpdateAutoBackup(patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cfg))
}
