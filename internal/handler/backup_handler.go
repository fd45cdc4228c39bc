package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medrelease/internal/backup"
	"medrelease/internal/middleware"
	"medrelease/internal/model"
	"medrelease/pkg/response"
)

type BackupHandler struct {
	manager *backup.Manager
}

// NewBackupHandler sets up the routing dependencies for backup endpoints
func NewBackupHandler(manager *backup.Manager) *BackupHandler {
	return &BackupHandler{manager: manager}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup.
// Restore and delete are destructive and reserved for the Super Admin.
func (h *BackupHandler) RegisterRoutes(router *gin.RouterGroup) {
	backups := router.Group("/backups")
	backups.Use(middleware.RequireRole(model.RoleSuperAdmin, model.RoleAdmin))
	{
		backups.GET("", h.ListBackups)
		backups.POST("", h.CreateBackup)
	}
	admin := router.Group("/backups")
	admin.Use(middleware.RequireRole(model.RoleSuperAdmin))
	{
		admin.POST("/:name/restore", h.RestoreBackup)
		admin.DELETE("/:name", h.DeleteBackup)
	}
}

// ListBackups handles GET /backups
// @Summary      List backups
// @Tags         backups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]backup.Info}
// @Failure      500  {object}  response.Response
// @Router       /backups [get]
func (h *BackupHandler) ListBackups(c *gin.Context) {
	infos, err := h.manager.List()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, infos))
}

// CreateBackup handles POST /backups: a manual snapshot, exempt from
// retention cleanup
// @Summary      Create a manual backup
// @Tags         backups
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  response.Response{data=backup.Info}
// @Failure      500  {object}  response.Response
// @Router       /backups [post]
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	info, err := h.manager.Create(false)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, info))
}

// RestoreBackup handles POST /backups/:name/restore
// @Summary      Restore from a backup
// @Description  Replaces the whole document with the snapshot; a Super Admin account always survives
// @Tags         backups
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Backup file name"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /backups/{name}/restore [post]
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	if err := h.manager.Restore(c.Param("name")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Data berhasil dipulihkan dari backup"))
}

// DeleteBackup handles DELETE /backups/:name
// @Summary      Delete a backup file
// @Tags         backups
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Backup file name"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /backups/{name} [delete]
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	if err := h.manager.Delete(c.Param("name")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "File backup dihapus"))
}
