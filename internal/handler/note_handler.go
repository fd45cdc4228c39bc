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

type NoteHandler struct {
	noteService service.NoteService
}

// NewNoteHandler sets up the routing dependencies for handover-note endpoints
func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *NoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	notes := router.Group("/notes")
	notes.Use(middleware.RequireRole(model.RoleSuperAdmin, model.RoleAdmin, model.RolePetugas))
	{
		notes.GET("", h.ListNotes)
		notes.POST("", h.CreateNote)
		notes.PATCH("/:id/toggle", h.ToggleNote)
		notes.POST("/:id/comments", h.AddComment)
		notes.DELETE("/:id", h.DeleteNote)
	}
}

// ListNotes handles GET /notes, open items first then newest first
// @Summary      List handover notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.HandoverNote}
// @Failure      500  {object}  response.Response
// @Router       /notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	notes, err := h.noteService.List()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, notes))
}

// CreateNote handles POST /notes
// @Summary      Create a handover note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateNoteInput  true  "Note payload"
// @Success      201      {object}  response.Response{data=model.HandoverNote}
// @Failure      400      {object}  response.Response
// @Router       /notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var input service.CreateNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	note, err := h.noteService.Create(actor(c), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, note))
}

// ToggleNote handles PATCH /notes/:id/toggle
// @Summary      Toggle note completion
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Note ID"
// @Success      200  {object}  response.Response{data=model.HandoverNote}
// @Failure      404  {object}  response.Response
// @Router       /notes/{id}/toggle [patch]
func (h *NoteHandler) ToggleNote(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid note id"))
		return
	}

	note, err := h.noteService.Toggle(id, actor(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, note))
}

// AddComment handles POST /notes/:id/comments
// @Summary      Comment on a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                       true  "Note ID"
// @Param        payload  body      service.NoteCommentInput  true  "Comment payload"
// @Success      200      {object}  response.Response{data=model.HandoverNote}
// @Failure      404      {object}  response.Response
// @Router       /notes/{id}/comments [post]
func (h *NoteHandler) AddComment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid note id"))
		return
	}

	var input service.NoteCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	note, err := h.noteService.AddComment(id, actor(c), input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, note))
}

// DeleteNote handles DELETE /notes/:id
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Note ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid note id"))
		return
	}

	if err := h.noteService.Delete(id); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Catatan dihapus"))
}
