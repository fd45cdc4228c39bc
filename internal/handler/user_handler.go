package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medrelease/internal/middleware"
	"medrelease/internal/model"
	"medrelease/internal/service"
	"medrelease/pkg/response"
)

type UserHandler struct {
	userService service.UserService
}

// NewUserHandler sets up the routing dependencies for auth and user endpoints
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public routes
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)

	// User management is for administrators only
	users := router.Group("/users")
	users.Use(middleware.RequireRole(model.RoleSuperAdmin, model.RoleAdmin))
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// Login handles POST /login to authenticate and return the sanitized user
// plus a session token
// @Summary      Login
// @Description  Authenticates by email, username or display name (case-insensitive) and plaintext credential
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginInput  true  "Login credentials"
// @Success      200      {object}  response.Response{data=service.LoginResult}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, service.ErrLoginFieldsMissing.Error()))
		return
	}

	result, err := h.userService.Login(input)
	if err != nil {
		if errors.Is(err, service.ErrLoginFieldsMissing) {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookie(c, result.Token)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Logout handles POST /logout to clear the auth cookie
func (h *UserHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Logged out"))
}

// ListUsers handles GET /users
// @Summary      List users
// @Description  Retrieves all accounts with credentials stripped
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.User}
// @Failure      500  {object}  response.Response
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, users))
}

// CreateUser handles POST /users
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateUserInput  true  "Create user payload"
// @Success      201      {object}  response.Response{data=model.User}
// @Failure      400      {object}  response.Response
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.userService.Create(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// UpdateUser handles PUT /users/:id
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                      true  "User ID"
// @Param        payload  body      service.UpdateUserInput  true  "Update user payload"
// @Success      200      {object}  response.Response{data=model.User}
// @Failure      404      {object}  response.Response
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid user id"))
		return
	}

	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	user, err := h.userService.Update(id, input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// DeleteUser handles DELETE /users/:id
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid user id"))
		return
	}

	if err := h.userService.Delete(id); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Pengguna dihapus"))
}
