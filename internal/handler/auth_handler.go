package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellscout/sellscout-backend-go/internal/middleware"
	"github.com/sellscout/sellscout-backend-go/internal/models"
	"github.com/sellscout/sellscout-backend-go/internal/service"
	"github.com/sellscout/sellscout-backend-go/pkg/response"
)

// AuthHandler handles HTTP requests for registration and login
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register creates a new user account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.service.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			response.Conflict(c, "Username or email already taken")
			return
		}
		response.InternalError(c, "Registration failed")
		return
	}

	response.Success(c, user)
}

// Login authenticates a user and issues a token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	token, user, err := h.service.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid username or password")
			return
		}
		response.InternalError(c, "Login failed")
		return
	}

	response.Success(c, models.LoginResponse{Token: token, User: user})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.GetUser(middleware.UserID(c))
	if err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}

	response.Success(c, user)
}
