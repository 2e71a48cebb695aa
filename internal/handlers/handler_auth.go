package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	portssvc "github.com/SscSPs/mini_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mini_banking_api/internal/dto"
	"github.com/SscSPs/mini_banking_api/internal/middleware"
	"github.com/SscSPs/mini_banking_api/internal/utils/mapping"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	authService portssvc.AuthSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as portssvc.AuthSvcFacade) *AuthHandler {
	return &AuthHandler{authService: as}
}

// RegisterAuthRoutes sets up the routes for authentication. loginLimit guards
// the login endpoint against credential stuffing and may be nil.
func RegisterAuthRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvcFacade, loginLimit gin.HandlerFunc) {
	registerValidators()
	h := NewAuthHandler(authService)

	login := []gin.HandlerFunc{h.Login}
	if loginLimit != nil {
		login = append([]gin.HandlerFunc{loginLimit}, login...)
	}

	auth := rg.Group("/auth")
	{
		auth.POST("/login", login...)
		auth.POST("/register", h.Register)
	}
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err)
		return
	}

	token, expiresAt, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Login rejected", slog.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid username or password", Code: "UNAUTHORIZED"})
			return
		}
		respondError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Register godoc
// @Summary Register new user
// @Description Creates a login for an existing customer.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Conflict (e.g., username exists)"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), portssvc.RegisterCommand{
		Username:   req.Username,
		Password:   req.Password,
		Email:      req.Email,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("User registered", slog.Int64("user_id", user.ID))
	c.JSON(http.StatusCreated, mapping.ToUserResponse(*user))
}
