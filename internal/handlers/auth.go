package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/middleware"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/service"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Phone    string `json:"phone"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (h HandlerSet) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signup details"})
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signup details"})
		default:
			h.internalError(c, err, "signup failed")
		}
		return
	}

	sendAuthResponse(c, http.StatusCreated, "User created successfully", result)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		h.internalError(c, err, "login failed")
		return
	}

	sendAuthResponse(c, http.StatusOK, "Login successful", result)
}

func sendAuthResponse(c *gin.Context, status int, message string, result service.AuthResult) {
	c.JSON(status, authResponse{
		Message: message,
		Token:   result.Token,
		User: userResponse{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
			Role:  string(result.User.Role),
		},
	})
}

// Me reports the caller with the role carried by the session.
func (h HandlerSet) Me(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	ident, identOK := middleware.CurrentIdentity(c)
	if !ok || !identOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": userResponse{
			ID:    ident.ID,
			Email: ident.Email,
			Name:  ident.Name,
			Role:  string(actor.Role),
		},
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), actor); err != nil {
		h.internalError(c, err, "logout failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h HandlerSet) internalError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).
		Str("request_id", middleware.RequestIDFrom(c)).
		Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
