package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sambafall/teranga/internal/api"
)

// RegisterRoutes mounts the unauthenticated endpoints under /auth:
// role-specific login and registration plus token refresh.
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/admin/login", handler.login(RoleAdmin))
		authGroup.POST("/admin/register", handler.register(RoleAdmin))
		authGroup.POST("/client/login", handler.login(RoleClient))
		authGroup.POST("/client/register", handler.register(RoleClient))
		authGroup.POST("/refresh", handler.refresh)
	}
}

// RegisterProtectedRoutes mounts the endpoints that require a valid access
// token: logout and the profile variants. Every profile response carries the
// role so callers never need to guess which endpoint to try.
func RegisterProtectedRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/logout", handler.logout)
		authGroup.GET("/profile", handler.profile(""))
		authGroup.GET("/admin/profile", handler.profile(RoleAdmin))
		authGroup.GET("/client/profile", handler.profile(RoleClient))
	}
}

type httpHandler struct {
	service *Service
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type registerRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8,max=72"`
	FirstName string  `json:"first_name" binding:"required,max=128"`
	LastName  string  `json:"last_name" binding:"required,max=128"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h *httpHandler) login(role Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
			return
		}

		result, err := h.service.Login(c.Request.Context(), LoginInput{
			Email:    req.Email,
			Password: req.Password,
			Role:     role,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrWrongRole):
				api.Error(c, http.StatusUnauthorized, api.CodeInvalidCreds, "invalid credentials")
			default:
				api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to authenticate")
			}
			return
		}

		api.OK(c, marshalAuthResponse(result))
	}
}

func (h *httpHandler) register(role Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
			return
		}

		result, err := h.service.Register(c.Request.Context(), RegisterInput{
			Email:     req.Email,
			Password:  req.Password,
			Role:      role,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrEmailAlreadyExists):
				api.Error(c, http.StatusConflict, api.CodeAlreadyExists, "email already registered")
			case errors.Is(err, ErrInvalidCredentials):
				api.Error(c, http.StatusBadRequest, api.CodeValidation, "invalid credentials")
			default:
				api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to register user")
			}
			return
		}

		api.Created(c, marshalAuthResponse(result))
	}
}

func (h *httpHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenInvalid) {
			api.Error(c, http.StatusUnauthorized, api.CodeTokenInvalid, "refresh token invalid")
			return
		}
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to refresh tokens")
		return
	}

	api.OK(c, marshalAuthResponse(result))
}

func (h *httpHandler) logout(c *gin.Context) {
	userID, _, ok := RequireUser(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "unauthorized")
		return
	}

	var req logoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.service.Logout(c.Request.Context(), userID, req.RefreshToken); err != nil {
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to log out")
		return
	}

	api.Message(c, "logged out")
}

// profile returns the caller's identity. A non-empty role restricts the
// endpoint to that role, mirroring the admin/client profile variants.
func (h *httpHandler) profile(role Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ctxUser, ok := RequireUser(c)
		if !ok {
			api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "unauthorized")
			return
		}
		if role != "" && ctxUser.Role != role {
			api.Error(c, http.StatusForbidden, api.CodeForbidden, "wrong role")
			return
		}

		user, err := h.service.Profile(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				api.Error(c, http.StatusNotFound, api.CodeNotFound, "user not found")
				return
			}
			api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to fetch profile")
			return
		}

		api.OK(c, user)
	}
}

func marshalAuthResponse(result AuthResult) authResponse {
	return authResponse{
		User:         result.User,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	}
}
