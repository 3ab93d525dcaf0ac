package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"papertrade/internal/auth"
)

type AuthHandler struct {
	Service    *auth.Service
	CookieName string
	Logger     *zap.Logger
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(r *gin.Engine, authed *gin.RouterGroup) {
	group := r.Group("/api/auth")
	group.POST("/signup", h.signup)
	group.POST("/login", h.login)
	group.POST("/logout", h.logout)

	authed.GET("/auth/me", h.me)
}

func (h *AuthHandler) signup(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "username and password are required", nil)
		return
	}
	sess, err := h.Service.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			Error(c, http.StatusConflict, "username already exists", nil)
		case errors.Is(err, auth.ErrMissingFields):
			Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			if h.Logger != nil {
				h.Logger.Warn("signup failed", zap.Error(err))
			}
			Error(c, http.StatusInternalServerError, "signup failed", nil)
		}
		return
	}
	h.setSessionCookie(c, sess.Token, sess.ExpiresAt)
	Ok(c, gin.H{"user_id": sess.UserID, "username": sess.Username}, nil)
}

func (h *AuthHandler) login(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "username and password are required", nil)
		return
	}
	sess, err := h.Service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrMissingFields):
			Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		default:
			if h.Logger != nil {
				h.Logger.Warn("login failed", zap.Error(err))
			}
			Error(c, http.StatusInternalServerError, "login failed", nil)
		}
		return
	}
	h.setSessionCookie(c, sess.Token, sess.ExpiresAt)
	Ok(c, gin.H{"user_id": sess.UserID, "username": sess.Username}, nil)
}

func (h *AuthHandler) logout(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	token, _ := c.Cookie(h.cookieName())
	if err := h.Service.Logout(c.Request.Context(), token); err != nil && h.Logger != nil {
		h.Logger.Warn("logout failed", zap.Error(err))
	}
	c.SetCookie(h.cookieName(), "", -1, "/", "", false, true)
	Ok(c, gin.H{"logged_out": true}, nil)
}

func (h *AuthHandler) me(c *gin.Context) {
	username, _ := c.Get("username")
	Ok(c, gin.H{"user_id": currentUserID(c), "username": username}, nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 60
	}
	c.SetCookie(h.cookieName(), token, maxAge, "/", "", false, true)
}

func (h *AuthHandler) cookieName() string {
	if strings.TrimSpace(h.CookieName) == "" {
		return "pt_session"
	}
	return h.CookieName
}
