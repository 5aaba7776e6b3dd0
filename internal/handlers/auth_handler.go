package handlers

import (
	"net/http"
	"time"

	"garage_manager/internal/apperr"
	"garage_manager/internal/middleware"
	"garage_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	responder
	users        services.UserService
	cookieSecure bool
}

func NewAuthHandler(users services.UserService, cookieSecure bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{responder: responder{log: log}, users: users, cookieSecure: cookieSecure}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !h.bind(c, &req) {
		return
	}
	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, "Đăng ký thành công", user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !h.bind(c, &req) {
		return
	}
	res, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, res.Token, maxAge, "/", "", h.cookieSecure, true)
	h.ok(c, http.StatusOK, "Đăng nhập thành công", res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		h.fail(c, apperr.Unauthorized("Không có token, truy cập bị từ chối"))
		return
	}
	if err := h.users.Logout(c.Request.Context(), claims); err != nil {
		h.fail(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.cookieSecure, true)
	h.ok(c, http.StatusOK, "Đăng xuất thành công", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		h.fail(c, apperr.Unauthorized("Không có token, truy cập bị từ chối"))
		return
	}
	user, err := h.users.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", user)
}

// CreateUser lets an admin add staff or admin accounts.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req services.PartyInput
	if !h.bind(c, &req) {
		return
	}
	user, err := h.users.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, "Tạo tài khoản thành công", user)
}
