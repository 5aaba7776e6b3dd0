package handlers

import (
	"net/http"

	"garage_manager/internal/apperr"
	"garage_manager/internal/middleware"
	"garage_manager/internal/models"
	"garage_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UserHandler serves staff and customer administration. The same handlers
// are mounted twice, once per role.
type UserHandler struct {
	responder
	users services.UserService
}

func NewUserHandler(users services.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{responder: responder{log: log}, users: users}
}

func (h *UserHandler) List(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := h.users.ListParties(c.Request.Context(), role)
		if err != nil {
			h.fail(c, err)
			return
		}
		h.ok(c, http.StatusOK, "", list)
	}
}

func (h *UserHandler) Create(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.PartyInput
		if !h.bind(c, &req) {
			return
		}
		user, err := h.users.CreateParty(c.Request.Context(), role, req)
		if err != nil {
			h.fail(c, err)
			return
		}
		h.ok(c, http.StatusCreated, "Tạo thành công", user)
	}
}

func (h *UserHandler) Update(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.idParam(c, "id")
		if !ok {
			return
		}
		var req services.PartyUpdateInput
		if !h.bind(c, &req) {
			return
		}
		user, err := h.users.UpdateParty(c.Request.Context(), role, id, req)
		if err != nil {
			h.fail(c, err)
			return
		}
		h.ok(c, http.StatusOK, "Cập nhật thành công", user)
	}
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	claims, _ := middleware.CurrentClaims(c)
	if claims == nil {
		h.fail(c, apperr.Unauthorized("Không có token, truy cập bị từ chối"))
		return
	}
	user, err := h.users.DeleteParty(c.Request.Context(), claims.Role, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Xoá thành công", user)
}

func (h *UserHandler) FindByPhone(c *gin.Context) {
	user, err := h.users.FindCustomerByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if !h.bind(c, &req) {
		return
	}
	claims, _ := middleware.CurrentClaims(c)
	if claims == nil {
		h.fail(c, apperr.Unauthorized("Không có token, truy cập bị từ chối"))
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Đổi mật khẩu thành công", nil)
}
