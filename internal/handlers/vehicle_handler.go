package handlers

import (
	"net/http"

	"garage_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type VehicleHandler struct {
	responder
	vehicles services.VehicleService
}

func NewVehicleHandler(vehicles services.VehicleService, log zerolog.Logger) *VehicleHandler {
	return &VehicleHandler{responder: responder{log: log}, vehicles: vehicles}
}

func (h *VehicleHandler) List(c *gin.Context) {
	list, err := h.vehicles.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", list)
}

func (h *VehicleHandler) Register(c *gin.Context) {
	var req services.VehicleInput
	if !h.bind(c, &req) {
		return
	}
	v, err := h.vehicles.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, "Đăng ký xe thành công", v)
}

func (h *VehicleHandler) Update(c *gin.Context) {
	var req services.VehicleInput
	if !h.bind(c, &req) {
		return
	}
	v, err := h.vehicles.Update(c.Request.Context(), c.Param("plate"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Cập nhật xe thành công", v)
}

func (h *VehicleHandler) Delete(c *gin.Context) {
	if err := h.vehicles.Delete(c.Request.Context(), c.Param("plate")); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Xoá xe thành công", nil)
}
