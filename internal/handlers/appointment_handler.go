package handlers

import (
	"net/http"

	"garage_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AppointmentHandler struct {
	responder
	appointments services.AppointmentService
}

func NewAppointmentHandler(appointments services.AppointmentService, log zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{responder: responder{log: log}, appointments: appointments}
}

func (h *AppointmentHandler) List(c *gin.Context) {
	list, err := h.appointments.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", list)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req services.CreateAppointmentInput
	if !h.bind(c, &req) {
		return
	}
	appt, err := h.appointments.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, "Đặt lịch thành công", appt)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !h.bind(c, &req) {
		return
	}
	appt, err := h.appointments.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Cập nhật trạng thái thành công", appt)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.appointments.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	noContent(c)
}
