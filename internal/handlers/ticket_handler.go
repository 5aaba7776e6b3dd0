package handlers

import (
	"net/http"

	"garage_manager/internal/middleware"
	"garage_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type TicketHandler struct {
	responder
	tickets services.TicketService
}

func NewTicketHandler(tickets services.TicketService, log zerolog.Logger) *TicketHandler {
	return &TicketHandler{responder: responder{log: log}, tickets: tickets}
}

// Create defaults the intake staff to the caller.
func (h *TicketHandler) Create(c *gin.Context) {
	var req services.CreateTicketInput
	if !h.bind(c, &req) {
		return
	}
	if claims, ok := middleware.CurrentClaims(c); ok {
		if req.IntakeStaffID == 0 {
			req.IntakeStaffID = claims.UserID
		}
		if req.Actor == "" {
			req.Actor = claims.Username
		}
	}
	t, err := h.tickets.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, "Tạo phiếu sửa chữa thành công", t)
}

func (h *TicketHandler) List(c *gin.Context) {
	list, err := h.tickets.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", list)
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	t, err := h.tickets.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", t)
}

func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateTicketInput
	if !h.bind(c, &req) {
		return
	}
	t, err := h.tickets.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Cập nhật phiếu thành công", t)
}

func (h *TicketHandler) AddServiceItem(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req services.AddServiceItemInput
	if !h.bind(c, &req) {
		return
	}
	t, err := h.tickets.AddServiceItem(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Thêm dịch vụ vào phiếu thành công", t)
}

func (h *TicketHandler) AddPartItem(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req services.AddPartItemInput
	if !h.bind(c, &req) {
		return
	}
	t, err := h.tickets.AddPartItem(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Thêm phụ tùng vào phiếu thành công", t)
}

// SetStatus records the change in the history as the caller unless the body
// names an actor.
func (h *TicketHandler) SetStatus(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req services.SetStatusInput
	if !h.bind(c, &req) {
		return
	}
	caller := ""
	if claims, ok := middleware.CurrentClaims(c); ok {
		caller = claims.Username
	}
	ev, err := h.tickets.SetStatus(c.Request.Context(), id, req, caller)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Cập nhật trạng thái thành công", ev)
}

func (h *TicketHandler) Items(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	items, err := h.tickets.Items(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", items)
}

func (h *TicketHandler) History(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	events, err := h.tickets.History(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", events)
}
