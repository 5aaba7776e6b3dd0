package handlers

import (
	"net/http"

	"garage_manager/internal/apperr"
	"garage_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
)

// CatalogHandler serves car models, services and parts.
type CatalogHandler struct {
	responder
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{responder: responder{log: log}, catalog: catalog}
}

// Car models

func (h *CatalogHandler) ListCarModels(c *gin.Context) {
	list, err := h.catalog.ListCarModels(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", list)
}

func (h *CatalogHandler) CreateCarModel(c *gin.Context) {
	var req services.CarModelInput
	if !h.bind(c, &req) {
		return
	}
	m, err := h.catalog.CreateCarModel(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, "Thêm mẫu xe thành công", m)
}

func (h *CatalogHandler) UpdateCarModel(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req services.CarModelInput
	if !h.bind(c, &req) {
		return
	}
	m, err := h.catalog.UpdateCarModel(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Cập nhật mẫu xe thành công", m)
}

func (h *CatalogHandler) DeleteCarModel(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCarModel(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Xoá mẫu xe thành công", nil)
}

// Services

func (h *CatalogHandler) ListServices(c *gin.Context) {
	list, err := h.catalog.ListServices(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", list)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req services.ServiceInput
	if !h.bind(c, &req) {
		return
	}
	s, err := h.catalog.CreateService(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, "Thêm dịch vụ thành công", s)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req services.ServiceInput
	if !h.bind(c, &req) {
		return
	}
	s, err := h.catalog.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Cập nhật dịch vụ thành công", s)
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteService(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Xoá dịch vụ thành công", nil)
}

// Parts

func (h *CatalogHandler) ListParts(c *gin.Context) {
	list, err := h.catalog.ListParts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", list)
}

func (h *CatalogHandler) LowStockParts(c *gin.Context) {
	list, err := h.catalog.LowStockParts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", list)
}

func (h *CatalogHandler) CreatePart(c *gin.Context) {
	var req services.PartInput
	if !h.bind(c, &req) {
		return
	}
	p, err := h.catalog.CreatePart(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, "Thêm phụ tùng thành công", p)
}

func (h *CatalogHandler) UpdatePart(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req services.PartUpdateInput
	if !h.bind(c, &req) {
		return
	}
	p, err := h.catalog.UpdatePart(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Cập nhật phụ tùng thành công", p)
}

func (h *CatalogHandler) DeletePart(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeletePart(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Xoá phụ tùng thành công", nil)
}

func (h *CatalogHandler) StockIn(c *gin.Context) {
	var req services.StockInInput
	if !h.bind(c, &req) {
		return
	}
	p, err := h.catalog.StockIn(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Nhập kho thành công", p)
}

// ImportParts accepts either a bare array or {"parts": [...]}.
func (h *CatalogHandler) ImportParts(c *gin.Context) {
	var rows []services.PartInput
	if err := c.ShouldBindBodyWith(&rows, binding.JSON); err != nil {
		var wrapped struct {
			Parts []services.PartInput `json:"parts"`
		}
		if err := c.ShouldBindBodyWith(&wrapped, binding.JSON); err != nil {
			h.fail(c, apperr.Validation(msgBadRequest))
			return
		}
		rows = wrapped.Parts
	}
	parts, err := h.catalog.ImportParts(c.Request.Context(), rows)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "Nhập phụ tùng thành công", parts)
}
