package handler

import (
	"net/http"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type CRTHandler struct{ svc service.CRTService }

func NewCRTHandler(svc service.CRTService) *CRTHandler { return &CRTHandler{svc: svc} }

// Listar GET /api/crts/?page=&limit=&estado=&q=
func (h *CRTHandler) Listar(c *gin.Context) {
	var f dto.CRTFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Estados GET /api/crts/estados
func (h *CRTHandler) Estados(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Estados())
}

// SiguienteNumero GET /api/crts/next_number?transportadora_id=&codigo=
func (h *CRTHandler) SiguienteNumero(c *gin.Context) {
	var q dto.NextNumberQuery
	if err := c.ShouldBindQuery(&q); err != nil || !numeroCRT.MatchString(q.Codigo) {
		respondError(c, service.ErrNumeroCRT)
		return
	}
	if !validateStruct(c, &q) {
		return
	}
	resp, err := h.svc.SiguienteNumero(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar GET /api/crts/export, same filters as Listar.
func (h *CRTHandler) Exportar(c *gin.Context) {
	var f dto.CRTFilter
	if !bindQuery(c, &f) {
		return
	}
	data, err := h.svc.Exportar(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	sendFile(c, mimeXLSX, "crts.xlsx", data)
}

// Crear POST /api/crts/
func (h *CRTHandler) Crear(c *gin.Context) {
	var req dto.CRTRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerPorID GET /api/crts/:id
func (h *CRTHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar PUT /api/crts/:id. A CRT in EN_TRANSITO answers 409 with
// requiere_confirmacion until the request carries
// permitir_edicion_en_transito.
func (h *CRTHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CRTRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado PATCH /api/crts/:id/estado
func (h *CRTHandler) CambiarEstado(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar DELETE /api/crts/:id
func (h *CRTHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Duplicar POST /api/crts/:id/duplicate
func (h *CRTHandler) Duplicar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Duplicar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Campo15 GET /api/crts/:id/campo15
func (h *CRTHandler) Campo15(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Campo15(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF POST /api/crts/:id/pdf
func (h *CRTHandler) PDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	data, name, err := h.svc.GenerarPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	sendFile(c, mimePDF, name, data)
}
