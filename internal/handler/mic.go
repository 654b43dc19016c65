package handler

import (
	"net/http"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/apierror"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type MICHandler struct{ svc service.MICService }

func NewMICHandler(svc service.MICService) *MICHandler { return &MICHandler{svc: svc} }

// CargarDatosCRT GET /api/mic/cargar-datos-crt/:crt, by id or numero_crt.
func (h *MICHandler) CargarDatosCRT(c *gin.Context) {
	resp, err := h.svc.CargarDatosCRT(c.Request.Context(), c.Param("crt"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearDesdeCRT POST /api/mic-guardados/crear-desde-crt/:crtId. The body
// is a loose campo → value map laid over the CRT-derived fields.
func (h *MICHandler) CrearDesdeCRT(c *gin.Context) {
	crtID, ok := paramID(c, "crtId")
	if !ok {
		return
	}
	datos := map[string]any{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&datos); err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
			return
		}
	}
	resp, err := h.svc.CrearDesdeCRT(c.Request.Context(), crtID, datos)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar GET /api/mic-guardados/?crt_id=&estado=&page=&limit=
func (h *MICHandler) Listar(c *gin.Context) {
	var f dto.MICFilter
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

func (h *MICHandler) ObtenerPorID(c *gin.Context) {
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

func (h *MICHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.MICFields
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

func (h *MICHandler) Eliminar(c *gin.Context) {
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

// PDF GET /api/mic-guardados/:id/pdf
func (h *MICHandler) PDF(c *gin.Context) {
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

// Enviar POST /api/mic-guardados/:id/enviar queues the PDF by email.
func (h *MICHandler) Enviar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.EnviarMICRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Enviar(c.Request.Context(), id, req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.MessageResponse{Message: "Envío en cola"})
}
