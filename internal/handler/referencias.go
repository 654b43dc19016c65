package handler

import (
	"net/http"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler serves CRUD for one reference table.
type CatalogoHandler[Req, Resp any] struct {
	svc service.CatalogoService[Req, Resp]
	// wrapList, when set, shapes the list response.
	wrapList func([]Resp) any
}

func NewCatalogoHandler[Req, Resp any](svc service.CatalogoService[Req, Resp]) *CatalogoHandler[Req, Resp] {
	return &CatalogoHandler[Req, Resp]{svc: svc}
}

// NewTransportadorasHandler answers the list inside an {items, total}
// envelope, which is how the dashboard reads carriers.
func NewTransportadorasHandler(svc service.CatalogoService[dto.TransportadoraRequest, dto.TransportadoraResponse]) *CatalogoHandler[dto.TransportadoraRequest, dto.TransportadoraResponse] {
	h := NewCatalogoHandler(svc)
	h.wrapList = func(items []dto.TransportadoraResponse) any {
		return dto.TransportadoraListResponse{Items: items, Total: len(items)}
	}
	return h
}

func (h *CatalogoHandler[Req, Resp]) Listar(c *gin.Context) {
	list, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []Resp{}
	}
	if h.wrapList != nil {
		c.JSON(http.StatusOK, h.wrapList(list))
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CatalogoHandler[Req, Resp]) ObtenerPorID(c *gin.Context) {
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

func (h *CatalogoHandler[Req, Resp]) Crear(c *gin.Context) {
	var req Req
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

func (h *CatalogoHandler[Req, Resp]) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req Req
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

func (h *CatalogoHandler[Req, Resp]) Eliminar(c *gin.Context) {
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

// Register mounts the CRUD routes; reads use readMW, writes writeMW.
func (h *CatalogoHandler[Req, Resp]) Register(g *gin.RouterGroup, readMW, writeMW gin.HandlerFunc) {
	g.GET("/", readMW, h.Listar)
	g.GET("/:id", readMW, h.ObtenerPorID)
	g.POST("/", writeMW, h.Crear)
	g.PUT("/:id", writeMW, h.Actualizar)
	g.DELETE("/:id", writeMW, h.Eliminar)
}
