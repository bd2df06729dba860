package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hvilloria/simple-stock/internal/apierror"
	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/service"
)

type NotasCreditoHandler struct{ svc service.NotaCreditoService }

func NewNotasCreditoHandler(svc service.NotaCreditoService) *NotasCreditoHandler {
	return &NotasCreditoHandler{svc: svc}
}

func (h *NotasCreditoHandler) Crear(c *gin.Context) {
	var req dto.CrearNotaCreditoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	writeOutcome(c, h.svc.Crear(c.Request.Context(), req))
}

func (h *NotasCreditoHandler) Aplicar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AplicarNotaCreditoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	writeOutcome(c, h.svc.Aplicar(c.Request.Context(), id, req))
}

func (h *NotasCreditoHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	writeOutcome(c, h.svc.Anular(c.Request.Context(), id))
}

func (h *NotasCreditoHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Nota de credito no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotasCreditoHandler) Listar(c *gin.Context) {
	var filter dto.NotaCreditoFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar notas de credito"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
