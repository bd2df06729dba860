package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hvilloria/simple-stock/internal/apierror"
	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/service"
)

type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler {
	return &ComprasHandler{svc: svc}
}

// Crear registra una compra detallada (con renglones, mueve stock y costos).
func (h *ComprasHandler) Crear(c *gin.Context) {
	var req dto.CrearCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	writeOutcome(c, h.svc.CrearDetallada(c.Request.Context(), req))
}

// CrearFactura registra una factura simple (cuenta a pagar).
func (h *ComprasHandler) CrearFactura(c *gin.Context) {
	var req dto.CrearFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	writeOutcome(c, h.svc.CrearFactura(c.Request.Context(), req))
}

func (h *ComprasHandler) MarcarPagada(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.MarcarPagadaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	writeOutcome(c, h.svc.MarcarPagada(c.Request.Context(), id, req))
}

func (h *ComprasHandler) MarcarPeriodoPagado(c *gin.Context) {
	var req dto.MarcarPeriodoPagadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	writeOutcome(c, h.svc.MarcarPeriodoPagado(c.Request.Context(), req))
}

func (h *ComprasHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	writeOutcome(c, h.svc.Anular(c.Request.Context(), id))
}

func (h *ComprasHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Compra no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComprasHandler) Listar(c *gin.Context) {
	var filter dto.CompraFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar compras"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
