package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hvilloria/simple-stock/internal/apierror"
	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
	"github.com/hvilloria/simple-stock/internal/outcome"
	"github.com/hvilloria/simple-stock/internal/service"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// Ajustar registra un ajuste manual de stock (conteo físico, rotura, merma).
func (h *InventarioHandler) Ajustar(c *gin.Context) {
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	pid, err := uuid.Parse(req.ProductoID)
	if err != nil {
		writeOutcome(c, outcome.Fail[*dto.MovimientoResponse]("producto_id inválido"))
		return
	}
	o := h.svc.Ajustar(c.Request.Context(), service.AjusteStockInput{
		ProductoID: pid,
		Tipo:       model.MovimientoAjuste,
		Cantidad:   req.Cantidad,
		Nota:       req.Nota,
	})
	writeOutcome(c, o)
}

func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
