package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hvilloria/simple-stock/internal/apierror"
	"github.com/hvilloria/simple-stock/internal/config"
	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/infra"
	"github.com/hvilloria/simple-stock/internal/repository"
	"github.com/hvilloria/simple-stock/internal/service"
)

type PedidosHandler struct {
	svc  service.PedidoService
	repo repository.PedidoRepository
	cfg  *config.Config
}

func NewPedidosHandler(svc service.PedidoService, repo repository.PedidoRepository, cfg *config.Config) *PedidosHandler {
	return &PedidosHandler{svc: svc, repo: repo, cfg: cfg}
}

func (h *PedidosHandler) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	writeOutcome(c, h.svc.Crear(c.Request.Context(), req))
}

func (h *PedidosHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AnularPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	writeOutcome(c, h.svc.Anular(c.Request.Context(), id, req.Motivo))
}

func (h *PedidosHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Pedido no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar pedidos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DescargarRecibo genera el recibo PDF del pedido y lo sirve como descarga.
func (h *PedidosHandler) DescargarRecibo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	pedido, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Pedido no encontrado"))
		return
	}
	path, err := infra.GenerarReciboPedido(pedido, h.cfg.NombreNegocio, h.cfg.PDFStoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el recibo"))
		return
	}
	c.FileAttachment(path, "pedido.pdf")
}
