package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
	"github.com/hvilloria/simple-stock/internal/outcome"
	"github.com/hvilloria/simple-stock/internal/repository"
)

// Mailer envía el resumen de un pago de período al proveedor. La
// implementación SMTP vive en infra; acá solo importa el contrato.
type Mailer interface {
	EnviarResumenPago(ctx context.Context, destinatario, asunto, cuerpo string) error
}

type CompraService interface {
	// CrearDetallada registra una compra con renglones: ingresa stock y
	// recalcula el costo promedio de cada producto, todo o nada.
	CrearDetallada(ctx context.Context, req dto.CrearCompraRequest) outcome.Outcome[*dto.CompraResponse]
	// CrearFactura registra una factura simple (cuenta a pagar plana, sin
	// efecto sobre stock ni costos).
	CrearFactura(ctx context.Context, req dto.CrearFacturaRequest) outcome.Outcome[*dto.CompraResponse]
	MarcarPagada(ctx context.Context, id uuid.UUID, req dto.MarcarPagadaRequest) outcome.Outcome[*dto.CompraResponse]
	// MarcarPeriodoPagado marca pagadas todas las facturas pendientes del
	// proveedor vencidas hasta la fecha dada, aplica sus notas de crédito y
	// las huérfanas del proveedor, y envía el resumen por mail si hay a quién.
	MarcarPeriodoPagado(ctx context.Context, req dto.MarcarPeriodoPagadoRequest) outcome.Outcome[*dto.PeriodoPagadoResponse]
	Anular(ctx context.Context, id uuid.UUID) outcome.Outcome[*dto.CompraResponse]
	Get(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	List(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error)
}

type compraService struct {
	repo           repository.CompraRepository
	proveedorRepo  repository.ProveedorRepository
	productoRepo   repository.ProductoRepository
	notaRepo       repository.NotaCreditoRepository
	movimientoRepo repository.MovimientoStockRepository
	inventario     InventarioService
	costeo         CosteoService
	mailer         Mailer // nil = mails deshabilitados
}

func NewCompraService(
	repo repository.CompraRepository,
	proveedorRepo repository.ProveedorRepository,
	productoRepo repository.ProductoRepository,
	notaRepo repository.NotaCreditoRepository,
	movimientoRepo repository.MovimientoStockRepository,
	inventario InventarioService,
	costeo CosteoService,
	mailer Mailer,
) CompraService {
	return &compraService{
		repo:           repo,
		proveedorRepo:  proveedorRepo,
		productoRepo:   productoRepo,
		notaRepo:       notaRepo,
		movimientoRepo: movimientoRepo,
		inventario:     inventario,
		costeo:         costeo,
		mailer:         mailer,
	}
}

// ── CrearDetallada ───────────────────────────────────────────────────────────

func (s *compraService) CrearDetallada(ctx context.Context, req dto.CrearCompraRequest) outcome.Outcome[*dto.CompraResponse] {
	compra, err := s.crearDetallada(ctx, req)
	if err != nil {
		return outcome.Resolve[*dto.CompraResponse]("crear_compra", err)
	}
	return outcome.Ok(compraToResponse(compra))
}

func (s *compraService) crearDetallada(ctx context.Context, req dto.CrearCompraRequest) (*model.Compra, error) {
	proveedor, err := s.resolverProveedor(ctx, req.ProveedorID)
	if err != nil {
		return nil, err
	}
	if !model.MonedaValida(req.Moneda) {
		return nil, outcome.Violation("moneda inválida: %s", req.Moneda)
	}
	// El tipo de cambio es obligatorio siempre en modo detallada: aun con la
	// compra en pesos hace falta para normalizar los costos a dólares.
	if req.TipoCambio == nil || !req.TipoCambio.IsPositive() {
		return nil, outcome.Violation("el tipo de cambio es obligatorio y debe ser mayor a cero")
	}
	fechaCompra, err := parseFechaODefault(req.FechaCompra)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, outcome.Violation("la compra debe tener al menos un renglón")
	}

	type renglon struct {
		productoID uuid.UUID
		cantidad   int
		costo      decimal.Decimal
	}
	renglones := make([]renglon, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, outcome.Violation("producto_id inválido: %s", item.ProductoID)
		}
		// Una cantidad no positiva metería un ingreso negativo en el libro y
		// corrompería el promedio ponderado.
		if item.Cantidad <= 0 {
			return nil, outcome.Violation("la cantidad de cada renglón debe ser mayor a cero")
		}
		if _, err := s.productoRepo.FindByID(ctx, pid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, outcome.Violation("producto %s no encontrado", item.ProductoID)
			}
			return nil, err
		}
		if item.CostoUnitario.IsNegative() {
			return nil, outcome.Violation("el costo unitario no puede ser negativo")
		}
		renglones = append(renglones, renglon{productoID: pid, cantidad: item.Cantidad, costo: item.CostoUnitario})
	}

	var compra *model.Compra
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		monto := decimal.Zero
		items := make([]model.CompraItem, 0, len(renglones))
		for _, r := range renglones {
			subtotal := r.costo.Mul(decimal.NewFromInt(int64(r.cantidad)))
			monto = monto.Add(subtotal)
			items = append(items, model.CompraItem{
				ProductoID:    r.productoID,
				Cantidad:      r.cantidad,
				CostoUnitario: r.costo,
				Subtotal:      subtotal,
			})
		}

		compra = &model.Compra{
			ProveedorID:   proveedor.ID,
			Modo:          model.CompraModoDetallada,
			NumeroFactura: req.NumeroFactura,
			Monto:         monto,
			Moneda:        req.Moneda,
			TipoCambio:    req.TipoCambio,
			FechaCompra:   fechaCompra,
			Estado:        model.CompraConfirmada,
			Items:         items,
		}
		if err := s.repo.CreateTx(tx, compra); err != nil {
			return err
		}

		for _, r := range renglones {
			_, err := s.inventario.AjustarTx(tx, AjusteStockInput{
				ProductoID: r.productoID,
				Tipo:       model.MovimientoCompra,
				Cantidad:   r.cantidad,
				Ref:        model.CompraRef(compra.ID),
				Nota:       fmt.Sprintf("compra %s", nombreDocumento(compra)),
			})
			if err != nil {
				return err
			}
			if err := s.costeo.RecalcularCostoTx(tx, r.productoID, &compra.ID, MotivoAltaCompra); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if full, err := s.repo.FindByID(ctx, compra.ID); err == nil {
		return full, nil
	}
	return compra, nil
}

// ── CrearFactura ─────────────────────────────────────────────────────────────

func (s *compraService) CrearFactura(ctx context.Context, req dto.CrearFacturaRequest) outcome.Outcome[*dto.CompraResponse] {
	compra, err := s.crearFactura(ctx, req)
	if err != nil {
		return outcome.Resolve[*dto.CompraResponse]("crear_factura", err)
	}
	return outcome.Ok(compraToResponse(compra))
}

func (s *compraService) crearFactura(ctx context.Context, req dto.CrearFacturaRequest) (*model.Compra, error) {
	proveedor, err := s.resolverProveedor(ctx, req.ProveedorID)
	if err != nil {
		return nil, err
	}
	if !model.MonedaValida(req.Moneda) {
		return nil, outcome.Violation("moneda inválida: %s", req.Moneda)
	}
	if req.Moneda == model.MonedaDolar && (req.TipoCambio == nil || !req.TipoCambio.IsPositive()) {
		return nil, outcome.Violation("una factura en dólares requiere tipo de cambio mayor a cero")
	}
	if !req.Monto.IsPositive() {
		return nil, outcome.Violation("el monto debe ser mayor a cero")
	}

	fechaCompra, err := parseFechaODefault(req.FechaCompra)
	if err != nil {
		return nil, err
	}
	vencimiento, err := time.Parse(fmtFecha, req.FechaVencimiento)
	if err != nil {
		return nil, outcome.Violation("fecha_vencimiento inválida: %s", req.FechaVencimiento)
	}
	if vencimiento.Before(fechaCompra) {
		return nil, outcome.Violation("el vencimiento no puede ser anterior a la fecha de la factura")
	}

	fechaPP, descuentoPP, err := resolverProntoPago(req, proveedor, fechaCompra)
	if err != nil {
		return nil, err
	}

	numero := req.NumeroFactura
	compra := &model.Compra{
		ProveedorID:         proveedor.ID,
		Modo:                model.CompraModoSimple,
		NumeroFactura:       &numero,
		Monto:               req.Monto,
		Moneda:              req.Moneda,
		TipoCambio:          req.TipoCambio,
		FechaCompra:         fechaCompra,
		FechaVencimiento:    &vencimiento,
		FechaProntoPago:     fechaPP,
		DescuentoProntoPago: descuentoPP,
		Estado:              model.CompraPendiente,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(tx, compra)
	})
	if err != nil {
		return nil, err
	}
	compra.Proveedor = proveedor
	return compra, nil
}

// resolverProntoPago fija la ventana de pronto pago de una factura: explícita
// si viene completa en el request, heredada del proveedor si este tiene
// condiciones por defecto, o ninguna.
func resolverProntoPago(req dto.CrearFacturaRequest, proveedor *model.Proveedor, fechaCompra time.Time) (*time.Time, *decimal.Decimal, error) {
	if req.FechaProntoPago != nil || req.DescuentoProntoPago != nil {
		if req.FechaProntoPago == nil || req.DescuentoProntoPago == nil {
			return nil, nil, outcome.Violation("las condiciones de pronto pago requieren fecha y descuento")
		}
		fecha, err := time.Parse(fmtFecha, *req.FechaProntoPago)
		if err != nil {
			return nil, nil, outcome.Violation("fecha_pronto_pago inválida: %s", *req.FechaProntoPago)
		}
		if err := validarDescuento(*req.DescuentoProntoPago); err != nil {
			return nil, nil, err
		}
		return &fecha, req.DescuentoProntoPago, nil
	}

	if proveedor.DiasProntoPago != nil && proveedor.DescuentoProntoPago != nil {
		fecha := fechaCompra.AddDate(0, 0, *proveedor.DiasProntoPago)
		descuento := *proveedor.DescuentoProntoPago
		return &fecha, &descuento, nil
	}
	return nil, nil, nil
}

func validarDescuento(d decimal.Decimal) error {
	if !d.IsPositive() || d.GreaterThan(decimal.NewFromInt(100)) {
		return outcome.Violation("el descuento de pronto pago debe estar entre 0 y 100")
	}
	return nil
}

// ── MarcarPagada ─────────────────────────────────────────────────────────────

func (s *compraService) MarcarPagada(ctx context.Context, id uuid.UUID, req dto.MarcarPagadaRequest) outcome.Outcome[*dto.CompraResponse] {
	compra, err := s.marcarPagada(ctx, id, req)
	if err != nil {
		return outcome.Resolve[*dto.CompraResponse]("marcar_pagada", err)
	}
	return outcome.Ok(compraToResponse(compra))
}

func (s *compraService) marcarPagada(ctx context.Context, id uuid.UUID, req dto.MarcarPagadaRequest) (*model.Compra, error) {
	compra, err := s.buscarCompra(ctx, id)
	if err != nil {
		return nil, err
	}
	fechaPago, err := parseFechaODefault(req.FechaPago)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Los guardas corren sobre la fila relockeada: el estado pudo cambiar
		// entre la lectura inicial y la transacción.
		actual, err := s.repo.FindByIDForUpdateTx(tx, compra.ID)
		if err != nil {
			return err
		}
		if err := actual.Pagable().PuedeMarcarsePagada(fechaPago); err != nil {
			return err
		}
		if req.AplicarDescuento {
			if actual.DescuentoProntoPago == nil {
				return outcome.Violation("la factura no tiene descuento de pronto pago")
			}
			if !actual.DescuentoVigente(fechaPago) {
				return outcome.Violation(
					"la ventana de pronto pago venció el %s", actual.FechaProntoPago.Format(fmtFecha))
			}
		}

		actual.Estado = model.CompraPagada
		actual.FechaPago = &fechaPago
		actual.DescuentoAplicado = req.AplicarDescuento
		if err := s.repo.UpdateTx(tx, actual); err != nil {
			return err
		}
		return s.notaRepo.AplicarPendientesDeCompraTx(tx, actual.ID, fechaPago)
	})
	if err != nil {
		return nil, err
	}

	compra.Estado = model.CompraPagada
	compra.FechaPago = &fechaPago
	compra.DescuentoAplicado = req.AplicarDescuento
	return compra, nil
}

// ── MarcarPeriodoPagado ──────────────────────────────────────────────────────

func (s *compraService) MarcarPeriodoPagado(ctx context.Context, req dto.MarcarPeriodoPagadoRequest) outcome.Outcome[*dto.PeriodoPagadoResponse] {
	resp, err := s.marcarPeriodoPagado(ctx, req)
	if err != nil {
		return outcome.Resolve[*dto.PeriodoPagadoResponse]("marcar_periodo_pagado", err)
	}
	return outcome.Ok(resp)
}

func (s *compraService) marcarPeriodoPagado(ctx context.Context, req dto.MarcarPeriodoPagadoRequest) (*dto.PeriodoPagadoResponse, error) {
	proveedor, err := s.resolverProveedor(ctx, req.ProveedorID)
	if err != nil {
		return nil, err
	}
	hasta, err := time.Parse(fmtFecha, req.Hasta)
	if err != nil {
		return nil, outcome.Violation("fecha hasta inválida: %s", req.Hasta)
	}
	fechaPago, err := parseFechaODefault(req.FechaPago)
	if err != nil {
		return nil, err
	}

	pendientes, err := s.repo.ListPendientesVencidas(ctx, proveedor.ID, hasta)
	if err != nil {
		return nil, err
	}
	if len(pendientes) == 0 {
		return nil, outcome.Violation(
			"%s no tiene facturas pendientes con vencimiento hasta el %s",
			proveedor.RazonSocial, hasta.Format(fmtFecha))
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for i := range pendientes {
			c := &pendientes[i]
			// Pago de período: sin descuento de pronto pago, son facturas
			// que ya vencieron.
			c.Estado = model.CompraPagada
			c.FechaPago = &fechaPago
			if err := s.repo.UpdateTx(tx, c); err != nil {
				return err
			}
			if err := s.notaRepo.AplicarPendientesDeCompraTx(tx, c.ID, fechaPago); err != nil {
				return err
			}
		}
		return s.notaRepo.AplicarHuerfanasTx(tx, proveedor.ID, fechaPago)
	})
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	compras := make([]dto.CompraResponse, 0, len(pendientes))
	for i := range pendientes {
		total = total.Add(pendientes[i].TotalPesos())
		compras = append(compras, *compraToResponse(&pendientes[i]))
	}

	s.enviarResumenPago(ctx, proveedor, pendientes, fechaPago, total)

	return &dto.PeriodoPagadoResponse{
		ProveedorID:     proveedor.ID.String(),
		FacturasPagadas: len(pendientes),
		TotalPesos:      total,
		Compras:         compras,
	}, nil
}

// enviarResumenPago manda el detalle del pago al proveedor. Es best-effort y
// corre después del commit: una falla de SMTP no toca el resultado del pago.
func (s *compraService) enviarResumenPago(ctx context.Context, proveedor *model.Proveedor, compras []model.Compra, fechaPago time.Time, total decimal.Decimal) {
	if s.mailer == nil || proveedor.Email == nil || *proveedor.Email == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pago registrado el %s.\n\nFacturas incluidas:\n", fechaPago.Format(fmtFecha))
	for i := range compras {
		fmt.Fprintf(&b, "  - %s por $%s\n", nombreDocumento(&compras[i]), compras[i].TotalPesos().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: $%s\n", total.StringFixed(2))

	asunto := fmt.Sprintf("Pago de facturas al %s", fechaPago.Format(fmtFecha))
	if err := s.mailer.EnviarResumenPago(ctx, *proveedor.Email, asunto, b.String()); err != nil {
		log.Warn().Err(err).Str("proveedor", proveedor.RazonSocial).Msg("no se pudo enviar el resumen de pago")
	}
}

// ── Anular ───────────────────────────────────────────────────────────────────

func (s *compraService) Anular(ctx context.Context, id uuid.UUID) outcome.Outcome[*dto.CompraResponse] {
	compra, err := s.anular(ctx, id)
	if err != nil {
		return outcome.Resolve[*dto.CompraResponse]("anular_compra", err)
	}
	return outcome.Ok(compraToResponse(compra))
}

func (s *compraService) anular(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	compra, err := s.buscarCompra(ctx, id)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// El guarda corre sobre la fila relockeada: dos anulaciones
		// concurrentes no deben revertir el stock dos veces.
		actual, err := s.repo.FindByIDForUpdateTx(tx, compra.ID)
		if err != nil {
			return err
		}
		if err := actual.Pagable().PuedeAnularse(); err != nil {
			return err
		}
		// La transición va primero: el recálculo de costos de más abajo lee
		// compras no anuladas, y esta ya no debe contar.
		actual.Estado = model.CompraAnulada
		if err := s.repo.UpdateTx(tx, actual); err != nil {
			return err
		}
		if actual.Modo != model.CompraModoDetallada {
			return nil
		}

		movs, err := s.movimientoRepo.ListByRefTx(tx, *model.CompraRef(compra.ID))
		if err != nil {
			return err
		}
		productos := make(map[uuid.UUID]struct{})
		for i := range movs {
			// Solo se revierten los ingresos originales de la compra; una
			// reversa previa no se vuelve a revertir.
			if movs[i].Cantidad <= 0 {
				continue
			}
			_, err := s.inventario.AjustarTx(tx, AjusteStockInput{
				ProductoID: movs[i].ProductoID,
				Tipo:       model.MovimientoAjuste,
				Cantidad:   -movs[i].Cantidad,
				Ref:        model.CompraRef(compra.ID),
				Nota:       fmt.Sprintf("anulación compra %s", nombreDocumento(compra)),
			})
			if err != nil {
				return err
			}
			productos[movs[i].ProductoID] = struct{}{}
		}
		for pid := range productos {
			if err := s.costeo.RecalcularCostoTx(tx, pid, &compra.ID, MotivoAnulacionCompra); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	compra.Estado = model.CompraAnulada
	return compra, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *compraService) Get(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return compraToResponse(compra), nil
}

func (s *compraService) List(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error) {
	compras, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		data = append(data, *compraToResponse(&compras[i]))
	}
	return &dto.CompraListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *compraService) resolverProveedor(ctx context.Context, id string) (*model.Proveedor, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, outcome.Violation("proveedor_id inválido: %s", id)
	}
	proveedor, err := s.proveedorRepo.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outcome.Violation("proveedor no encontrado")
		}
		return nil, err
	}
	if !proveedor.Activo {
		return nil, outcome.Violation("el proveedor %s está inactivo", proveedor.RazonSocial)
	}
	return proveedor, nil
}

func (s *compraService) buscarCompra(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outcome.Violation("compra no encontrada")
		}
		return nil, err
	}
	return compra, nil
}

func parseFechaODefault(fecha string) (time.Time, error) {
	if fecha == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(fmtFecha, fecha)
	if err != nil {
		return time.Time{}, outcome.Violation("fecha inválida: %s", fecha)
	}
	return t, nil
}

func nombreDocumento(c *model.Compra) string {
	if c.NumeroFactura != nil && *c.NumeroFactura != "" {
		return *c.NumeroFactura
	}
	return c.ID.String()[:8]
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	resp := &dto.CompraResponse{
		ID:                  c.ID.String(),
		ProveedorID:         c.ProveedorID.String(),
		Modo:                c.Modo,
		NumeroFactura:       c.NumeroFactura,
		Monto:               c.Monto,
		Moneda:              c.Moneda,
		TipoCambio:          c.TipoCambio,
		TotalPesos:          c.TotalPesos(),
		FechaCompra:         c.FechaCompra.Format(fmtFecha),
		DescuentoProntoPago: c.DescuentoProntoPago,
		Estado:              c.Estado,
		DescuentoAplicado:   c.DescuentoAplicado,
		CreatedAt:           c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if c.Proveedor != nil {
		resp.Proveedor = c.Proveedor.RazonSocial
	}
	if c.FechaVencimiento != nil {
		f := c.FechaVencimiento.Format(fmtFecha)
		resp.FechaVencimiento = &f
	}
	if c.FechaProntoPago != nil {
		f := c.FechaProntoPago.Format(fmtFecha)
		resp.FechaProntoPago = &f
	}
	if c.FechaPago != nil {
		f := c.FechaPago.Format(fmtFecha)
		resp.FechaPago = &f
	}
	for i := range c.Items {
		item := &c.Items[i]
		ir := dto.ItemCompraResponse{
			ProductoID:    item.ProductoID.String(),
			Cantidad:      item.Cantidad,
			CostoUnitario: item.CostoUnitario,
			Subtotal:      item.Subtotal,
		}
		if item.Producto != nil {
			ir.Producto = item.Producto.Nombre
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
