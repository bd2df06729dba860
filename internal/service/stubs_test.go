package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
	"github.com/hvilloria/simple-stock/internal/repository"
)

// In-memory repository stubs. Devuelven DB() nil para que runTx ejecute el
// closure directamente, sin transacción real.

// ── MovimientoStockRepository ────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movs []*model.MovimientoStock
}

func newStubMovimientoRepo() *stubMovimientoRepo { return &stubMovimientoRepo{} }

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movs = append(r.movs, m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	var result []model.MovimientoStock
	for _, m := range r.movs {
		if filter.ProductoID != nil && m.ProductoID != *filter.ProductoID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		result = append(result, *m)
	}
	return result, int64(len(result)), nil
}

func (r *stubMovimientoRepo) ListByRefTx(_ *gorm.DB, ref model.DocRef) ([]model.MovimientoStock, error) {
	var result []model.MovimientoStock
	for _, m := range r.movs {
		if got := m.Ref(); got != nil && got.Tipo == ref.Tipo && got.ID == ref.ID {
			result = append(result, *m)
		}
	}
	return result, nil
}

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	movs      *stubMovimientoRepo
}

func newStubProductoRepo(movs *stubMovimientoRepo) *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto), movs: movs}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindBySKU(_ context.Context, sku string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var result []model.Producto
	for _, p := range r.productos {
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = true
	return nil
}

func (r *stubProductoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) RecalcularStockTx(_ *gorm.DB, id uuid.UUID) (int, error) {
	p, ok := r.productos[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	total := 0
	for _, m := range r.movs.movs {
		if m.ProductoID == id {
			total += m.Cantidad
		}
	}
	p.StockActual = total
	return total, nil
}

func (r *stubProductoRepo) UpdateCostoTx(_ *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CostoUnitario = costo
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ── PedidoRepository ─────────────────────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
	ultimo  int
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *stubPedidoRepo) CreateTx(_ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PedidoID = p.ID
	}
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPedidoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubPedidoRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string, motivo *string) error {
	p, ok := r.pedidos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Estado = estado
	p.MotivoAnulacion = motivo
	return nil
}

func (r *stubPedidoRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.ultimo++
	return r.ultimo, nil
}

func (r *stubPedidoRepo) List(_ context.Context, _ dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var result []model.Pedido
	for _, p := range r.pedidos {
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubPedidoRepo) SumCuentaCorriente(_ context.Context, clienteID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.pedidos {
		if p.ClienteID == clienteID && p.Tipo == model.PedidoCuentaCorriente && p.Estado == model.PedidoConfirmado {
			total = total.Add(p.Total)
		}
	}
	return total, nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

// ── CompraRepository ─────────────────────────────────────────────────────────

type stubCompraRepo struct {
	compras map[uuid.UUID]*model.Compra
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *stubCompraRepo) CreateTx(_ *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Items {
		if c.Items[i].ID == uuid.Nil {
			c.Items[i].ID = uuid.New()
		}
		c.Items[i].CompraID = c.ID
	}
	r.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCompraRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCompraRepo) UpdateTx(_ *gorm.DB, c *model.Compra) error {
	r.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) List(_ context.Context, _ dto.CompraFilter) ([]model.Compra, int64, error) {
	var result []model.Compra
	for _, c := range r.compras {
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

func (r *stubCompraRepo) ListPendientesVencidas(_ context.Context, proveedorID uuid.UUID, hasta time.Time) ([]model.Compra, error) {
	var result []model.Compra
	for _, c := range r.compras {
		if c.ProveedorID != proveedorID || c.Modo != model.CompraModoSimple || c.Estado != model.CompraPendiente {
			continue
		}
		if c.FechaVencimiento == nil || c.FechaVencimiento.After(hasta) {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (r *stubCompraRepo) ListItemsVigentesTx(_ *gorm.DB, productoID uuid.UUID) ([]model.CompraItem, error) {
	var result []model.CompraItem
	for _, c := range r.compras {
		if c.Modo != model.CompraModoDetallada || c.Estado == model.CompraAnulada {
			continue
		}
		for i := range c.Items {
			if c.Items[i].ProductoID != productoID {
				continue
			}
			item := c.Items[i]
			item.Compra = c
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

// ── NotaCreditoRepository ────────────────────────────────────────────────────

type stubNotaRepo struct {
	notas map[uuid.UUID]*model.NotaCredito
}

func newStubNotaRepo() *stubNotaRepo {
	return &stubNotaRepo{notas: make(map[uuid.UUID]*model.NotaCredito)}
}

func (r *stubNotaRepo) CreateTx(_ *gorm.DB, n *model.NotaCredito) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.notas[n.ID] = n
	return nil
}

func (r *stubNotaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.NotaCredito, error) {
	n, ok := r.notas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (r *stubNotaRepo) UpdateTx(_ *gorm.DB, n *model.NotaCredito) error {
	r.notas[n.ID] = n
	return nil
}

func (r *stubNotaRepo) List(_ context.Context, _ dto.NotaCreditoFilter) ([]model.NotaCredito, int64, error) {
	var result []model.NotaCredito
	for _, n := range r.notas {
		result = append(result, *n)
	}
	return result, int64(len(result)), nil
}

func (r *stubNotaRepo) AplicarPendientesDeCompraTx(_ *gorm.DB, compraID uuid.UUID, fecha time.Time) error {
	for _, n := range r.notas {
		if n.CompraID != nil && *n.CompraID == compraID && n.Estado == model.NotaCreditoPendiente {
			n.Estado = model.NotaCreditoAplicada
			f := fecha
			n.FechaAplicacion = &f
		}
	}
	return nil
}

func (r *stubNotaRepo) AplicarHuerfanasTx(_ *gorm.DB, proveedorID uuid.UUID, fecha time.Time) error {
	for _, n := range r.notas {
		if n.ProveedorID == proveedorID && n.CompraID == nil && n.Estado == model.NotaCreditoPendiente {
			n.Estado = model.NotaCreditoAplicada
			f := fecha
			n.FechaAplicacion = &f
		}
	}
	return nil
}

func (r *stubNotaRepo) DB() *gorm.DB { return nil }

// ── PagoRepository ───────────────────────────────────────────────────────────

type stubPagoRepo struct {
	pagos []*model.Pago
}

func newStubPagoRepo() *stubPagoRepo { return &stubPagoRepo{} }

func (r *stubPagoRepo) CreateTx(_ *gorm.DB, p *model.Pago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos = append(r.pagos, p)
	return nil
}

func (r *stubPagoRepo) List(_ context.Context, _ dto.PagoFilter) ([]model.Pago, int64, error) {
	var result []model.Pago
	for _, p := range r.pagos {
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubPagoRepo) SumByCliente(_ context.Context, clienteID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.pagos {
		if p.ClienteID == clienteID {
			total = total.Add(p.Monto)
		}
	}
	return total, nil
}

func (r *stubPagoRepo) DB() *gorm.DB { return nil }

// ── ClienteRepository ────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context, incluirInactivos bool) ([]model.Cliente, error) {
	var result []model.Cliente
	for _, c := range r.clientes {
		if !incluirInactivos && !c.Activo {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.clientes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Activo = false
	return nil
}

func (r *stubClienteRepo) EnsureMostrador(ctx context.Context) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.Mostrador {
			return c, nil
		}
	}
	m := &model.Cliente{Nombre: model.NombreMostrador, Mostrador: true, Activo: true}
	if err := r.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ── ProveedorRepository ──────────────────────────────────────────────────────

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProveedorRepo) List(_ context.Context, incluirInactivos bool) ([]model.Proveedor, error) {
	var result []model.Proveedor
	for _, p := range r.proveedores {
		if !incluirInactivos && !p.Activo {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.proveedores[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

// ── HistorialCostoRepository ─────────────────────────────────────────────────

type stubHistorialRepo struct {
	registros []*model.HistorialCosto
}

func newStubHistorialRepo() *stubHistorialRepo { return &stubHistorialRepo{} }

func (r *stubHistorialRepo) CreateTx(_ *gorm.DB, h *model.HistorialCosto) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.registros = append(r.registros, h)
	return nil
}

func (r *stubHistorialRepo) ListByProducto(_ context.Context, productoID uuid.UUID, _ int) ([]model.HistorialCosto, error) {
	var result []model.HistorialCosto
	for _, h := range r.registros {
		if h.ProductoID == productoID {
			result = append(result, *h)
		}
	}
	return result, nil
}

// ── Rollback en memoria ──────────────────────────────────────────────────────

// Sin base real no hay rollback: una falla a mitad del closure dejaría las
// escrituras previas en los stores. instalarRollback envuelve runTx para que
// en modo nil-DB capture el estado de cada store antes del closure y lo
// restaure si este falla, igual que la transacción que reemplaza.

type snapshotter interface{ snapshot() func() }

func instalarRollback(t *testing.T, stores ...snapshotter) {
	t.Helper()
	original := runTx
	runTx = func(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
		if db != nil {
			return original(ctx, db, fn)
		}
		restores := make([]func(), 0, len(stores))
		for _, s := range stores {
			restores = append(restores, s.snapshot())
		}
		if err := fn(nil); err != nil {
			for i := len(restores) - 1; i >= 0; i-- {
				restores[i]()
			}
			return err
		}
		return nil
	}
	t.Cleanup(func() { runTx = original })
}

// Los snapshots guardan el valor de cada registro además del set de punteros:
// los servicios mutan a través de los punteros que los tests retienen, así
// que restaurar escribe los valores previos sobre esos mismos punteros.

func (r *stubMovimientoRepo) snapshot() func() {
	prev := make([]*model.MovimientoStock, len(r.movs))
	vals := make([]model.MovimientoStock, len(r.movs))
	for i, m := range r.movs {
		prev[i], vals[i] = m, *m
	}
	return func() {
		for i := range prev {
			*prev[i] = vals[i]
		}
		r.movs = prev
	}
}

func (r *stubProductoRepo) snapshot() func() {
	ptrs := make(map[uuid.UUID]*model.Producto, len(r.productos))
	vals := make(map[uuid.UUID]model.Producto, len(r.productos))
	for id, p := range r.productos {
		ptrs[id], vals[id] = p, *p
	}
	return func() {
		for id, p := range ptrs {
			*p = vals[id]
		}
		r.productos = ptrs
	}
}

func (r *stubPedidoRepo) snapshot() func() {
	ptrs := make(map[uuid.UUID]*model.Pedido, len(r.pedidos))
	vals := make(map[uuid.UUID]model.Pedido, len(r.pedidos))
	for id, p := range r.pedidos {
		ptrs[id], vals[id] = p, *p
	}
	// ultimo no se restaura a propósito: la secuencia de numeración de
	// Postgres tampoco participa del rollback.
	return func() {
		for id, p := range ptrs {
			*p = vals[id]
		}
		r.pedidos = ptrs
	}
}

func (r *stubCompraRepo) snapshot() func() {
	ptrs := make(map[uuid.UUID]*model.Compra, len(r.compras))
	vals := make(map[uuid.UUID]model.Compra, len(r.compras))
	for id, c := range r.compras {
		ptrs[id], vals[id] = c, *c
	}
	return func() {
		for id, c := range ptrs {
			*c = vals[id]
		}
		r.compras = ptrs
	}
}

func (r *stubNotaRepo) snapshot() func() {
	ptrs := make(map[uuid.UUID]*model.NotaCredito, len(r.notas))
	vals := make(map[uuid.UUID]model.NotaCredito, len(r.notas))
	for id, n := range r.notas {
		ptrs[id], vals[id] = n, *n
	}
	return func() {
		for id, n := range ptrs {
			*n = vals[id]
		}
		r.notas = ptrs
	}
}

func (r *stubPagoRepo) snapshot() func() {
	prev := make([]*model.Pago, len(r.pagos))
	vals := make([]model.Pago, len(r.pagos))
	for i, p := range r.pagos {
		prev[i], vals[i] = p, *p
	}
	return func() {
		for i := range prev {
			*prev[i] = vals[i]
		}
		r.pagos = prev
	}
}

func (r *stubHistorialRepo) snapshot() func() {
	prev := make([]*model.HistorialCosto, len(r.registros))
	vals := make([]model.HistorialCosto, len(r.registros))
	for i, h := range r.registros {
		prev[i], vals[i] = h, *h
	}
	return func() {
		for i := range prev {
			*prev[i] = vals[i]
		}
		r.registros = prev
	}
}
