package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
)

type notaFixture struct {
	notas       *stubNotaRepo
	compras     *stubCompraRepo
	proveedores *stubProveedorRepo
	svc         NotaCreditoService
}

func nuevoNotaFixture(t *testing.T) *notaFixture {
	t.Helper()
	notas := newStubNotaRepo()
	compras := newStubCompraRepo()
	proveedores := newStubProveedorRepo()
	instalarRollback(t, notas, compras)
	return &notaFixture{
		notas:       notas,
		compras:     compras,
		proveedores: proveedores,
		svc:         NewNotaCreditoService(notas, compras, proveedores),
	}
}

func facturaParaNota(t *testing.T, f *notaFixture, proveedor *model.Proveedor) *model.Compra {
	t.Helper()
	numero := "A-0001-00009999"
	c := &model.Compra{
		ProveedorID:   proveedor.ID,
		Modo:          model.CompraModoSimple,
		NumeroFactura: &numero,
		Monto:         decimal.NewFromInt(300),
		Moneda:        model.MonedaDolar,
		TipoCambio:    tcPtr("1100"),
		Estado:        model.CompraPendiente,
	}
	require.NoError(t, f.compras.CreateTx(nil, c))
	return c
}

func TestCrearNotaLigadaHeredaDeLaFactura(t *testing.T) {
	f := nuevoNotaFixture(t)
	proveedor := proveedorDePrueba(t, f.proveedores)
	compra := facturaParaNota(t, f, proveedor)
	cid := compra.ID.String()

	o := f.svc.Crear(context.Background(), dto.CrearNotaCreditoRequest{CompraID: &cid})

	require.True(t, o.Succeeded, "errores: %v", o.Errors)
	assert.Equal(t, model.NotaCreditoPendiente, o.Value.Estado)
	assert.Equal(t, proveedor.ID.String(), o.Value.ProveedorID)
	assert.True(t, o.Value.Monto.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, model.MonedaDolar, o.Value.Moneda)
	// 300 USD × 1100 = 330000 pesos.
	assert.True(t, o.Value.TotalPesos.Equal(decimal.NewFromInt(330000)), "total = %s", o.Value.TotalPesos)
}

func TestCrearNotaLigadaConMontoExplicito(t *testing.T) {
	f := nuevoNotaFixture(t)
	proveedor := proveedorDePrueba(t, f.proveedores)
	compra := facturaParaNota(t, f, proveedor)
	cid := compra.ID.String()
	monto := decimal.NewFromInt(120)

	o := f.svc.Crear(context.Background(), dto.CrearNotaCreditoRequest{CompraID: &cid, Monto: &monto})

	require.True(t, o.Succeeded)
	assert.True(t, o.Value.Monto.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, model.MonedaDolar, o.Value.Moneda)
}

func TestCrearNotaSobreCompraAnuladaFalla(t *testing.T) {
	f := nuevoNotaFixture(t)
	proveedor := proveedorDePrueba(t, f.proveedores)
	compra := facturaParaNota(t, f, proveedor)
	compra.Estado = model.CompraAnulada
	cid := compra.ID.String()

	o := f.svc.Crear(context.Background(), dto.CrearNotaCreditoRequest{CompraID: &cid})

	require.False(t, o.Succeeded)
	assert.Contains(t, o.Errors[0], "compra anulada")
}

func TestCrearNotaHuerfanaRequiereProveedorYMonto(t *testing.T) {
	f := nuevoNotaFixture(t)
	proveedor := proveedorDePrueba(t, f.proveedores)
	pid := proveedor.ID.String()

	sinProveedor := f.svc.Crear(context.Background(), dto.CrearNotaCreditoRequest{})
	require.False(t, sinProveedor.Succeeded)
	assert.Contains(t, sinProveedor.Errors[0], "requiere proveedor")

	sinMonto := f.svc.Crear(context.Background(), dto.CrearNotaCreditoRequest{ProveedorID: &pid})
	require.False(t, sinMonto.Succeeded)
	assert.Contains(t, sinMonto.Errors[0], "requiere monto")
}

func TestCrearNotaHuerfanaEnPesosPorDefecto(t *testing.T) {
	f := nuevoNotaFixture(t)
	proveedor := proveedorDePrueba(t, f.proveedores)
	pid := proveedor.ID.String()
	monto := decimal.NewFromInt(5000)

	o := f.svc.Crear(context.Background(), dto.CrearNotaCreditoRequest{ProveedorID: &pid, Monto: &monto})

	require.True(t, o.Succeeded, "errores: %v", o.Errors)
	assert.Equal(t, model.MonedaPeso, o.Value.Moneda)
	assert.True(t, o.Value.TotalPesos.Equal(decimal.NewFromInt(5000)))
	assert.Nil(t, o.Value.CompraID)
}

func TestCrearNotaEnDolaresSinTipoDeCambioFalla(t *testing.T) {
	f := nuevoNotaFixture(t)
	proveedor := proveedorDePrueba(t, f.proveedores)
	pid := proveedor.ID.String()
	monto := decimal.NewFromInt(100)
	usd := model.MonedaDolar

	o := f.svc.Crear(context.Background(), dto.CrearNotaCreditoRequest{
		ProveedorID: &pid,
		Monto:       &monto,
		Moneda:      &usd,
	})

	require.False(t, o.Succeeded)
	assert.Contains(t, o.Errors[0], "tipo de cambio")
}

func TestAplicarNotaEsTerminal(t *testing.T) {
	f := nuevoNotaFixture(t)
	proveedor := proveedorDePrueba(t, f.proveedores)
	pid := proveedor.ID.String()
	monto := decimal.NewFromInt(100)

	o := f.svc.Crear(context.Background(), dto.CrearNotaCreditoRequest{ProveedorID: &pid, Monto: &monto})
	require.True(t, o.Succeeded)
	id := uuid.MustParse(o.Value.ID)

	aplicada := f.svc.Aplicar(context.Background(), id, dto.AplicarNotaCreditoRequest{Fecha: "2026-08-20"})
	require.True(t, aplicada.Succeeded)
	assert.Equal(t, model.NotaCreditoAplicada, aplicada.Value.Estado)

	otraVez := f.svc.Aplicar(context.Background(), id, dto.AplicarNotaCreditoRequest{})
	require.False(t, otraVez.Succeeded)
	assert.Contains(t, otraVez.Errors[0], "ya está aplicada")

	anulada := f.svc.Anular(context.Background(), id)
	require.False(t, anulada.Succeeded)
	assert.Contains(t, anulada.Errors[0], "ya está aplicada")
}

func TestAnularNotaPendiente(t *testing.T) {
	f := nuevoNotaFixture(t)
	proveedor := proveedorDePrueba(t, f.proveedores)
	pid := proveedor.ID.String()
	monto := decimal.NewFromInt(100)

	o := f.svc.Crear(context.Background(), dto.CrearNotaCreditoRequest{ProveedorID: &pid, Monto: &monto})
	require.True(t, o.Succeeded)
	id := uuid.MustParse(o.Value.ID)

	anulada := f.svc.Anular(context.Background(), id)
	require.True(t, anulada.Succeeded)
	assert.Equal(t, model.NotaCreditoAnulada, anulada.Value.Estado)

	aplicar := f.svc.Aplicar(context.Background(), id, dto.AplicarNotaCreditoRequest{})
	require.False(t, aplicar.Succeeded)
	assert.Contains(t, aplicar.Errors[0], "está anulada")
}
