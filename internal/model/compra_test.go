package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fechaPtr(t *testing.T, s string) *time.Time {
	t.Helper()
	v, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return &v
}

func TestTotalPesos(t *testing.T) {
	tc := decimal.NewFromInt(1200)

	enPesos := &Compra{Monto: decimal.NewFromInt(150000), Moneda: MonedaPeso}
	assert.True(t, enPesos.TotalPesos().Equal(decimal.NewFromInt(150000)))

	enDolares := &Compra{Monto: decimal.NewFromInt(2400), Moneda: MonedaDolar, TipoCambio: &tc}
	assert.True(t, enDolares.TotalPesos().Equal(decimal.NewFromInt(2880000)))
}

func TestAPesosYADolares(t *testing.T) {
	tc := decimal.NewFromInt(1000)

	assert.True(t, APesos(decimal.NewFromInt(10), MonedaDolar, &tc).Equal(decimal.NewFromInt(10000)))
	assert.True(t, APesos(decimal.NewFromInt(10), MonedaPeso, &tc).Equal(decimal.NewFromInt(10)))
	// Sin tipo de cambio el monto pasa sin conversión.
	assert.True(t, APesos(decimal.NewFromInt(10), MonedaDolar, nil).Equal(decimal.NewFromInt(10)))

	assert.True(t, ADolares(decimal.NewFromInt(5000), MonedaPeso, &tc).Equal(decimal.NewFromInt(5)))
	assert.True(t, ADolares(decimal.NewFromInt(5), MonedaDolar, &tc).Equal(decimal.NewFromInt(5)))
}

func TestDescuentoVigente(t *testing.T) {
	c := &Compra{FechaProntoPago: fechaPtr(t, "2026-08-11")}

	assert.True(t, c.DescuentoVigente(*fechaPtr(t, "2026-08-10")))
	assert.True(t, c.DescuentoVigente(*fechaPtr(t, "2026-08-11")))
	assert.False(t, c.DescuentoVigente(*fechaPtr(t, "2026-08-12")))

	sinVentana := &Compra{}
	assert.False(t, sinVentana.DescuentoVigente(*fechaPtr(t, "2026-08-10")))
}

func TestPagableFacturaSimple(t *testing.T) {
	c := &Compra{
		Modo:        CompraModoSimple,
		Estado:      CompraPendiente,
		FechaCompra: *fechaPtr(t, "2026-08-01"),
	}

	assert.NoError(t, c.Pagable().PuedeMarcarsePagada(*fechaPtr(t, "2026-08-15")))
	assert.Error(t, c.Pagable().PuedeMarcarsePagada(*fechaPtr(t, "2026-07-15")))

	c.Estado = CompraPagada
	assert.Error(t, c.Pagable().PuedeMarcarsePagada(*fechaPtr(t, "2026-08-15")))
	assert.Error(t, c.Pagable().PuedeAnularse())

	c.Estado = CompraAnulada
	assert.Error(t, c.Pagable().PuedeMarcarsePagada(*fechaPtr(t, "2026-08-15")))
	assert.Error(t, c.Pagable().PuedeAnularse())
}

func TestPagableCompraDetallada(t *testing.T) {
	c := &Compra{Modo: CompraModoDetallada, Estado: CompraConfirmada}

	assert.Error(t, c.Pagable().PuedeMarcarsePagada(time.Now()))
	assert.NoError(t, c.Pagable().PuedeAnularse())

	c.Estado = CompraAnulada
	assert.Error(t, c.Pagable().PuedeAnularse())
}

func TestOrdenarPorPrioridad(t *testing.T) {
	compras := []Compra{
		{Estado: CompraPagada, FechaVencimiento: fechaPtr(t, "2026-01-01")},
		{Estado: CompraPendiente},
		{Estado: CompraPendiente, FechaVencimiento: fechaPtr(t, "2026-03-01")},
		{Estado: CompraPendiente, FechaVencimiento: fechaPtr(t, "2026-02-01")},
	}

	OrdenarPorPrioridad(compras)

	assert.Equal(t, CompraPendiente, compras[0].Estado)
	assert.Equal(t, "2026-02-01", compras[0].FechaVencimiento.Format("2006-01-02"))
	assert.Equal(t, "2026-03-01", compras[1].FechaVencimiento.Format("2006-01-02"))
	assert.Nil(t, compras[2].FechaVencimiento)
	assert.Equal(t, CompraPagada, compras[3].Estado)
}

func TestMovimientoStockRef(t *testing.T) {
	m := &MovimientoStock{}
	assert.Nil(t, m.Ref())

	ref := PedidoRef(uuid.New())
	m.SetRef(ref)
	require.NotNil(t, m.Ref())
	assert.Equal(t, RefPedido, m.Ref().Tipo)
	assert.Equal(t, ref.ID, m.Ref().ID)

	m.SetRef(nil)
	assert.Nil(t, m.Ref())
}
