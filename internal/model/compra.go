package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hvilloria/simple-stock/internal/outcome"
)

// Modos de una compra.
//
// Una compra "simple" es una factura plana a pagar: número, monto, moneda y
// vencimiento, sin renglones ni efecto sobre el stock. Una compra "detallada"
// deriva su monto de los renglones y genera los ingresos de stock.
const (
	CompraModoSimple    = "simple"
	CompraModoDetallada = "detallada"
)

// Estados de una compra. Las transiciones dependen del modo:
// simple: pendiente → pagada | anulada; detallada: confirmada → anulada.
// "pagada" y "anulada" son terminales.
const (
	CompraPendiente  = "pendiente"
	CompraPagada     = "pagada"
	CompraConfirmada = "confirmada"
	CompraAnulada    = "anulada"
)

// Compra es el agregado dual factura/compra.
type Compra struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProveedorID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Modo          string    `gorm:"type:varchar(12);not null"`
	NumeroFactura *string   `gorm:"type:varchar(40)"`
	// Monto en la moneda del documento. En modo detallada se deriva de los
	// renglones al crearla y no se vuelve a tocar.
	Monto      decimal.Decimal  `gorm:"type:decimal(16,2);not null"`
	Moneda     string           `gorm:"type:varchar(3);not null;default:'ARS'"`
	TipoCambio *decimal.Decimal `gorm:"type:decimal(14,4)"` // pesos por dólar; obligatorio en USD
	FechaCompra      time.Time  `gorm:"not null"`
	FechaVencimiento *time.Time `gorm:"index"`
	// Ventana de pronto pago: pagar hasta FechaProntoPago descuenta
	// DescuentoProntoPago por ciento del monto.
	FechaProntoPago     *time.Time
	DescuentoProntoPago *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Estado              string           `gorm:"type:varchar(20);not null;default:'pendiente'"`
	FechaPago           *time.Time
	DescuentoAplicado   bool `gorm:"not null;default:false"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Proveedor *Proveedor   `gorm:"foreignKey:ProveedorID"`
	Items     []CompraItem `gorm:"foreignKey:CompraID"`
}

// CompraItem es un renglón de una compra detallada.
type CompraItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad      int             `gorm:"not null"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(16,4);not null"` // en la moneda de la compra
	Subtotal      decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Compra   *Compra   `gorm:"foreignKey:CompraID"`
}

// TotalPesos devuelve el total del documento en pesos: los documentos en
// dólares se convierten con su tipo de cambio, los documentos en pesos
// devuelven el monto sin cambios.
func (c *Compra) TotalPesos() decimal.Decimal {
	return APesos(c.Monto, c.Moneda, c.TipoCambio)
}

// DescuentoVigente informa si la ventana de pronto pago sigue abierta a la
// fecha dada.
func (c *Compra) DescuentoVigente(fecha time.Time) bool {
	return c.FechaProntoPago != nil && !fecha.After(*c.FechaProntoPago)
}

// ── Pagable ──────────────────────────────────────────────────────────────────
// Los dos modos comparten el acceso al monto y las guardas de transición a
// través de esta interfaz, con una variante por modo, en lugar de validaciones
// condicionadas por flags.

// Pagable es la vista común de una compra para cobro y anulación.
type Pagable interface {
	TotalPesos() decimal.Decimal
	// PuedeMarcarsePagada devuelve la violación de regla que impide marcar
	// pagada a la fecha dada, o nil si la transición es válida.
	PuedeMarcarsePagada(fechaPago time.Time) error
	// PuedeAnularse devuelve la violación que impide anular, o nil.
	PuedeAnularse() error
}

// Pagable devuelve la variante que corresponde al modo de la compra.
func (c *Compra) Pagable() Pagable {
	if c.Modo == CompraModoSimple {
		return facturaSimple{c}
	}
	return compraDetallada{c}
}

type facturaSimple struct{ c *Compra }

func (f facturaSimple) TotalPesos() decimal.Decimal { return f.c.TotalPesos() }

func (f facturaSimple) PuedeMarcarsePagada(fechaPago time.Time) error {
	switch f.c.Estado {
	case CompraPagada:
		return outcome.Violation("la factura ya está pagada")
	case CompraAnulada:
		return outcome.Violation("la factura está anulada")
	}
	if fechaPago.Before(f.c.FechaCompra) {
		return outcome.Violation("la fecha de pago no puede ser anterior a la fecha de la factura")
	}
	return nil
}

func (f facturaSimple) PuedeAnularse() error {
	switch f.c.Estado {
	case CompraAnulada:
		return outcome.Violation("la factura ya está anulada")
	case CompraPagada:
		return outcome.Violation("no se puede anular una factura pagada")
	}
	return nil
}

type compraDetallada struct{ c *Compra }

func (d compraDetallada) TotalPesos() decimal.Decimal { return d.c.TotalPesos() }

func (d compraDetallada) PuedeMarcarsePagada(time.Time) error {
	return outcome.Violation("solo las facturas simples pueden marcarse pagadas")
}

func (d compraDetallada) PuedeAnularse() error {
	if d.c.Estado == CompraAnulada {
		return outcome.Violation("la compra ya está anulada")
	}
	return nil
}

// OrdenarPorPrioridad ordena compras in place para display de cuentas a
// pagar, con orden estable de tres claves: pendientes antes que cualquier
// otro estado, documentos sin vencimiento después de los que lo tienen, y
// vencimiento ascendente.
func OrdenarPorPrioridad(compras []Compra) {
	sort.SliceStable(compras, func(i, j int) bool {
		pi := compras[i].Estado == CompraPendiente
		pj := compras[j].Estado == CompraPendiente
		if pi != pj {
			return pi
		}
		vi, vj := compras[i].FechaVencimiento, compras[j].FechaVencimiento
		if (vi == nil) != (vj == nil) {
			return vj == nil
		}
		if vi == nil {
			return false
		}
		return vi.Before(*vj)
	})
}
