package model

import "github.com/shopspring/decimal"

// Monedas admitidas en documentos (compras, notas de crédito).
// El tipo de cambio de cada documento se expresa siempre en pesos por dólar.
// Los precios de venta y los totales de cuentas a pagar se manejan en pesos;
// los costos promedio de los productos se normalizan a dólares.
const (
	MonedaPeso  = "ARS"
	MonedaDolar = "USD"
)

// MonedaValida informa si m es una de las monedas admitidas.
func MonedaValida(m string) bool {
	return m == MonedaPeso || m == MonedaDolar
}

// APesos convierte un monto documentado en moneda al total en pesos usando el
// tipo de cambio del documento. Los montos en pesos se devuelven sin cambios.
func APesos(monto decimal.Decimal, moneda string, tipoCambio *decimal.Decimal) decimal.Decimal {
	if moneda == MonedaDolar && tipoCambio != nil {
		return monto.Mul(*tipoCambio)
	}
	return monto
}

// ADolares normaliza un costo unitario a dólares. Un costo cargado en pesos se
// divide por el tipo de cambio de su compra; un costo en dólares pasa directo.
func ADolares(costo decimal.Decimal, moneda string, tipoCambio *decimal.Decimal) decimal.Decimal {
	if moneda == MonedaPeso && tipoCambio != nil && !tipoCambio.IsZero() {
		return costo.Div(*tipoCambio)
	}
	return costo
}
