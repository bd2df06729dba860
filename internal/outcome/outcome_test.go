package outcome

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOkYFail(t *testing.T) {
	ok := Ok(42)
	assert.True(t, ok.Succeeded)
	assert.Equal(t, 42, ok.Value)
	assert.Empty(t, ok.Errors)

	fail := Failf[int]("stock insuficiente de %s", "Filtro")
	assert.False(t, fail.Succeeded)
	require.Len(t, fail.Errors, 1)
	assert.Equal(t, "stock insuficiente de Filtro", fail.Errors[0])
}

func TestResolveConservaLasViolaciones(t *testing.T) {
	err := Violation("el pedido #%d ya está anulado", 7)
	o := Resolve[string]("anular_pedido", err)

	assert.False(t, o.Succeeded)
	require.Len(t, o.Errors, 1)
	assert.Equal(t, "el pedido #7 ya está anulado", o.Errors[0])
}

func TestResolveConservaViolacionesEnvueltas(t *testing.T) {
	err := fmt.Errorf("procesando renglón 2: %w", Violation("moneda inválida: %s", "EUR"))
	o := Resolve[string]("crear_compra", err)

	assert.False(t, o.Succeeded)
	require.Len(t, o.Errors, 1)
	assert.Contains(t, o.Errors[0], "moneda inválida: EUR")
}

func TestResolveOcultaErroresDeInfraestructura(t *testing.T) {
	o := Resolve[string]("crear_pedido", errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.False(t, o.Succeeded)
	require.Len(t, o.Errors, 1)
	assert.Equal(t, MsgErrorInterno, o.Errors[0])
}

func TestIsViolation(t *testing.T) {
	assert.True(t, IsViolation(Violation("x")))
	assert.True(t, IsViolation(fmt.Errorf("wrap: %w", Violation("x"))))
	assert.False(t, IsViolation(errors.New("x")))
	assert.False(t, IsViolation(nil))
}
