// Package outcome define el resultado uniforme que devuelven todas las
// operaciones de orquestación. Un Outcome es un valor, nunca un panic: las
// violaciones de reglas de negocio viajan como mensajes legibles y los errores
// de infraestructura se loguean con detalle y se reducen a un mensaje genérico
// para no filtrar internals al cliente.
package outcome

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// MsgErrorInterno es el único mensaje que ve el cliente ante fallas
// inesperadas de persistencia o infraestructura.
const MsgErrorInterno = "Ocurrió un error inesperado. Intente nuevamente."

// Outcome es el contrato de tres campos compartido por todos los
// orquestadores: {succeeded, value, errors}.
type Outcome[T any] struct {
	Succeeded bool     `json:"succeeded"`
	Value     T        `json:"value,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// Ok construye un Outcome exitoso con el valor dado.
func Ok[T any](value T) Outcome[T] {
	return Outcome[T]{Succeeded: true, Value: value}
}

// Fail construye un Outcome fallido con uno o más mensajes.
func Fail[T any](msgs ...string) Outcome[T] {
	return Outcome[T]{Succeeded: false, Errors: msgs}
}

// Failf construye un Outcome fallido con un mensaje formateado.
func Failf[T any](format string, args ...any) Outcome[T] {
	return Fail[T](fmt.Sprintf(format, args...))
}

// RuleViolation es una violación esperada de una regla de negocio
// (stock insuficiente, doble anulación, moneda inválida, etc.).
// Atraviesa los helpers internos como error y solo el orquestador más
// externo la convierte en un Outcome fallido.
type RuleViolation struct {
	Message string
}

func (e *RuleViolation) Error() string { return e.Message }

// Violation crea una RuleViolation con mensaje formateado.
func Violation(format string, args ...any) error {
	return &RuleViolation{Message: fmt.Sprintf(format, args...)}
}

// IsViolation informa si err es (o envuelve) una RuleViolation.
func IsViolation(err error) bool {
	var rv *RuleViolation
	return errors.As(err, &rv)
}

// Resolve convierte el error final de una orquestación en un Outcome fallido.
// Las RuleViolation conservan su mensaje; cualquier otro error se loguea con
// detalle del lado del servidor y se reduce a MsgErrorInterno.
func Resolve[T any](op string, err error) Outcome[T] {
	var rv *RuleViolation
	if errors.As(err, &rv) {
		return Fail[T](rv.Message)
	}
	log.Error().Str("operacion", op).Err(err).Msg("operación fallida")
	return Fail[T](MsgErrorInterno)
}
