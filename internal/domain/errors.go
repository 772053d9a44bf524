package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Todos son errores de negocio recuperables por el llamador; cualquier otro error
// que llegue a la capa HTTP proviene de la persistencia y es seguro reintentarlo.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("el rol no permite esta operación")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInvalidQuantity    = errors.New("cantidad fuera del rango permitido")
	ErrInvalidTransition  = errors.New("transición no permitida desde el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrAlreadyIssued      = errors.New("la solicitud ya fue entregada")
)

var businessErrors = []error{
	ErrNotFound,
	ErrInvalidInput,
	ErrDuplicate,
	ErrUnauthorized,
	ErrInvalidCredentials,
	ErrInvalidQuantity,
	ErrInvalidTransition,
	ErrInsufficientStock,
	ErrAlreadyIssued,
}

// IsBusinessError indica si err (o alguno de los errores que envuelve) es un error de negocio.
func IsBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
