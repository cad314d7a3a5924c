package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores de dominio. La capa HTTP decide el status code por Kind,
// nunca comparando el texto del mensaje.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error es un error de dominio tipado: Kind + código estable + mensaje para el cliente.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is compara por Kind y Code. Un target sin Code coincide con cualquier error del mismo Kind,
// así errors.Is(err, domain.ErrNotFound) es verdadero para ErrSweetNotFound.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// New crea un error de dominio.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation crea un error de validación con mensaje formateado.
func Validation(code, format string, args ...any) *Error {
	return New(KindValidation, code, fmt.Sprintf(format, args...))
}

// KindOf devuelve el Kind del primer *Error en la cadena, o KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Errores genéricos por tipo (sin Code: sirven como target de errors.Is).
var (
	ErrInvalidInput = &Error{Kind: KindValidation, Message: "entrada inválida"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "recurso no encontrado"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflicto con el estado actual"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "no autorizado"}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "acceso denegado"}
)

// Errores concretos del dominio.
var (
	ErrSweetNotFound      = New(KindNotFound, "SWEET_NOT_FOUND", "dulce no encontrado")
	ErrPurchaseNotFound   = New(KindNotFound, "PURCHASE_NOT_FOUND", "compra no encontrada")
	ErrUserNotFound       = New(KindNotFound, "USER_NOT_FOUND", "usuario no encontrado")
	ErrInvalidID          = New(KindValidation, "INVALID_ID", "id inválido")
	ErrInvalidQuantity    = New(KindValidation, "INVALID_QUANTITY", "la cantidad debe ser al menos 1")
	ErrQuantityTooLarge   = New(KindValidation, "INVALID_QUANTITY", "la cantidad excede el máximo permitido")
	ErrInsufficientStock  = New(KindValidation, "INSUFFICIENT_STOCK", "stock insuficiente")
	ErrDuplicateSweet     = New(KindConflict, "DUPLICATE", "ya existe un dulce con ese nombre")
	ErrEmailAlreadyExists = New(KindConflict, "EMAIL_EXISTS", "el email ya está registrado")
	ErrDuplicateRequest   = New(KindConflict, "DUPLICATE_REQUEST", "la solicitud ya fue procesada o está en curso")
	ErrInvalidCredentials = New(KindUnauthorized, "INVALID_CREDENTIALS", "credenciales inválidas")
)
