package services

import (
	"errors"

	"gorm.io/gorm"
)

// Kinds of failure the handlers map to status codes.
var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate")
	ErrValidation = errors.New("validation failed")
)

// Error carries a user-facing message and the kind it belongs to.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

var (
	ErrCursoNotFound     = newError(ErrNotFound, "Curso no encontrado")
	ErrGrupoNotFound     = newError(ErrNotFound, "Grupo no encontrado")
	ErrRegistroNotFound  = newError(ErrNotFound, "Registro no encontrado")
	ErrCursoDuplicado    = newError(ErrDuplicate, "Ya existe un curso con ese nombre")
	ErrNombresDuplicados = newError(ErrDuplicate, "Hay cursos con nombres repetidos")
	ErrIDsDuplicados     = newError(ErrValidation, "Hay elementos repetidos con el mismo id")
	ErrNombreRequerido   = newError(ErrValidation, "El nombre es requerido")
	ErrCamposRequeridos  = newError(ErrValidation, "Faltan campos requeridos")
	ErrMiembrosInvalidos = newError(ErrValidation, "La cantidad de miembros no puede ser negativa")
	ErrUltimoRegistro    = newError(ErrValidation, "El grupo debe conservar al menos un registro")
	ErrCursoInexistente  = newError(ErrValidation, "El grupo referencia un curso inexistente")
)

// notFound turns gorm's missing-row error into the given domain error.
func notFound(err error, domain *Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain
	}
	return err
}
