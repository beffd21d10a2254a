// Package dashboard holds the in-memory courses/groups snapshot edited by the
// terminal dashboard and the rules every edit must respect.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"seguimiento/internal/models"
	"seguimiento/pkg/storage"
)

const (
	KeyCursos = "cursos"
	KeyGrupos = "grupos"
)

var (
	ErrCursoNotFound  = errors.New("curso not found")
	ErrGrupoNotFound  = errors.New("grupo not found")
	ErrDuplicateCurso = errors.New("ya existe un curso con ese nombre")
	ErrNombreRequired = errors.New("el nombre es requerido")
)

type State struct {
	Cursos []models.Curso
	Grupos []models.Grupo
}

// Load reads both collections. Missing keys start from the sample data.
func Load(ctx context.Context, store storage.Store) (*State, error) {
	seed := Seed()
	s := &State{}

	found, err := store.Load(ctx, KeyCursos, &s.Cursos)
	if err != nil {
		return nil, fmt.Errorf("loading cursos: %w", err)
	}
	if !found {
		s.Cursos = seed.Cursos
	}

	found, err = store.Load(ctx, KeyGrupos, &s.Grupos)
	if err != nil {
		return nil, fmt.Errorf("loading grupos: %w", err)
	}
	if !found {
		s.Grupos = seed.Grupos
	}

	for i := range s.Grupos {
		s.Grupos[i].Normalize()
	}
	return s, nil
}

func (s *State) Save(ctx context.Context, store storage.Store) error {
	if err := store.Save(ctx, KeyCursos, s.Cursos); err != nil {
		return fmt.Errorf("saving cursos: %w", err)
	}
	if err := store.Save(ctx, KeyGrupos, s.Grupos); err != nil {
		return fmt.Errorf("saving grupos: %w", err)
	}
	return nil
}

func (s *State) Curso(id string) (*models.Curso, bool) {
	for i := range s.Cursos {
		if s.Cursos[i].ID == id {
			return &s.Cursos[i], true
		}
	}
	return nil, false
}

func (s *State) Grupo(id string) (*models.Grupo, bool) {
	for i := range s.Grupos {
		if s.Grupos[i].ID == id {
			return &s.Grupos[i], true
		}
	}
	return nil, false
}

func (s *State) nameTaken(nombre, exceptID string) bool {
	for _, c := range s.Cursos {
		if c.ID != exceptID && strings.EqualFold(c.Nombre, nombre) {
			return true
		}
	}
	return false
}

func (s *State) AddCurso(nombre string, fecha models.Date) (models.Curso, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return models.Curso{}, ErrNombreRequired
	}
	if s.nameTaken(nombre, "") {
		return models.Curso{}, ErrDuplicateCurso
	}
	if fecha.IsZero() {
		fecha = models.Today()
	}
	c := models.Curso{ID: uuid.NewString(), Nombre: nombre, FechaCreacion: fecha}
	s.Cursos = append(s.Cursos, c)
	return c, nil
}

// UpdateCurso replaces a course and rewrites the course name cached on its groups.
func (s *State) UpdateCurso(updated models.Curso) error {
	updated.Nombre = strings.TrimSpace(updated.Nombre)
	if updated.Nombre == "" {
		return ErrNombreRequired
	}
	c, ok := s.Curso(updated.ID)
	if !ok {
		return ErrCursoNotFound
	}
	if s.nameTaken(updated.Nombre, updated.ID) {
		return ErrDuplicateCurso
	}
	*c = updated
	s.syncCursoNombre(updated.ID, updated.Nombre)
	return nil
}

func (s *State) syncCursoNombre(cursoID, nombre string) {
	for i := range s.Grupos {
		if s.Grupos[i].CursoID == cursoID {
			s.Grupos[i].Curso = nombre
		}
	}
}

// DeleteCurso removes the course together with its groups and their history.
func (s *State) DeleteCurso(id string) error {
	if _, ok := s.Curso(id); !ok {
		return ErrCursoNotFound
	}
	cursos := s.Cursos[:0]
	for _, c := range s.Cursos {
		if c.ID != id {
			cursos = append(cursos, c)
		}
	}
	s.Cursos = cursos

	grupos := s.Grupos[:0]
	for _, g := range s.Grupos {
		if g.CursoID != id {
			grupos = append(grupos, g)
		}
	}
	s.Grupos = grupos
	return nil
}

func (s *State) AddGrupo(nombre, cursoID string, fecha models.Date, miembros int, observacion string) (models.Grupo, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return models.Grupo{}, ErrNombreRequired
	}
	c, ok := s.Curso(cursoID)
	if !ok {
		return models.Grupo{}, ErrCursoNotFound
	}
	if fecha.IsZero() {
		fecha = models.Today()
	}
	if observacion == "" {
		observacion = models.ObservacionInicio
	}
	g := models.Grupo{
		ID:               uuid.NewString(),
		Nombre:           nombre,
		CursoID:          c.ID,
		Curso:            c.Nombre,
		FechaCreacion:    fecha,
		MiembrosActuales: miembros,
		Historial:        []models.HistorialEntry{models.NewHistorialEntry(fecha, miembros, observacion)},
	}
	g.Normalize()
	s.Grupos = append(s.Grupos, g)
	return g, nil
}

// UpdateGrupo replaces name, course and creation date; the history is kept.
func (s *State) UpdateGrupo(updated models.Grupo) error {
	g, ok := s.Grupo(updated.ID)
	if !ok {
		return ErrGrupoNotFound
	}
	if strings.TrimSpace(updated.Nombre) == "" {
		return ErrNombreRequired
	}
	c, ok := s.Curso(updated.CursoID)
	if !ok {
		return ErrCursoNotFound
	}
	g.Nombre = strings.TrimSpace(updated.Nombre)
	g.CursoID = c.ID
	g.Curso = c.Nombre
	if !updated.FechaCreacion.IsZero() {
		g.FechaCreacion = updated.FechaCreacion
	}
	return nil
}

func (s *State) DeleteGrupo(id string) error {
	if _, ok := s.Grupo(id); !ok {
		return ErrGrupoNotFound
	}
	grupos := s.Grupos[:0]
	for _, g := range s.Grupos {
		if g.ID != id {
			grupos = append(grupos, g)
		}
	}
	s.Grupos = grupos
	return nil
}

func (s *State) AddRegistro(grupoID string, e models.HistorialEntry) (models.HistorialEntry, error) {
	g, ok := s.Grupo(grupoID)
	if !ok {
		return models.HistorialEntry{}, ErrGrupoNotFound
	}
	if e.Fecha.IsZero() {
		e.Fecha = models.Today()
	}
	return g.AppendRegistro(e), nil
}

func (s *State) EditRegistro(grupoID string, e models.HistorialEntry) error {
	g, ok := s.Grupo(grupoID)
	if !ok {
		return ErrGrupoNotFound
	}
	return g.EditRegistro(e)
}
