package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"seguimiento/internal/models"
	"seguimiento/internal/repository"
	"seguimiento/internal/stats"
	"seguimiento/pkg/cache"
)

type CursoService interface {
	ListCursos(ctx context.Context) ([]models.Curso, error)
	GetCurso(ctx context.Context, id string) (*models.Curso, error)
	// CreateCurso returns the existing course along with ErrCursoDuplicado
	// when the name is already taken.
	CreateCurso(ctx context.Context, nombre string, fecha models.Date) (*models.Curso, error)
	UpdateCurso(ctx context.Context, id, nombre string, fecha models.Date) (*models.Curso, error)
	DeleteCurso(ctx context.Context, id string) error
	ReplaceCursos(ctx context.Context, cursos []models.Curso) error
	GruposDeCurso(ctx context.Context, id string) ([]models.Grupo, int, error)
}

type cursoService struct {
	cursos repository.CursoRepository
	grupos repository.GrupoRepository
	cache  *cache.Cache
}

func NewCursoService(cursos repository.CursoRepository, grupos repository.GrupoRepository, c *cache.Cache) CursoService {
	return &cursoService{cursos: cursos, grupos: grupos, cache: c}
}

func (s *cursoService) ListCursos(ctx context.Context) ([]models.Curso, error) {
	return s.cursos.List(ctx)
}

func (s *cursoService) GetCurso(ctx context.Context, id string) (*models.Curso, error) {
	c, err := s.cursos.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCursoNotFound)
	}
	return c, nil
}

func (s *cursoService) CreateCurso(ctx context.Context, nombre string, fecha models.Date) (*models.Curso, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, ErrNombreRequerido
	}

	existing, err := s.cursos.FindByNombre(ctx, nombre)
	switch {
	case err == nil:
		return existing, ErrCursoDuplicado
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if fecha.IsZero() {
		fecha = models.Today()
	}
	c := &models.Curso{Nombre: nombre, FechaCreacion: fecha}
	if err := s.cursos.Create(ctx, c); err != nil {
		return s.takenBy(ctx, nombre, "", err)
	}
	s.cache.Invalidate(ctx)
	return c, nil
}

func (s *cursoService) UpdateCurso(ctx context.Context, id, nombre string, fecha models.Date) (*models.Curso, error) {
	c, err := s.GetCurso(ctx, id)
	if err != nil {
		return nil, err
	}

	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, ErrNombreRequerido
	}
	existing, err := s.cursos.FindByNombre(ctx, nombre)
	switch {
	case err == nil && existing.ID != id:
		return existing, ErrCursoDuplicado
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	c.Nombre = nombre
	if !fecha.IsZero() {
		c.FechaCreacion = fecha
	}
	if err := s.cursos.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCursoNotFound
		}
		return s.takenBy(ctx, nombre, id, err)
	}
	s.cache.Invalidate(ctx)
	return c, nil
}

func (s *cursoService) DeleteCurso(ctx context.Context, id string) error {
	if err := s.cursos.Delete(ctx, id); err != nil {
		return notFound(err, ErrCursoNotFound)
	}
	s.cache.Invalidate(ctx)
	return nil
}

// ReplaceCursos validates the whole batch before handing it to the
// repository, which applies it in one transaction.
func (s *cursoService) ReplaceCursos(ctx context.Context, cursos []models.Curso) error {
	seen := make(map[string]bool, len(cursos))
	ids := make(map[string]bool, len(cursos))
	for i := range cursos {
		if id := cursos[i].ID; id != "" {
			if ids[id] {
				return ErrIDsDuplicados
			}
			ids[id] = true
		}
		cursos[i].Nombre = strings.TrimSpace(cursos[i].Nombre)
		if cursos[i].Nombre == "" {
			return ErrNombreRequerido
		}
		key := strings.ToLower(cursos[i].Nombre)
		if seen[key] {
			return ErrNombresDuplicados
		}
		seen[key] = true
		if cursos[i].FechaCreacion.IsZero() {
			cursos[i].FechaCreacion = models.Today()
		}
	}

	if err := s.cursos.ReplaceAll(ctx, cursos); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrNombresDuplicados
		}
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// takenBy resolves a failed write: when another course holds nombre, the
// write lost a race against it and the caller gets ErrCursoDuplicado.
func (s *cursoService) takenBy(ctx context.Context, nombre, self string, err error) (*models.Curso, error) {
	existing, findErr := s.cursos.FindByNombre(ctx, nombre)
	if findErr == nil && existing.ID != self {
		return existing, ErrCursoDuplicado
	}
	return nil, err
}

// GruposDeCurso lists the groups of one course with their member total.
func (s *cursoService) GruposDeCurso(ctx context.Context, id string) ([]models.Grupo, int, error) {
	if _, err := s.GetCurso(ctx, id); err != nil {
		return nil, 0, err
	}
	grupos, err := s.grupos.ListByCurso(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return grupos, stats.MembersByCourse(grupos, id), nil
}
