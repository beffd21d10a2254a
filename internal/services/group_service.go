package services

import (
	"context"
	"errors"
	"strings"

	"seguimiento/internal/models"
	"seguimiento/internal/repository"
	"seguimiento/pkg/cache"
)

// GrupoInput is the editable part of a group.
type GrupoInput struct {
	Nombre           string
	CursoID          string
	FechaCreacion    models.Date
	MiembrosActuales int
	Observacion      string
}

// RegistroInput is one membership snapshot as submitted by a client.
type RegistroInput struct {
	Fecha         models.Date
	Miembros      int
	Observaciones string
}

type GrupoService interface {
	ListGrupos(ctx context.Context) ([]models.Grupo, error)
	GetGrupo(ctx context.Context, id string) (*models.Grupo, error)
	CreateGrupo(ctx context.Context, in GrupoInput) (*models.Grupo, error)
	UpdateGrupo(ctx context.Context, id string, in GrupoInput) (*models.Grupo, error)
	DeleteGrupo(ctx context.Context, id string) error
	ReplaceGrupos(ctx context.Context, grupos []models.Grupo) error

	UpdateMiembros(ctx context.Context, id string, in RegistroInput) (*models.Grupo, models.HistorialEntry, error)
	EditRegistro(ctx context.Context, grupoID, registroID string, in RegistroInput) (*models.Grupo, error)
	DeleteRegistro(ctx context.Context, grupoID, registroID string) (*models.Grupo, error)
	// Historial returns the group and its history, newest entry first.
	Historial(ctx context.Context, id string) (*models.Grupo, []models.HistorialEntry, error)
}

type grupoService struct {
	grupos repository.GrupoRepository
	cursos repository.CursoRepository
	cache  *cache.Cache
}

func NewGrupoService(grupos repository.GrupoRepository, cursos repository.CursoRepository, c *cache.Cache) GrupoService {
	return &grupoService{grupos: grupos, cursos: cursos, cache: c}
}

func (s *grupoService) ListGrupos(ctx context.Context) ([]models.Grupo, error) {
	return s.grupos.List(ctx)
}

func (s *grupoService) GetGrupo(ctx context.Context, id string) (*models.Grupo, error) {
	g, err := s.grupos.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrGrupoNotFound)
	}
	return g, nil
}

func (s *grupoService) CreateGrupo(ctx context.Context, in GrupoInput) (*models.Grupo, error) {
	in.Nombre = strings.TrimSpace(in.Nombre)
	if in.Nombre == "" || in.CursoID == "" {
		return nil, ErrCamposRequeridos
	}
	if in.MiembrosActuales < 0 {
		return nil, ErrMiembrosInvalidos
	}
	curso, err := s.cursos.GetByID(ctx, in.CursoID)
	if err != nil {
		return nil, notFound(err, ErrCursoNotFound)
	}
	if in.FechaCreacion.IsZero() {
		in.FechaCreacion = models.Today()
	}

	obs := strings.TrimSpace(in.Observacion)
	if obs == "" {
		obs = models.ObservacionInicio
	}
	g := &models.Grupo{
		Nombre:           in.Nombre,
		CursoID:          curso.ID,
		Curso:            curso.Nombre,
		FechaCreacion:    in.FechaCreacion,
		MiembrosActuales: in.MiembrosActuales,
		Historial: []models.HistorialEntry{
			models.NewHistorialEntry(in.FechaCreacion, in.MiembrosActuales, obs),
		},
	}
	if err := s.grupos.Create(ctx, g); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return g, nil
}

// UpdateGrupo changes name, course and creation date. Membership changes go
// through UpdateMiembros so they are recorded in the history.
func (s *grupoService) UpdateGrupo(ctx context.Context, id string, in GrupoInput) (*models.Grupo, error) {
	g, err := s.GetGrupo(ctx, id)
	if err != nil {
		return nil, err
	}

	if nombre := strings.TrimSpace(in.Nombre); nombre != "" {
		g.Nombre = nombre
	}
	if in.CursoID != "" && in.CursoID != g.CursoID {
		curso, err := s.cursos.GetByID(ctx, in.CursoID)
		if err != nil {
			return nil, notFound(err, ErrCursoNotFound)
		}
		g.CursoID, g.Curso = curso.ID, curso.Nombre
	}
	if !in.FechaCreacion.IsZero() {
		g.FechaCreacion = in.FechaCreacion
	}

	if err := s.grupos.Update(ctx, g); err != nil {
		return nil, notFound(err, ErrGrupoNotFound)
	}
	s.cache.Invalidate(ctx)
	return g, nil
}

func (s *grupoService) DeleteGrupo(ctx context.Context, id string) error {
	if err := s.grupos.Delete(ctx, id); err != nil {
		return notFound(err, ErrGrupoNotFound)
	}
	s.cache.Invalidate(ctx)
	return nil
}

// ReplaceGrupos checks every group against the stored courses and refreshes
// the denormalized course name before the transactional swap.
func (s *grupoService) ReplaceGrupos(ctx context.Context, grupos []models.Grupo) error {
	cursos, err := s.cursos.List(ctx)
	if err != nil {
		return err
	}
	nombres := make(map[string]string, len(cursos))
	for _, c := range cursos {
		nombres[c.ID] = c.Nombre
	}

	ids := make(map[string]bool, len(grupos))
	for i := range grupos {
		g := &grupos[i]
		if g.ID != "" {
			if ids[g.ID] {
				return ErrIDsDuplicados
			}
			ids[g.ID] = true
		}
		g.Nombre = strings.TrimSpace(g.Nombre)
		if g.Nombre == "" || g.CursoID == "" {
			return ErrCamposRequeridos
		}
		nombre, ok := nombres[g.CursoID]
		if !ok {
			return ErrCursoInexistente
		}
		g.Curso = nombre
		if g.FechaCreacion.IsZero() {
			g.FechaCreacion = models.Today()
		}
		for _, e := range g.Historial {
			if e.Miembros < 0 {
				return ErrMiembrosInvalidos
			}
		}
	}

	if err := s.grupos.ReplaceAll(ctx, grupos); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// UpdateMiembros records a new snapshot. The group's member count follows
// whichever entry ends up chronologically last.
func (s *grupoService) UpdateMiembros(ctx context.Context, id string, in RegistroInput) (*models.Grupo, models.HistorialEntry, error) {
	if in.Miembros < 0 {
		return nil, models.HistorialEntry{}, ErrMiembrosInvalidos
	}
	if in.Fecha.IsZero() {
		in.Fecha = models.Today()
	}

	var added models.HistorialEntry
	g, err := s.grupos.Mutate(ctx, id, func(g *models.Grupo) error {
		added = g.AppendRegistro(models.NewHistorialEntry(in.Fecha, in.Miembros, strings.TrimSpace(in.Observaciones)))
		return nil
	})
	if err != nil {
		return nil, models.HistorialEntry{}, s.translate(err)
	}
	s.cache.Invalidate(ctx)
	return g, added, nil
}

func (s *grupoService) EditRegistro(ctx context.Context, grupoID, registroID string, in RegistroInput) (*models.Grupo, error) {
	if in.Miembros < 0 {
		return nil, ErrMiembrosInvalidos
	}

	g, err := s.grupos.Mutate(ctx, grupoID, func(g *models.Grupo) error {
		current, ok := g.Registro(registroID)
		if !ok {
			return models.ErrRegistroNotFound
		}
		current.Miembros = in.Miembros
		current.Observaciones = strings.TrimSpace(in.Observaciones)
		if !in.Fecha.IsZero() {
			current.Fecha = in.Fecha
		}
		return g.EditRegistro(current)
	})
	if err != nil {
		return nil, s.translate(err)
	}
	s.cache.Invalidate(ctx)
	return g, nil
}

func (s *grupoService) DeleteRegistro(ctx context.Context, grupoID, registroID string) (*models.Grupo, error) {
	g, err := s.grupos.Mutate(ctx, grupoID, func(g *models.Grupo) error {
		return g.RemoveRegistro(registroID)
	})
	if err != nil {
		return nil, s.translate(err)
	}
	s.cache.Invalidate(ctx)
	return g, nil
}

func (s *grupoService) Historial(ctx context.Context, id string) (*models.Grupo, []models.HistorialEntry, error) {
	g, err := s.GetGrupo(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	desc := make([]models.HistorialEntry, len(g.Historial))
	for i, e := range g.Historial {
		desc[len(desc)-1-i] = e
	}
	return g, desc, nil
}

func (s *grupoService) translate(err error) error {
	switch {
	case errors.Is(err, models.ErrRegistroNotFound):
		return ErrRegistroNotFound
	case errors.Is(err, models.ErrUltimoRegistro):
		return ErrUltimoRegistro
	}
	return notFound(err, ErrGrupoNotFound)
}
