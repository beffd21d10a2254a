package services

import (
	"context"

	"seguimiento/internal/repository"
	"seguimiento/internal/stats"
	"seguimiento/pkg/cache"
)

// Estadisticas is the payload of the statistics endpoint.
type Estadisticas struct {
	stats.Summary
	Periodo             string               `json:"periodo,omitempty"`
	PeriodoEtiqueta     string               `json:"periodoEtiqueta,omitempty"`
	PeriodosDisponibles []string             `json:"periodosDisponibles"`
	PorCurso            []stats.CourseTotals `json:"porCurso"`
	Grupos              []stats.GroupMetrics `json:"grupos"`
}

type StatsService interface {
	// Estadisticas aggregates every group, or only those created in the
	// period when it is not zero.
	Estadisticas(ctx context.Context, period stats.Period) (*Estadisticas, error)
}

type statsService struct {
	cursos repository.CursoRepository
	grupos repository.GrupoRepository
	cache  *cache.Cache
}

func NewStatsService(cursos repository.CursoRepository, grupos repository.GrupoRepository, c *cache.Cache) StatsService {
	return &statsService{cursos: cursos, grupos: grupos, cache: c}
}

func (s *statsService) Estadisticas(ctx context.Context, period stats.Period) (*Estadisticas, error) {
	key := "all"
	if !period.IsZero() {
		key = period.String()
	}

	gen := s.cache.Generation(ctx)
	var cached Estadisticas
	if s.cache.Get(ctx, gen, key, &cached) {
		return &cached, nil
	}

	cursos, err := s.cursos.List(ctx)
	if err != nil {
		return nil, err
	}
	grupos, err := s.grupos.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &Estadisticas{PeriodosDisponibles: make([]string, 0)}
	for _, p := range stats.AvailablePeriods(cursos) {
		out.PeriodosDisponibles = append(out.PeriodosDisponibles, p.String())
	}

	if !period.IsZero() {
		out.Periodo = period.String()
		out.PeriodoEtiqueta = period.Label()
		cursos = stats.FilterCursosByPeriod(cursos, period)
		grupos = stats.FilterGruposByPeriod(grupos, period)
	}

	out.Summary = stats.Aggregate(grupos)
	out.PorCurso = stats.CourseBreakdown(cursos, grupos)
	out.Grupos = stats.MetricsFor(grupos)

	s.cache.Set(ctx, gen, key, out)
	return out, nil
}

