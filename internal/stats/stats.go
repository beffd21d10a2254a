// Package stats computes the derived membership metrics shown on the dashboard.
// All functions are pure and never modify their input.
package stats

import (
	"math"

	"seguimiento/internal/models"
)

// Growth is the absolute change between the first and the last entry.
func Growth(historial []models.HistorialEntry) int {
	if len(historial) < 2 {
		return 0
	}
	return historial[len(historial)-1].Miembros - historial[0].Miembros
}

// GrowthPercent is the growth relative to the first entry, rounded half up.
// A zero baseline has no meaningful percentage and is reported as 0.
func GrowthPercent(historial []models.HistorialEntry) int {
	if len(historial) < 2 {
		return 0
	}
	first := historial[0].Miembros
	if first == 0 {
		return 0
	}
	pct := float64(Growth(historial)) / float64(first) * 100
	return int(math.Floor(pct + 0.5))
}

// MostActiveGroup returns the group with the highest growth percentage.
// Ties keep the first group encountered; nil for an empty slice.
func MostActiveGroup(grupos []models.Grupo) *models.Grupo {
	if len(grupos) == 0 {
		return nil
	}
	best := 0
	bestPct := GrowthPercent(grupos[0].Historial)
	for i := 1; i < len(grupos); i++ {
		if pct := GrowthPercent(grupos[i].Historial); pct > bestPct {
			best, bestPct = i, pct
		}
	}
	g := grupos[best]
	return &g
}

type Summary struct {
	TotalGrupos      int           `json:"totalGrupos"`
	TotalMiembros    int           `json:"totalMiembros"`
	CrecimientoTotal int           `json:"crecimientoTotal"`
	GrupoMasActivo   *models.Grupo `json:"grupoMasActivo"`
}

func Aggregate(grupos []models.Grupo) Summary {
	s := Summary{TotalGrupos: len(grupos)}
	for _, g := range grupos {
		s.TotalMiembros += g.MiembrosActuales
		s.CrecimientoTotal += Growth(g.Historial)
	}
	s.GrupoMasActivo = MostActiveGroup(grupos)
	return s
}

func GroupsByCourse(grupos []models.Grupo, cursoID string) []models.Grupo {
	out := make([]models.Grupo, 0)
	for _, g := range grupos {
		if g.CursoID == cursoID {
			out = append(out, g)
		}
	}
	return out
}

func MembersByCourse(grupos []models.Grupo, cursoID string) int {
	total := 0
	for _, g := range GroupsByCourse(grupos, cursoID) {
		total += g.MiembrosActuales
	}
	return total
}

// GroupMetrics is one row of the groups table.
type GroupMetrics struct {
	Grupo       models.Grupo `json:"grupo"`
	Crecimiento int          `json:"crecimiento"`
	Porcentaje  int          `json:"porcentajeCrecimiento"`
}

func MetricsFor(grupos []models.Grupo) []GroupMetrics {
	out := make([]GroupMetrics, 0, len(grupos))
	for _, g := range grupos {
		out = append(out, GroupMetrics{
			Grupo:       g,
			Crecimiento: Growth(g.Historial),
			Porcentaje:  GrowthPercent(g.Historial),
		})
	}
	return out
}

// CourseTotals is the per-course aggregate of the course list.
type CourseTotals struct {
	Curso         models.Curso `json:"curso"`
	TotalGrupos   int          `json:"totalGrupos"`
	TotalMiembros int          `json:"totalMiembros"`
}

func CourseBreakdown(cursos []models.Curso, grupos []models.Grupo) []CourseTotals {
	out := make([]CourseTotals, 0, len(cursos))
	for _, c := range cursos {
		out = append(out, CourseTotals{
			Curso:         c,
			TotalGrupos:   len(GroupsByCourse(grupos, c.ID)),
			TotalMiembros: MembersByCourse(grupos, c.ID),
		})
	}
	return out
}
