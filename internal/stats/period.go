package stats

import (
	"fmt"
	"sort"
	"time"

	"seguimiento/internal/models"
)

// Period is a calendar month used to filter the dashboard by creation date.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func (p Period) String() string { return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month)) }

func (p Period) IsZero() bool { return p.Year == 0 && p.Month == 0 }

func (p Period) Contains(d models.Date) bool {
	return !d.IsZero() && d.Year() == p.Year && d.Month() == p.Month
}

var mesesES = [...]string{"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}

// Label renders the period the way the dashboard header shows it, e.g. "Mayo de 2024".
func (p Period) Label() string {
	if p.Month < time.January || p.Month > time.December {
		return p.String()
	}
	return fmt.Sprintf("%s de %d", mesesES[p.Month-1], p.Year)
}

// ParsePeriod accepts "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q", s)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

func PeriodOf(d models.Date) Period { return Period{Year: d.Year(), Month: d.Month()} }

// AvailablePeriods lists the distinct creation months of the courses, most recent first.
func AvailablePeriods(cursos []models.Curso) []Period {
	seen := make(map[Period]struct{})
	out := make([]Period, 0)
	for _, c := range cursos {
		if c.FechaCreacion.IsZero() {
			continue
		}
		p := PeriodOf(c.FechaCreacion)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() > out[j].String() })
	return out
}

// DefaultPeriod is the most recent course month, or the month of now when there are no courses.
func DefaultPeriod(cursos []models.Curso, now time.Time) Period {
	if ps := AvailablePeriods(cursos); len(ps) > 0 {
		return ps[0]
	}
	return Period{Year: now.Year(), Month: now.Month()}
}

func FilterGruposByPeriod(grupos []models.Grupo, p Period) []models.Grupo {
	out := make([]models.Grupo, 0)
	for _, g := range grupos {
		if p.Contains(g.FechaCreacion) {
			out = append(out, g)
		}
	}
	return out
}

func FilterCursosByPeriod(cursos []models.Curso, p Period) []models.Curso {
	out := make([]models.Curso, 0)
	for _, c := range cursos {
		if p.Contains(c.FechaCreacion) {
			out = append(out, c)
		}
	}
	return out
}
