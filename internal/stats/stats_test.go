package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seguimiento/internal/models"
)

func hist(counts ...int) []models.HistorialEntry {
	out := make([]models.HistorialEntry, 0, len(counts))
	for i, c := range counts {
		out = append(out, models.HistorialEntry{
			Fecha:    models.NewDate(2024, time.Month(i+1), 1),
			Miembros: c,
		})
	}
	return out
}

func TestGrowth(t *testing.T) {
	t.Run("two entries", func(t *testing.T) {
		assert.Equal(t, 5, Growth(hist(10, 15)))
		assert.Equal(t, 50, GrowthPercent(hist(10, 15)))
	})

	t.Run("uses first and last only", func(t *testing.T) {
		h := hist(15, 18, 22, 25, 28)
		assert.Equal(t, 13, Growth(h))
		assert.Equal(t, 87, GrowthPercent(h))
	})

	t.Run("short histories", func(t *testing.T) {
		assert.Equal(t, 0, Growth(nil))
		assert.Equal(t, 0, Growth(hist(10)))
		assert.Equal(t, 0, GrowthPercent(nil))
		assert.Equal(t, 0, GrowthPercent(hist(10)))
	})

	t.Run("negative growth", func(t *testing.T) {
		assert.Equal(t, -4, Growth(hist(20, 16)))
		assert.Equal(t, -20, GrowthPercent(hist(20, 16)))
	})

	t.Run("rounds half up", func(t *testing.T) {
		// 1/8 = 12.5% and -1/8 = -12.5%
		assert.Equal(t, 13, GrowthPercent(hist(8, 9)))
		assert.Equal(t, -12, GrowthPercent(hist(8, 7)))
	})

	t.Run("zero baseline", func(t *testing.T) {
		assert.Equal(t, 7, Growth(hist(0, 7)))
		assert.Equal(t, 0, GrowthPercent(hist(0, 7)))
	})
}

func TestMostActiveGroup(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, MostActiveGroup(nil))
		assert.Nil(t, MostActiveGroup([]models.Grupo{}))
	})

	t.Run("single group is returned even without growth", func(t *testing.T) {
		g := models.Grupo{ID: "g1", Historial: hist(10, 8)}
		got := MostActiveGroup([]models.Grupo{g})
		require.NotNil(t, got)
		assert.Equal(t, "g1", got.ID)
	})

	t.Run("highest percentage wins, ties keep the first", func(t *testing.T) {
		gs := []models.Grupo{
			{ID: "a", Historial: hist(10, 15)},
			{ID: "b", Historial: hist(8, 18)},
			{ID: "c", Historial: hist(4, 9)},
		}
		got := MostActiveGroup(gs)
		require.NotNil(t, got)
		assert.Equal(t, "b", got.ID)
	})
}

func TestAggregate(t *testing.T) {
	gs := []models.Grupo{
		{ID: "g1", CursoID: "c1", MiembrosActuales: 28, Historial: hist(15, 28)},
		{ID: "g2", CursoID: "c1", MiembrosActuales: 22, Historial: hist(10, 22)},
		{ID: "g3", CursoID: "c2", MiembrosActuales: 35, Historial: hist(20, 35)},
	}

	s := Aggregate(gs)
	assert.Equal(t, 3, s.TotalGrupos)
	assert.Equal(t, 85, s.TotalMiembros)
	assert.Equal(t, 40, s.CrecimientoTotal)
	require.NotNil(t, s.GrupoMasActivo)
	assert.Equal(t, "g2", s.GrupoMasActivo.ID)

	assert.Equal(t, Summary{}, Aggregate(nil))

	assert.Len(t, GroupsByCourse(gs, "c1"), 2)
	assert.Empty(t, GroupsByCourse(gs, "c9"))
	assert.Equal(t, 50, MembersByCourse(gs, "c1"))
	assert.Equal(t, 0, MembersByCourse(gs, "c9"))

	rows := CourseBreakdown([]models.Curso{{ID: "c1"}, {ID: "c2"}}, gs)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].TotalGrupos)
	assert.Equal(t, 35, rows[1].TotalMiembros)

	metrics := MetricsFor(gs)
	assert.Equal(t, 13, metrics[0].Crecimiento)
	assert.Equal(t, 120, metrics[1].Porcentaje)
}
