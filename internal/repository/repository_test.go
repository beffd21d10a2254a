package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"seguimiento/internal/config"
	"seguimiento/internal/models"
	"seguimiento/pkg/database"
)

func newSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDatabase(&config.Config{
		DBDriver:       config.DriverSQLite,
		DBPath:         filepath.Join(t.TempDir(), "repo.db"),
		DBLogLevel:     "silent",
		DBMaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Seed(context.Background()))
	return db.DB
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCursoRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("list is ordered by name", func(t *testing.T) {
		repo := NewCursoRepository(newSeededDB(t))
		cursos, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, cursos, 3)
		assert.Equal(t, "Desarrollo Web", cursos[0].Nombre)
		assert.Equal(t, "Marketing Digital", cursos[2].Nombre)
	})

	t.Run("find by name ignores case", func(t *testing.T) {
		repo := NewCursoRepository(newSeededDB(t))
		c, err := repo.FindByNombre(ctx, "desarrollo WEB")
		require.NoError(t, err)
		assert.Equal(t, "c1", c.ID)

		_, err = repo.FindByNombre(ctx, "Cocina")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("create assigns an id", func(t *testing.T) {
		repo := NewCursoRepository(newSeededDB(t))
		c := &models.Curso{Nombre: "Fotografía", FechaCreacion: models.MustParseDate("2024-06-01")}
		require.NoError(t, repo.Create(ctx, c))
		assert.NotEmpty(t, c.ID)

		got, err := repo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-06-01", got.FechaCreacion.String())
	})

	t.Run("rename rewrites group course names", func(t *testing.T) {
		db := newSeededDB(t)
		repo := NewCursoRepository(db)
		require.NoError(t, repo.Update(ctx, &models.Curso{ID: "c1", Nombre: "Full Stack", FechaCreacion: models.MustParseDate("2024-01-15")}))

		var nombres []string
		require.NoError(t, db.Model(&models.Grupo{}).Where("curso_id = ?", "c1").Pluck("curso", &nombres).Error)
		assert.Equal(t, []string{"Full Stack", "Full Stack"}, nombres)

		err := repo.Update(ctx, &models.Curso{ID: "missing", Nombre: "X"})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("delete cascades to groups and history", func(t *testing.T) {
		db := newSeededDB(t)
		repo := NewCursoRepository(db)
		require.NoError(t, repo.Delete(ctx, "c1"))

		assert.Equal(t, int64(2), count(t, db, &models.Curso{}))
		assert.Equal(t, int64(2), count(t, db, &models.Grupo{}))
		assert.Equal(t, int64(7), count(t, db, &models.HistorialEntry{}))

		assert.ErrorIs(t, repo.Delete(ctx, "c1"), gorm.ErrRecordNotFound)
	})

	t.Run("replace all upserts, prunes and resyncs", func(t *testing.T) {
		db := newSeededDB(t)
		repo := NewCursoRepository(db)
		err := repo.ReplaceAll(ctx, []models.Curso{
			{ID: "c1", Nombre: "Web Avanzado", FechaCreacion: models.MustParseDate("2024-01-15")},
			{ID: "c2", Nombre: "Marketing Digital", FechaCreacion: models.MustParseDate("2024-02-10")},
			{Nombre: "Nuevo", FechaCreacion: models.MustParseDate("2024-07-01")},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(3), count(t, db, &models.Curso{}))
		assert.Equal(t, int64(3), count(t, db, &models.Grupo{}))
		assert.Equal(t, int64(13), count(t, db, &models.HistorialEntry{}))

		var g models.Grupo
		require.NoError(t, db.First(&g, "id = ?", "g1").Error)
		assert.Equal(t, "Web Avanzado", g.Curso)
	})

	t.Run("replace all is atomic", func(t *testing.T) {
		db := newSeededDB(t)
		repo := NewCursoRepository(db)
		err := repo.ReplaceAll(ctx, []models.Curso{
			{ID: "c1", Nombre: "Web Avanzado", FechaCreacion: models.MustParseDate("2024-01-15")},
			{ID: "cx", Nombre: "Sin fecha"},
		})
		assert.Error(t, err)

		assert.Equal(t, int64(3), count(t, db, &models.Curso{}))
		assert.Equal(t, int64(4), count(t, db, &models.Grupo{}))
		assert.Equal(t, int64(16), count(t, db, &models.HistorialEntry{}))
		c, err := repo.GetByID(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "Desarrollo Web", c.Nombre)
	})

	t.Run("names are unique ignoring case", func(t *testing.T) {
		db := newSeededDB(t)
		repo := NewCursoRepository(db)
		err := repo.Create(ctx, &models.Curso{Nombre: "DESARROLLO WEB", FechaCreacion: models.Today()})
		assert.Error(t, err)
		assert.Equal(t, int64(3), count(t, db, &models.Curso{}))

		err = repo.Update(ctx, &models.Curso{ID: "c2", Nombre: "desarrollo web", FechaCreacion: models.Today()})
		assert.Error(t, err)
	})

	t.Run("replace all with an empty list clears everything", func(t *testing.T) {
		db := newSeededDB(t)
		require.NoError(t, NewCursoRepository(db).ReplaceAll(ctx, nil))
		assert.Zero(t, count(t, db, &models.Curso{}))
		assert.Zero(t, count(t, db, &models.Grupo{}))
		assert.Zero(t, count(t, db, &models.HistorialEntry{}))
	})
}

func TestGrupoRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("list preloads history in date order", func(t *testing.T) {
		repo := NewGrupoRepository(newSeededDB(t))
		grupos, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, grupos, 4)
		assert.Equal(t, "Diseñadores UX", grupos[0].Nombre)

		for _, g := range grupos {
			require.NotEmpty(t, g.Historial)
			for i := 1; i < len(g.Historial); i++ {
				assert.False(t, g.Historial[i].Fecha.Before(g.Historial[i-1].Fecha))
			}
		}
	})

	t.Run("list by course", func(t *testing.T) {
		repo := NewGrupoRepository(newSeededDB(t))
		grupos, err := repo.ListByCurso(ctx, "c1")
		require.NoError(t, err)
		assert.Len(t, grupos, 2)
	})

	t.Run("create stores a baseline entry", func(t *testing.T) {
		repo := NewGrupoRepository(newSeededDB(t))
		g := &models.Grupo{
			Nombre: "Grupo Gamma", CursoID: "c2", Curso: "Marketing Digital",
			FechaCreacion: models.MustParseDate("2024-06-01"), MiembrosActuales: 12,
		}
		require.NoError(t, repo.Create(ctx, g))

		got, err := repo.GetByID(ctx, g.ID)
		require.NoError(t, err)
		require.Len(t, got.Historial, 1)
		assert.Equal(t, 12, got.Historial[0].Miembros)
		assert.Equal(t, models.ObservacionInicio, got.Historial[0].Observaciones)
	})

	t.Run("create with unknown course fails", func(t *testing.T) {
		db := newSeededDB(t)
		repo := NewGrupoRepository(db)
		err := repo.Create(ctx, &models.Grupo{Nombre: "X", CursoID: "nope", Curso: "X", FechaCreacion: models.Today()})
		assert.Error(t, err)
		assert.Equal(t, int64(4), count(t, db, &models.Grupo{}))
		assert.Equal(t, int64(16), count(t, db, &models.HistorialEntry{}))
	})

	t.Run("update and delete", func(t *testing.T) {
		db := newSeededDB(t)
		repo := NewGrupoRepository(db)

		g, err := repo.GetByID(ctx, "g2")
		require.NoError(t, err)
		g.Nombre = "Grupo Beta 2"
		g.CursoID, g.Curso = "c3", "Diseño UX/UI"
		require.NoError(t, repo.Update(ctx, g))

		got, err := repo.GetByID(ctx, "g2")
		require.NoError(t, err)
		assert.Equal(t, "Grupo Beta 2", got.Nombre)
		assert.Equal(t, "c3", got.CursoID)

		require.NoError(t, repo.Delete(ctx, "g2"))
		assert.Equal(t, int64(12), count(t, db, &models.HistorialEntry{}))
		assert.ErrorIs(t, repo.Delete(ctx, "g2"), gorm.ErrRecordNotFound)
	})

	t.Run("mutate appends and recomputes members", func(t *testing.T) {
		repo := NewGrupoRepository(newSeededDB(t))
		g, err := repo.Mutate(ctx, "g1", func(g *models.Grupo) error {
			g.AppendRegistro(models.NewHistorialEntry(models.MustParseDate("2024-06-01"), 31, "Junio"))
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 31, g.MiembrosActuales)

		stored, err := repo.GetByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, 31, stored.MiembrosActuales)
		require.Len(t, stored.Historial, 6)
		assert.Equal(t, "Junio", stored.Historial[5].Observaciones)
	})

	t.Run("mutate inserting an older entry keeps the last count", func(t *testing.T) {
		repo := NewGrupoRepository(newSeededDB(t))
		_, err := repo.Mutate(ctx, "g1", func(g *models.Grupo) error {
			g.AppendRegistro(models.NewHistorialEntry(models.MustParseDate("2024-01-25"), 16, ""))
			return nil
		})
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, 28, stored.MiembrosActuales)
		assert.Equal(t, 16, stored.Historial[1].Miembros)
	})

	t.Run("mutate edits by id", func(t *testing.T) {
		repo := NewGrupoRepository(newSeededDB(t))
		_, err := repo.Mutate(ctx, "g4", func(g *models.Grupo) error {
			return g.EditRegistro(models.HistorialEntry{ID: "g4-h3", Fecha: models.MustParseDate("2024-05-01"), Miembros: 20})
		})
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, "g4")
		require.NoError(t, err)
		assert.Equal(t, 20, stored.MiembrosActuales)
		assert.Len(t, stored.Historial, 3)
	})

	t.Run("mutate on missing group or failing fn rolls back", func(t *testing.T) {
		db := newSeededDB(t)
		repo := NewGrupoRepository(db)

		_, err := repo.Mutate(ctx, "missing", func(g *models.Grupo) error { return nil })
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		_, err = repo.Mutate(ctx, "g1", func(g *models.Grupo) error {
			return g.EditRegistro(models.HistorialEntry{ID: "nope"})
		})
		assert.ErrorIs(t, err, models.ErrRegistroNotFound)
		assert.Equal(t, int64(16), count(t, db, &models.HistorialEntry{}))
	})

	t.Run("mutate removing an entry deletes the row", func(t *testing.T) {
		db := newSeededDB(t)
		repo := NewGrupoRepository(db)
		g, err := repo.Mutate(ctx, "g4", func(g *models.Grupo) error { return g.RemoveRegistro("g4-h3") })
		require.NoError(t, err)
		assert.Equal(t, 12, g.MiembrosActuales)
		assert.Equal(t, int64(15), count(t, db, &models.HistorialEntry{}))
	})

	t.Run("concurrent mutations keep every entry", func(t *testing.T) {
		db := newSeededDB(t)
		repo := NewGrupoRepository(db)

		var wg sync.WaitGroup
		errs := make(chan error, 5)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(day int) {
				defer wg.Done()
				_, err := repo.Mutate(ctx, "g2", func(g *models.Grupo) error {
					g.AppendRegistro(models.NewHistorialEntry(models.NewDate(2024, time.June, day), 22+day, ""))
					return nil
				})
				errs <- err
			}(i + 1)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		stored, err := repo.GetByID(ctx, "g2")
		require.NoError(t, err)
		assert.Len(t, stored.Historial, 9)
		assert.Equal(t, 27, stored.MiembrosActuales)
	})

	t.Run("replace all swaps the collection", func(t *testing.T) {
		db := newSeededDB(t)
		repo := NewGrupoRepository(db)
		err := repo.ReplaceAll(ctx, []models.Grupo{
			{ID: "n1", Nombre: "Nuevo", CursoID: "c1", Curso: "Desarrollo Web", FechaCreacion: models.MustParseDate("2024-06-01"), MiembrosActuales: 5},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count(t, db, &models.Grupo{}))
		assert.Equal(t, int64(1), count(t, db, &models.HistorialEntry{}))
	})

	t.Run("replace all is atomic", func(t *testing.T) {
		db := newSeededDB(t)
		repo := NewGrupoRepository(db)
		err := repo.ReplaceAll(ctx, []models.Grupo{
			{ID: "n1", Nombre: "Uno", CursoID: "c1", Curso: "Desarrollo Web", FechaCreacion: models.Today()},
			{ID: "n1", Nombre: "Duplicado", CursoID: "c1", Curso: "Desarrollo Web", FechaCreacion: models.Today()},
		})
		assert.Error(t, err)
		assert.Equal(t, int64(4), count(t, db, &models.Grupo{}))
		assert.Equal(t, int64(16), count(t, db, &models.HistorialEntry{}))
	})
}

func TestRemovedRegistros(t *testing.T) {
	historial := []models.HistorialEntry{{ID: "h1"}, {ID: "h3"}, {ID: "nuevo"}}

	t.Run("only loaded entries that disappeared", func(t *testing.T) {
		assert.Equal(t, []string{"h2"}, removedRegistros([]string{"h1", "h2", "h3"}, historial))
	})

	t.Run("rows the mutation never loaded are kept", func(t *testing.T) {
		assert.Empty(t, removedRegistros([]string{"h1", "h3"}, historial))
	})
}
