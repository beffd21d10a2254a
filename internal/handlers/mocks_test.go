package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"seguimiento/internal/models"
	"seguimiento/internal/services"
	"seguimiento/internal/stats"
)

type mockCursoService struct{ mock.Mock }

func (m *mockCursoService) ListCursos(ctx context.Context) ([]models.Curso, error) {
	args := m.Called(ctx)
	cursos, _ := args.Get(0).([]models.Curso)
	return cursos, args.Error(1)
}

func (m *mockCursoService) GetCurso(ctx context.Context, id string) (*models.Curso, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Curso)
	return c, args.Error(1)
}

func (m *mockCursoService) CreateCurso(ctx context.Context, nombre string, fecha models.Date) (*models.Curso, error) {
	args := m.Called(ctx, nombre, fecha)
	c, _ := args.Get(0).(*models.Curso)
	return c, args.Error(1)
}

func (m *mockCursoService) UpdateCurso(ctx context.Context, id, nombre string, fecha models.Date) (*models.Curso, error) {
	args := m.Called(ctx, id, nombre, fecha)
	c, _ := args.Get(0).(*models.Curso)
	return c, args.Error(1)
}

func (m *mockCursoService) DeleteCurso(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCursoService) ReplaceCursos(ctx context.Context, cursos []models.Curso) error {
	return m.Called(ctx, cursos).Error(0)
}

func (m *mockCursoService) GruposDeCurso(ctx context.Context, id string) ([]models.Grupo, int, error) {
	args := m.Called(ctx, id)
	grupos, _ := args.Get(0).([]models.Grupo)
	return grupos, args.Int(1), args.Error(2)
}

type mockGrupoService struct{ mock.Mock }

func (m *mockGrupoService) ListGrupos(ctx context.Context) ([]models.Grupo, error) {
	args := m.Called(ctx)
	grupos, _ := args.Get(0).([]models.Grupo)
	return grupos, args.Error(1)
}

func (m *mockGrupoService) GetGrupo(ctx context.Context, id string) (*models.Grupo, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*models.Grupo)
	return g, args.Error(1)
}

func (m *mockGrupoService) CreateGrupo(ctx context.Context, in services.GrupoInput) (*models.Grupo, error) {
	args := m.Called(ctx, in)
	g, _ := args.Get(0).(*models.Grupo)
	return g, args.Error(1)
}

func (m *mockGrupoService) UpdateGrupo(ctx context.Context, id string, in services.GrupoInput) (*models.Grupo, error) {
	args := m.Called(ctx, id, in)
	g, _ := args.Get(0).(*models.Grupo)
	return g, args.Error(1)
}

func (m *mockGrupoService) DeleteGrupo(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockGrupoService) ReplaceGrupos(ctx context.Context, grupos []models.Grupo) error {
	return m.Called(ctx, grupos).Error(0)
}

func (m *mockGrupoService) UpdateMiembros(ctx context.Context, id string, in services.RegistroInput) (*models.Grupo, models.HistorialEntry, error) {
	args := m.Called(ctx, id, in)
	g, _ := args.Get(0).(*models.Grupo)
	e, _ := args.Get(1).(models.HistorialEntry)
	return g, e, args.Error(2)
}

func (m *mockGrupoService) EditRegistro(ctx context.Context, grupoID, registroID string, in services.RegistroInput) (*models.Grupo, error) {
	args := m.Called(ctx, grupoID, registroID, in)
	g, _ := args.Get(0).(*models.Grupo)
	return g, args.Error(1)
}

func (m *mockGrupoService) DeleteRegistro(ctx context.Context, grupoID, registroID string) (*models.Grupo, error) {
	args := m.Called(ctx, grupoID, registroID)
	g, _ := args.Get(0).(*models.Grupo)
	return g, args.Error(1)
}

func (m *mockGrupoService) Historial(ctx context.Context, id string) (*models.Grupo, []models.HistorialEntry, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*models.Grupo)
	h, _ := args.Get(1).([]models.HistorialEntry)
	return g, h, args.Error(2)
}

type mockStatsService struct{ mock.Mock }

func (m *mockStatsService) Estadisticas(ctx context.Context, period stats.Period) (*services.Estadisticas, error) {
	args := m.Called(ctx, period)
	est, _ := args.Get(0).(*services.Estadisticas)
	return est, args.Error(1)
}

type mockReportService struct{ mock.Mock }

func (m *mockReportService) WriteGruposXLSX(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "xlsx")
	return err
}

type mockMaintainer struct{ mock.Mock }

func (m *mockMaintainer) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *mockMaintainer) Migrate() error { return m.Called().Error(0) }

func (m *mockMaintainer) Reset(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *mockMaintainer) SeedIfEmpty(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

type noopInvalidator struct{ calls int }

func (n *noopInvalidator) Invalidate(context.Context) { n.calls++ }
