package dashboard

import "seguimiento/internal/models"

func d(s string) models.Date { return models.MustParseDate(s) }

func entry(id, fecha string, miembros int, obs string) models.HistorialEntry {
	return models.HistorialEntry{ID: id, Fecha: d(fecha), Miembros: miembros, Observaciones: obs}
}

// SampleCursos is the course list a fresh installation starts with.
func SampleCursos() []models.Curso {
	return []models.Curso{
		{ID: "c1", Nombre: "Desarrollo Web", FechaCreacion: d("2024-01-15")},
		{ID: "c2", Nombre: "Marketing Digital", FechaCreacion: d("2024-02-10")},
		{ID: "c3", Nombre: "Diseño UX/UI", FechaCreacion: d("2024-03-05")},
	}
}

// SampleGrupos matches SampleCursos.
func SampleGrupos() []models.Grupo {
	grupos := []models.Grupo{
		{
			ID: "g1", Nombre: "Grupo Alpha", CursoID: "c1", Curso: "Desarrollo Web",
			FechaCreacion: d("2024-01-20"), MiembrosActuales: 28,
			Historial: []models.HistorialEntry{
				entry("g1-h1", "2024-01-20", 15, models.ObservacionInicio),
				entry("g1-h2", "2024-02-01", 18, "Campaña de invitación"),
				entry("g1-h3", "2024-03-01", 22, ""),
				entry("g1-h4", "2024-04-01", 25, ""),
				entry("g1-h5", "2024-05-01", 28, "Promoción especial"),
			},
		},
		{
			ID: "g2", Nombre: "Grupo Beta", CursoID: "c1", Curso: "Desarrollo Web",
			FechaCreacion: d("2024-02-15"), MiembrosActuales: 22,
			Historial: []models.HistorialEntry{
				entry("g2-h1", "2024-02-15", 10, models.ObservacionInicio),
				entry("g2-h2", "2024-03-01", 14, ""),
				entry("g2-h3", "2024-04-01", 18, "Campaña en redes"),
				entry("g2-h4", "2024-05-01", 22, ""),
			},
		},
		{
			ID: "g3", Nombre: "Grupo Marketing Pro", CursoID: "c2", Curso: "Marketing Digital",
			FechaCreacion: d("2024-02-20"), MiembrosActuales: 35,
			Historial: []models.HistorialEntry{
				entry("g3-h1", "2024-02-20", 20, "Inicio con promoción"),
				entry("g3-h2", "2024-03-01", 23, ""),
				entry("g3-h3", "2024-04-01", 30, "Evento especial"),
				entry("g3-h4", "2024-05-01", 35, ""),
			},
		},
		{
			ID: "g4", Nombre: "Diseñadores UX", CursoID: "c3", Curso: "Diseño UX/UI",
			FechaCreacion: d("2024-03-10"), MiembrosActuales: 18,
			Historial: []models.HistorialEntry{
				entry("g4-h1", "2024-03-10", 8, models.ObservacionInicio),
				entry("g4-h2", "2024-04-01", 12, ""),
				entry("g4-h3", "2024-05-01", 18, "Workshop gratuito"),
			},
		},
	}
	for i := range grupos {
		grupos[i].Normalize()
	}
	return grupos
}

func Seed() *State {
	return &State{Cursos: SampleCursos(), Grupos: SampleGrupos()}
}
