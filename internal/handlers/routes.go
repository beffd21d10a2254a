package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router needs. With nil data handlers only
// the system routes are registered and every other path reports the
// database as unavailable.
type Handlers struct {
	System *SystemHandler
	Cursos *CursoHandler
	Grupos *GrupoHandler
	Stats  *StatsHandler
}

func (h Handlers) degraded() bool {
	return h.Cursos == nil || h.Grupos == nil || h.Stats == nil
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", h.System.Health)
	r.GET("/test-db", h.System.TestDB)
	r.GET("/init-db", h.System.InitDB)
	r.GET("/reset-db", h.System.ResetDB)

	api := r.Group("/api")
	api.GET("/status", h.System.Status)

	if h.degraded() {
		r.NoRoute(DatabaseUnavailable())
		return
	}

	r.NoRoute(func(c *gin.Context) {
		errorJSON(c, http.StatusNotFound, "Ruta no encontrada")
	})

	cursos := api.Group("/cursos")
	{
		cursos.GET("", h.Cursos.ListCursos)
		cursos.POST("", h.Cursos.CreateCursos)
		cursos.PUT("/:id", h.Cursos.UpdateCurso)
		cursos.DELETE("/:id", h.Cursos.DeleteCurso)
		cursos.GET("/:id/grupos", h.Cursos.ListGrupos)
	}

	grupos := api.Group("/grupos")
	{
		grupos.GET("", h.Grupos.ListGrupos)
		grupos.POST("", h.Grupos.CreateGrupos)
		grupos.GET("/:id", h.Grupos.GetGrupo)
		grupos.PUT("/:id", h.Grupos.UpdateGrupo)
		grupos.DELETE("/:id", h.Grupos.DeleteGrupo)
		grupos.PUT("/:id/miembros", h.Grupos.UpdateMiembros)
		grupos.GET("/:id/historial", h.Grupos.Historial)
		grupos.PUT("/:id/historial/:registroId", h.Grupos.EditRegistro)
		grupos.DELETE("/:id/historial/:registroId", h.Grupos.DeleteRegistro)
	}

	api.GET("/estadisticas", h.Stats.Estadisticas)
	api.GET("/reportes/grupos.xlsx", h.Stats.ExportGrupos)
}
