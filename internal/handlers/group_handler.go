package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seguimiento/internal/models"
	"seguimiento/internal/services"
)

type GrupoHandler struct{ svc services.GrupoService }

func NewGrupoHandler(svc services.GrupoService) *GrupoHandler { return &GrupoHandler{svc: svc} }

type grupoReq struct {
	Nombre           string      `json:"nombre"`
	CursoID          string      `json:"cursoId"`
	FechaCreacion    models.Date `json:"fechaCreacion"`
	MiembrosActuales int         `json:"miembrosActuales"`
	Observacion      string      `json:"observacion"`
}

func (r grupoReq) input() services.GrupoInput {
	return services.GrupoInput{
		Nombre:           r.Nombre,
		CursoID:          r.CursoID,
		FechaCreacion:    r.FechaCreacion,
		MiembrosActuales: r.MiembrosActuales,
		Observacion:      r.Observacion,
	}
}

type miembrosReq struct {
	MiembrosActuales *int        `json:"miembrosActuales"`
	Observacion      string      `json:"observacion"`
	Fecha            models.Date `json:"fecha"`
}

type registroReq struct {
	Fecha         models.Date `json:"fecha"`
	Miembros      *int        `json:"miembros"`
	Observaciones string      `json:"observaciones"`
}

func (h *GrupoHandler) ListGrupos(c *gin.Context) {
	grupos, err := h.svc.ListGrupos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grupos)
}

func (h *GrupoHandler) GetGrupo(c *gin.Context) {
	g, err := h.svc.GetGrupo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": false, "grupo": g})
}

// CreateGrupos creates one group from an object body or replaces every group
// and its history from an array body.
func (h *GrupoHandler) CreateGrupos(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	if isArrayBody(body) {
		var grupos []models.Grupo
		if !decodeBody(c, body, &grupos) {
			return
		}
		if err := h.svc.ReplaceGrupos(c.Request.Context(), grupos); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"error": false, "message": "Grupos guardados exitosamente", "total": len(grupos)})
		return
	}

	var req grupoReq
	if !decodeBody(c, body, &req) {
		return
	}
	g, err := h.svc.CreateGrupo(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"error": false, "message": "Grupo creado exitosamente", "grupo": g})
}

func (h *GrupoHandler) UpdateGrupo(c *gin.Context) {
	var req grupoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	g, err := h.svc.UpdateGrupo(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Grupo actualizado exitosamente", "grupo": g})
}

func (h *GrupoHandler) DeleteGrupo(c *gin.Context) {
	if err := h.svc.DeleteGrupo(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Grupo eliminado exitosamente"})
}

func (h *GrupoHandler) UpdateMiembros(c *gin.Context) {
	var req miembrosReq
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.MiembrosActuales == nil {
		errorJSON(c, http.StatusBadRequest, "miembrosActuales es requerido")
		return
	}

	g, entry, err := h.svc.UpdateMiembros(c.Request.Context(), c.Param("id"), services.RegistroInput{
		Fecha:         req.Fecha,
		Miembros:      *req.MiembrosActuales,
		Observaciones: req.Observacion,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Miembros actualizados exitosamente", "grupo": g, "registro": entry})
}

func (h *GrupoHandler) EditRegistro(c *gin.Context) {
	var req registroReq
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Miembros == nil {
		errorJSON(c, http.StatusBadRequest, "miembros es requerido")
		return
	}

	g, err := h.svc.EditRegistro(c.Request.Context(), c.Param("id"), c.Param("registroId"), services.RegistroInput{
		Fecha:         req.Fecha,
		Miembros:      *req.Miembros,
		Observaciones: req.Observaciones,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Registro actualizado exitosamente", "grupo": g})
}

func (h *GrupoHandler) DeleteRegistro(c *gin.Context) {
	g, err := h.svc.DeleteRegistro(c.Request.Context(), c.Param("id"), c.Param("registroId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Registro eliminado exitosamente", "grupo": g})
}

func (h *GrupoHandler) Historial(c *gin.Context) {
	g, historial, err := h.svc.Historial(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": false, "grupo": g, "historial": historial})
}
