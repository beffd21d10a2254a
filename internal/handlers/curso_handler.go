package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seguimiento/internal/models"
	"seguimiento/internal/services"
)

type CursoHandler struct{ svc services.CursoService }

func NewCursoHandler(svc services.CursoService) *CursoHandler { return &CursoHandler{svc: svc} }

type cursoReq struct {
	Nombre        string      `json:"nombre"`
	FechaCreacion models.Date `json:"fechaCreacion"`
}

func (h *CursoHandler) ListCursos(c *gin.Context) {
	cursos, err := h.svc.ListCursos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cursos)
}

// CreateCursos creates one course from an object body or replaces the whole
// collection from an array body.
func (h *CursoHandler) CreateCursos(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	if isArrayBody(body) {
		var cursos []models.Curso
		if !decodeBody(c, body, &cursos) {
			return
		}
		if err := h.svc.ReplaceCursos(c.Request.Context(), cursos); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"error": false, "message": "Cursos guardados exitosamente", "total": len(cursos)})
		return
	}

	var req cursoReq
	if !decodeBody(c, body, &req) {
		return
	}
	curso, err := h.svc.CreateCurso(c.Request.Context(), req.Nombre, req.FechaCreacion)
	if err != nil {
		if errors.Is(err, services.ErrDuplicate) && curso != nil {
			c.JSON(http.StatusConflict, gin.H{"error": true, "message": err.Error(), "curso": curso})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"error": false, "message": "Curso creado exitosamente", "curso": curso})
}

func (h *CursoHandler) UpdateCurso(c *gin.Context) {
	var req cursoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	curso, err := h.svc.UpdateCurso(c.Request.Context(), c.Param("id"), req.Nombre, req.FechaCreacion)
	if err != nil {
		if errors.Is(err, services.ErrDuplicate) && curso != nil {
			c.JSON(http.StatusConflict, gin.H{"error": true, "message": err.Error(), "curso": curso})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Curso actualizado exitosamente", "curso": curso})
}

func (h *CursoHandler) DeleteCurso(c *gin.Context) {
	if err := h.svc.DeleteCurso(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Curso eliminado exitosamente"})
}

func (h *CursoHandler) ListGrupos(c *gin.Context) {
	grupos, total, err := h.svc.GruposDeCurso(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": false, "grupos": grupos, "totalMiembros": total})
}
