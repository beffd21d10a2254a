package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"seguimiento/internal/config"
)

// Maintainer is the part of the database the maintenance endpoints use.
type Maintainer interface {
	Ping(ctx context.Context) error
	Migrate() error
	SeedIfEmpty(ctx context.Context) (bool, error)
	Reset(ctx context.Context) error
}

// Invalidator drops cached derived data after the tables change underneath it.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type SystemHandler struct {
	cfg   *config.Config
	db    Maintainer
	cache Invalidator
}

// NewSystemHandler accepts a nil db; the server then reports itself degraded.
func NewSystemHandler(cfg *config.Config, db Maintainer, cache Invalidator) *SystemHandler {
	return &SystemHandler{cfg: cfg, db: db, cache: cache}
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func (h *SystemHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (h *SystemHandler) Status(c *gin.Context) {
	database := h.cfg.DatabaseLabel()
	if h.db == nil {
		database = "no disponible"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "online",
		"timestamp":   now(),
		"environment": h.cfg.Environment,
		"database":    database,
	})
}

func (h *SystemHandler) TestDB(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Base de datos no disponible", "timestamp": now()})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error de conexión: " + err.Error(), "timestamp": now()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Conexión exitosa a la base de datos", "timestamp": now()})
}

// InitDB migrates the schema and, when enabled, seeds empty tables. Safe to repeat.
func (h *SystemHandler) InitDB(c *gin.Context) {
	if h.db == nil {
		errorJSON(c, http.StatusInternalServerError, "Base de datos no disponible")
		return
	}
	if err := h.db.Migrate(); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Error al inicializar la base de datos: "+err.Error())
		return
	}
	seeded := false
	if h.cfg.SeedOnInit {
		var err error
		if seeded, err = h.db.SeedIfEmpty(c.Request.Context()); err != nil {
			errorJSON(c, http.StatusInternalServerError, "Error al cargar datos de ejemplo: "+err.Error())
			return
		}
	}
	h.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Base de datos inicializada", "seeded": seeded})
}

func (h *SystemHandler) ResetDB(c *gin.Context) {
	if h.db == nil {
		errorJSON(c, http.StatusInternalServerError, "Base de datos no disponible")
		return
	}
	if err := h.db.Reset(c.Request.Context()); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Error al reiniciar la base de datos: "+err.Error())
		return
	}
	h.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"error": false, "message": "Base de datos reiniciada con datos de ejemplo"})
}
