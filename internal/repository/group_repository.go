package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seguimiento/internal/models"
)

type GrupoRepository interface {
	List(ctx context.Context) ([]models.Grupo, error)
	ListByCurso(ctx context.Context, cursoID string) ([]models.Grupo, error)
	GetByID(ctx context.Context, id string) (*models.Grupo, error)
	Create(ctx context.Context, grupo *models.Grupo) error
	Update(ctx context.Context, grupo *models.Grupo) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, grupos []models.Grupo) error

	// Mutate loads the group inside a transaction, applies fn and persists
	// the resulting history and member count. An error from fn rolls back.
	Mutate(ctx context.Context, id string, fn func(g *models.Grupo) error) (*models.Grupo, error)
}

type grupoRepository struct{ db *gorm.DB }

func NewGrupoRepository(db *gorm.DB) GrupoRepository { return &grupoRepository{db: db} }

func withHistorial(db *gorm.DB) *gorm.DB {
	return db.Preload("Historial", func(db *gorm.DB) *gorm.DB {
		return db.Order("fecha ASC, posicion ASC")
	})
}

func (r *grupoRepository) List(ctx context.Context) ([]models.Grupo, error) {
	grupos := make([]models.Grupo, 0)
	err := withHistorial(r.db.WithContext(ctx)).Order("nombre").Find(&grupos).Error
	return grupos, err
}

func (r *grupoRepository) ListByCurso(ctx context.Context, cursoID string) ([]models.Grupo, error) {
	grupos := make([]models.Grupo, 0)
	err := withHistorial(r.db.WithContext(ctx)).Where("curso_id = ?", cursoID).Order("nombre").Find(&grupos).Error
	return grupos, err
}

func (r *grupoRepository) GetByID(ctx context.Context, id string) (*models.Grupo, error) {
	return getGrupo(r.db.WithContext(ctx), id)
}

func getGrupo(db *gorm.DB, id string) (*models.Grupo, error) {
	var g models.Grupo
	if err := withHistorial(db).First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// Create stores the group together with its history. A group without
// history gets the baseline entry.
func (r *grupoRepository) Create(ctx context.Context, grupo *models.Grupo) error {
	if grupo.ID == "" {
		grupo.ID = uuid.NewString()
	}
	grupo.Normalize()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(grupo).Error; err != nil {
			return err
		}
		return tx.Create(&grupo.Historial).Error
	})
}

// Update saves the descriptive fields only; history goes through Mutate.
func (r *grupoRepository) Update(ctx context.Context, grupo *models.Grupo) error {
	res := r.db.WithContext(ctx).Model(&models.Grupo{}).Where("id = ?", grupo.ID).
		Updates(map[string]interface{}{
			"nombre":         grupo.Nombre,
			"curso_id":       grupo.CursoID,
			"curso":          grupo.Curso,
			"fecha_creacion": grupo.FechaCreacion,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *grupoRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("grupo_id = ?", id).Delete(&models.HistorialEntry{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Grupo{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ReplaceAll swaps every group and history row for the given slice. Either
// the whole batch lands or the previous rows stay.
func (r *grupoRepository) ReplaceAll(ctx context.Context, grupos []models.Grupo) error {
	historial := make([]models.HistorialEntry, 0)
	for i := range grupos {
		if grupos[i].ID == "" {
			grupos[i].ID = uuid.NewString()
		}
		grupos[i].Normalize()
		historial = append(historial, grupos[i].Historial...)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := global.Delete(&models.HistorialEntry{}).Error; err != nil {
			return err
		}
		if err := global.Delete(&models.Grupo{}).Error; err != nil {
			return err
		}
		if len(grupos) == 0 {
			return nil
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(&grupos, 100).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(&historial, 100).Error
	})
}

// Mutate holds a row lock on the group for the whole transaction, so
// concurrent mutations of one group apply one after the other.
func (r *grupoRepository) Mutate(ctx context.Context, id string, fn func(g *models.Grupo) error) (*models.Grupo, error) {
	var out *models.Grupo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked models.Grupo
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&locked, "id = ?", id).Error
		if err != nil {
			return err
		}

		g, err := getGrupo(tx, id)
		if err != nil {
			return err
		}
		loaded := make([]string, 0, len(g.Historial))
		for _, e := range g.Historial {
			loaded = append(loaded, e.ID)
		}

		if err := fn(g); err != nil {
			return err
		}
		if err := saveHistorial(tx, g, removedRegistros(loaded, g.Historial)); err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// removedRegistros lists the loaded ids that are no longer in historial.
// Rows the transaction never loaded are left alone.
func removedRegistros(loaded []string, historial []models.HistorialEntry) []string {
	kept := make(map[string]bool, len(historial))
	for _, e := range historial {
		kept[e.ID] = true
	}
	removed := make([]string, 0)
	for _, id := range loaded {
		if !kept[id] {
			removed = append(removed, id)
		}
	}
	return removed
}

// saveHistorial deletes the removed rows, upserts the in-memory history and
// stores the member count.
func saveHistorial(tx *gorm.DB, g *models.Grupo, removed []string) error {
	if len(removed) > 0 {
		err := tx.Where("grupo_id = ? AND id IN ?", g.ID, removed).Delete(&models.HistorialEntry{}).Error
		if err != nil {
			return err
		}
	}

	if len(g.Historial) > 0 {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"fecha", "miembros", "observaciones", "posicion"}),
		}).Create(&g.Historial).Error
		if err != nil {
			return err
		}
	}

	return tx.Model(&models.Grupo{}).Where("id = ?", g.ID).
		Update("miembros_actuales", g.MiembrosActuales).Error
}
