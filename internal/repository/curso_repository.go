package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seguimiento/internal/models"
)

type CursoRepository interface {
	List(ctx context.Context) ([]models.Curso, error)
	GetByID(ctx context.Context, id string) (*models.Curso, error)
	FindByNombre(ctx context.Context, nombre string) (*models.Curso, error)
	Create(ctx context.Context, curso *models.Curso) error
	Update(ctx context.Context, curso *models.Curso) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, cursos []models.Curso) error
}

type cursoRepository struct{ db *gorm.DB }

func NewCursoRepository(db *gorm.DB) CursoRepository { return &cursoRepository{db: db} }

func (r *cursoRepository) List(ctx context.Context) ([]models.Curso, error) {
	cursos := make([]models.Curso, 0)
	err := r.db.WithContext(ctx).Order("nombre").Find(&cursos).Error
	return cursos, err
}

func (r *cursoRepository) GetByID(ctx context.Context, id string) (*models.Curso, error) {
	var c models.Curso
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByNombre matches names case-insensitively on every supported driver.
func (r *cursoRepository) FindByNombre(ctx context.Context, nombre string) (*models.Curso, error) {
	var c models.Curso
	err := r.db.WithContext(ctx).Where("LOWER(nombre) = LOWER(?)", nombre).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cursoRepository) Create(ctx context.Context, curso *models.Curso) error {
	if curso.ID == "" {
		curso.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(curso).Error
}

// Update saves the course and rewrites the course name cached on its groups.
func (r *cursoRepository) Update(ctx context.Context, curso *models.Curso) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Curso{}).Where("id = ?", curso.ID).
			Updates(map[string]interface{}{"nombre": curso.Nombre, "fecha_creacion": curso.FechaCreacion})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return syncCursoNombre(tx, curso.ID, curso.Nombre)
	})
}

// Delete removes the course, its groups and their history.
func (r *cursoRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		grupoIDs := tx.Model(&models.Grupo{}).Select("id").Where("curso_id = ?", id)
		if err := tx.Where("grupo_id IN (?)", grupoIDs).Delete(&models.HistorialEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("curso_id = ?", id).Delete(&models.Grupo{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Curso{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ReplaceAll makes the cursos table equal to the given slice in one transaction.
// Courses that disappear take their groups and history with them; surviving
// groups get the new course names.
func (r *cursoRepository) ReplaceAll(ctx context.Context, cursos []models.Curso) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(cursos))
		for i := range cursos {
			if cursos[i].ID == "" {
				cursos[i].ID = uuid.NewString()
			}
			ids = append(ids, cursos[i].ID)
		}

		if len(ids) == 0 {
			return deleteEverything(tx)
		}

		stale := tx.Model(&models.Grupo{}).Select("id").Where("curso_id NOT IN ?", ids)
		if err := tx.Where("grupo_id IN (?)", stale).Delete(&models.HistorialEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("curso_id NOT IN ?", ids).Delete(&models.Grupo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id NOT IN ?", ids).Delete(&models.Curso{}).Error; err != nil {
			return err
		}

		// Surviving rows give up their names first so renames inside the
		// batch never collide on the unique name index.
		err := tx.Model(&models.Curso{}).Where("id IN ?", ids).
			Update("nombre", gorm.Expr("? || id", "#")).Error
		if err != nil {
			return err
		}

		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"nombre", "fecha_creacion"}),
		}).Create(&cursos).Error
		if err != nil {
			return err
		}

		for _, c := range cursos {
			if err := syncCursoNombre(tx, c.ID, c.Nombre); err != nil {
				return err
			}
		}
		return nil
	})
}

func syncCursoNombre(tx *gorm.DB, cursoID, nombre string) error {
	return tx.Model(&models.Grupo{}).Where("curso_id = ?", cursoID).Update("curso", nombre).Error
}

func deleteEverything(tx *gorm.DB) error {
	global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := global.Delete(&models.HistorialEntry{}).Error; err != nil {
		return err
	}
	if err := global.Delete(&models.Grupo{}).Error; err != nil {
		return err
	}
	return global.Delete(&models.Curso{}).Error
}
