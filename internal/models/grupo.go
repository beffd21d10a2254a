package models

// Grupo is a tracked cohort of one course.
//
// Curso duplicates the owning course name and MiembrosActuales duplicates the
// member count of the chronologically last history entry; both are kept in
// sync by the mutation methods below and by the repositories.
type Grupo struct {
	ID               string           `json:"id" gorm:"type:varchar(64);primaryKey"`
	Nombre           string           `json:"nombre" gorm:"type:varchar(255);not null"`
	CursoID          string           `json:"cursoId" gorm:"type:varchar(64);not null;index"`
	Curso            string           `json:"curso" gorm:"type:varchar(255);not null"`
	FechaCreacion    Date             `json:"fechaCreacion" gorm:"not null"`
	MiembrosActuales int              `json:"miembrosActuales" gorm:"not null;default:0"`
	Historial        []HistorialEntry `json:"historial" gorm:"foreignKey:GrupoID;constraint:OnDelete:CASCADE"`

	// Owner only declares the foreign key; it is never loaded.
	Owner *Curso `json:"-" gorm:"foreignKey:CursoID;constraint:OnDelete:CASCADE"`
}

func (Grupo) TableName() string { return "grupos" }

// HistorialEntry is one point-in-time membership snapshot (a "registro").
type HistorialEntry struct {
	ID            string `json:"id" gorm:"type:varchar(64);primaryKey"`
	GrupoID       string `json:"grupoId,omitempty" gorm:"type:varchar(64);not null;index"`
	Fecha         Date   `json:"fecha" gorm:"not null;index"`
	Miembros      int    `json:"miembros" gorm:"not null"`
	Observaciones string `json:"observaciones" gorm:"type:text"`
	Posicion      int    `json:"-" gorm:"not null;default:0"` // tie-break for equal dates
}

func (HistorialEntry) TableName() string { return "historial_grupos" }
