package models

// Curso is the top-level grouping entity; deleting it removes its groups.
// Names are unique ignoring case.
type Curso struct {
	ID            string `json:"id" gorm:"type:varchar(64);primaryKey"`
	Nombre        string `json:"nombre" gorm:"type:varchar(255);not null;index:idx_cursos_nombre_lower,unique,expression:LOWER(nombre)"`
	FechaCreacion Date   `json:"fechaCreacion" gorm:"not null"`
}

func (Curso) TableName() string { return "cursos" }
