package models

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

// ObservacionInicio is the note of the baseline entry of a new group.
const ObservacionInicio = "Inicio del grupo"

var (
	ErrRegistroNotFound = errors.New("registro not found")
	ErrUltimoRegistro   = errors.New("a group must keep at least one registro")
)

func NewHistorialEntry(fecha Date, miembros int, observaciones string) HistorialEntry {
	return HistorialEntry{
		ID:            uuid.NewString(),
		Fecha:         fecha,
		Miembros:      miembros,
		Observaciones: observaciones,
	}
}

// SortHistorial orders the history by date. Entries sharing a date keep their
// relative order, so a later insert on the same day ends up last.
func (g *Grupo) SortHistorial() {
	sort.SliceStable(g.Historial, func(i, j int) bool {
		return g.Historial[i].Fecha.Before(g.Historial[j].Fecha)
	})
	for i := range g.Historial {
		g.Historial[i].Posicion = i
		g.Historial[i].GrupoID = g.ID
	}
}

// SyncMiembros copies the member count of the last entry into MiembrosActuales.
func (g *Grupo) SyncMiembros() {
	if last, ok := g.UltimoRegistro(); ok {
		g.MiembrosActuales = last.Miembros
	}
}

func (g *Grupo) UltimoRegistro() (HistorialEntry, bool) {
	if len(g.Historial) == 0 {
		return HistorialEntry{}, false
	}
	return g.Historial[len(g.Historial)-1], true
}

// Normalize assigns missing ids, sorts the history and restores the
// MiembrosActuales invariant. A group without history gets a baseline entry.
func (g *Grupo) Normalize() {
	if len(g.Historial) == 0 {
		g.Historial = []HistorialEntry{NewHistorialEntry(g.FechaCreacion, g.MiembrosActuales, ObservacionInicio)}
	}
	for i := range g.Historial {
		if g.Historial[i].ID == "" {
			g.Historial[i].ID = uuid.NewString()
		}
	}
	g.SortHistorial()
	g.SyncMiembros()
}

// AppendRegistro adds an entry and returns it with its assigned id.
// MiembrosActuales only changes when the entry becomes the chronologically last one.
func (g *Grupo) AppendRegistro(e HistorialEntry) HistorialEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.GrupoID = g.ID
	g.Historial = append(g.Historial, e)
	g.SortHistorial()
	g.SyncMiembros()
	return e
}

// EditRegistro replaces the entry with the same id.
func (g *Grupo) EditRegistro(e HistorialEntry) error {
	idx := g.indexOf(e.ID)
	if idx < 0 {
		return ErrRegistroNotFound
	}
	e.GrupoID = g.ID
	g.Historial[idx] = e
	g.SortHistorial()
	g.SyncMiembros()
	return nil
}

func (g *Grupo) RemoveRegistro(id string) error {
	idx := g.indexOf(id)
	if idx < 0 {
		return ErrRegistroNotFound
	}
	if len(g.Historial) == 1 {
		return ErrUltimoRegistro
	}
	g.Historial = append(g.Historial[:idx], g.Historial[idx+1:]...)
	g.SortHistorial()
	g.SyncMiembros()
	return nil
}

func (g *Grupo) Registro(id string) (HistorialEntry, bool) {
	idx := g.indexOf(id)
	if idx < 0 {
		return HistorialEntry{}, false
	}
	return g.Historial[idx], true
}

func (g *Grupo) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range g.Historial {
		if g.Historial[i].ID == id {
			return i
		}
	}
	return -1
}
