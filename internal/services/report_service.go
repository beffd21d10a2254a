package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"seguimiento/internal/repository"
	"seguimiento/internal/stats"
)

const reportSheet = "Grupos"

var reportHeaders = []string{
	"Grupo", "Curso", "Fecha de creación", "Miembros actuales",
	"Miembros iniciales", "Crecimiento", "Crecimiento %", "Registros",
}

type ReportService interface {
	// WriteGruposXLSX writes a spreadsheet with one row per group.
	WriteGruposXLSX(ctx context.Context, w io.Writer) error
}

type reportService struct {
	grupos repository.GrupoRepository
}

func NewReportService(grupos repository.GrupoRepository) ReportService {
	return &reportService{grupos: grupos}
}

func (s *reportService) WriteGruposXLSX(ctx context.Context, w io.Writer) error {
	grupos, err := s.grupos.List(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for i, header := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(reportSheet, cell, header)
	}

	for i, m := range stats.MetricsFor(grupos) {
		row := i + 2
		inicial := 0
		if len(m.Grupo.Historial) > 0 {
			inicial = m.Grupo.Historial[0].Miembros
		}
		values := []interface{}{
			m.Grupo.Nombre,
			m.Grupo.Curso,
			m.Grupo.FechaCreacion.String(),
			m.Grupo.MiembrosActuales,
			inicial,
			m.Crecimiento,
			m.Porcentaje,
			len(m.Grupo.Historial),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(reportSheet, cell, v)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
