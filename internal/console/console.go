// Package console is the interactive terminal dashboard over a dashboard.State.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"seguimiento/internal/dashboard"
	"seguimiento/internal/models"
	"seguimiento/internal/stats"
	"seguimiento/pkg/storage"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	headColor  = color.New(color.FgYellow)
	okColor    = color.New(color.FgGreen)
	errColor   = color.New(color.FgRed)
)

// Console runs the menu loop. Every successful edit is saved to the store.
type Console struct {
	state  *dashboard.State
	store  storage.Store
	in     *bufio.Scanner
	out    io.Writer
	period stats.Period
	now    func() time.Time
}

func New(state *dashboard.State, store storage.Store, in io.Reader, out io.Writer) *Console {
	c := &Console{
		state: state,
		store: store,
		in:    bufio.NewScanner(in),
		out:   out,
		now:   time.Now,
	}
	c.period = stats.DefaultPeriod(state.Cursos, c.now())
	return c
}

// Run shows the menu until the user exits or the input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.displayMenu()
		choice, ok := c.readLine()
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			c.displayCursos()
		case "2":
			c.displayGrupos()
		case "3":
			c.displayEstadisticas()
		case "4":
			c.changePeriod()
		case "5":
			c.addCurso(ctx)
		case "6":
			c.renameCurso(ctx)
		case "7":
			c.deleteCurso(ctx)
		case "8":
			c.addGrupo(ctx)
		case "9":
			c.deleteGrupo(ctx)
		case "10":
			c.addRegistro(ctx)
		case "11":
			c.editRegistro(ctx)
		case "12":
			c.displayHistorial()
		case "13", "q":
			okColor.Fprintln(c.out, "¡Hasta luego!")
			return nil
		default:
			errColor.Fprintln(c.out, "Opción inválida, intente de nuevo.")
		}
	}
}

func (c *Console) periodLabel() string {
	if c.period.IsZero() {
		return "Todos los periodos"
	}
	return c.period.Label()
}

func (c *Console) displayMenu() {
	titleColor.Fprintf(c.out, "\n=== Seguimiento de Grupos (%s) ===\n", c.periodLabel())
	fmt.Fprintln(c.out, "1. Ver cursos")
	fmt.Fprintln(c.out, "2. Ver grupos")
	fmt.Fprintln(c.out, "3. Estadísticas")
	fmt.Fprintln(c.out, "4. Cambiar periodo")
	fmt.Fprintln(c.out, "5. Agregar curso")
	fmt.Fprintln(c.out, "6. Renombrar curso")
	fmt.Fprintln(c.out, "7. Eliminar curso")
	fmt.Fprintln(c.out, "8. Agregar grupo")
	fmt.Fprintln(c.out, "9. Eliminar grupo")
	fmt.Fprintln(c.out, "10. Registrar miembros")
	fmt.Fprintln(c.out, "11. Editar registro")
	fmt.Fprintln(c.out, "12. Ver historial de un grupo")
	fmt.Fprintln(c.out, "13. Salir")
	fmt.Fprint(c.out, "\nElija una opción (1-13): ")
}

// visible returns the courses and groups of the selected period.
func (c *Console) visible() ([]models.Curso, []models.Grupo) {
	if c.period.IsZero() {
		return c.state.Cursos, c.state.Grupos
	}
	return stats.FilterCursosByPeriod(c.state.Cursos, c.period), stats.FilterGruposByPeriod(c.state.Grupos, c.period)
}

func (c *Console) displayCursos() {
	cursos, grupos := c.visible()
	headColor.Fprintf(c.out, "\nCursos (%d)\n", len(cursos))
	if len(cursos) == 0 {
		fmt.Fprintln(c.out, "No hay cursos en este periodo.")
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"ID", "Curso", "Creado", "Grupos", "Miembros"})
	for _, t := range stats.CourseBreakdown(cursos, grupos) {
		table.Append([]string{
			t.Curso.ID,
			t.Curso.Nombre,
			t.Curso.FechaCreacion.String(),
			strconv.Itoa(t.TotalGrupos),
			strconv.Itoa(t.TotalMiembros),
		})
	}
	table.Render()
}

func (c *Console) displayGrupos() {
	_, grupos := c.visible()
	headColor.Fprintf(c.out, "\nGrupos (%d)\n", len(grupos))
	if len(grupos) == 0 {
		fmt.Fprintln(c.out, "No hay grupos en este periodo.")
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"ID", "Grupo", "Curso", "Miembros", "Crecimiento", "%"})
	for _, m := range stats.MetricsFor(grupos) {
		table.Append([]string{
			m.Grupo.ID,
			m.Grupo.Nombre,
			m.Grupo.Curso,
			strconv.Itoa(m.Grupo.MiembrosActuales),
			fmt.Sprintf("%+d", m.Crecimiento),
			fmt.Sprintf("%d%%", m.Porcentaje),
		})
	}
	table.Render()
}

func (c *Console) displayEstadisticas() {
	_, grupos := c.visible()
	s := stats.Aggregate(grupos)
	headColor.Fprintf(c.out, "\nEstadísticas: %s\n", c.periodLabel())

	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"Indicador", "Valor"})
	table.Append([]string{"Total de grupos", strconv.Itoa(s.TotalGrupos)})
	table.Append([]string{"Total de miembros", strconv.Itoa(s.TotalMiembros)})
	table.Append([]string{"Crecimiento total", fmt.Sprintf("%+d", s.CrecimientoTotal)})
	if s.GrupoMasActivo != nil {
		table.Append([]string{"Grupo más activo", fmt.Sprintf("%s (%d%%)",
			s.GrupoMasActivo.Nombre, stats.GrowthPercent(s.GrupoMasActivo.Historial))})
	} else {
		table.Append([]string{"Grupo más activo", "-"})
	}
	table.Render()
}

func (c *Console) changePeriod() {
	periods := stats.AvailablePeriods(c.state.Cursos)
	headColor.Fprintln(c.out, "\nPeriodos disponibles:")
	for _, p := range periods {
		fmt.Fprintf(c.out, "  %s  %s\n", p.String(), p.Label())
	}
	input := c.prompt("Periodo (YYYY-MM, vacío para todos): ")
	if input == "" {
		c.period = stats.Period{}
		okColor.Fprintln(c.out, "Mostrando todos los periodos.")
		return
	}
	p, err := stats.ParsePeriod(input)
	if err != nil {
		errColor.Fprintln(c.out, "Periodo inválido.")
		return
	}
	c.period = p
	okColor.Fprintf(c.out, "Periodo: %s\n", p.Label())
}

func (c *Console) addCurso(ctx context.Context) {
	nombre := c.prompt("Nombre del curso: ")
	fecha, ok := c.promptDate("Fecha de creación (YYYY-MM-DD, vacío para hoy): ")
	if !ok {
		return
	}
	curso, err := c.state.AddCurso(nombre, fecha)
	if err != nil {
		errColor.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.save(ctx, fmt.Sprintf("Curso %q creado (%s).", curso.Nombre, curso.ID))
}

func (c *Console) renameCurso(ctx context.Context) {
	curso, ok := c.state.Curso(c.prompt("ID del curso: "))
	if !ok {
		errColor.Fprintln(c.out, "Curso no encontrado.")
		return
	}
	updated := *curso
	updated.Nombre = c.prompt("Nuevo nombre: ")
	if err := c.state.UpdateCurso(updated); err != nil {
		errColor.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.save(ctx, "Curso actualizado.")
}

func (c *Console) deleteCurso(ctx context.Context) {
	id := c.prompt("ID del curso: ")
	curso, ok := c.state.Curso(id)
	if !ok {
		errColor.Fprintln(c.out, "Curso no encontrado.")
		return
	}
	n := len(stats.GroupsByCourse(c.state.Grupos, id))
	if !c.confirm(fmt.Sprintf("¿Eliminar %q y sus %d grupos? (s/n): ", curso.Nombre, n)) {
		fmt.Fprintln(c.out, "Cancelado.")
		return
	}
	if err := c.state.DeleteCurso(id); err != nil {
		errColor.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.save(ctx, "Curso eliminado.")
}

func (c *Console) addGrupo(ctx context.Context) {
	nombre := c.prompt("Nombre del grupo: ")
	cursoID := c.prompt("ID del curso: ")
	fecha, ok := c.promptDate("Fecha de creación (YYYY-MM-DD, vacío para hoy): ")
	if !ok {
		return
	}
	miembros, ok := c.promptInt("Miembros iniciales: ")
	if !ok {
		return
	}
	obs := c.prompt("Observación (opcional): ")
	g, err := c.state.AddGrupo(nombre, cursoID, fecha, miembros, obs)
	if err != nil {
		errColor.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.save(ctx, fmt.Sprintf("Grupo %q creado (%s).", g.Nombre, g.ID))
}

func (c *Console) deleteGrupo(ctx context.Context) {
	id := c.prompt("ID del grupo: ")
	g, ok := c.state.Grupo(id)
	if !ok {
		errColor.Fprintln(c.out, "Grupo no encontrado.")
		return
	}
	if !c.confirm(fmt.Sprintf("¿Eliminar el grupo %q? (s/n): ", g.Nombre)) {
		fmt.Fprintln(c.out, "Cancelado.")
		return
	}
	if err := c.state.DeleteGrupo(id); err != nil {
		errColor.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.save(ctx, "Grupo eliminado.")
}

func (c *Console) addRegistro(ctx context.Context) {
	id := c.prompt("ID del grupo: ")
	if _, ok := c.state.Grupo(id); !ok {
		errColor.Fprintln(c.out, "Grupo no encontrado.")
		return
	}
	miembros, ok := c.promptInt("Miembros actuales: ")
	if !ok {
		return
	}
	fecha, ok := c.promptDate("Fecha (YYYY-MM-DD, vacío para hoy): ")
	if !ok {
		return
	}
	obs := c.prompt("Observación (opcional): ")
	if _, err := c.state.AddRegistro(id, models.NewHistorialEntry(fecha, miembros, obs)); err != nil {
		errColor.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.save(ctx, "Registro agregado.")
}

func (c *Console) editRegistro(ctx context.Context) {
	g, ok := c.state.Grupo(c.prompt("ID del grupo: "))
	if !ok {
		errColor.Fprintln(c.out, "Grupo no encontrado.")
		return
	}
	c.renderHistorial(g)
	e, ok := g.Registro(c.prompt("ID del registro: "))
	if !ok {
		errColor.Fprintln(c.out, "Registro no encontrado.")
		return
	}

	miembros, ok := c.promptIntDefault(fmt.Sprintf("Miembros [%d]: ", e.Miembros), e.Miembros)
	if !ok {
		return
	}
	e.Miembros = miembros
	fecha, ok := c.promptDate(fmt.Sprintf("Fecha [%s]: ", e.Fecha))
	if !ok {
		return
	}
	if !fecha.IsZero() {
		e.Fecha = fecha
	}
	if obs := c.prompt(fmt.Sprintf("Observación [%s]: ", e.Observaciones)); obs != "" {
		e.Observaciones = obs
	}

	if err := c.state.EditRegistro(g.ID, e); err != nil {
		errColor.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.save(ctx, "Registro actualizado.")
}

func (c *Console) displayHistorial() {
	g, ok := c.state.Grupo(c.prompt("ID del grupo: "))
	if !ok {
		errColor.Fprintln(c.out, "Grupo no encontrado.")
		return
	}
	c.renderHistorial(g)
}

// renderHistorial lists the entries newest first, as the history view does.
func (c *Console) renderHistorial(g *models.Grupo) {
	headColor.Fprintf(c.out, "\nHistorial de %s (%s)\n", g.Nombre, g.Curso)
	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"ID", "Fecha", "Miembros", "Observaciones"})
	for i := len(g.Historial) - 1; i >= 0; i-- {
		e := g.Historial[i]
		table.Append([]string{e.ID, e.Fecha.String(), strconv.Itoa(e.Miembros), e.Observaciones})
	}
	table.Render()
}

func (c *Console) save(ctx context.Context, message string) {
	if err := c.state.Save(ctx, c.store); err != nil {
		errColor.Fprintf(c.out, "No se pudo guardar: %v\n", err)
		return
	}
	okColor.Fprintln(c.out, message)
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) prompt(label string) string {
	fmt.Fprint(c.out, label)
	s, _ := c.readLine()
	return s
}

// confirm accepts "s" or "si" in any case.
func (c *Console) confirm(label string) bool {
	switch strings.ToLower(c.prompt(label)) {
	case "s", "si", "sí":
		return true
	}
	return false
}

func (c *Console) promptDate(label string) (models.Date, bool) {
	s := c.prompt(label)
	if s == "" {
		return models.Date{}, true
	}
	d, err := models.ParseDate(s)
	if err != nil {
		errColor.Fprintln(c.out, "Fecha inválida, use YYYY-MM-DD.")
		return models.Date{}, false
	}
	return d, true
}

func (c *Console) promptInt(label string) (int, bool) {
	n, err := strconv.Atoi(c.prompt(label))
	if err != nil || n < 0 {
		errColor.Fprintln(c.out, "Ingrese un número entero no negativo.")
		return 0, false
	}
	return n, true
}

func (c *Console) promptIntDefault(label string, def int) (int, bool) {
	s := c.prompt(label)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		errColor.Fprintln(c.out, "Ingrese un número entero no negativo.")
		return 0, false
	}
	return n, true
}
