package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"seguimiento/internal/services"
	"seguimiento/internal/stats"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StatsHandler struct {
	stats  services.StatsService
	report services.ReportService
}

func NewStatsHandler(s services.StatsService, r services.ReportService) *StatsHandler {
	return &StatsHandler{stats: s, report: r}
}

// periodFromQuery reads ?periodo=YYYY-MM or ?year=&month=. Absent means all groups.
func periodFromQuery(c *gin.Context) (stats.Period, bool) {
	if p := c.Query("periodo"); p != "" {
		period, err := stats.ParsePeriod(p)
		if err != nil {
			return stats.Period{}, false
		}
		return period, true
	}

	year, month := c.Query("year"), c.Query("month")
	if year == "" && month == "" {
		return stats.Period{}, true
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 1 {
		return stats.Period{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return stats.Period{}, false
	}
	return stats.Period{Year: y, Month: time.Month(m)}, true
}

func (h *StatsHandler) Estadisticas(c *gin.Context) {
	period, ok := periodFromQuery(c)
	if !ok {
		errorJSON(c, http.StatusBadRequest, "Periodo inválido")
		return
	}
	est, err := h.stats.Estadisticas(c.Request.Context(), period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

func (h *StatsHandler) ExportGrupos(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.report.WriteGruposXLSX(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=grupos.xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
