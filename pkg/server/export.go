package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"igfollowers/pkg/analysis"
	"igfollowers/pkg/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves result downloads
type ExportHandler struct {
	s *Server
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(s *Server) *ExportHandler {
	return &ExportHandler{s: s}
}

// RegisterExportRoutes registers download routes
func (h *ExportHandler) RegisterExportRoutes(g *echo.Group) {
	g.GET("/export.xlsx", h.Workbook)
	g.GET("/export/:file", h.CSV)
}

// Workbook downloads every category as one .xlsx file
func (h *ExportHandler) Workbook(c echo.Context) error {
	result, err := sessionResult(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, result); err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	return attachment(c, "instagram_analysis.xlsx", xlsxContentType, buf.Bytes())
}

// CSV downloads one category, addressed as /export/<category>.csv
func (h *ExportHandler) CSV(c echo.Context) error {
	name, ok := strings.CutSuffix(c.Param("file"), ".csv")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown export format")
	}
	category, ok := analysis.ParseCategory(name)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown category")
	}

	result, err := sessionResult(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, result, category); err != nil {
		return fmt.Errorf("failed to build csv: %w", err)
	}
	return attachment(c, export.Filename(category, "csv"), "text/csv; charset=utf-8", buf.Bytes())
}

func sessionResult(c echo.Context) (*analysis.Result, error) {
	st := currentSession(c)
	if st == nil || st.Result == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "no analysis yet")
	}
	return st.Result, nil
}

func attachment(c echo.Context, filename, contentType string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, contentType, data)
}
