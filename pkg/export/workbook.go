package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"igfollowers/pkg/analysis"
)

const summarySheet = "Summary"

// userHeaders are the columns of every category sheet
var userHeaders = []string{"Username", "Profile", "Since"}

// WriteWorkbook writes r as an .xlsx workbook: a summary sheet followed by
// one sheet per category, users sorted by name with profile hyperlinks
func WriteWorkbook(w io.Writer, r *analysis.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"833AB4"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	link, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "1265BE", Underline: "single"},
	})
	if err != nil {
		return fmt.Errorf("failed to create link style: %w", err)
	}

	if err := writeSummary(f, r, header); err != nil {
		return err
	}

	for _, c := range analysis.Categories {
		if err := writeCategory(f, r, c, header, link); err != nil {
			return fmt.Errorf("failed to write %s sheet: %w", c.Title(), err)
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, r *analysis.Result, header int) error {
	s := r.Summary()
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Followers", s.Followers},
		{"Following", s.Following},
		{"Not following back", s.NotFollowingBack},
		{"Not followed back", s.NotFollowedBack},
		{"Mutual", s.Mutual},
		{"Follow ratio", round2(s.FollowRatio)},
		{"Mutual rate (%)", round2(s.MutualRate)},
		{"Ghost rate (%)", round2(s.GhostRate)},
		{"Health score", s.HealthScore},
		{"Analyzed at", r.AnalyzedAt.Format(timeLayout)},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if err := f.SetCellStyle(summarySheet, "A1", "B1", header); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "A", 24)
}

func writeCategory(f *excelize.File, r *analysis.Result, c analysis.Category, header, link int) error {
	sheet := sheetName(c)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A1", &userHeaders); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", header); err != nil {
		return err
	}

	for i, e := range r.Entries(c, analysis.SortName) {
		row := i + 2
		since := ""
		if !e.Since.IsZero() {
			since = e.Since.Format(timeLayout)
		}
		values := []interface{}{e.Username, e.ProfileURL(), since}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}

		cell := fmt.Sprintf("B%d", row)
		if err := f.SetCellHyperLink(sheet, cell, e.ProfileURL(), "External"); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, link); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 48); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "C", 20)
}

// sheetName keeps within the 31 character limit of sheet names
func sheetName(c analysis.Category) string {
	name := c.Title()
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
