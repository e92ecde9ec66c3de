package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"igfollowers/pkg/analysis"
)

const timeLayout = "2006-01-02 15:04"

// WriteCSV writes the users of one category, sorted by name, as CSV
func WriteCSV(w io.Writer, r *analysis.Result, c analysis.Category) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"username", "profile_url", "since"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, e := range r.Entries(c, analysis.SortName) {
		since := ""
		if !e.Since.IsZero() {
			since = e.Since.Format(timeLayout)
		}
		if err := cw.Write([]string{e.Username, e.ProfileURL(), since}); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns the download name for a category export
func Filename(c analysis.Category, ext string) string {
	return fmt.Sprintf("instagram_%s.%s", c, ext)
}
