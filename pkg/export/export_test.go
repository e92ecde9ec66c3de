package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"igfollowers/pkg/analysis"
	"igfollowers/pkg/models"
)

func sampleResult() *analysis.Result {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	followers := analysis.NewUserSet(
		models.NewUser("alice", ts),
		models.NewUser("Bob", ts),
		models.NewUser("carol", time.Time{}),
	)
	following := analysis.NewUserSet(
		models.NewUser("bob", ts.Add(time.Hour)),
		models.NewUser("carol", ts),
		models.NewUser("dave", ts),
	)
	return analysis.Analyze(followers, following)
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleResult()))
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Not following back", "Not followed back", "Mutual"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Metric", "Value"}, summary[0])
	assert.Equal(t, []string{"Followers", "3"}, summary[1])
	assert.Equal(t, []string{"Mutual", "2"}, summary[5])

	mutual, err := f.GetRows("Mutual")
	require.NoError(t, err)
	require.Len(t, mutual, 3)
	assert.Equal(t, []string{"Username", "Profile", "Since"}, mutual[0])
	assert.Equal(t, "Bob", mutual[1][0])
	assert.Equal(t, "https://www.instagram.com/Bob", mutual[1][1])
	assert.Equal(t, "2024-03-01 13:00", mutual[1][2])
	assert.Equal(t, "carol", mutual[2][0])

	ok, target, err := f.GetCellHyperLink("Mutual", "B2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://www.instagram.com/Bob", target)

	ghosts, err := f.GetRows("Not following back")
	require.NoError(t, err)
	require.Len(t, ghosts, 2)
	assert.Equal(t, "dave", ghosts[1][0])
}

func TestWriteWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, analysis.Analyze(nil, nil)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	for _, c := range analysis.Categories {
		rows, err := f.GetRows(c.Title())
		require.NoError(t, err)
		assert.Len(t, rows, 1, "only the header row for %s", c)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult(), analysis.CategoryNotFollowedBack))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"username", "profile_url", "since"}, records[0])
	assert.Equal(t, []string{"alice", "https://www.instagram.com/alice", "2024-03-01 12:00"}, records[1])
}

func TestWriteCSVMissingTimestamp(t *testing.T) {
	r := analysis.Analyze(analysis.FromUsernames("zed"), nil)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, r, analysis.CategoryNotFollowedBack))
	assert.Contains(t, buf.String(), "zed,https://www.instagram.com/zed,\n")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "instagram_mutual.csv", Filename(analysis.CategoryMutual, "csv"))
}
