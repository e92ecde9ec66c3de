package ui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainBanner(t *testing.T) {
	out := PlainBanner(BannerInfo{URL: "http://localhost:8501", Metrics: true})

	assert.Contains(t, out, "Instagram Followers Analyzer")
	assert.Contains(t, out, "Open:     http://localhost:8501")
	assert.Contains(t, out, "opening your browser")
	assert.Contains(t, out, "http://localhost:8501/metrics")
	assert.NotContains(t, out, "\x1b[")
}

func TestPlainBannerHeadless(t *testing.T) {
	out := PlainBanner(BannerInfo{URL: "http://localhost:9000", Headless: true})

	assert.Contains(t, out, "headless")
	assert.NotContains(t, out, "metrics")
}

func TestBanner(t *testing.T) {
	out := Banner(BannerInfo{URL: "http://localhost:8501"})

	assert.Contains(t, out, "Instagram Followers Analyzer")
	assert.Contains(t, out, "localhost:8501")
	assert.Contains(t, out, "Ctrl+C")
}

func TestPrintBannerToFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
	PrintBanner(f, BannerInfo{URL: "http://localhost:8501"}, false)

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, PlainBanner(BannerInfo{URL: "http://localhost:8501"}), string(data))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, "Failed to start", errors.New("port in use"))
	assert.Equal(t, "Failed to start: port in use\n", buf.String())

	buf.Reset()
	PrintSuccess(&buf, "Stopped")
	assert.Equal(t, "Stopped\n", buf.String())
}
