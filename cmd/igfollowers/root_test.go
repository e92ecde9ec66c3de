package main

import (
	"errors"
	"testing"

	"github.com/pkg/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igfollowers/pkg/logger"
)

func TestChangedFlags(t *testing.T) {
	t.Cleanup(func() {
		port, headless = 8501, false
		rootCmd.Flags().Lookup("port").Changed = false
		rootCmd.Flags().Lookup("headless").Changed = false
	})

	assert.Empty(t, changedFlags(rootCmd))

	require.NoError(t, rootCmd.Flags().Set("port", "9000"))
	require.NoError(t, rootCmd.Flags().Set("headless", "true"))

	assert.Equal(t, map[string]interface{}{"port": 9000, "headless": true}, changedFlags(rootCmd))
}

func TestRootCommandRejectsArgs(t *testing.T) {
	assert.Error(t, rootCmd.Args(rootCmd, []string{"extra"}))
	assert.NoError(t, rootCmd.Args(rootCmd, nil))
}

func TestRootCommandHasNoCompletion(t *testing.T) {
	assert.True(t, rootCmd.CompletionOptions.DisableDefaultCmd)
	assert.Empty(t, rootCmd.Commands())
}

func TestLaunchBrowser(t *testing.T) {
	var opened []string
	openURL = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	t.Cleanup(func() { openURL = browser.OpenURL })

	launchBrowser(true, "http://localhost:8501")
	assert.Empty(t, opened, "headless never opens a browser")

	launchBrowser(false, "http://localhost:8501")
	assert.Equal(t, []string{"http://localhost:8501"}, opened)
}

func TestLaunchBrowserFailureIsLogged(t *testing.T) {
	tl := logger.NewTestLogger()
	logger.SetLogger(tl)
	openURL = func(string) error { return errors.New("no display") }
	t.Cleanup(func() {
		openURL = browser.OpenURL
		logger.SetLogger(logger.NewNopLogger())
	})

	launchBrowser(false, "http://localhost:8501")

	warns := tl.GetMessagesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.EqualError(t, warns[0].Error, "no display")
}
