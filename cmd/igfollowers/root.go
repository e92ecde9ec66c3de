package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"igfollowers/pkg/config"
	"igfollowers/pkg/logger"
	"igfollowers/pkg/server"
	"igfollowers/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Flags
	configFile string
	host       string
	port       int
	headless   bool
	logLevel   string
	noColor    bool
)

// rootCmd starts the analyzer; there are no subcommands
var rootCmd = &cobra.Command{
	Use:   "igfollowers",
	Short: "Find out who doesn't follow you back on Instagram",
	Long: `igfollowers compares the followers and following lists from your
Instagram data export and shows who doesn't follow you back, who you
don't follow back and your mutual followers.

Request your data at Instagram > Settings > Your activity > Download your
information (JSON format), then upload followers_N.json and following.json
in the browser window this command opens. Nothing leaves your machine and
nothing is kept once the process exits.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(os.Stderr, "Error", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "config file (default is .igfollowers.yaml or ~/.config/igfollowers/config.yaml)")
	flags.StringVar(&host, "host", "localhost", "address to listen on")
	flags.IntVarP(&port, "port", "p", 8501, "port to listen on (0 picks a free port)")
	flags.BoolVar(&headless, "headless", false, "do not open a browser window")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.SetVersionTemplate(`igfollowers {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// keep the launcher's chatter out of the banner
	browser.Stdout = io.Discard
}

// openURL is replaced in tests
var openURL = browser.OpenURL

// launchBrowser opens url unless running headless. Failure is not fatal,
// the banner already shows the URL.
func launchBrowser(headless bool, url string) {
	if headless {
		return
	}
	if err := openURL(url); err != nil {
		logger.WithError(err).Warn("Could not open a browser, open the URL manually")
	}
}

// changedFlags collects only the flags set on the command line so that
// defaults never override the config file or environment
func changedFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("host") {
		flags["host"] = host
	}
	if cmd.Flags().Changed("port") {
		flags["port"] = port
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = headless
	}
	if cmd.Flags().Changed("log-level") {
		flags["log-level"] = logLevel
	}
	if cmd.Flags().Changed("no-color") {
		flags["no-color"] = noColor
	}
	return flags
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, changedFlags(cmd))
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	url, err := srv.Listen()
	if err != nil {
		return err
	}

	ui.PrintBanner(os.Stdout, ui.BannerInfo{
		URL:      url,
		Headless: cfg.Server.Headless,
		Metrics:  cfg.Server.MetricsEnabled,
	}, cfg.Logging.NoColor)

	launchBrowser(cfg.Server.Headless, url)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		return err
	}
	ui.PrintSuccess(os.Stdout, "Stopped. Session data discarded.")
	return nil
}
