package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wholes0meglock/rehab-ai/internal/config"
	"github.com/wholes0meglock/rehab-ai/internal/debug"
	"github.com/wholes0meglock/rehab-ai/internal/planclient"
	"github.com/wholes0meglock/rehab-ai/internal/timing"
)

// Version information set from main.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

var (
	serverFlag  string
	timeoutFlag int
	fileFlag    string
	notesFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "rehabai",
	Short: "Terminal client for AI-generated rehabilitation plans",
	Long: `RehabAI walks you through uploading a surgical discharge summary and a few
patient details, sends them to the plan-generation service, and renders the
returned day-by-day rehabilitation schedule.

Controls:
  enter - Get started / expand a day
  tab   - Next form field
  ctrl+s - Generate the plan
  n     - Start a new plan from the results
  q     - Quit`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVar(&serverFlag, "server", "", "Plan service base URL (overrides REHABAI_SERVER_URL)")
	rootCmd.Flags().IntVar(&timeoutFlag, "timeout", 0, "Request timeout in seconds (overrides REHABAI_TIMEOUT)")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Discharge summary to preselect")
	rootCmd.Flags().StringVar(&notesFlag, "notes", "", "Additional notes to prefill")

	rootCmd.AddCommand(configCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	if debug.Enabled() {
		if path, err := debug.UseLogFile(); err == nil && path != "" {
			debug.Logf("tui: debug log at %s", path)
		}
	}

	timing.Log("runTUI: loading config")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyCLIFlags(serverFlag, timeoutFlag)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	timing.Log("runTUI: config loaded")

	timeout := time.Duration(cfg.Timeout) * time.Second
	model := NewModel(Options{
		Client:   planclient.New(cfg.ServerURL, timeout),
		Timeout:  timeout,
		HideTips: cfg.HideTips,
	})

	if fileFlag != "" || notesFlag != "" {
		if err := model.Prefill(fileFlag, notesFlag); err != nil {
			return err
		}
	}

	timing.Log("runTUI: starting program")
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	timing.Log("runTUI: program exited")
	return err
}
