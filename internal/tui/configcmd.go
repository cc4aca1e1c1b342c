package tui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wholes0meglock/rehab-ai/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rehabai configuration",
	Long:  `View and manage rehabai configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration with source annotations",
	Long: `Show the fully resolved configuration with annotations indicating
where each value came from.

Configuration is loaded from multiple sources with the following precedence:
  1. Embedded defaults (built into binary)
  2. Global config (~/.config/rehabai/config.yaml)
  3. Environment variables
  4. Local config (.rehabai/config.yaml)
  5. CLI flags (highest precedence)`,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("# RehabAI Configuration")
	fmt.Println()
	fmt.Println("## Sources (in order of precedence)")
	for _, src := range cfg.Sources() {
		fmt.Printf("  - %s\n", src)
	}
	fmt.Println()

	fmt.Println("## Directories")
	fmt.Printf("  Global config: %s\n", cfg.ConfigDir())
	if cfg.LocalDir() != "" {
		fmt.Printf("  Local config:  %s\n", cfg.LocalDir())
	} else {
		fmt.Printf("  Local config:  (none detected)\n")
	}
	fmt.Println()

	fmt.Println("## Service Settings")
	fmt.Printf("  server_url: %s\n", cfg.ServerURL)
	fmt.Printf("  timeout:    %ds\n", cfg.Timeout)
	fmt.Println()

	fmt.Println("## TUI Settings")
	fmt.Printf("  hide_tips: %t\n", cfg.HideTips)

	return nil
}
