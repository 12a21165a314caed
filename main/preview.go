package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"f1stats/config"
)

var previewPlain bool

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the README section without writing any file",
	Long: `Fetches standings and races and prints the section that would be placed
between the README markers. Nothing is written to disk.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewPlain, "plain", false, "print raw Markdown instead of styled output")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}
	app := newApp(conf, cmd.OutOrStdout(), log)

	drivers, err := app.api.GetDriverStandings(cmd.Context())
	if err != nil {
		return fmt.Errorf("error fetching driver standings: %w", err)
	}
	constructors, err := app.api.GetConstructorStandings(cmd.Context())
	if err != nil {
		return fmt.Errorf("error fetching constructor standings: %w", err)
	}

	report := app.updater.Render(cmd.Context(), drivers, constructors)
	if previewPlain {
		fmt.Fprintln(cmd.OutOrStdout(), report)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("error creating renderer: %w", err)
	}
	styled, err := renderer.Render(report)
	if err != nil {
		return fmt.Errorf("error rendering report: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), styled)
	return nil
}
