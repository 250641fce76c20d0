package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/presets"
)

var (
	presetSearch string
	presetRecent int
	presetOutput string
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage saved filter presets",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		m, err := openPresets()
		if err != nil {
			return err
		}

		var list []models.Preset
		switch {
		case presetSearch != "":
			list = m.Search(presetSearch)
		case presetRecent > 0:
			list = m.GetRecent(presetRecent)
		case tableName != "":
			list = m.ForTable(tableName)
		default:
			list = m.GetAll()
		}

		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No presets found")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTABLE\tCOLUMNS\tUSED")
		for _, p := range list {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", p.Name, p.Table, len(p.Columns), p.UsageCount)
		}
		return w.Flush()
	},
}

var presetsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every preset to a JSON file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		m, err := openPresets()
		if err != nil {
			return err
		}
		path, err := m.ExportToJSON(presetOutput)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported presets to %s\n", path)
		return nil
	},
}

func init() {
	presetsListCmd.Flags().StringVarP(&presetSearch, "search", "s", "", "only presets whose name, description or columns match")
	presetsListCmd.Flags().IntVar(&presetRecent, "recent", 0, "only the N most recently used presets")
	presetsExportCmd.Flags().StringVarP(&presetOutput, "output", "o", "", "output file (default presets.json next to presets.yaml)")

	presetsCmd.AddCommand(presetsListCmd, presetsExportCmd)
	rootCmd.AddCommand(presetsCmd)
}

func openPresets() (*presets.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return presets.NewManager(cfg.State.PresetsDir)
}
