package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/state"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Inspect or clear the stored column filters of a view",
}

var filtersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored filter and sort of every column",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, view, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		snaps := store.Snapshots(view)
		if len(snaps) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No stored filters in view %q\n", view)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COLUMN\tFILTER\tMIN\tMAX\tORDER\tBOOL\tOPTIONS\tLAYOUT")
		for _, s := range snaps {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
				s.Field, s.Filter, s.Min, s.Max, s.Order, s.Bool, filter.EncodeSelection(s.Options), s.Layout)
		}
		return w.Flush()
	},
}

var filtersClearCmd = &cobra.Command{
	Use:   "clear [column]",
	Short: "Clear the stored filters of one column, or of the whole view",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, view, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if len(args) == 0 {
			if err := store.Clear(view); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared every filter in view %q\n", view)
			return nil
		}

		column := args[0]
		if _, err := store.Get(view, column); err != nil {
			if errors.Is(err, state.ErrNotFound) {
				return fmt.Errorf("no stored filter for column %q in view %q", column, view)
			}
			return err
		}
		// Storing an inactive snapshot removes it
		if err := store.Put(view, models.Snapshot{Field: column}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s in view %q\n", column, view)
		return nil
	},
}

func init() {
	filtersCmd.AddCommand(filtersListCmd, filtersClearCmd)
	rootCmd.AddCommand(filtersCmd)
}

// openStore opens the configured state store with the selected view loaded
func openStore() (*state.Store, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	if !cfg.State.Enabled {
		return nil, "", fmt.Errorf("stored filters are disabled (state.enabled is false)")
	}

	store, err := state.NewStore(cfg.State.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open state store: %w", err)
	}
	if _, err := store.Load(cfg.State.View); err != nil {
		_ = store.Close()
		return nil, "", err
	}
	return store, cfg.State.View, nil
}
