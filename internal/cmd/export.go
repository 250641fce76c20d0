package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazygrid/internal/db"
	"github.com/rebeliceyang/lazygrid/internal/export"
	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the rows matching a view's stored filters",
	Long: `Export applies the filters and sorts stored for --view to --table and
writes every matching row as CSV or JSON, to --output or standard output.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "csv or json (default from the output extension, else csv)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format := export.FormatCSV
	if exportOutput != "" {
		format = export.FormatFromPath(exportOutput)
	}
	if exportFormat != "" {
		f, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		format = f
	}

	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	schema, table := db.SplitTableName(tableName)
	infos, err := s.source.Columns(ctx, schema, table)
	if err != nil {
		return err
	}

	snaps, err := s.store.Load(s.cfg.State.View)
	if err != nil {
		return err
	}

	var cols []models.ColumnFilter
	for _, spec := range s.cfg.ColumnSpecs(infos) {
		if snap, ok := snaps[spec.Name]; ok {
			cols = append(cols, models.ColumnFilter{Column: spec.WithLayout(snap), State: snap})
		}
	}

	data, err := s.source.QueryTableData(ctx, filter.FromColumns(schema, table, cols), 0, 0)
	if err != nil {
		return err
	}
	s.log.Info("export", "table", tableName, "rows", len(data.Rows), "format", string(format))

	if exportOutput == "" {
		return export.WriteRows(cmd.OutOrStdout(), format, data.Columns, data.Rows)
	}
	if err := export.ExportRows(format, data.Columns, data.Rows, exportOutput); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", len(data.Rows), exportOutput)
	return nil
}
