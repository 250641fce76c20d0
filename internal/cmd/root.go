package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazygrid/internal/app"
	"github.com/rebeliceyang/lazygrid/internal/config"
	"github.com/rebeliceyang/lazygrid/internal/db"
	"github.com/rebeliceyang/lazygrid/internal/logging"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/presets"
	"github.com/rebeliceyang/lazygrid/internal/state"
)

var (
	cfgFile    string
	sqlitePath string
	dsn        string
	tableName  string
	viewName   string
)

var rootCmd = &cobra.Command{
	Use:   "lazygrid",
	Short: "Filter and sort database tables in the terminal",
	Long: `lazygrid shows a SQLite or PostgreSQL table as a grid where every
column carries its own filter and sort control. Filters are kept per view
and restored the next time the table is opened.`,
	SilenceUsage: true,
	RunE:         runGrid,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/lazygrid/config.yaml)")
	pf.StringVar(&sqlitePath, "sqlite", "", "SQLite database file to open")
	pf.StringVar(&dsn, "dsn", "", "PostgreSQL connection URL")
	pf.StringVarP(&tableName, "table", "t", "", "table to browse, optionally schema qualified")
	pf.StringVar(&viewName, "view", "", "name of the stored filter set")
}

// loadConfig reads the config file and lets the command line flags win
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	switch {
	case sqlitePath != "":
		cfg.Source = models.SourceConfig{Driver: models.DriverSQLite, Path: sqlitePath}
	case dsn != "":
		cfg.Source = models.SourceConfig{Driver: models.DriverPostgres, DSN: dsn}
	}
	if viewName != "" {
		cfg.State.View = viewName
	}
	return cfg, nil
}

// session holds what the grid and the export command both open
type session struct {
	cfg    *config.Config
	log    *logging.Logger
	source db.Source
	store  *state.Store
}

func openSession(ctx context.Context) (*session, error) {
	if tableName == "" {
		return nil, fmt.Errorf("--table is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Path, cfg.Log.Level, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		log = nil
	}

	source, err := db.Open(ctx, cfg.Source, log)
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Source.Label(), err)
	}

	statePath := ""
	if cfg.State.Enabled {
		statePath = cfg.State.Path
	}
	store, err := state.NewStore(statePath)
	if err != nil {
		_ = source.Close()
		_ = log.Close()
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	log.Info("session opened", "source", cfg.Source.Label(), "table", tableName, "view", cfg.State.View)
	return &session{cfg: cfg, log: log, source: source, store: store}, nil
}

func (s *session) Close() {
	_ = s.store.Close()
	_ = s.source.Close()
	_ = s.log.Close()
}

func runGrid(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	pm, err := presets.NewManager(s.cfg.State.PresetsDir)
	if err != nil {
		s.log.Warn("presets unavailable", "error", err)
		pm = nil
	}

	a := app.New(app.Options{
		Config:  s.cfg,
		Source:  s.source,
		Store:   s.store,
		Presets: pm,
		Logger:  s.log,
		Table:   tableName,
		View:    s.cfg.State.View,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if s.cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(a, opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
