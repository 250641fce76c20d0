package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazygrid/internal/db"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Store the configured PostgreSQL user's password in the system keyring",
	Long: `Password reads a password from standard input and stores it in the
system keyring for the source configured in the config file. lazygrid looks
it up when the config names a user but no password.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Source.Driver != models.DriverPostgres || cfg.Source.DSN != "" {
			return fmt.Errorf("keyring passwords apply to postgres sources configured by host, user and database")
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s@%s/%s: ", cfg.Source.User, cfg.Source.Host, cfg.Source.Database)
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}

		if err := db.StorePassword(cfg.Source, strings.TrimRight(line, "\r\n")); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Stored.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(passwordCmd)
}
