package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/owndesign/owndesign/internal/config"
	"github.com/owndesign/owndesign/internal/database"
	"github.com/owndesign/owndesign/internal/logging"
	"github.com/spf13/cobra"
)

var (
	migrateTimeout time.Duration
	migratePrint   bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Define the user, profile and gallery tables and the record access method
on the database configured by SURREAL_URL, SURREAL_NS and SURREAL_DB.
The schema is idempotent and can be applied repeatedly.

Use --print to write the schema to stdout without connecting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migratePrint {
			_, err := fmt.Fprint(cmd.OutOrStdout(), database.Schema())
			return err
		}

		logging.New()
		cfg := config.New()

		ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
		defer cancel()

		conn := database.NewConnection(cfg)
		if err := conn.Connect(ctx); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		defer conn.Close(context.Background())

		if err := database.ApplySchema(ctx, conn); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema applied.")
		return nil
	},
}

func init() {
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", 30*time.Second, "Time allowed for connecting and applying the schema")
	migrateCmd.Flags().BoolVar(&migratePrint, "print", false, "Print the schema instead of applying it")
	rootCmd.AddCommand(migrateCmd)
}
