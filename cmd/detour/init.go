// The init command creates the data directory and applies the schema.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/detour/internal/sqlite"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the detour data store",
	Long:  `Init creates the data directory, opens the SQLite database, and applies the schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		schema, err := loadSchema()
		if err != nil {
			return err
		}

		backend := sqlite.NewBackend()
		if err := backend.Attach(sqlite.Config{DataDir: dataDir, Schema: schema}); err != nil {
			return fmt.Errorf("attach backend: %w", err)
		}
		if err := backend.Detach(); err != nil {
			return err
		}

		fmt.Printf("initialized detour store in %s\n", dataDir)
		return nil
	},
}
