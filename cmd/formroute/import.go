package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/formroute/formroute/pkg/adapters/sqlite"
	"github.com/formroute/formroute/pkg/adapters/yamlform"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import form definitions into the database",
	Run: func(cmd *cobra.Command, args []string) {
		dbPath, _ := cmd.Flags().GetString("db")
		if dbPath == "" {
			fmt.Println("import requires --db")
			os.Exit(1)
		}
		if err := runImport(dbPath, args); err != nil {
			fmt.Printf("Import failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Args = cobra.MinimumNArgs(1)
}

func runImport(dbPath string, paths []string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	store, err := sqlite.NewStore(db)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, path := range paths {
		graph, err := yamlform.Load(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		id, err := store.CreateForm(ctx, graph)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		fmt.Printf("%s: imported as form %d\n", path, id)
	}
	return nil
}
