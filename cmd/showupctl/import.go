package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a CSV of historical appointments",
	Long: `Import a CSV of historical appointments as one batch, exactly like the
upload endpoint. Use - to read stdin.

Examples:
  showupctl import sample_appointments.csv
  showupctl generate | showupctl import --provider 2 -`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	result, err := a.Imports.ImportCSV(ctx, providerID, in)
	if err != nil {
		return err
	}
	return printJSON(cmd, map[string]any{
		"appointments_imported": result.ImportedCount,
		"patients_created":      result.PatientsCreated,
		"errors":                result.Errors,
	})
}
