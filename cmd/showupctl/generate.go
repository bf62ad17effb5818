package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"showup-server/internal/sampledata"

	"github.com/spf13/cobra"
)

var (
	genPatients     int
	genAppointments int
	genSeed         int64
	genOutput       string
)

func init() {
	defaults := sampledata.DefaultOptions()
	generateCmd.Flags().IntVar(&genPatients, "patients", defaults.Patients, "number of patients")
	generateCmd.Flags().IntVar(&genAppointments, "appointments", defaults.AppointmentsPerPatient, "booking attempts per patient (weekend bookings are dropped)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", defaults.Seed, "random seed")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "-", "output file, - for stdout")

	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic appointment history CSV",
	Long: `Generate a realistic appointment history for demos and testing.

Patients are drawn from reliable, mostly reliable, inconsistent and unreliable
archetypes. Monday mornings, 8am slots and first visits lower attendance and
Friday afternoons raise it. Weekends are skipped.

Examples:
  # 50 patients to a file
  showupctl generate -o sample_appointments.csv

  # Larger, different history
  showupctl generate --patients 200 --seed 7 -o big.csv`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	appointments := sampledata.Generate(sampledata.Options{
		Patients:               genPatients,
		AppointmentsPerPatient: genAppointments,
		Seed:                   genSeed,
		Now:                    time.Now(),
	})

	var out io.Writer = cmd.OutOrStdout()
	if genOutput != "-" {
		f, err := os.Create(genOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", genOutput, err)
		}
		defer f.Close()
		out = f
	}
	if err := sampledata.WriteCSV(out, appointments); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	if genOutput != "-" {
		s := sampledata.Summarize(appointments)
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %d appointments to %s\n", s.Total, genOutput)
		if s.Total > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  Showed up: %d (%.1f%%)\n", s.Showed, float64(s.Showed)/float64(s.Total)*100)
			fmt.Fprintf(cmd.OutOrStdout(), "  No-shows:  %d (%.1f%%)\n", s.NoShows, float64(s.NoShows)/float64(s.Total)*100)
		}
	}
	return nil
}
