package main

import (
	"fmt"

	"showup-server/internal/importer"

	"github.com/spf13/cobra"
)

var (
	predictPatient string
	predictAt      string
)

func init() {
	predictCmd.Flags().StringVar(&predictPatient, "patient", "", "patient code")
	predictCmd.Flags().StringVar(&predictAt, "at", "", "appointment time, YYYY-MM-DD HH:MM[:SS]")
	_ = predictCmd.MarkFlagRequired("patient")
	_ = predictCmd.MarkFlagRequired("at")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the no-show model on the imported history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Risk.Train(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]any{
			"model_version":    result.ModelVersion,
			"training_samples": result.TrainingSamples,
			"metrics":          result.Metrics,
		})
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the no-show risk of an upcoming appointment",
	Long: `Predict the no-show risk of an upcoming appointment.

Examples:
  showupctl predict --patient P001 --at "2026-11-02 08:00"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := importer.ParseDateTime(predictAt)
		if err != nil {
			return fmt.Errorf("invalid --at %q: %w", predictAt, err)
		}

		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		assessment, err := a.Risk.Assess(ctx, providerID, predictPatient, at)
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]any{
			"patient_code":         predictPatient,
			"appointment_datetime": predictAt,
			"known_patient":        assessment.KnownPatient,
			"prediction":           assessment.Prediction,
			"recommendation":       assessment.Recommendation,
		})
	},
}
