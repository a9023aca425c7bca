package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"SimStruct/internal/predict"

	"github.com/spf13/cobra"
)

var (
	aiURL     string
	aiTimeout time.Duration
	building  predict.BuildingRequest
	asJSON    bool
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Talk to the structural prediction service",
}

var aiHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the prediction service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newAIClient()
		healthy := c.IsHealthy(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "%s healthy=%t\n", c.BaseURL, healthy)
		if !healthy {
			return fmt.Errorf("prediction service at %s is not healthy", c.BaseURL)
		}
		return nil
	},
}

var aiModelInfoCmd = &cobra.Command{
	Use:   "model-info",
	Short: "Print the model description reported by the service",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), newAIClient().ModelInfo(cmd.Context()))
	},
}

var aiPredictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Request a prediction for a building",
	Long: `Send the eleven building parameters to the prediction service.

Example:
  simctl ai predict --floors 5 --floor-height 3.2 --beams 120 --columns 24 \
    --beam-section 40 --column-section 50 --concrete 30 --steel 400 \
    --wind-load 1.2 --live-load 2.5 --dead-load 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newAIClient().Predict(cmd.Context(), building)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Status:\t%s\n", p.Status)
		fmt.Fprintf(w, "  Max deflection:\t%.2f mm\n", p.MaxDeflection)
		fmt.Fprintf(w, "  Max stress:\t%.2f MPa\n", p.MaxStress)
		fmt.Fprintf(w, "  Stability index:\t%.1f%%\n", p.Stability())
		fmt.Fprintf(w, "  Seismic resistance:\t%.1f%%\n", p.Seismic())
		fmt.Fprintf(w, "  Safety level:\t%s\n", p.SafetyLevel())
		fmt.Fprintf(w, "  Safe:\t%t\n", p.IsSafe())
		return w.Flush()
	},
}

func newAIClient() *predict.Client {
	c := predict.NewClient(aiURL, slog.Default())
	if aiTimeout > 0 {
		c.PredictTimeout = aiTimeout
	}
	return c
}

func defaultAIURL() string {
	if v := os.Getenv("AI_API_URL"); v != "" {
		return v
	}
	return "http://localhost:8000"
}

func init() {
	rootCmd.AddCommand(aiCmd)
	aiCmd.AddCommand(aiHealthCmd, aiModelInfoCmd, aiPredictCmd)

	aiCmd.PersistentFlags().StringVar(&aiURL, "url", defaultAIURL(), "Prediction service base URL")
	aiCmd.PersistentFlags().DurationVar(&aiTimeout, "timeout", predict.DefaultPredictTimeout, "Prediction timeout")

	lo := predict.MinimumRequest()
	f := aiPredictCmd.Flags()
	f.Float64Var(&building.NumFloors, "floors", lo.NumFloors, "Number of floors (1-50)")
	f.Float64Var(&building.FloorHeight, "floor-height", lo.FloorHeight, "Floor height in m (2.5-6)")
	f.IntVar(&building.NumBeams, "beams", lo.NumBeams, "Number of beams (10-500)")
	f.IntVar(&building.NumColumns, "columns", lo.NumColumns, "Number of columns (4-200)")
	f.Float64Var(&building.BeamSection, "beam-section", lo.BeamSection, "Beam section in cm (20-100)")
	f.Float64Var(&building.ColumnSection, "column-section", lo.ColumnSection, "Column section in cm (30-150)")
	f.Float64Var(&building.ConcreteStrength, "concrete", lo.ConcreteStrength, "Concrete strength in MPa (20-90)")
	f.Float64Var(&building.SteelGrade, "steel", lo.SteelGrade, "Steel grade in MPa (235-460)")
	f.Float64Var(&building.WindLoad, "wind-load", lo.WindLoad, "Wind load in kN/m² (0.5-3)")
	f.Float64Var(&building.LiveLoad, "live-load", lo.LiveLoad, "Live load in kN/m² (1.5-5)")
	f.Float64Var(&building.DeadLoad, "dead-load", lo.DeadLoad, "Dead load in kN/m² (3-8)")
	f.BoolVar(&asJSON, "json", false, "Print the raw prediction as JSON")
}
