package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	beam "SimStruct/internal/calc/beam"
	"SimStruct/internal/predict"
)

// Predictor is the remote structural prediction the orchestrator delegates to.
type Predictor interface {
	Predict(ctx context.Context, req predict.BuildingRequest) (predict.Prediction, error)
}

// AnalysisError is returned when a run ends FAILED. It unwraps to the
// upstream prediction error.
type AnalysisError struct {
	SimulationID string
	Err          error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis of simulation %s failed: %v", e.SimulationID, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// PlaceholderFrequency is reported as natural frequency on prediction-based results.
const PlaceholderFrequency = 10.0

// Orchestrator runs the analysis of a simulation. Every run is delegated to
// the prediction service; a failed prediction fails the run and is not
// replaced by a local engine result.
type Orchestrator struct {
	Predictor Predictor
	Log       *slog.Logger
}

func NewOrchestrator(p Predictor, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{Predictor: p, Log: log}
}

// Run moves sim to RUNNING, analyses it and leaves it COMPLETED with a fresh
// result or FAILED with none.
func (o *Orchestrator) Run(ctx context.Context, sim *Simulation) (beam.Result, Status, error) {
	sim.Status = Running
	sim.UpdatedAt = time.Now().UTC()
	o.Log.Debug("analysis started", "simulation", sim.ID)

	p, err := o.Predictor.Predict(ctx, sim.Building)
	if err != nil {
		sim.Status = Failed
		sim.Result = nil
		o.Log.Error("analysis failed", "simulation", sim.ID, "error", err)
		return beam.Result{}, Failed, &AnalysisError{SimulationID: sim.ID, Err: err}
	}

	res := FromPrediction(p, sim.Input)
	sim.Result = &res
	sim.Status = Completed
	o.Log.Info("analysis completed", "simulation", sim.ID, "safety_factor", res.SafetyFactor)
	return res, Completed, nil
}

// PredictionYieldStrength returns the yield strength compared against the
// predicted stress (MPa): the explicit value when given, otherwise the
// material default converted to MPa.
func PredictionYieldStrength(m beam.MaterialProps) float64 {
	if m.YieldStrength != nil {
		return *m.YieldStrength
	}
	return beam.DefaultYieldStrength(m.Material) / 1e6
}

// FromPrediction shapes a prediction into the canonical result record.
// Moment, shear and frequency are approximations, not derived values.
func FromPrediction(p predict.Prediction, in beam.Input) beam.Result {
	yield := PredictionYieldStrength(in.Material)
	sf := yield / math.Max(p.MaxStress, 1.0)
	g := in.Geometry
	volume := g.LengthM * g.WidthM * g.HeightM

	return beam.Result{
		MaxDeflection:    p.MaxDeflection,
		MaxStress:        p.MaxStress,
		MaxBendingMoment: p.MaxStress * 0.5,
		MaxShearForce:    in.Load.Magnitude / 2,
		SafetyFactor:     sf,
		IsSafe:           p.IsSafe() && sf >= beam.SafeThreshold,
		Recommendations:  PredictionRecommendations(p, sf),
		NaturalFrequency: PlaceholderFrequency,
		CriticalLoad:     in.Load.Magnitude * sf,
		Weight:           volume * beam.ResolveDensity(in.Material.Material, in.Material.DensityKgM3),
	}
}

// PredictionRecommendations renders the advice text for a prediction-based result.
func PredictionRecommendations(p predict.Prediction, safetyFactor float64) string {
	var sb strings.Builder
	sb.WriteString("🤖 AI Deep Learning Analysis\n\n")
	fmt.Fprintf(&sb, "Status: %s\n", p.Status)
	fmt.Fprintf(&sb, "Stability Index: %.1f%%\n", p.Stability())
	fmt.Fprintf(&sb, "Seismic Resistance: %.1f%%\n", p.Seismic())
	fmt.Fprintf(&sb, "Safety Factor: %.2f\n\n", safetyFactor)

	switch s := p.Stability(); {
	case s >= 70:
		sb.WriteString("✅ Structure meets stability requirements\n")
	case s >= 50:
		sb.WriteString("⚠️ Consider reinforcing structure for better stability\n")
	default:
		sb.WriteString("❌ Structure needs significant reinforcement\n")
	}

	switch s := p.Seismic(); {
	case s >= 70:
		sb.WriteString("✅ Good seismic resistance\n")
	case s >= 50:
		sb.WriteString("⚠️ Improve seismic resistance for earthquake zones\n")
	default:
		sb.WriteString("❌ Seismic resistance insufficient for high-risk areas\n")
	}
	return sb.String()
}
