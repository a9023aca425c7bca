package main

import (
	"fmt"
	"text/tabwriter"

	beam "SimStruct/internal/calc/beam"

	"github.com/spf13/cobra"
)

var (
	beamLength   float64
	beamWidth    float64
	beamHeight   float64
	beamMaterial string
	beamE        float64
	beamYield    float64
	beamDensity  float64
	beamLoad     float64
	beamLoadKind string
	beamPosition float64
	beamSupport  string
)

var beamCmd = &cobra.Command{
	Use:   "beam",
	Short: "Analyse a rectangular beam with closed-form formulas",
	Long: `Evaluate deflection, moment, shear, stress and safety factor of a
rectangular beam.

Examples:
  # 5 m simply supported steel beam, 10 kN uniform load
  simctl beam --length 5 --width 0.3 --height 0.5 --load 10000

  # Cantilever with a point load at 1.2 m
  simctl beam -L 3 -b 0.2 --height 0.4 --support FIXED_FREE --load-kind POINT --load 2000 --position 1.2`,
	RunE: runBeam,
}

func init() {
	rootCmd.AddCommand(beamCmd)

	f := beamCmd.Flags()
	f.Float64VarP(&beamLength, "length", "L", 0, "Span length (m) [required]")
	f.Float64VarP(&beamWidth, "width", "b", 0, "Section width (m) [required]")
	f.Float64Var(&beamHeight, "height", 0, "Section height (m) [required]")
	f.StringVarP(&beamMaterial, "material", "m", string(beam.Steel), "STEEL, CONCRETE, WOOD, ALUMINUM or COMPOSITE")
	f.Float64VarP(&beamE, "elastic-modulus", "E", 200e9, "Elastic modulus (Pa)")
	f.Float64Var(&beamYield, "yield", 0, "Yield strength (Pa), material default when 0")
	f.Float64Var(&beamDensity, "density", 0, "Density (kg/m³), material default when 0")
	f.Float64VarP(&beamLoad, "load", "P", 0, "Load magnitude (N) [required]")
	f.StringVar(&beamLoadKind, "load-kind", "UNIFORM", "POINT, DISTRIBUTED, UNIFORM, MOMENT, TRIANGULAR or TRAPEZOIDAL")
	f.Float64Var(&beamPosition, "position", -1, "Point load position from the left support (m), midspan when omitted")
	f.StringVarP(&beamSupport, "support", "s", "SIMPLY_SUPPORTED", "SIMPLY_SUPPORTED, FIXED_FREE, FIXED_FIXED, FIXED_PINNED, CONTINUOUS or PINNED")

	beamCmd.MarkFlagRequired("length")
	beamCmd.MarkFlagRequired("width")
	beamCmd.MarkFlagRequired("height")
	beamCmd.MarkFlagRequired("load")
}

func beamInput(cmd *cobra.Command) beam.Input {
	in := beam.Input{
		Geometry: beam.Geometry{LengthM: beamLength, WidthM: beamWidth, HeightM: beamHeight},
		Material: beam.MaterialProps{Material: beam.Material(beamMaterial), ElasticModulus: beamE},
		Load:     beam.Load{Kind: beam.LoadKind(beamLoadKind), Magnitude: beamLoad},
		Support:  beam.SupportKind(beamSupport),
	}
	if beamYield > 0 {
		v := beamYield
		in.Material.YieldStrength = &v
	}
	if beamDensity > 0 {
		v := beamDensity
		in.Material.DensityKgM3 = &v
	}
	if cmd.Flags().Changed("position") {
		v := beamPosition
		in.Load.PositionM = &v
	}
	return in
}

func runBeam(cmd *cobra.Command, args []string) error {
	in := beamInput(cmd)
	if err := in.Validate(); err != nil {
		return err
	}
	res := beam.Analyze(in)
	if !res.Finite() {
		return fmt.Errorf("calculation produced a non-finite result")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "INPUT DATA:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Support:\t%s\n", in.Support)
	fmt.Fprintf(w, "  Material:\t%s\n", in.Material.Material)
	fmt.Fprintf(w, "  Span (L):\t%.3f m\n", in.Geometry.LengthM)
	fmt.Fprintf(w, "  Section (b x h):\t%.3f x %.3f m\n", in.Geometry.WidthM, in.Geometry.HeightM)
	fmt.Fprintf(w, "  Load:\t%s %.1f N\n", in.Load.Kind, in.Load.Magnitude)
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "RESULTS:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Max deflection:\t%.6f m\n", res.MaxDeflection)
	fmt.Fprintf(w, "  Max bending moment:\t%.2f N·m\n", res.MaxBendingMoment)
	fmt.Fprintf(w, "  Max shear force:\t%.2f N\n", res.MaxShearForce)
	fmt.Fprintf(w, "  Max stress:\t%.2f Pa\n", res.MaxStress)
	fmt.Fprintf(w, "  Safety factor:\t%.2f\n", res.SafetyFactor)
	fmt.Fprintf(w, "  Natural frequency:\t%.2f Hz\n", res.NaturalFrequency)
	fmt.Fprintf(w, "  Critical load:\t%.1f N\n", res.CriticalLoad)
	fmt.Fprintf(w, "  Weight:\t%.1f kg\n", res.Weight)
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "STATUS:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	fmt.Fprintln(out, res.Recommendations)
	return nil
}
