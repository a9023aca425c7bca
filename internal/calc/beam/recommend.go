package beam

import (
	"fmt"
	"strings"
)

// Recommend builds the advice text for an engine result: safety factor band,
// deflection against L/250 and L/500, then stress utilisation.
func Recommend(safetyFactor, deflection, length, stress, yieldStrength float64) string {
	var sb strings.Builder

	switch {
	case safetyFactor >= 3.0:
		sb.WriteString("✅ Excellent safety margin. Structure is over-designed. ")
		sb.WriteString("Consider optimizing cross-section to reduce material cost. ")
	case safetyFactor >= 2.0:
		sb.WriteString("✅ Good safety factor. Structure meets typical design requirements. ")
	case safetyFactor >= SafeThreshold:
		sb.WriteString("⚠️ Adequate but minimal safety margin. ")
		sb.WriteString("Consider increasing section size for additional safety. ")
	case safetyFactor >= 1.0:
		sb.WriteString("⚠️ WARNING: Safety factor below recommended minimum of 1.5. ")
		sb.WriteString("Increase section dimensions or use stronger material. ")
	default:
		sb.WriteString("❌ CRITICAL: Structure will likely fail under load! ")
		sb.WriteString("Immediate redesign required. Increase section size significantly. ")
	}

	if deflection > length/250 {
		sb.WriteString("⚠️ Deflection exceeds L/250 limit. Consider increasing stiffness. ")
	} else if deflection > length/500 {
		sb.WriteString("Deflection is acceptable but could be reduced for better serviceability. ")
	}

	utilization := (stress / yieldStrength) * 100
	fmt.Fprintf(&sb, "Stress utilization: %.1f%%. ", utilization)

	return strings.TrimSpace(sb.String())
}
