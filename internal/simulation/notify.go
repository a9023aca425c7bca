package simulation

import (
	"context"
	"fmt"
)

type NotificationKind string

const (
	KindSimulationComplete NotificationKind = "SIMULATION_COMPLETE"
	KindSimulationFailed   NotificationKind = "SIMULATION_FAILED"
)

// Notification is a message for the owner of a simulation.
type Notification struct {
	UserID      int
	Kind        NotificationKind
	Title       string
	Message     string
	RelatedID   string
	RelatedType string
	ActionURL   string
}

// Notifier delivers notifications; delivery itself lives outside this package.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotificationFor builds the message for a simulation that reached a terminal status.
func NotificationFor(s Summary) (Notification, bool) {
	switch s.Status {
	case Completed:
		msg := fmt.Sprintf("Your simulation %q has finished successfully.", s.Name)
		if s.SafetyFactor != nil {
			msg = fmt.Sprintf("Your simulation %q has finished. Safety Factor: %.2f %s",
				s.Name, *s.SafetyFactor, safetyLabel(*s.SafetyFactor))
		}
		return Notification{
			UserID:      s.OwnerID,
			Kind:        KindSimulationComplete,
			Title:       "Simulation Complete",
			Message:     msg,
			RelatedID:   s.ID,
			RelatedType: "simulation",
			ActionURL:   "/results?id=" + s.ID,
		}, true
	case Failed:
		return Notification{
			UserID:      s.OwnerID,
			Kind:        KindSimulationFailed,
			Title:       "Simulation Failed",
			Message:     fmt.Sprintf("Your simulation %q encountered an error. Please check the parameters and try again.", s.Name),
			RelatedID:   s.ID,
			RelatedType: "simulation",
			ActionURL:   "/simulations",
		}, true
	default:
		return Notification{}, false
	}
}

func safetyLabel(sf float64) string {
	switch {
	case sf >= 1.5:
		return "✅ Safe"
	case sf >= 1.0:
		return "⚠️ Needs Review"
	default:
		return "❌ Critical"
	}
}
