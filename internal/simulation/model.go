package simulation

import (
	"time"

	beam "SimStruct/internal/calc/beam"
	"SimStruct/internal/predict"

	"github.com/google/uuid"
)

type Status string

const (
	Pending   Status = "PENDING"
	Running   Status = "RUNNING"
	Completed Status = "COMPLETED"
	Failed    Status = "FAILED"
)

// Terminal reports whether no analysis is in progress for the status.
func (s Status) Terminal() bool { return s == Completed || s == Failed }

// Simulation is a persisted beam configuration together with its latest analysis.
type Simulation struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	OwnerID     int                     `json:"owner_id"`
	Input       beam.Input              `json:"input"`
	Building    predict.BuildingRequest `json:"building"`
	Status      Status                  `json:"status"`
	IsPublic    bool                    `json:"is_public"`
	IsFavorite  bool                    `json:"is_favorite"`
	Result      *beam.Result            `json:"result,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// New builds a PENDING simulation owned by ownerID from a validated request.
func New(ownerID int, req Request) *Simulation {
	now := time.Now().UTC()
	sim := &Simulation{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Status:    Pending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.apply(sim)
	return sim
}

// Summary carries what a completion or failure notification needs.
type Summary struct {
	ID           string
	Name         string
	OwnerID      int
	Status       Status
	SafetyFactor *float64
}

func (s *Simulation) Summary() Summary {
	sum := Summary{ID: s.ID, Name: s.Name, OwnerID: s.OwnerID, Status: s.Status}
	if s.Status == Completed && s.Result != nil {
		sf := s.Result.SafetyFactor
		sum.SafetyFactor = &sf
	}
	return sum
}
