package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	ErrNotFound  = errors.New("simulation not found")
	ErrForbidden = errors.New("access denied")
	ErrNotSaved  = errors.New("simulation not saved")
)

// Repository persists simulations. Get returns ErrNotFound for unknown ids.
type Repository interface {
	Save(ctx context.Context, sim *Simulation) error
	Get(ctx context.Context, id string) (*Simulation, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID int, limit int) ([]Simulation, error)
	ListFavorites(ctx context.Context, ownerID int) ([]Simulation, error)
	ListPublic(ctx context.Context) ([]Simulation, error)
	SearchPublic(ctx context.Context, query string) ([]Simulation, error)
	SearchByOwner(ctx context.Context, ownerID int, query string) ([]Simulation, error)
}

// RecentLimit is the number of simulations returned by Recent.
const RecentLimit = 5

// Service owns the simulation lifecycle: validation, analysis, persistence
// and owner notification.
type Service struct {
	Repo         Repository
	Notifier     Notifier
	Orchestrator *Orchestrator
	Log          *slog.Logger
}

func NewService(repo Repository, notifier Notifier, orch *Orchestrator, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{Repo: repo, Notifier: notifier, Orchestrator: orch, Log: log}
}

// Create validates req, runs the analysis and saves the simulation whatever
// the outcome. A FAILED run returns the saved simulation with an *AnalysisError.
// If the save itself fails the error wraps ErrNotSaved, the storage error and
// the analysis error, and no simulation is returned.
func (s *Service) Create(ctx context.Context, ownerID int, req Request) (*Simulation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sim := New(ownerID, req)
	s.Log.Info("creating simulation", "simulation", sim.ID, "owner", ownerID)
	return s.analyzeAndSave(ctx, sim)
}

// Update replaces the parameters of an owned simulation and re-runs it.
func (s *Service) Update(ctx context.Context, id string, ownerID int, req Request) (*Simulation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sim, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	req.apply(sim)
	return s.analyzeAndSave(ctx, sim)
}

func (s *Service) analyzeAndSave(ctx context.Context, sim *Simulation) (*Simulation, error) {
	_, _, runErr := s.Orchestrator.Run(ctx, sim)

	sim.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Save(ctx, sim); err != nil {
		s.Log.Error("failed to save simulation", "simulation", sim.ID, "status", sim.Status, "error", err, "analysis_error", runErr)
		return nil, fmt.Errorf("%w: %w", ErrNotSaved, errors.Join(err, runErr))
	}
	s.Log.Info("simulation saved", "simulation", sim.ID, "status", sim.Status)
	s.notify(ctx, sim)

	if runErr != nil {
		return sim, runErr
	}
	return sim, nil
}

func (s *Service) notify(ctx context.Context, sim *Simulation) {
	if s.Notifier == nil {
		return
	}
	n, ok := NotificationFor(sim.Summary())
	if !ok {
		return
	}
	if err := s.Notifier.Notify(ctx, n); err != nil {
		s.Log.Warn("failed to send notification", "simulation", sim.ID, "error", err)
	}
}

// Get returns a simulation visible to userID: public ones and the user's own.
func (s *Service) Get(ctx context.Context, id string, userID int) (*Simulation, error) {
	sim, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sim.IsPublic && sim.OwnerID != userID {
		s.Log.Warn("access denied", "simulation", id, "user", userID)
		return nil, ErrForbidden
	}
	return sim, nil
}

func (s *Service) List(ctx context.Context, ownerID int) ([]Simulation, error) {
	return s.Repo.ListByOwner(ctx, ownerID, 0)
}

func (s *Service) Recent(ctx context.Context, ownerID int) ([]Simulation, error) {
	return s.Repo.ListByOwner(ctx, ownerID, RecentLimit)
}

func (s *Service) Favorites(ctx context.Context, ownerID int) ([]Simulation, error) {
	return s.Repo.ListFavorites(ctx, ownerID)
}

func (s *Service) Public(ctx context.Context) ([]Simulation, error) {
	return s.Repo.ListPublic(ctx)
}

func (s *Service) SearchPublic(ctx context.Context, query string) ([]Simulation, error) {
	return s.Repo.SearchPublic(ctx, query)
}

func (s *Service) Search(ctx context.Context, ownerID int, query string) ([]Simulation, error) {
	return s.Repo.SearchByOwner(ctx, ownerID, query)
}

func (s *Service) Delete(ctx context.Context, id string, ownerID int) error {
	if _, err := s.owned(ctx, id, ownerID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

func (s *Service) ToggleFavorite(ctx context.Context, id string, ownerID int) (*Simulation, error) {
	return s.toggle(ctx, id, ownerID, func(sim *Simulation) { sim.IsFavorite = !sim.IsFavorite })
}

func (s *Service) TogglePublic(ctx context.Context, id string, ownerID int) (*Simulation, error) {
	return s.toggle(ctx, id, ownerID, func(sim *Simulation) { sim.IsPublic = !sim.IsPublic })
}

func (s *Service) toggle(ctx context.Context, id string, ownerID int, flip func(*Simulation)) (*Simulation, error) {
	sim, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	flip(sim)
	sim.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Save(ctx, sim); err != nil {
		return nil, err
	}
	return sim, nil
}

func (s *Service) owned(ctx context.Context, id string, ownerID int) (*Simulation, error) {
	sim, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sim.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return sim, nil
}
