package simulation

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"SimStruct/internal/predict"
)

type stubPredictor struct {
	p     predict.Prediction
	err   error
	calls int
}

func (s *stubPredictor) Predict(ctx context.Context, req predict.BuildingRequest) (predict.Prediction, error) {
	s.calls++
	return s.p, s.err
}

type memRepo struct {
	mu   sync.Mutex
	sims map[string]Simulation
}

func newMemRepo() *memRepo { return &memRepo{sims: map[string]Simulation{}} }

func (m *memRepo) Save(ctx context.Context, sim *Simulation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sims[sim.ID] = *sim
	return nil
}

// failingSaveRepo refuses every write.
type failingSaveRepo struct {
	*memRepo
	err error
}

func (f failingSaveRepo) Save(ctx context.Context, sim *Simulation) error { return f.err }

func (m *memRepo) Get(ctx context.Context, id string) (*Simulation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sim, ok := m.sims[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sim, nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sims[id]; !ok {
		return ErrNotFound
	}
	delete(m.sims, id)
	return nil
}

func (m *memRepo) filter(keep func(Simulation) bool) []Simulation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Simulation
	for _, s := range m.sims {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memRepo) ListByOwner(ctx context.Context, ownerID int, limit int) ([]Simulation, error) {
	out := m.filter(func(s Simulation) bool { return s.OwnerID == ownerID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) ListFavorites(ctx context.Context, ownerID int) ([]Simulation, error) {
	return m.filter(func(s Simulation) bool { return s.OwnerID == ownerID && s.IsFavorite }), nil
}

func (m *memRepo) ListPublic(ctx context.Context) ([]Simulation, error) {
	return m.filter(func(s Simulation) bool { return s.IsPublic }), nil
}

func (m *memRepo) SearchPublic(ctx context.Context, q string) ([]Simulation, error) {
	return m.filter(func(s Simulation) bool { return s.IsPublic && contains(s, q) }), nil
}

func (m *memRepo) SearchByOwner(ctx context.Context, ownerID int, q string) ([]Simulation, error) {
	return m.filter(func(s Simulation) bool { return s.OwnerID == ownerID && contains(s, q) }), nil
}

func contains(s Simulation, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Description), q)
}

type recordingNotifier struct {
	sent []Notification
	err  error
}

func (r *recordingNotifier) Notify(ctx context.Context, n Notification) error {
	r.sent = append(r.sent, n)
	return r.err
}

var errNotifierDown = errors.New("notifier down")

func fptr(v float64) *float64 { return &v }

func healthyPrediction() predict.Prediction {
	return predict.Prediction{
		MaxDeflection:     12.5,
		MaxStress:         150,
		StabilityIndex:    fptr(80),
		SeismicResistance: fptr(75),
		Status:            "Bon",
	}
}

func validRequest() Request {
	return Request{
		Name:           "Warehouse beam",
		Description:    "main span",
		BeamLength:     5,
		BeamWidth:      0.3,
		BeamHeight:     0.5,
		MaterialType:   "STEEL",
		ElasticModulus: 200e9,
		YieldStrength:  fptr(250),
		LoadType:       "UNIFORM",
		LoadMagnitude:  10000,
		SupportType:    "SIMPLY_SUPPORTED",
		Building:       predict.MinimumRequest(),
	}
}
