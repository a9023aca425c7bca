package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	beam "SimStruct/internal/calc/beam"
	"SimStruct/internal/predict"
	"SimStruct/internal/simulation"

	"github.com/jmoiron/sqlx"
)

// simulationRow is the flat table shape of a simulation.
type simulationRow struct {
	ID             string         `db:"id"`
	OwnerID        int            `db:"owner_id"`
	Name           string         `db:"name"`
	Description    string         `db:"description"`
	BeamLength     float64        `db:"beam_length"`
	BeamWidth      float64        `db:"beam_width"`
	BeamHeight     float64        `db:"beam_height"`
	MaterialType   string         `db:"material_type"`
	ElasticModulus float64        `db:"elastic_modulus"`
	Density        *float64       `db:"density"`
	YieldStrength  *float64       `db:"yield_strength"`
	LoadType       string         `db:"load_type"`
	LoadMagnitude  float64        `db:"load_magnitude"`
	LoadPosition   *float64       `db:"load_position"`
	SupportType    string         `db:"support_type"`
	Building       string         `db:"building"`
	Status         string         `db:"status"`
	IsPublic       bool           `db:"is_public"`
	IsFavorite     bool           `db:"is_favorite"`
	Result         sql.NullString `db:"result"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

const simulationColumns = `id, owner_id, name, description, beam_length, beam_width, beam_height,
	material_type, elastic_modulus, density, yield_strength, load_type, load_magnitude,
	load_position, support_type, building, status, is_public, is_favorite,
	result, created_at, updated_at`

func toRow(s *simulation.Simulation) (simulationRow, error) {
	building, err := json.Marshal(s.Building)
	if err != nil {
		return simulationRow{}, err
	}
	var result sql.NullString
	if s.Result != nil {
		b, err := json.Marshal(s.Result)
		if err != nil {
			return simulationRow{}, err
		}
		result = sql.NullString{String: string(b), Valid: true}
	}
	in := s.Input
	return simulationRow{
		ID:             s.ID,
		OwnerID:        s.OwnerID,
		Name:           s.Name,
		Description:    s.Description,
		BeamLength:     in.Geometry.LengthM,
		BeamWidth:      in.Geometry.WidthM,
		BeamHeight:     in.Geometry.HeightM,
		MaterialType:   string(in.Material.Material),
		ElasticModulus: in.Material.ElasticModulus,
		Density:        in.Material.DensityKgM3,
		YieldStrength:  in.Material.YieldStrength,
		LoadType:       string(in.Load.Kind),
		LoadMagnitude:  in.Load.Magnitude,
		LoadPosition:   in.Load.PositionM,
		SupportType:    string(in.Support),
		Building:       string(building),
		Status:         string(s.Status),
		IsPublic:       s.IsPublic,
		IsFavorite:     s.IsFavorite,
		Result:         result,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}, nil
}

func (r simulationRow) toSimulation() (simulation.Simulation, error) {
	s := simulation.Simulation{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		Input: beam.Input{
			Geometry: beam.Geometry{LengthM: r.BeamLength, WidthM: r.BeamWidth, HeightM: r.BeamHeight},
			Material: beam.MaterialProps{
				Material:       beam.Material(r.MaterialType),
				ElasticModulus: r.ElasticModulus,
				YieldStrength:  r.YieldStrength,
				DensityKgM3:    r.Density,
			},
			Load:    beam.Load{Kind: beam.LoadKind(r.LoadType), Magnitude: r.LoadMagnitude, PositionM: r.LoadPosition},
			Support: beam.SupportKind(r.SupportType),
		},
		Status:     simulation.Status(r.Status),
		IsPublic:   r.IsPublic,
		IsFavorite: r.IsFavorite,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	var b predict.BuildingRequest
	if err := json.Unmarshal([]byte(r.Building), &b); err != nil {
		return s, fmt.Errorf("simulation %s: building: %w", r.ID, err)
	}
	s.Building = b
	if r.Result.Valid {
		var res beam.Result
		if err := json.Unmarshal([]byte(r.Result.String), &res); err != nil {
			return s, fmt.Errorf("simulation %s: result: %w", r.ID, err)
		}
		s.Result = &res
	}
	return s, nil
}

type SimulationRepository struct {
	db *sqlx.DB
}

func NewSimulationRepository(db *sqlx.DB) *SimulationRepository {
	return &SimulationRepository{db: db}
}

// Save inserts sim or overwrites the stored copy.
func (r *SimulationRepository) Save(ctx context.Context, sim *simulation.Simulation) error {
	row, err := toRow(sim)
	if err != nil {
		return err
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO simulations (`+simulationColumns+`)
		VALUES (:id, :owner_id, :name, :description, :beam_length, :beam_width, :beam_height,
			:material_type, :elastic_modulus, :density, :yield_strength, :load_type, :load_magnitude,
			:load_position, :support_type, :building, :status, :is_public, :is_favorite,
			:result, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			beam_length = EXCLUDED.beam_length,
			beam_width = EXCLUDED.beam_width,
			beam_height = EXCLUDED.beam_height,
			material_type = EXCLUDED.material_type,
			elastic_modulus = EXCLUDED.elastic_modulus,
			density = EXCLUDED.density,
			yield_strength = EXCLUDED.yield_strength,
			load_type = EXCLUDED.load_type,
			load_magnitude = EXCLUDED.load_magnitude,
			load_position = EXCLUDED.load_position,
			support_type = EXCLUDED.support_type,
			building = EXCLUDED.building,
			status = EXCLUDED.status,
			is_public = EXCLUDED.is_public,
			is_favorite = EXCLUDED.is_favorite,
			result = EXCLUDED.result,
			updated_at = EXCLUDED.updated_at`, row)
	return err
}

func (r *SimulationRepository) Get(ctx context.Context, id string) (*simulation.Simulation, error) {
	var row simulationRow
	err := r.db.GetContext(ctx, &row, "SELECT "+simulationColumns+" FROM simulations WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, simulation.ErrNotFound
	}
	if err != nil {
		// malformed uuids are reported by postgres as a syntax error
		if isInvalidText(err) {
			return nil, simulation.ErrNotFound
		}
		return nil, err
	}
	sim, err := row.toSimulation()
	if err != nil {
		return nil, err
	}
	return &sim, nil
}

func (r *SimulationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM simulations WHERE id = $1", id)
	return affected(res, err, simulation.ErrNotFound)
}

func (r *SimulationRepository) ListByOwner(ctx context.Context, ownerID int, limit int) ([]simulation.Simulation, error) {
	q := "SELECT " + simulationColumns + " FROM simulations WHERE owner_id = $1 ORDER BY created_at DESC"
	if limit > 0 {
		return r.selectSims(ctx, q+" LIMIT $2", ownerID, limit)
	}
	return r.selectSims(ctx, q, ownerID)
}

func (r *SimulationRepository) ListFavorites(ctx context.Context, ownerID int) ([]simulation.Simulation, error) {
	return r.selectSims(ctx, "SELECT "+simulationColumns+
		" FROM simulations WHERE owner_id = $1 AND is_favorite ORDER BY created_at DESC", ownerID)
}

func (r *SimulationRepository) ListPublic(ctx context.Context) ([]simulation.Simulation, error) {
	return r.selectSims(ctx, "SELECT "+simulationColumns+
		" FROM simulations WHERE is_public ORDER BY created_at DESC")
}

func (r *SimulationRepository) SearchPublic(ctx context.Context, query string) ([]simulation.Simulation, error) {
	return r.selectSims(ctx, "SELECT "+simulationColumns+
		" FROM simulations WHERE is_public AND (name ILIKE $1 OR description ILIKE $1) ORDER BY created_at DESC",
		likePattern(query))
}

func (r *SimulationRepository) SearchByOwner(ctx context.Context, ownerID int, query string) ([]simulation.Simulation, error) {
	return r.selectSims(ctx, "SELECT "+simulationColumns+
		" FROM simulations WHERE owner_id = $1 AND (name ILIKE $2 OR description ILIKE $2) ORDER BY created_at DESC",
		ownerID, likePattern(query))
}

func (r *SimulationRepository) selectSims(ctx context.Context, query string, args ...any) ([]simulation.Simulation, error) {
	var rows []simulationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]simulation.Simulation, 0, len(rows))
	for _, row := range rows {
		sim, err := row.toSimulation()
		if err != nil {
			return nil, err
		}
		out = append(out, sim)
	}
	return out, nil
}
