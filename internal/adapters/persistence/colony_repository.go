package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
	"github.com/andrescamacho/colony-engine/internal/domain/track"
)

// GormColonyRepository implements colony.Repository using GORM
type GormColonyRepository struct {
	db *gorm.DB
}

// NewGormColonyRepository creates a new GORM colony repository
func NewGormColonyRepository(db *gorm.DB) *GormColonyRepository {
	return &GormColonyRepository{db: db}
}

// FindResources loads the player's resource ledger.
// On PostgreSQL the row is locked FOR UPDATE until the surrounding transaction ends;
// SQLite serializes writers on its own.
func (r *GormColonyRepository) FindResources(ctx context.Context, playerKey shared.PlayerKey) (*ledger.PlayerResources, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model PlayerResourcesModel
	err := query.Where("player_key = ?", playerKey.Value()).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, colony.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find player resources: %w", err)
	}

	return modelToResources(&model)
}

// FindRecords loads every track record of the player
func (r *GormColonyRepository) FindRecords(ctx context.Context, playerKey shared.PlayerKey) ([]*track.Record, error) {
	var models []TrackRecordModel
	err := r.db.WithContext(ctx).
		Where("player_key = ?", playerKey.Value()).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find track records: %w", err)
	}

	records := make([]*track.Record, 0, len(models))
	for i := range models {
		record, err := modelToRecord(&models[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Exists reports whether the player has a resource ledger
func (r *GormColonyRepository) Exists(ctx context.Context, playerKey shared.PlayerKey) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PlayerResourcesModel{}).
		Where("player_key = ?", playerKey.Value()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check player resources: %w", err)
	}
	return count > 0, nil
}

// CreateResources inserts the ledger row with ON CONFLICT DO NOTHING.
// On PostgreSQL a concurrent insert of the same player blocks until the first commits.
func (r *GormColonyRepository) CreateResources(ctx context.Context, resources *ledger.PlayerResources) (bool, error) {
	model := resourcesToModel(resources)
	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_key"}},
		DoNothing: true,
	}).Create(model)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create player resources: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// SaveResources upserts the ledger row
func (r *GormColonyRepository) SaveResources(ctx context.Context, resources *ledger.PlayerResources) error {
	model := resourcesToModel(resources)
	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"metal", "crystal", "deuterium",
			"metal_capacity", "crystal_capacity", "deuterium_capacity",
			"metal_rate", "crystal_rate", "deuterium_rate",
			"energy_production", "energy_consumption",
			"last_update", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save player resources: %w", err)
	}
	return nil
}

// SaveRecords upserts the given records keyed by (player_key, track, kind)
func (r *GormColonyRepository) SaveRecords(ctx context.Context, playerKey shared.PlayerKey, records []*track.Record) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]TrackRecordModel, len(records))
	for i, record := range records {
		models[i] = recordToModel(playerKey, record)
		models[i].UpdatedAt = now
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_key"}, {Name: "track"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"count", "in_progress", "started_at", "completes_at",
			"charged_metal", "charged_crystal", "charged_deuterium", "updated_at",
		}),
	}).Create(&models).Error
	if err != nil {
		return fmt.Errorf("failed to save track records: %w", err)
	}
	return nil
}

// ListDueBuilds returns up to limit players owning a build that completes at or before now
func (r *GormColonyRepository) ListDueBuilds(ctx context.Context, now time.Time, limit int) ([]shared.PlayerKey, error) {
	query := r.db.WithContext(ctx).
		Model(&TrackRecordModel{}).
		Distinct().
		Where("in_progress > 0 AND completes_at <= ?", now.UTC()).
		Order("player_key")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var raw []string
	if err := query.Pluck("player_key", &raw).Error; err != nil {
		return nil, fmt.Errorf("failed to list due builds: %w", err)
	}

	keys := make([]shared.PlayerKey, 0, len(raw))
	for _, value := range raw {
		key, err := shared.NewPlayerKey(value)
		if err != nil {
			return nil, fmt.Errorf("invalid player key in database: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func modelToResources(model *PlayerResourcesModel) (*ledger.PlayerResources, error) {
	playerKey, err := shared.NewPlayerKey(model.PlayerKey)
	if err != nil {
		return nil, fmt.Errorf("invalid player key in database: %w", err)
	}

	return ledger.ReconstructPlayerResources(
		playerKey,
		shared.ResourceAmounts{Metal: model.Metal, Crystal: model.Crystal, Deuterium: model.Deuterium},
		shared.ResourceAmounts{
			Metal:     model.MetalCapacity,
			Crystal:   model.CrystalCapacity,
			Deuterium: model.DeuteriumCapacity,
		},
		ledger.Rates{
			Metal:     model.MetalRate,
			Crystal:   model.CrystalRate,
			Deuterium: model.DeuteriumRate,
			Energy: ledger.EnergyBalance{
				Production:  model.EnergyProduction,
				Consumption: model.EnergyConsumption,
			},
		},
		model.LastUpdate.UTC(),
	), nil
}

func resourcesToModel(resources *ledger.PlayerResources) *PlayerResourcesModel {
	stock := resources.Stock()
	capacity := resources.Capacity()
	rates := resources.Rates()
	return &PlayerResourcesModel{
		PlayerKey:         resources.PlayerKey().Value(),
		Metal:             stock.Metal,
		Crystal:           stock.Crystal,
		Deuterium:         stock.Deuterium,
		MetalCapacity:     capacity.Metal,
		CrystalCapacity:   capacity.Crystal,
		DeuteriumCapacity: capacity.Deuterium,
		MetalRate:         rates.Metal,
		CrystalRate:       rates.Crystal,
		DeuteriumRate:     rates.Deuterium,
		EnergyProduction:  rates.Energy.Production,
		EnergyConsumption: rates.Energy.Consumption,
		LastUpdate:        resources.LastUpdate(),
	}
}

func modelToRecord(model *TrackRecordModel) (*track.Record, error) {
	trk, err := rules.ParseTrack(model.Track)
	if err != nil {
		return nil, fmt.Errorf("invalid track in database: %w", err)
	}
	kind, err := rules.ParseKind(trk, model.Kind)
	if err != nil {
		return nil, fmt.Errorf("invalid kind in database: %w", err)
	}

	record, err := track.ReconstructRecord(
		kind,
		model.Count,
		model.InProgress,
		utcPtr(model.StartedAt),
		utcPtr(model.CompletesAt),
		rules.Cost{
			Metal:     model.ChargedMetal,
			Crystal:   model.ChargedCrystal,
			Deuterium: model.ChargedDeuterium,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("corrupt track record for player %s: %w", model.PlayerKey, err)
	}
	return record, nil
}

func recordToModel(playerKey shared.PlayerKey, record *track.Record) TrackRecordModel {
	charged := record.ChargedCost()
	return TrackRecordModel{
		PlayerKey:        playerKey.Value(),
		Track:            record.Track().String(),
		Kind:             record.Kind().String(),
		Count:            record.Count(),
		InProgress:       record.InProgressAmount(),
		StartedAt:        record.StartedAt(),
		CompletesAt:      record.CompletesAt(),
		ChargedMetal:     charged.Metal,
		ChargedCrystal:   charged.Crystal,
		ChargedDeuterium: charged.Deuterium,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
