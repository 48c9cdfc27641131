package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/evemarkets-go/internal/domain/reference"
)

// GormReferenceStore implements reference.Store using GORM
type GormReferenceStore struct {
	db *gorm.DB
}

// NewGormReferenceStore creates a new GORM reference data store
func NewGormReferenceStore(db *gorm.DB) *GormReferenceStore {
	return &GormReferenceStore{db: db}
}

// GetStation retrieves a resolved station by id
func (s *GormReferenceStore) GetStation(ctx context.Context, stationID int64) (*reference.Station, error) {
	var model StationModel
	result := s.db.WithContext(ctx).First(&model, "station_id = ?", stationID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, reference.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get station %d: %w", stationID, result.Error)
	}

	return &reference.Station{
		StationID: model.StationID,
		Name:      model.Name,
		Security:  model.Security,
	}, nil
}

// SaveStation upserts a station record keyed by station id
func (s *GormReferenceStore) SaveStation(ctx context.Context, station *reference.Station) error {
	model := StationModel{
		StationID: station.StationID,
		Name:      station.Name,
		Security:  station.Security,
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "station_id"}},
			UpdateAll: true,
		}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to save station %d: %w", station.StationID, result.Error)
	}
	return nil
}

// SearchStations returns stations whose name contains the query,
// case-insensitively, ordered by name
func (s *GormReferenceStore) SearchStations(ctx context.Context, nameQuery string, limit int) ([]reference.Station, error) {
	var models []StationModel
	query := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameQuery)+"%").
		Order("name")
	if limit > 0 {
		query = query.Limit(limit)
	}

	result := query.Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to search stations: %w", result.Error)
	}

	stations := make([]reference.Station, len(models))
	for i, model := range models {
		stations[i] = reference.Station{
			StationID: model.StationID,
			Name:      model.Name,
			Security:  model.Security,
		}
	}
	return stations, nil
}

// GetItemType retrieves a resolved item type by id
func (s *GormReferenceStore) GetItemType(ctx context.Context, typeID int64) (*reference.ItemType, error) {
	var model ItemTypeModel
	result := s.db.WithContext(ctx).First(&model, "type_id = ?", typeID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, reference.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item type %d: %w", typeID, result.Error)
	}

	return &reference.ItemType{TypeID: model.TypeID, Name: model.Name}, nil
}

// SaveItemType upserts an item type record keyed by type id
func (s *GormReferenceStore) SaveItemType(ctx context.Context, itemType *reference.ItemType) error {
	model := ItemTypeModel{TypeID: itemType.TypeID, Name: itemType.Name}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type_id"}},
			UpdateAll: true,
		}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to save item type %d: %w", itemType.TypeID, result.Error)
	}
	return nil
}

// GetRegion retrieves a resolved region by id
func (s *GormReferenceStore) GetRegion(ctx context.Context, regionID int64) (*reference.Region, error) {
	var model RegionModel
	result := s.db.WithContext(ctx).First(&model, "region_id = ?", regionID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, reference.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get region %d: %w", regionID, result.Error)
	}

	return &reference.Region{RegionID: model.RegionID, Name: model.Name}, nil
}

// SaveRegion upserts a region record keyed by region id
func (s *GormReferenceStore) SaveRegion(ctx context.Context, region *reference.Region) error {
	model := RegionModel{RegionID: region.RegionID, Name: region.Name}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "region_id"}},
			UpdateAll: true,
		}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to save region %d: %w", region.RegionID, result.Error)
	}
	return nil
}
