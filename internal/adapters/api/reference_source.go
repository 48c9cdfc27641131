package api

import (
	"context"
	"fmt"

	"github.com/andrescamacho/evemarkets-go/internal/domain/reference"
)

// FetchStation retrieves station metadata from the universe API
func (c *ESIClient) FetchStation(ctx context.Context, stationID int64) (*reference.Station, error) {
	var response struct {
		Name     string   `json:"name"`
		Security *float64 `json:"security"`
	}

	path := fmt.Sprintf("/universe/stations/%d/", stationID)
	if _, err := c.get(ctx, path, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch station %d: %w", stationID, err)
	}
	if response.Name == "" {
		return nil, fmt.Errorf("station %d: response carried no name", stationID)
	}

	return &reference.Station{
		StationID: stationID,
		Name:      response.Name,
		Security:  response.Security,
	}, nil
}

// FetchItemType retrieves item type metadata from the universe API
func (c *ESIClient) FetchItemType(ctx context.Context, typeID int64) (*reference.ItemType, error) {
	var response struct {
		Name string `json:"name"`
	}

	path := fmt.Sprintf("/universe/types/%d/", typeID)
	if _, err := c.get(ctx, path, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch item type %d: %w", typeID, err)
	}
	if response.Name == "" {
		return nil, fmt.Errorf("item type %d: response carried no name", typeID)
	}

	return &reference.ItemType{TypeID: typeID, Name: response.Name}, nil
}

// FetchRegion retrieves region metadata from the universe API
func (c *ESIClient) FetchRegion(ctx context.Context, regionID int64) (*reference.Region, error) {
	var response struct {
		Name string `json:"name"`
	}

	path := fmt.Sprintf("/universe/regions/%d/", regionID)
	if _, err := c.get(ctx, path, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch region %d: %w", regionID, err)
	}
	if response.Name == "" {
		return nil, fmt.Errorf("region %d: response carried no name", regionID)
	}

	return &reference.Region{RegionID: regionID, Name: response.Name}, nil
}
