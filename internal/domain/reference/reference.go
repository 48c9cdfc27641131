// Package reference holds the lazily-populated lookup data resolved from the
// external universe API: station names and security levels, item type names,
// and region names. Records are created on first miss and treated as
// permanent afterwards.
package reference

import "strconv"

// Station is a trading location inside a region
type Station struct {
	StationID int64
	Name      string
	// Security is the station's security level. Nil when the external API
	// did not report one.
	Security *float64
}

// ItemType is a tradable commodity identifier with its display name
type ItemType struct {
	TypeID int64
	Name   string
}

// Region is a top-level market partition
type Region struct {
	RegionID int64
	Name     string
}

// PlaceholderStation synthesizes a display-only station for an id that could
// not be resolved. Lookups must never block arbitrage computation.
func PlaceholderStation(stationID int64) Station {
	return Station{StationID: stationID, Name: strconv.FormatInt(stationID, 10)}
}

// PlaceholderItemType synthesizes a display-only item type for an
// unresolvable id
func PlaceholderItemType(typeID int64) ItemType {
	return ItemType{TypeID: typeID, Name: "Type " + strconv.FormatInt(typeID, 10)}
}

// PlaceholderRegion synthesizes a display-only region for an unresolvable id
func PlaceholderRegion(regionID int64) Region {
	return Region{RegionID: regionID, Name: strconv.FormatInt(regionID, 10)}
}
