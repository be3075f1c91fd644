package models

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smartbuild-mm/smartbuild_backend/config"
)

// The flattened export shape. The consuming UI edits locations under
// transient, session-local identifiers before any server round-trip, so
// the location's display name is what survives the hop from preview to
// commit; it is duplicated under two keys because the report renderer
// and the import screen read different ones.

type ExportLocation struct {
	Id               int    `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Level            int    `json:"level"`
	ParentLocationId *int   `json:"parent_location_id"`
}

type ExportDevice struct {
	DeviceId         int             `json:"device_id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Brand            string          `json:"brand"`
	Model            string          `json:"model"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	Image            string          `json:"image"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LocationName     string          `json:"location_name"`
	AssignedLocation string          `json:"assigned_location"`
}

type TreeExport struct {
	Locations []*ExportLocation `json:"locations"`
	Devices   []*ExportDevice   `json:"devices"`
}

// Import payloads echo the export shape back. Device lines reference
// their location by the same transient key the locations payload used.

type ImportLocation struct {
	Name         string           `json:"name" binding:"required"`
	Description  string           `json:"description"`
	SubLocations []ImportLocation `json:"subLocations" binding:"omitempty,dive"`
}

type ImportDevice struct {
	DeviceId         int             `json:"device_id" binding:"required"`
	Quantity         int             `json:"quantity" binding:"required,min=1"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LocationName     string          `json:"location_name"`
	AssignedLocation string          `json:"assigned_location"`
}

// FlattenLocationTree projects an aggregate's tree into the name-keyed,
// denormalized list shape: one entry per location (both levels), one
// entry per device assignment with catalog fields joined at read time.
func FlattenLocationTree(ctx context.Context, referenceType string, referenceId int) (*TreeExport, error) {

	db := config.GetDB()

	var nodes []Location
	err := db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceId).
		Order("level").Order("id").
		Find(&nodes).Error
	if err != nil {
		return nil, err
	}

	export := TreeExport{
		Locations: make([]*ExportLocation, 0, len(nodes)),
		Devices:   []*ExportDevice{},
	}

	nameById := make(map[int]string, len(nodes))
	locationIds := make([]int, 0, len(nodes))
	for i := range nodes {
		node := &nodes[i]
		nameById[node.ID] = node.Name
		locationIds = append(locationIds, node.ID)
		export.Locations = append(export.Locations, &ExportLocation{
			Id:               node.ID,
			Name:             node.Name,
			Description:      node.Description,
			Level:            node.Level,
			ParentLocationId: node.ParentLocationId,
		})
	}
	if len(locationIds) == 0 {
		return &export, nil
	}

	var assignments []DeviceAssignment
	err = db.WithContext(ctx).
		Where("location_id IN ?", locationIds).
		Preload("Device").
		Order("location_id").Order("id").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	for i := range assignments {
		assignment := &assignments[i]
		entry := ExportDevice{
			DeviceId:         assignment.DeviceId,
			Quantity:         assignment.Quantity,
			UnitPrice:        assignment.UnitPrice,
			LocationName:     nameById[assignment.LocationId],
			AssignedLocation: nameById[assignment.LocationId],
		}
		if assignment.Device != nil {
			entry.Name = assignment.Device.Name
			entry.Category = assignment.Device.Category
			entry.Brand = assignment.Device.Brand
			entry.Model = assignment.Device.Model
			entry.SellingPrice = assignment.Device.SellingPrice
			entry.Image = assignment.Device.Image
		}
		export.Devices = append(export.Devices, &entry)
	}

	return &export, nil
}
