package models

import (
	"context"
	"errors"
	"time"

	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// Owner table names stored in Location.ReferenceType. The polymorphic
// reference doubles as the owning table name, so cost rollups can write
// back to the right aggregate without a type switch.
const (
	ReferenceTypeBuildSystem = "build_systems"
	ReferenceTypeProjectPlan = "project_plans"
)

const (
	LocationLevelTop = 0
	LocationLevelSub = 1
)

type Location struct {
	ID               int       `gorm:"primary_key" json:"id"`
	ReferenceType    string    `gorm:"size:50;index:idx_location_owner;not null" json:"reference_type"`
	ReferenceID      int       `gorm:"index:idx_location_owner;not null" json:"reference_id"`
	ParentLocationId *int      `gorm:"index" json:"parent_location_id"`
	Name             string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Description      string    `gorm:"size:255" json:"description"`
	Level            int       `gorm:"not null;default:0" json:"level"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Devices      []DeviceAssignment `gorm:"foreignKey:LocationId" json:"devices"`
	SubLocations []Location         `gorm:"foreignKey:ParentLocationId" json:"subLocations"`
}

// NewLocation is the nested tree payload: a location carries its device
// lines and its sub-locations; level is derived from nesting depth.
type NewLocation struct {
	Name         string                `json:"name" binding:"required"`
	Description  string                `json:"description"`
	Devices      []NewDeviceAssignment `json:"devices" binding:"omitempty,dive"`
	SubLocations []NewLocation         `json:"subLocations" binding:"omitempty,dive"`
}

func (obj Location) GetId() int {
	return obj.ID
}

// validate a nested payload before any write begins; trees cap at two
// levels, so a sub-location may not carry sub-locations of its own
func validateLocationInputs(ctx context.Context, inputs []NewLocation) error {
	return validateLocationLevel(ctx, inputs, LocationLevelTop)
}

func validateLocationLevel(ctx context.Context, inputs []NewLocation, level int) error {
	for _, input := range inputs {
		if input.Name == "" {
			return errors.New("location name is required")
		}
		if level == LocationLevelSub && len(input.SubLocations) > 0 {
			return errors.New("sub-locations cannot be nested further")
		}
		for _, device := range input.Devices {
			if err := device.validate(ctx); err != nil {
				return err
			}
		}
		if err := validateLocationLevel(ctx, input.SubLocations, level+1); err != nil {
			return err
		}
	}
	return nil
}

// AddLocation creates one location (and anything nested under it) under
// an existing aggregate, without touching sibling locations.
func AddLocation(ctx context.Context, referenceType string, referenceId int, input *NewLocation) (*Location, error) {

	if err := validateAggregateExists(ctx, referenceType, referenceId); err != nil {
		return nil, err
	}
	if err := validateLocationInputs(ctx, []NewLocation{*input}); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	location, err := createLocationNode(ctx, tx, referenceType, referenceId, input, nil)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := RecomputeTotalCost(ctx, tx, referenceType, referenceId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetLocation(ctx, location.ID)
}

// AddSubLocation creates a location one level below an existing one.
// Trees are two levels deep: only a top-level location can take children.
func AddSubLocation(ctx context.Context, parentLocationId int, input *NewLocation) (*Location, error) {

	parent, err := utils.FetchModel[Location](ctx, parentLocationId)
	if err != nil {
		return nil, err
	}
	if parent.Level != LocationLevelTop {
		return nil, errors.New("parent must be a top-level location")
	}
	if err := validateLocationLevel(ctx, []NewLocation{*input}, LocationLevelSub); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	location, err := createLocationNode(ctx, tx, parent.ReferenceType, parent.ReferenceID, input, parent)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := RecomputeTotalCost(ctx, tx, parent.ReferenceType, parent.ReferenceID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetLocation(ctx, location.ID)
}

// DeleteLocation removes a location together with its whole subtree:
// every device assignment under it and every descendant sub-location,
// then refreshes the owning aggregate's total.
func DeleteLocation(ctx context.Context, id int) (*Location, error) {

	location, err := utils.FetchModel[Location](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := deleteLocationSubtree(ctx, tx, location); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := RecomputeTotalCost(ctx, tx, location.ReferenceType, location.ReferenceID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return location, nil
}

func GetLocation(ctx context.Context, id int) (*Location, error) {
	return utils.FetchModel[Location](ctx, id, "Devices.Device", "SubLocations.Devices.Device")
}
