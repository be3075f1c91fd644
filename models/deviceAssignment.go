package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// DeviceAssignment is one device line under a location. TotalPrice is
// derived; it is always recomputed server-side from quantity * unit
// price, never taken from the client.
type DeviceAssignment struct {
	ID         int             `gorm:"primary_key" json:"id"`
	LocationId int             `gorm:"index;not null" json:"location_id"`
	DeviceId   int             `gorm:"index;not null" json:"device_id" binding:"required"`
	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Device *Device `json:"device,omitempty"`
}

type NewDeviceAssignment struct {
	DeviceId  int             `json:"device_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (obj DeviceAssignment) GetId() int {
	return obj.ID
}

// validate input for both create & update
func (input *NewDeviceAssignment) validate(ctx context.Context) error {
	if input.Quantity < 1 {
		return errors.New("quantity must be at least 1")
	}
	if input.UnitPrice.IsNegative() {
		return errors.New("unit price cannot be negative")
	}
	if err := utils.ValidateResourceId[Device](ctx, input.DeviceId); err != nil {
		return errors.New("device not found")
	}
	return nil
}

func (input *NewDeviceAssignment) toAssignment(locationId int) DeviceAssignment {
	return DeviceAssignment{
		LocationId: locationId,
		DeviceId:   input.DeviceId,
		Quantity:   input.Quantity,
		UnitPrice:  input.UnitPrice,
		TotalPrice: input.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))),
	}
}

// AddLocationDevices associates device lines to an existing location.
// Sibling rows are left untouched; the aggregate total is refreshed in
// the same transaction as the inserts.
func AddLocationDevices(ctx context.Context, locationId int, inputs []NewDeviceAssignment) (*Location, error) {

	location, err := utils.FetchModel[Location](ctx, locationId)
	if err != nil {
		return nil, err
	}
	for i := range inputs {
		if err := inputs[i].validate(ctx); err != nil {
			return nil, err
		}
	}

	db := config.GetDB()
	tx := db.Begin()

	for i := range inputs {
		assignment := inputs[i].toAssignment(location.ID)
		if err := tx.WithContext(ctx).Create(&assignment).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if _, err := RecomputeTotalCost(ctx, tx, location.ReferenceType, location.ReferenceID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetLocation(ctx, location.ID)
}

func UpdateDeviceAssignment(ctx context.Context, id int, input *NewDeviceAssignment) (*DeviceAssignment, error) {

	assignment, err := utils.FetchModel[DeviceAssignment](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	location, err := utils.FetchModel[Location](ctx, assignment.LocationId)
	if err != nil {
		return nil, err
	}

	update := input.toAssignment(assignment.LocationId)
	update.ID = assignment.ID

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"DeviceId":   update.DeviceId,
		"Quantity":   update.Quantity,
		"UnitPrice":  update.UnitPrice,
		"TotalPrice": update.TotalPrice,
	}).Error
	if err != nil {
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

	return &update, nil
}

func DeleteDeviceAssignment(ctx context.Context, id int) (*DeviceAssignment, error) {

	assignment, err := utils.FetchModel[DeviceAssignment](ctx, id)
	if err != nil {
		return nil, err
	}
	location, err := utils.FetchModel[Location](ctx, assignment.LocationId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Delete(assignment).Error; err != nil {
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

	return assignment, nil
}
