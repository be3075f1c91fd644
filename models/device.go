package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// Device is a catalog entry. Assignments snapshot their own unit price,
// so editing the catalog price never rewrites existing plans.
type Device struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Name         string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Category     string          `gorm:"size:100" json:"category"`
	Brand        string          `gorm:"size:100" json:"brand"`
	Model        string          `gorm:"size:100" json:"model"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"selling_price"`
	Image        string          `gorm:"size:255" json:"image"`
	Description  string          `gorm:"type:text" json:"description"`
	IsActive     *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewDevice struct {
	Name         string          `json:"name" binding:"required"`
	Category     string          `json:"category"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Image        string          `json:"image"`
	Description  string          `json:"description"`
}

func (obj Device) GetId() int {
	return obj.ID
}

func (input *NewDevice) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Device](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Device](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if input.SellingPrice.IsNegative() {
		return errors.New("selling price cannot be negative")
	}
	return nil
}

func CreateDevice(ctx context.Context, input *NewDevice) (*Device, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	device := Device{
		Name:         input.Name,
		Category:     input.Category,
		Brand:        input.Brand,
		Model:        input.Model,
		SellingPrice: input.SellingPrice,
		Image:        input.Image,
		Description:  input.Description,
		IsActive:     utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&device).Error; err != nil {
		return nil, err
	}
	utils.CleanRedisModel[Device](device.ID)
	return &device, nil
}

func UpdateDevice(ctx context.Context, id int, input *NewDevice) (*Device, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	device, err := utils.FetchModel[Device](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(device).Updates(map[string]interface{}{
		"Name":         input.Name,
		"Category":     input.Category,
		"Brand":        input.Brand,
		"Model":        input.Model,
		"SellingPrice": input.SellingPrice,
		"Image":        input.Image,
		"Description":  input.Description,
	}).Error
	if err != nil {
		return nil, err
	}
	utils.CleanRedisModel[Device](id)

	return utils.FetchModel[Device](ctx, id)
}

// DeleteDevice refuses while any assignment still references the
// device; plans keep pointing at real catalog rows.
func DeleteDevice(ctx context.Context, id int) (*Device, error) {

	device, err := utils.FetchModel[Device](ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := utils.ResourceCountWhere[DeviceAssignment](ctx, "device_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("device is assigned to locations")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(device).Error; err != nil {
		return nil, err
	}
	utils.CleanRedisModel[Device](id)

	return device, nil
}

func GetDevice(ctx context.Context, id int) (*Device, error) {
	return GetResource[Device](ctx, id)
}

func PaginateDevices(ctx context.Context, name string, page int, limit int) ([]*Device, int64, error) {
	return paginateByName[Device](ctx, name, page, limit)
}

// ListAllDevices returns the whole catalog for pickers, backed by the
// list cache. Catalog writes drop the cached list via CleanRedisModel.
func ListAllDevices(ctx context.Context) ([]*Device, error) {
	cached, err := utils.RetrieveRedisList[Device]()
	if err == nil && cached != nil {
		return cached, nil
	}
	devices, err := utils.FetchAllModels[Device](ctx)
	if err != nil {
		return nil, err
	}
	utils.StoreRedisList[Device](devices)
	return devices, nil
}

func ToggleActiveDevice(ctx context.Context, id int, isActive bool) (*Device, error) {
	return ToggleActiveModel[Device](ctx, id, isActive)
}
