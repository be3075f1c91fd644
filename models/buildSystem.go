package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// BuildSystem is a reusable multi-location device template. Its tree is
// identical in shape to a project plan's; only the owner differs.
type BuildSystem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Description string          `gorm:"type:text" json:"description"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	IsActive    *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedBy   int             `gorm:"index" json:"created_by"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Locations []Location `gorm:"polymorphic:Reference" json:"locations"`
}

type NewBuildSystem struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Locations   []NewLocation `json:"locations" binding:"omitempty,dive"`
}

func (obj BuildSystem) GetId() int {
	return obj.ID
}

func (input *NewBuildSystem) validate(ctx context.Context) error {
	if input.Name == "" {
		return errors.New("name is required")
	}
	return validateLocationInputs(ctx, input.Locations)
}

func CreateBuildSystem(ctx context.Context, input *NewBuildSystem) (*BuildSystem, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	buildSystem := BuildSystem{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    utils.NewTrue(),
		CreatedBy:   userId,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&buildSystem).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := createLocationTree(ctx, tx, ReferenceTypeBuildSystem, buildSystem.ID, input.Locations); err != nil {
		tx.Rollback()
		return nil, err
	}
	total, err := RecomputeTotalCost(ctx, tx, ReferenceTypeBuildSystem, buildSystem.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	buildSystem.TotalCost = total
	buildSystem.Locations, err = fetchLocationTree(ctx, ReferenceTypeBuildSystem, buildSystem.ID)
	if err != nil {
		return nil, err
	}
	return &buildSystem, nil
}

// UpdateBuildSystem replaces the template's whole tree with the payload
// (destructive replace, see locationTree.go) and refreshes the total.
func UpdateBuildSystem(ctx context.Context, id int, input *NewBuildSystem) (*BuildSystem, error) {

	buildSystem, err := utils.FetchModel[BuildSystem](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Model(buildSystem).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Description": input.Description,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := replaceLocationTree(ctx, tx, ReferenceTypeBuildSystem, buildSystem.ID, input.Locations); err != nil {
		tx.Rollback()
		return nil, err
	}
	total, err := RecomputeTotalCost(ctx, tx, ReferenceTypeBuildSystem, buildSystem.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	buildSystem.Name = input.Name
	buildSystem.Description = input.Description
	buildSystem.TotalCost = total
	buildSystem.Locations, err = fetchLocationTree(ctx, ReferenceTypeBuildSystem, buildSystem.ID)
	if err != nil {
		return nil, err
	}
	return buildSystem, nil
}

func DeleteBuildSystem(ctx context.Context, id int) (*BuildSystem, error) {

	buildSystem, err := utils.FetchModel[BuildSystem](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := deleteAggregateTree(ctx, tx, ReferenceTypeBuildSystem, buildSystem.ID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(buildSystem).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return buildSystem, nil
}

func GetBuildSystem(ctx context.Context, id int) (*BuildSystem, error) {

	buildSystem, err := utils.FetchModel[BuildSystem](ctx, id)
	if err != nil {
		return nil, err
	}
	buildSystem.Locations, err = fetchLocationTree(ctx, ReferenceTypeBuildSystem, buildSystem.ID)
	if err != nil {
		return nil, err
	}
	return buildSystem, nil
}

func PaginateBuildSystems(ctx context.Context, name string, page int, limit int) ([]*BuildSystem, int64, error) {
	return paginateByName[BuildSystem](ctx, name, page, limit)
}

func ToggleActiveBuildSystem(ctx context.Context, id int, isActive bool) (*BuildSystem, error) {
	return ToggleActiveModel[BuildSystem](ctx, id, isActive)
}

// CloneBuildSystem copies the whole template, tree included, into a new
// template with fresh ids. The source is read-only during the clone.
func CloneBuildSystem(ctx context.Context, id int, name string) (*BuildSystem, error) {

	source, err := utils.FetchModel[BuildSystem](ctx, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = source.Name + " (Copy)"
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	target := BuildSystem{
		Name:        name,
		Description: source.Description,
		IsActive:    utils.NewTrue(),
		CreatedBy:   userId,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&target).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := copyLocationTree(ctx, tx, ReferenceTypeBuildSystem, source.ID, ReferenceTypeBuildSystem, target.ID); err != nil {
		tx.Rollback()
		return nil, err
	}
	total, err := RecomputeTotalCost(ctx, tx, ReferenceTypeBuildSystem, target.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	target.TotalCost = total
	target.Locations, err = fetchLocationTree(ctx, ReferenceTypeBuildSystem, target.ID)
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// ExportBuildSystem returns the flattened, name-keyed projection used by
// the import preview screen and the report renderers.
func ExportBuildSystem(ctx context.Context, id int) (*TreeExport, error) {

	if err := utils.ValidateResourceId[BuildSystem](ctx, id); err != nil {
		return nil, err
	}
	return FlattenLocationTree(ctx, ReferenceTypeBuildSystem, id)
}
