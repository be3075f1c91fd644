package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
	"gorm.io/gorm"
)

// ProjectPlan is the live device plan of one installation project. Same
// shape as a BuildSystem; the owner reference is the project.
type ProjectPlan struct {
	ID          int             `gorm:"primary_key" json:"id"`
	ProjectId   int             `gorm:"uniqueIndex;not null" json:"project_id"`
	Name        string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Description string          `gorm:"type:text" json:"description"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	IsActive    *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Locations []Location `gorm:"polymorphic:Reference" json:"locations"`
}

type NewProjectPlan struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Locations   []NewLocation `json:"locations" binding:"omitempty,dive"`
}

// PlanImport is the commit payload of the preview-then-commit template
// import: the echoed export shape, persisted under a target project.
type PlanImport struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Locations   []ImportLocation `json:"locations" binding:"omitempty,dive"`
	Devices     []ImportDevice   `json:"devices" binding:"omitempty,dive"`
}

// ImportResult reports what the commit actually persisted. Skipped
// counts devices whose transient location key matched nothing; they are
// dropped without failing the transaction.
type ImportResult struct {
	Plan           *ProjectPlan `json:"plan"`
	DevicesAdded   int          `json:"devices_added"`
	DevicesSkipped int          `json:"devices_skipped"`
}

func (obj ProjectPlan) GetId() int {
	return obj.ID
}

func (input *NewProjectPlan) validate(ctx context.Context) error {
	if input.Name == "" {
		return errors.New("name is required")
	}
	return validateLocationInputs(ctx, input.Locations)
}

func validateProjectHasNoPlan(ctx context.Context, projectId int) error {
	count, err := utils.ResourceCountWhere[ProjectPlan](ctx, "project_id = ?", projectId)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("project already has a plan")
	}
	return nil
}

func CreateProjectPlan(ctx context.Context, projectId int, input *NewProjectPlan) (*ProjectPlan, error) {

	if err := utils.ValidateResourceId[Project](ctx, projectId); err != nil {
		return nil, errors.New("project not found")
	}
	if err := validateProjectHasNoPlan(ctx, projectId); err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	plan := ProjectPlan{
		ProjectId:   projectId,
		Name:        input.Name,
		Description: input.Description,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&plan).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := createLocationTree(ctx, tx, ReferenceTypeProjectPlan, plan.ID, input.Locations); err != nil {
		tx.Rollback()
		return nil, err
	}
	total, err := RecomputeTotalCost(ctx, tx, ReferenceTypeProjectPlan, plan.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	plan.TotalCost = total
	plan.Locations, err = fetchLocationTree(ctx, ReferenceTypeProjectPlan, plan.ID)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// CreateProjectPlanFromImport commits a projected template export as the
// project's plan. Locations persist first; device lines resolve their
// transient name key against the freshly assigned ids.
func CreateProjectPlanFromImport(ctx context.Context, projectId int, input *PlanImport) (*ImportResult, error) {

	if err := utils.ValidateResourceId[Project](ctx, projectId); err != nil {
		return nil, errors.New("project not found")
	}
	if err := validateProjectHasNoPlan(ctx, projectId); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	deviceIds := make([]int, 0, len(input.Devices))
	for i := range input.Devices {
		device := &input.Devices[i]
		if device.Quantity < 1 {
			return nil, errors.New("quantity must be at least 1")
		}
		if device.UnitPrice.IsNegative() {
			return nil, errors.New("unit price cannot be negative")
		}
		deviceIds = append(deviceIds, device.DeviceId)
	}
	if len(deviceIds) > 0 {
		if err := utils.ValidateResourcesId[Device](ctx, deviceIds); err != nil {
			return nil, errors.New("device not found")
		}
	}

	plan := ProjectPlan{
		ProjectId:   projectId,
		Name:        input.Name,
		Description: input.Description,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&plan).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	added, skipped, err := createTreeFromImport(ctx, tx, ReferenceTypeProjectPlan, plan.ID, input.Locations, input.Devices)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	total, err := RecomputeTotalCost(ctx, tx, ReferenceTypeProjectPlan, plan.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	plan.TotalCost = total
	plan.Locations, err = fetchLocationTree(ctx, ReferenceTypeProjectPlan, plan.ID)
	if err != nil {
		return nil, err
	}
	return &ImportResult{Plan: &plan, DevicesAdded: added, DevicesSkipped: skipped}, nil
}

func UpdateProjectPlanByProject(ctx context.Context, projectId int, input *NewProjectPlan) (*ProjectPlan, error) {

	plan, err := GetProjectPlanByProject(ctx, projectId)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Model(plan).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Description": input.Description,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := replaceLocationTree(ctx, tx, ReferenceTypeProjectPlan, plan.ID, input.Locations); err != nil {
		tx.Rollback()
		return nil, err
	}
	total, err := RecomputeTotalCost(ctx, tx, ReferenceTypeProjectPlan, plan.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	plan.Name = input.Name
	plan.Description = input.Description
	plan.TotalCost = total
	plan.Locations, err = fetchLocationTree(ctx, ReferenceTypeProjectPlan, plan.ID)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func DeleteProjectPlanByProject(ctx context.Context, projectId int) (*ProjectPlan, error) {

	plan, err := GetProjectPlanByProject(ctx, projectId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := deleteAggregateTree(ctx, tx, ReferenceTypeProjectPlan, plan.ID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&ProjectPlan{}, plan.ID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return plan, nil
}

func GetProjectPlanByProject(ctx context.Context, projectId int) (*ProjectPlan, error) {

	db := config.GetDB()
	var plan ProjectPlan
	err := db.WithContext(ctx).Where("project_id = ?", projectId).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	plan.Locations, err = fetchLocationTree(ctx, ReferenceTypeProjectPlan, plan.ID)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func GetProjectPlan(ctx context.Context, id int) (*ProjectPlan, error) {

	plan, err := utils.FetchModel[ProjectPlan](ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Locations, err = fetchLocationTree(ctx, ReferenceTypeProjectPlan, plan.ID)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func PaginateProjectPlans(ctx context.Context, name string, page int, limit int) ([]*ProjectPlan, int64, error) {
	return paginateByName[ProjectPlan](ctx, name, page, limit)
}

func ToggleActiveProjectPlan(ctx context.Context, id int, isActive bool) (*ProjectPlan, error) {
	return ToggleActiveModel[ProjectPlan](ctx, id, isActive)
}

// CloneProjectPlan copies an existing plan's tree into a plan for
// another project. The caller names the target project; the clone never
// mutates the source plan.
func CloneProjectPlan(ctx context.Context, id int, targetProjectId int, name string) (*ProjectPlan, error) {

	source, err := utils.FetchModel[ProjectPlan](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Project](ctx, targetProjectId); err != nil {
		return nil, errors.New("project not found")
	}
	if err := validateProjectHasNoPlan(ctx, targetProjectId); err != nil {
		return nil, err
	}
	if name == "" {
		name = source.Name + " (Copy)"
	}

	target := ProjectPlan{
		ProjectId:   targetProjectId,
		Name:        name,
		Description: source.Description,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&target).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := copyLocationTree(ctx, tx, ReferenceTypeProjectPlan, source.ID, ReferenceTypeProjectPlan, target.ID); err != nil {
		tx.Rollback()
		return nil, err
	}
	total, err := RecomputeTotalCost(ctx, tx, ReferenceTypeProjectPlan, target.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	target.TotalCost = total
	target.Locations, err = fetchLocationTree(ctx, ReferenceTypeProjectPlan, target.ID)
	if err != nil {
		return nil, err
	}
	return &target, nil
}
