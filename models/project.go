package models

import (
	"context"
	"errors"
	"time"

	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
	"gorm.io/gorm"
)

// Project is the installation job for a client. A project owns at most
// one plan; the plan is the project's device BOM.
type Project struct {
	ID          int       `gorm:"primary_key" json:"id"`
	ClientId    int       `gorm:"index;not null" json:"client_id" binding:"required"`
	Name        string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Description string    `gorm:"type:text" json:"description"`
	Address     string    `gorm:"type:text" json:"address"`
	IsActive    *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedBy   int       `gorm:"index" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Client *Client      `json:"client,omitempty"`
	Plan   *ProjectPlan `gorm:"foreignKey:ProjectId" json:"plan,omitempty"`
}

type NewProject struct {
	ClientId    int    `json:"client_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
}

func (obj Project) GetId() int {
	return obj.ID
}

func (input *NewProject) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Project](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Client](ctx, input.ClientId); err != nil {
		return errors.New("client not found")
	}
	return nil
}

func CreateProject(ctx context.Context, input *NewProject) (*Project, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	project := Project{
		ClientId:    input.ClientId,
		Name:        input.Name,
		Description: input.Description,
		Address:     input.Address,
		IsActive:    utils.NewTrue(),
		CreatedBy:   userId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func UpdateProject(ctx context.Context, id int, input *NewProject) (*Project, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	project, err := utils.FetchModel[Project](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(project).Updates(map[string]interface{}{
		"ClientId":    input.ClientId,
		"Name":        input.Name,
		"Description": input.Description,
		"Address":     input.Address,
	}).Error
	if err != nil {
		return nil, err
	}

	return utils.FetchModel[Project](ctx, id, "Client")
}

// DeleteProject removes the project together with its plan and the
// plan's whole location tree, all in one transaction.
func DeleteProject(ctx context.Context, id int) (*Project, error) {

	project, err := utils.FetchModel[Project](ctx, id)
	if err != nil {
		return nil, err
	}

	var plan ProjectPlan
	hasPlan := true
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("project_id = ?", id).First(&plan).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		hasPlan = false
	}

	tx := db.Begin()

	if hasPlan {
		if err := deleteAggregateTree(ctx, tx, ReferenceTypeProjectPlan, plan.ID); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.WithContext(ctx).Delete(&plan).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.WithContext(ctx).Delete(project).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return project, nil
}

func GetProject(ctx context.Context, id int) (*Project, error) {
	return utils.FetchModel[Project](ctx, id, "Client", "Plan")
}

func PaginateProjects(ctx context.Context, name string, page int, limit int) ([]*Project, int64, error) {
	return paginateByName[Project](ctx, name, page, limit)
}

func ToggleActiveProject(ctx context.Context, id int, isActive bool) (*Project, error) {
	return ToggleActiveModel[Project](ctx, id, isActive)
}
