package models

import (
	"context"
	"errors"
	"time"

	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

type Client struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:100" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Address   string    `gorm:"type:text" json:"address"`
	Notes     string    `gorm:"type:text" json:"notes"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClient struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (obj Client) GetId() int {
	return obj.ID
}

func (input *NewClient) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Client](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Client](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if input.Email != "" {
		if !utils.IsValidEmail(input.Email) {
			return errors.New("email is not valid")
		}
		if err := utils.ValidateUnique[Client](ctx, "email", input.Email, id); err != nil {
			return err
		}
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return err
		}
	}
	return nil
}

// normalizePhone rewrites a non-empty phone to E.164 for storage.
func (input *NewClient) normalizePhone() error {
	if input.Phone == "" {
		return nil
	}
	normalized, err := utils.NormalizePhoneNumber(input.Phone, utils.CountryCode)
	if err != nil {
		return err
	}
	input.Phone = normalized
	return nil
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	if err := input.normalizePhone(); err != nil {
		return nil, err
	}

	client := Client{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Notes:    input.Notes,
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func UpdateClient(ctx context.Context, id int, input *NewClient) (*Client, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	if err := input.normalizePhone(); err != nil {
		return nil, err
	}
	client, err := utils.FetchModel[Client](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(client).Updates(map[string]interface{}{
		"Name":    input.Name,
		"Email":   input.Email,
		"Phone":   input.Phone,
		"Address": input.Address,
		"Notes":   input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}
	utils.CleanRedisModel[Client](id)

	return utils.FetchModel[Client](ctx, id)
}

func DeleteClient(ctx context.Context, id int) (*Client, error) {

	client, err := utils.FetchModel[Client](ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := utils.ResourceCountWhere[Project](ctx, "client_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("client has projects")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(client).Error; err != nil {
		return nil, err
	}
	utils.CleanRedisModel[Client](id)

	return client, nil
}

func GetClient(ctx context.Context, id int) (*Client, error) {
	return GetResource[Client](ctx, id)
}

func PaginateClients(ctx context.Context, name string, page int, limit int) ([]*Client, int64, error) {
	return paginateByName[Client](ctx, name, page, limit)
}

func ToggleActiveClient(ctx context.Context, id int, isActive bool) (*Client, error) {
	return ToggleActiveModel[Client](ctx, id, isActive)
}
