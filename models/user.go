package models

import (
	"context"
	"errors"
	"html"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

const (
	UserRoleAdmin = "A"
	UserRoleStaff = "S"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:100" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:1;not null;default:'S'" json:"role"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type LoginInfo struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (obj User) GetId() int {
	return obj.ID
}

func (result *User) PrepareGive() {
	result.Password = ""
}

func (input *NewUser) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[User](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[User](ctx, "username", input.Username, id); err != nil {
		return err
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("email is not valid")
	}
	if input.Role != "" && input.Role != UserRoleAdmin && input.Role != UserRoleStaff {
		return errors.New("role is not valid")
	}
	return nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = UserRoleStaff
	}

	user := User{
		Username: html.EscapeString(strings.TrimSpace(input.Username)),
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		Role:     role,
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	user.PrepareGive()
	return &user, nil
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if err != nil {
		return nil, errors.New("invalid username or password")
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, errors.New("account is disabled")
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, errors.New("invalid username or password")
	}

	token, err := utils.JwtGenerate(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginInfo{Token: token, Name: user.Name, Role: user.Role}, nil
}

// RevokeToken blacklists a token until it would have expired anyway.
// Without a cache connected this is a no-op and tokens simply age out.
func RevokeToken(token string) error {
	lifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		lifespan = 24
	}
	return config.SetRedisObject("RevokedToken:"+token, true, time.Duration(lifespan)*time.Hour)
}

func IsTokenRevoked(token string) bool {
	var revoked bool
	exists, err := config.GetRedisObject("RevokedToken:"+token, &revoked)
	return err == nil && exists
}

func GetUser(ctx context.Context, id int) (*User, error) {
	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}
	user.PrepareGive()
	return user, nil
}

// SeedAdminUser creates the bootstrap admin account on an empty users
// table. Credentials come from the environment; nothing happens when a
// user already exists or the variables are unset.
func SeedAdminUser(ctx context.Context) error {

	count, err := utils.ResourceCountWhere[User](ctx, "1 = 1")
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	_, err = CreateUser(ctx, &NewUser{
		Username: username,
		Name:     "Administrator",
		Password: password,
		Role:     UserRoleAdmin,
	})
	return err
}
