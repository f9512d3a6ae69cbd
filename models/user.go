package models

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/contaslab/contas_backend/config"
	"github.com/contaslab/contas_backend/utils"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:255;unique" json:"email"`
	Username  string    `gorm:"size:50;not null;unique" json:"username" binding:"required"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginInfo struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Name:     html.EscapeString(strings.TrimSpace(input.Name)),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Username: strings.TrimSpace(input.Username),
		Password: string(hashed),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.New("username or email already taken")
	}
	return &user, nil
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {
	db := config.GetDB()

	var user User
	err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, errors.New("invalid username or password")
	}

	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, errors.New("invalid username or password")
	}

	token, err := utils.JwtGenerate(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &LoginInfo{Token: token, Name: user.Name}, nil
}
