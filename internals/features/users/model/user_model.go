package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`

	UserName     string `gorm:"column:user_name;type:varchar(100);not null" json:"user_name"`
	UserEmail    string `gorm:"column:user_email;type:varchar(120);not null;uniqueIndex" json:"user_email"`
	UserPassword string `gorm:"column:user_password;type:varchar(120);not null" json:"-"`
	UserRole     string `gorm:"column:user_role;type:varchar(20);not null;default:'operator';index" json:"user_role"`

	UserIsActive bool `gorm:"column:user_is_active;not null;default:true" json:"user_is_active"`

	UserCreatedAt time.Time      `gorm:"column:user_created_at;type:timestamptz;not null;default:now()" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"column:user_updated_at;type:timestamptz;not null;default:now()" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;type:timestamptz;index" json:"-"`
}

func (User) TableName() string { return "users" }

func (m *User) BeforeUpdate(tx *gorm.DB) error {
	m.UserUpdatedAt = time.Now()
	return nil
}
