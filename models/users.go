package models

import "time"

type User struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Username    string       `gorm:"type:varchar(150);unique;not null" json:"username"`
	FirstName   string       `gorm:"type:varchar(150)" json:"first_name"`
	LastName    string       `gorm:"type:varchar(150)" json:"last_name"`
	Email       string       `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password    string       `gorm:"type:varchar(255);not null" json:"-"`
	IsActive    bool         `gorm:"not null;default:true" json:"is_active"`
	IsStaff     bool         `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool         `gorm:"not null;default:false" json:"is_superuser"`
	CreatedByID *uint        `json:"created_by,omitempty"`
	UpdatedByID *uint        `json:"updated_by,omitempty"`
	Permissions []Permission `gorm:"many2many:user_permissions" json:"permissions,omitempty"`
	Groups      []Group      `gorm:"many2many:user_groups" json:"groups,omitempty"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

type Permission struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Codename string `gorm:"type:varchar(100);unique;not null" json:"codename"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
}

type Group struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(150);unique;not null" json:"name"`
}
