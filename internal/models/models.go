package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	Name         string    `gorm:"not null"                 json:"name"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	Active       bool      `gorm:"not null;default:true"    json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the server-side half of an authenticated session. A row
// exists for exactly as long as the session is valid; logout deletes it.
type Session struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"unique;not null"          json:"-"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	Email     string    `gorm:"not null"                 json:"email"`
	Name      string    `gorm:"not null"                 json:"name"`
	Role      string    `gorm:"not null"                 json:"role"`
	Active    bool      `gorm:"not null"                 json:"active"`
	ExpiresAt time.Time `gorm:"not null"                 json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type Unit struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"unique;not null"          json:"name"`
	Abbrev string `json:"abbrev"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `json:"description"`
	Quantity    float64   `gorm:"not null"                 json:"quantity"`
	UnitID      uint      `gorm:"not null"                 json:"unit_id"`
	CategoryID  uint      `gorm:"not null"                 json:"category_id"`
	Active      bool      `gorm:"not null;default:true"    json:"active"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Unit     Unit     `gorm:"foreignKey:UnitID"     json:"-"`
	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}

// EmailNotification logs one attempt to mail product details to a user.
// Rows are append-only; only the Sent flag changes after insert.
type EmailNotification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint     `gorm:"index"                    json:"user_id"`
	Address   string    `gorm:"not null"                 json:"address"`
	Subject   string    `gorm:"not null"                 json:"subject"`
	Body      string    `json:"body"`
	Sent      bool      `gorm:"not null;default:false"   json:"sent"`
	CreatedAt time.Time `json:"created_at"`
}
