package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID       string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Role     string `gorm:"default:'citizen'" json:"role"`
	Phone    string `json:"phone,omitempty"`
	// Points is the contributor score, incremented only by the scoring
	// layer when a report is approved.
	Points    int            `gorm:"default:0" json:"points"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// LeaderboardEntry is one row of the contributor ranking.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}
