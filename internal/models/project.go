package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectStatus is the publication state of a project.
type ProjectStatus string

const (
	StatusDraft     ProjectStatus = "DRAFT"
	StatusPublished ProjectStatus = "PUBLISHED"
	StatusHidden    ProjectStatus = "HIDDEN"
	StatusArchived  ProjectStatus = "ARCHIVED"
)

// Project is a community-submitted entry. Projects are never hard-deleted.
type Project struct {
	ID            uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerUserID   uint                        `json:"owner_user_id" gorm:"not null;index"`
	Owner         *User                       `json:"-" gorm:"foreignKey:OwnerUserID"`
	Name          string                      `json:"name" gorm:"type:varchar(80);not null"`
	Category      string                      `json:"category" gorm:"type:varchar(40);not null;index"`
	Purpose       string                      `json:"purpose" gorm:"type:varchar(200);not null"`
	Problem       string                      `json:"problem" gorm:"type:text;not null"`
	Solution      string                      `json:"solution" gorm:"type:text;not null"`
	TargetMarket  string                      `json:"target_market" gorm:"type:text;not null"`
	BusinessModel string                      `json:"business_model" gorm:"type:text;not null"`
	Team          string                      `json:"team" gorm:"type:text;not null"`
	Contact       string                      `json:"contact" gorm:"type:varchar(200);not null"`
	Links         datatypes.JSONSlice[string] `json:"links" gorm:"column:links_json;not null"`
	Status        ProjectStatus               `json:"status" gorm:"type:varchar(16);not null;index"`
	ViewsCount    int                         `json:"views_count" gorm:"not null;default:0"`
	ReportsCount  int                         `json:"reports_count" gorm:"not null;default:0"`
	CreatedAt     time.Time                   `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// IsPublished reports whether the project is visible to everyone.
func (p *Project) IsPublished() bool { return p.Status == StatusPublished }

// OwnedBy reports whether u owns the project. A nil user owns nothing.
func (p *Project) OwnedBy(u *User) bool { return u != nil && u.ID == p.OwnerUserID }
