package domain

import "time"

const WorkspaceStatusActive = "active"

// Workspace is owned by the workspace service; only the columns below are
// read or written from here.
type Workspace struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	UserID       uint    `gorm:"index;not null" json:"user_id"`
	Slug         string  `gorm:"index" json:"slug"`
	Status       string  `gorm:"type:varchar(20);not null;default:active" json:"status"`
	ProductImage *string `json:"product_image"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
