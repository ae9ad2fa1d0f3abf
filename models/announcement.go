package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Announcement represents a listing of a children's item offered by a user.
// ImageURL holds a JSON encoded ordered list of public /uploads/... paths;
// the list keeps upload order and is capped at MaxImages entries.
type Announcement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Categories  string    `gorm:"size:255;not null" json:"categories"`
	TargetInfo  string    `gorm:"size:255;not null" json:"target_info"`
	Location    string    `gorm:"size:128;not null" json:"location"`
	ImageURL    string    `gorm:"type:text;not null" json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// AnnouncementWithEmail is the public row shape: the announcement joined
// with its owner's email.
type AnnouncementWithEmail struct {
	Announcement
	Email string `json:"email"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (a *Announcement) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}

// ImageList decodes the serialized image path list. A broken value yields an
// empty list; the column is only written through SetImageList.
func (a *Announcement) ImageList() []string {
	if strings.TrimSpace(a.ImageURL) == "" {
		return []string{}
	}
	var paths []string
	if err := json.Unmarshal([]byte(a.ImageURL), &paths); err != nil {
		return []string{}
	}
	return paths
}

// SetImageList serializes the ordered image path list onto the announcement.
func (a *Announcement) SetImageList(paths []string) {
	b, err := json.Marshal(paths)
	if err != nil {
		a.ImageURL = "[]"
		return
	}
	a.ImageURL = string(b)
}
