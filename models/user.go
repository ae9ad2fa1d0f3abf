package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents a marketplace account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Location     string    `gorm:"size:128;not null" json:"location"`
	Children     string    `gorm:"type:text" json:"children"` // JSON array of Child records
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Announcements []Announcement `json:"-"`
}

// Child is one entry of the schemaless children list kept on a user profile.
type Child struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// ChildList decodes the serialized children column. A broken or empty value
// yields an empty list rather than an error; the column is written only
// through SetChildList which validates first.
func (u *User) ChildList() []Child {
	if strings.TrimSpace(u.Children) == "" {
		return []Child{}
	}
	var kids []Child
	if err := json.Unmarshal([]byte(u.Children), &kids); err != nil {
		return []Child{}
	}
	return kids
}

// SetChildList validates and serializes the children list onto the user.
func (u *User) SetChildList(kids []Child) error {
	if err := ValidateChildren(kids); err != nil {
		return err
	}
	b, err := json.Marshal(kids)
	if err != nil {
		return err
	}
	u.Children = string(b)
	return nil
}

// ValidateChildren enforces the boundary schema of the children list:
// non-empty name, age within 0..18.
func ValidateChildren(kids []Child) error {
	for _, k := range kids {
		if strings.TrimSpace(k.Name) == "" {
			return errors.New("child name cannot be empty")
		}
		if k.Age < 0 || k.Age > 18 {
			return errors.New("child age must be between 0 and 18")
		}
	}
	return nil
}
