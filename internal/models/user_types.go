package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the model for the 'users' table.
// The password is only ever stored as a bcrypt hash; the json:"-" tag
// keeps it out of every response.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsStaff      bool      `json:"isStaff" gorm:"not null;default:false"`
	IsSuperuser  bool      `json:"isSuperuser" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether the user carries an elevated role.
// Staff and superuser are both treated as admin for authorization.
func (u *User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
