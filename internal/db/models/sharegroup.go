package models

import "gorm.io/gorm"

// ShareGroup represents a set of recipients notified when a job finishes,
// distinct from the job owner
type ShareGroup struct {
	gorm.Model
	Name  string `json:"name" gorm:"not null;unique"`
	Email string `json:"email" gorm:"not null"`
}
