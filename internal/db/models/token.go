package models

import "gorm.io/gorm"

// JobToken is a one-time authorization credential. Once bound to a job it can
// never be bound to another; the binding is recorded on the job's RunTokenID.
type JobToken struct {
	gorm.Model
	Token string `json:"token" gorm:"not null;unique"`
	JobID *uint  `json:"job_id,omitempty" gorm:"uniqueIndex"` // set when consumed
}

// IsUsed reports whether the token has already been bound to a job
func (t *JobToken) IsUsed() bool {
	return t.JobID != nil
}
