package models

import "gorm.io/gorm"

// JobError is an immutable append-only record of a job failure, tagged with
// the step at which it occurred
type JobError struct {
	gorm.Model
	JobID   uint    `json:"job_id" gorm:"not null;index"`
	Content string  `json:"content" gorm:"type:text;not null"`
	Step    JobStep `json:"step"`
}

// JobOutputDir is the placeholder record for where a job's outputs will be
// stored, created together with the job
type JobOutputDir struct {
	gorm.Model
	JobID     uint   `json:"job_id" gorm:"not null;uniqueIndex"`
	ProjectID string `json:"project_id"`
}
