package models

import "gorm.io/gorm"

// JobQuestionnaire is an admin-managed template for building jobs: a workflow
// version plus the system half of the job order and default runtime settings.
// Read-only to normal users.
type JobQuestionnaire struct {
	gorm.Model
	Name              string `json:"name" gorm:"not null"`
	Description       string `json:"description" gorm:"type:text"`
	WorkflowVersionID uint   `json:"workflow_version_id" gorm:"not null;index"`
	SystemJobOrder    string `json:"system_job_order" gorm:"type:text"` // serialized JSON
	VMStrategyID      uint   `json:"vm_strategy_id" gorm:"not null"`
	ShareGroupID      uint   `json:"share_group_id" gorm:"not null"`
}

// JobAnswerSet is a user's in-progress answer to a questionnaire. It exists
// only until create-job consumes it to produce a job.
type JobAnswerSet struct {
	gorm.Model
	OwnerID         uint   `json:"owner_id" gorm:"not null;index"` // ID from the users table
	QuestionnaireID uint   `json:"questionnaire_id" gorm:"not null;index"`
	JobName         string `json:"job_name" gorm:"not null"`
	FundCode        string `json:"fund_code"`
	UserJobOrder    string `json:"user_job_order" gorm:"type:text"` // serialized JSON
	StageGroupID    uint   `json:"stage_group_id" gorm:"index"`
}
