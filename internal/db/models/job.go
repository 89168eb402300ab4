package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Job field name constants
const (
	// JobCreatedAtField is the database field name for the job creation timestamp
	JobCreatedAtField = "created_at"
)

// JobState represents the current lifecycle state of a job
type JobState int

// Job state constants
const (
	// JobStateUnknown represents an unknown or invalid job state
	JobStateUnknown JobState = iota
	// JobStateNew indicates the job has been created but not yet authorized or started
	JobStateNew
	// JobStateAuthorized indicates a run token has been bound to the job
	JobStateAuthorized
	// JobStateStarting indicates the start command has been accepted by the orchestrator
	JobStateStarting
	// JobStateRunning indicates the workflow is executing; the step field is meaningful
	JobStateRunning
	// JobStateFinished indicates the workflow completed and outputs were recorded
	JobStateFinished
	// JobStateError indicates the job failed; restart is allowed
	JobStateError
	// JobStateCanceling indicates a cancel command has been dispatched
	JobStateCanceling
	// JobStateCancel indicates the job was canceled; restart is allowed
	JobStateCancel
	// JobStateRestarting indicates a restart command has been dispatched
	JobStateRestarting
)

var jobStateNames = []string{
	"unknown",
	"new",
	"authorized",
	"starting",
	"running",
	"finished",
	"error",
	"canceling",
	"cancel",
	"restarting",
}

// JobStep represents the sub-phase of a job while the workflow progresses.
// It is only meaningful while the job is in an active state.
type JobStep int

// Job step constants, in execution order
const (
	// JobStepNone indicates no step is active
	JobStepNone JobStep = iota
	// JobStepCreateVM indicates compute is being provisioned
	JobStepCreateVM
	// JobStepStagingIn indicates input files are being copied onto compute
	JobStepStagingIn
	// JobStepRunningWorkflow indicates the CWL workflow is executing
	JobStepRunningWorkflow
	// JobStepOrganizeOutput indicates output files are being arranged
	JobStepOrganizeOutput
	// JobStepStoreOutput indicates output files are being uploaded
	JobStepStoreOutput
	// JobStepRecordOutputProject indicates the output project is being recorded
	JobStepRecordOutputProject
	// JobStepTerminateVM indicates compute is being torn down
	JobStepTerminateVM
)

var jobStepNames = []string{
	"",
	"create_vm",
	"staging_in",
	"running_workflow",
	"organize_output",
	"store_output",
	"record_output_project",
	"terminate_vm",
}

// Job represents a single workflow run request and its lifecycle
type Job struct {
	gorm.Model
	Name              string    `json:"name" gorm:"not null;index"`
	FundCode          string    `json:"fund_code" gorm:"type:text"`
	OwnerID           uint      `json:"owner_id" gorm:"not null;index"` // ID from the users table
	WorkflowVersionID uint      `json:"workflow_version_id" gorm:"not null;index"`
	JobOrder          string    `json:"job_order" gorm:"type:text"` // merged parameter document, serialized JSON
	VMStrategyID      uint      `json:"vm_strategy_id" gorm:"not null"`
	ShareGroupID      uint      `json:"share_group_id" gorm:"not null"`
	StageGroupID      uint      `json:"stage_group_id" gorm:"index"`
	RunTokenID        *uint     `json:"run_token_id,omitempty" gorm:"uniqueIndex"` // one-time token, bound at authorize
	State             JobState  `json:"state" gorm:"index"`
	Step              JobStep   `json:"step"`
	CreatedAt         time.Time `json:"created_at" gorm:"index"`
}

// IsTerminal reports whether no further user-facing transition is possible
// other than restart. Finished and canceled jobs can no longer be canceled.
func (s JobState) IsTerminal() bool {
	return s == JobStateFinished || s == JobStateCancel
}

// CanStart reports whether the start action is legal from this state
func (s JobState) CanStart() bool {
	return s == JobStateNew || s == JobStateAuthorized
}

// CanCancel reports whether the cancel action is legal from this state
func (s JobState) CanCancel() bool {
	return !s.IsTerminal() && s != JobStateUnknown
}

// CanRestart reports whether the restart action is legal from this state.
// A job in the new state must use start instead.
func (s JobState) CanRestart() bool {
	return s == JobStateError || s == JobStateCancel
}

// CanAuthorize reports whether a run token may be bound in this state
func (s JobState) CanAuthorize() bool {
	return s == JobStateNew
}

// ParseJobState converts a string representation of a job state to JobState type
func ParseJobState(str string) (JobState, error) {
	for i, state := range jobStateNames {
		if state == str {
			return JobState(i), nil
		}
	}

	return JobStateUnknown, fmt.Errorf("invalid job state: %s", str)
}

func (s JobState) String() string {
	if int(s) < 0 || int(s) >= len(jobStateNames) {
		return jobStateNames[JobStateUnknown]
	}
	return jobStateNames[s]
}

// MarshalJSON implements the json.Marshaler interface for JobState
func (s JobState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for JobState
func (s *JobState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	state, err := ParseJobState(str)
	if err != nil {
		return err
	}

	*s = state
	return nil
}

// ParseJobStep converts a string representation of a job step to JobStep type
func ParseJobStep(str string) (JobStep, error) {
	for i, step := range jobStepNames {
		if step == str {
			return JobStep(i), nil
		}
	}

	return JobStepNone, fmt.Errorf("invalid job step: %s", str)
}

func (s JobStep) String() string {
	if int(s) < 0 || int(s) >= len(jobStepNames) {
		return jobStepNames[JobStepNone]
	}
	return jobStepNames[s]
}

// MarshalJSON implements the json.Marshaler interface for JobStep
func (s JobStep) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for JobStep
func (s *JobStep) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	step, err := ParseJobStep(str)
	if err != nil {
		return err
	}

	*s = step
	return nil
}
