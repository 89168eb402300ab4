package models

import "gorm.io/gorm"

// JobFileStageGroup is a named collection of input files to be staged onto
// compute before execution. Immutable once the owning job leaves the new state.
type JobFileStageGroup struct {
	gorm.Model
	OwnerID  uint              `json:"owner_id" gorm:"not null;index"` // ID from the users table
	DDSFiles []JobDDSInputFile `json:"dds_files" gorm:"foreignKey:StageGroupID"`
	URLFiles []JobURLInputFile `json:"url_files" gorm:"foreignKey:StageGroupID"`
}

// JobDDSInputFile references a file in the remote document store to be staged.
// (StageGroupID, SequenceGroup, Sequence) is unique within a stage group and
// determines staging order.
type JobDDSInputFile struct {
	gorm.Model
	StageGroupID    uint   `json:"stage_group_id" gorm:"not null;index;uniqueIndex:idx_dds_stage_seq,priority:1"`
	ProjectID       string `json:"project_id" gorm:"not null"`
	FileID          string `json:"file_id" gorm:"not null"`
	DestinationPath string `json:"destination_path" gorm:"not null"`
	CredentialID    uint   `json:"credential_id"`
	SequenceGroup   uint   `json:"sequence_group" gorm:"uniqueIndex:idx_dds_stage_seq,priority:2"`
	Sequence        uint   `json:"sequence" gorm:"uniqueIndex:idx_dds_stage_seq,priority:3"`
}

// JobURLInputFile references a plain URL to be fetched onto compute.
// Ordering follows the same (SequenceGroup, Sequence) key as document-store files.
type JobURLInputFile struct {
	gorm.Model
	StageGroupID    uint   `json:"stage_group_id" gorm:"not null;index;uniqueIndex:idx_url_stage_seq,priority:1"`
	URL             string `json:"url" gorm:"not null"`
	DestinationPath string `json:"destination_path" gorm:"not null"`
	SequenceGroup   uint   `json:"sequence_group" gorm:"uniqueIndex:idx_url_stage_seq,priority:2"`
	Sequence        uint   `json:"sequence" gorm:"uniqueIndex:idx_url_stage_seq,priority:3"`
}
