package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Workflow represents a named CWL pipeline
type Workflow struct {
	gorm.Model
	Name string `json:"name" gorm:"not null;unique"`
	Tag  string `json:"tag" gorm:"not null;uniqueIndex"`
}

// WorkflowVersion represents one published version of a workflow.
// The URL points at a packed CWL document.
type WorkflowVersion struct {
	gorm.Model
	WorkflowID  uint     `json:"workflow_id" gorm:"not null;index"`
	Workflow    Workflow `json:"-" gorm:"foreignKey:WorkflowID"`
	Version     uint     `json:"version" gorm:"not null"`
	Description string   `json:"description" gorm:"type:text"`
	URL         string   `json:"url" gorm:"not null"`
	ObjectName  string   `json:"object_name"`
}

// Tag returns the workflow tag qualified with this version, e.g. "rna-seq/v2"
func (v *WorkflowVersion) Tag() string {
	return fmt.Sprintf("%s/v%d", v.Workflow.Tag, v.Version)
}
