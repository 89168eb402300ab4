package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// RuntimeKind distinguishes how compute is provisioned for a job
type RuntimeKind int

// Runtime kind constants
const (
	// RuntimeKindOpenStack provisions a VM through OpenStack
	RuntimeKindOpenStack RuntimeKind = iota
	// RuntimeKindK8s runs the workflow inside a Kubernetes cluster
	RuntimeKindK8s
)

var runtimeKindNames = []string{
	"openstack",
	"k8s",
}

// VMStrategy describes how compute is provisioned for a job: flavor,
// volume sizing and which runtime to use. Referenced, never mutated,
// by a job once assigned.
type VMStrategy struct {
	gorm.Model
	Name             string      `json:"name" gorm:"not null;unique"`
	RuntimeKind      RuntimeKind `json:"runtime_kind" gorm:"index"`
	VMFlavor         string      `json:"vm_flavor" gorm:"not null"`
	VMProjectName    string      `json:"vm_project_name"`
	VolumeSizeBaseGB uint        `json:"volume_size_base_gb"`
	VolumeSizeFactor uint        `json:"volume_size_factor"`
	VolumeMounts     string      `json:"volume_mounts" gorm:"type:text"` // mount point -> options, serialized JSON
}

// JobRuntimeOpenStack holds the per-step base commands used when a job
// runs on an OpenStack VM
type JobRuntimeOpenStack struct {
	gorm.Model
	Name              string `json:"name" gorm:"not null;unique"`
	Image             string `json:"image" gorm:"not null"`
	CWLBaseCommand    string `json:"cwl_base_command" gorm:"type:text"`
	CWLPostProcessCmd string `json:"cwl_post_process_command" gorm:"type:text"`
}

// JobRuntimeK8s holds the container images and commands used when a job
// runs on Kubernetes
type JobRuntimeK8s struct {
	gorm.Model
	Name          string `json:"name" gorm:"not null;unique"`
	StageImage    string `json:"stage_image" gorm:"not null"`
	WorkflowImage string `json:"workflow_image" gorm:"not null"`
	OrganizeImage string `json:"organize_image" gorm:"not null"`
}

// ParseRuntimeKind converts a string representation of a runtime kind to RuntimeKind type
func ParseRuntimeKind(str string) (RuntimeKind, error) {
	for i, kind := range runtimeKindNames {
		if kind == str {
			return RuntimeKind(i), nil
		}
	}
	return RuntimeKindOpenStack, fmt.Errorf("invalid runtime kind: %s", str)
}

func (k RuntimeKind) String() string {
	if int(k) < 0 || int(k) >= len(runtimeKindNames) {
		return runtimeKindNames[RuntimeKindOpenStack]
	}
	return runtimeKindNames[k]
}

// MarshalJSON implements the json.Marshaler interface for RuntimeKind
func (k RuntimeKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for RuntimeKind
func (k *RuntimeKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	kind, err := ParseRuntimeKind(str)
	if err != nil {
		return err
	}

	*k = kind
	return nil
}
