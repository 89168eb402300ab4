package services

import (
	"fmt"
	"sort"

	"github.com/strataworks/cumulus/internal/db/models"
)

// StagedFileKind distinguishes the two input file variants in a manifest
type StagedFileKind int

// Staged file kind constants
const (
	// StagedFileDDS is a remote document store file
	StagedFileDDS StagedFileKind = iota
	// StagedFileURL is a plain URL fetch
	StagedFileURL
)

// StagedFile is one entry of a staging manifest. Exactly one variant's
// fields are populated depending on Kind.
type StagedFile struct {
	Kind            StagedFileKind `json:"kind"`
	SequenceGroup   uint           `json:"sequence_group"`
	Sequence        uint           `json:"sequence"`
	DestinationPath string         `json:"destination_path"`

	// Document store variant
	ProjectID    string `json:"project_id,omitempty"`
	FileID       string `json:"file_id,omitempty"`
	CredentialID uint   `json:"credential_id,omitempty"`

	// URL variant
	URL string `json:"url,omitempty"`
}

// ResolveStageManifest produces the deterministic ordered staging manifest
// for a stage group. Entries are ordered by (sequence group, sequence)
// ascending across both file variants. Duplicate keys are a caller error:
// uniqueness is enforced per variant at the persistence boundary, but a
// collision across variants must still fail rather than stage files in an
// undefined order.
func ResolveStageManifest(group *models.JobFileStageGroup) ([]StagedFile, error) {
	manifest := make([]StagedFile, 0, len(group.DDSFiles)+len(group.URLFiles))

	for _, f := range group.DDSFiles {
		manifest = append(manifest, StagedFile{
			Kind:            StagedFileDDS,
			SequenceGroup:   f.SequenceGroup,
			Sequence:        f.Sequence,
			DestinationPath: f.DestinationPath,
			ProjectID:       f.ProjectID,
			FileID:          f.FileID,
			CredentialID:    f.CredentialID,
		})
	}
	for _, f := range group.URLFiles {
		manifest = append(manifest, StagedFile{
			Kind:            StagedFileURL,
			SequenceGroup:   f.SequenceGroup,
			Sequence:        f.Sequence,
			DestinationPath: f.DestinationPath,
			URL:             f.URL,
		})
	}

	sort.SliceStable(manifest, func(i, j int) bool {
		if manifest[i].SequenceGroup != manifest[j].SequenceGroup {
			return manifest[i].SequenceGroup < manifest[j].SequenceGroup
		}
		return manifest[i].Sequence < manifest[j].Sequence
	})

	for i := 1; i < len(manifest); i++ {
		prev, cur := manifest[i-1], manifest[i]
		if prev.SequenceGroup == cur.SequenceGroup && prev.Sequence == cur.Sequence {
			return nil, fmt.Errorf("%w: (%d, %d)", ErrDuplicateSequence, cur.SequenceGroup, cur.Sequence)
		}
	}

	return manifest, nil
}
