package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/cumulus/internal/db/models"
)

func TestResolveStageManifest(t *testing.T) {
	t.Run("orders by sequence group then sequence across variants", func(t *testing.T) {
		group := &models.JobFileStageGroup{
			DDSFiles: []models.JobDDSInputFile{
				{ProjectID: "p", FileID: "f-c", DestinationPath: "c", SequenceGroup: 0, Sequence: 2},
				{ProjectID: "p", FileID: "f-a", DestinationPath: "a", SequenceGroup: 0, Sequence: 0},
			},
			URLFiles: []models.JobURLInputFile{
				{URL: "https://example.com/d", DestinationPath: "d", SequenceGroup: 1, Sequence: 0},
				{URL: "https://example.com/b", DestinationPath: "b", SequenceGroup: 0, Sequence: 1},
			},
		}

		manifest, err := ResolveStageManifest(group)
		require.NoError(t, err)
		require.Len(t, manifest, 4)

		paths := make([]string, len(manifest))
		for i, entry := range manifest {
			paths[i] = entry.DestinationPath
		}
		assert.Equal(t, []string{"a", "b", "c", "d"}, paths)

		// Variant fields survive the merge
		assert.Equal(t, StagedFileDDS, manifest[0].Kind)
		assert.Equal(t, "f-a", manifest[0].FileID)
		assert.Equal(t, StagedFileURL, manifest[1].Kind)
		assert.Equal(t, "https://example.com/b", manifest[1].URL)
	})

	t.Run("duplicate key across variants fails", func(t *testing.T) {
		group := &models.JobFileStageGroup{
			DDSFiles: []models.JobDDSInputFile{
				{ProjectID: "p", FileID: "f", DestinationPath: "a", SequenceGroup: 2, Sequence: 5},
			},
			URLFiles: []models.JobURLInputFile{
				{URL: "https://example.com/b", DestinationPath: "b", SequenceGroup: 2, Sequence: 5},
			},
		}

		_, err := ResolveStageManifest(group)
		assert.ErrorIs(t, err, ErrDuplicateSequence)
		assert.Contains(t, err.Error(), "(2, 5)")
	})

	t.Run("empty group resolves to empty manifest", func(t *testing.T) {
		manifest, err := ResolveStageManifest(&models.JobFileStageGroup{})
		assert.NoError(t, err)
		assert.Empty(t, manifest)
	})
}
