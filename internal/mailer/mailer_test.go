package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/internal/db/repos"
)

type mailerTestEnv struct {
	db        *gorm.DB
	jobMailer *JobMailer
	sender    *MockSender
	emailRepo *repos.EmailRepository
}

func newMailerTestEnv(t *testing.T, escape EscapePolicy) (*mailerTestEnv, func()) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create in-memory database")

	err = db.AutoMigrate(&models.EmailTemplate{}, &models.EmailMessage{})
	require.NoError(t, err, "Failed to run migrations")

	emailRepo := repos.NewEmailRepository(db)
	sender := NewMockSender()
	jobMailer := NewJobMailer(emailRepo, sender, "noreply@example.com", escape)

	cleanup := func() {
		sqlDB, err := db.DB()
		if err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	}
	return &mailerTestEnv{db: db, jobMailer: jobMailer, sender: sender, emailRepo: emailRepo}, cleanup
}

func seedTemplate(t *testing.T, emailRepo *repos.EmailRepository, name string) {
	template := &models.EmailTemplate{
		Name:            name,
		SubjectTemplate: "[" + name + "] {{.Name}}",
		BodyTemplate:    "Job {{.Name}} ({{.ID}})",
	}
	require.NoError(t, emailRepo.CreateTemplate(context.Background(), template))
}

func TestJobMailer_Dispatch(t *testing.T) {
	env, cleanup := newMailerTestEnv(t, EscapeNone)
	defer cleanup()
	jobMailer, sender, emailRepo := env.jobMailer, env.sender, env.emailRepo

	ctx := context.Background()
	for _, name := range []string{
		TemplateJobRunningUser,
		TemplateJobCancelUser,
		TemplateJobFinishedUser,
		TemplateJobFinishedShare,
		TemplateJobErrorUser,
	} {
		seedTemplate(t, emailRepo, name)
	}

	job := &models.Job{Model: gorm.Model{ID: 7}, Name: "exome-run"}

	t.Run("running notifies the owner", func(t *testing.T) {
		before := len(sender.Sent())
		job.State = models.JobStateRunning

		err := jobMailer.Dispatch(ctx, job, "owner@example.com", "share@example.com")
		require.NoError(t, err)

		sent := sender.Sent()[before:]
		require.Len(t, sent, 1)
		assert.Equal(t, "owner@example.com", sent[0].ToEmail)
		assert.Equal(t, "[job-running-user] exome-run", sent[0].Subject)
		assert.Equal(t, "Job exome-run (7)", sent[0].Body)
	})

	t.Run("finished notifies owner and share group", func(t *testing.T) {
		before := len(sender.Sent())
		job.State = models.JobStateFinished

		err := jobMailer.Dispatch(ctx, job, "owner@example.com", "share@example.com")
		require.NoError(t, err)

		sent := sender.Sent()[before:]
		require.Len(t, sent, 2)
		assert.Equal(t, "owner@example.com", sent[0].ToEmail)
		assert.Equal(t, "share@example.com", sent[1].ToEmail)
	})

	t.Run("states without a notification are silent", func(t *testing.T) {
		before := len(sender.Sent())

		for _, state := range []models.JobState{
			models.JobStateNew,
			models.JobStateAuthorized,
			models.JobStateStarting,
			models.JobStateCanceling,
			models.JobStateRestarting,
		} {
			job.State = state
			err := jobMailer.Dispatch(ctx, job, "owner@example.com", "share@example.com")
			require.NoError(t, err)
		}
		assert.Len(t, sender.Sent(), before)
	})
}

func TestJobMailer_DeliveryFailureMarksErrored(t *testing.T) {
	env, cleanup := newMailerTestEnv(t, EscapeNone)
	defer cleanup()

	ctx := context.Background()
	seedTemplate(t, env.emailRepo, TemplateJobErrorUser)
	env.sender.SetErr(errors.New("relay down"))

	job := &models.Job{Model: gorm.Model{ID: 3}, Name: "exome-run", State: models.JobStateError}

	err := env.jobMailer.Dispatch(ctx, job, "owner@example.com", "share@example.com")
	assert.ErrorIs(t, err, ErrDelivery)

	// The message record carries the failure
	var message models.EmailMessage
	require.NoError(t, env.db.First(&message).Error)
	assert.Equal(t, models.MessageStateErrored, message.State)
	assert.Equal(t, "relay down", message.ErrorText)
}

func TestJobMailer_EscapeHTML(t *testing.T) {
	env, cleanup := newMailerTestEnv(t, EscapeHTML)
	defer cleanup()

	ctx := context.Background()
	seedTemplate(t, env.emailRepo, TemplateJobRunningUser)

	job := &models.Job{Model: gorm.Model{ID: 9}, Name: "<b>run</b>", State: models.JobStateRunning}

	err := env.jobMailer.Dispatch(ctx, job, "owner@example.com", "share@example.com")
	require.NoError(t, err)

	sent := env.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Job &lt;b&gt;run&lt;/b&gt; (9)", sent[0].Body)
}

func TestJobMailer_MissingTemplateFails(t *testing.T) {
	env, cleanup := newMailerTestEnv(t, EscapeNone)
	defer cleanup()

	job := &models.Job{Model: gorm.Model{ID: 4}, Name: "run", State: models.JobStateFinished}

	err := env.jobMailer.Dispatch(context.Background(), job, "owner@example.com", "share@example.com")
	assert.ErrorIs(t, err, repos.ErrTemplateNotFound)
	assert.Empty(t, env.sender.Sent())
}
