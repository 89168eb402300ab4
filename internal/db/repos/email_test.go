package repos

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/strataworks/cumulus/internal/db/models"
)

type EmailRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestEmailRepository(t *testing.T) {
	suite.Run(t, new(EmailRepositoryTestSuite))
}

func (s *EmailRepositoryTestSuite) TestGetTemplateByName() {
	template := &models.EmailTemplate{
		Name:            "job-finished-user",
		SubjectTemplate: "Job {{.Name}} finished",
		BodyTemplate:    "Your job {{.Name}} has finished.",
	}
	s.Require().NoError(s.emailRepo.CreateTemplate(s.ctx, template))

	found, err := s.emailRepo.GetTemplateByName(s.ctx, "job-finished-user")
	s.NoError(err)
	s.Equal(template.SubjectTemplate, found.SubjectTemplate)

	_, err = s.emailRepo.GetTemplateByName(s.ctx, "no-such-template")
	s.ErrorIs(err, ErrTemplateNotFound)
}

func (s *EmailRepositoryTestSuite) TestMessageLifecycle() {
	message := &models.EmailMessage{
		SenderEmail: "noreply@example.com",
		ToEmail:     "owner@example.com",
		Subject:     "Job finished",
		Body:        "Your job has finished.",
	}
	s.Require().NoError(s.emailRepo.CreateMessage(s.ctx, message))
	s.Equal(models.MessageStateNew, message.State)

	s.Require().NoError(s.emailRepo.MarkSent(s.ctx, message))
	s.Equal(models.MessageStateSent, message.State)

	s.Require().NoError(s.emailRepo.MarkErrored(s.ctx, message, "connection refused"))
	s.Equal(models.MessageStateErrored, message.State)
	s.Equal("connection refused", message.ErrorText)
}
