// Package mailer builds and delivers job state notifications
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"text/template"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/internal/db/repos"
	"github.com/strataworks/cumulus/internal/logger"
)

// DefaultSenderEmail is the from address used when none is configured
const DefaultSenderEmail = "cumulus-service@strataworks.io"

// Template names per job state
const (
	TemplateJobRunningUser   = "job-running-user"
	TemplateJobCancelUser    = "job-cancel-user"
	TemplateJobFinishedUser  = "job-finished-user"
	TemplateJobFinishedShare = "job-finished-sharegroup"
	TemplateJobErrorUser     = "job-error-user"
)

// ErrDelivery is returned when the message transport fails. The message
// record is marked errored before this is surfaced.
var ErrDelivery = errors.New("message delivery failed")

// EscapePolicy controls whether template substitutions are HTML-escaped
type EscapePolicy int

const (
	// EscapeNone substitutes values verbatim. Notifications are plain text
	// rendered from admin-managed templates, so this is the default.
	EscapeNone EscapePolicy = iota
	// EscapeHTML applies HTML escaping to substituted values
	EscapeHTML
)

// Sender delivers a rendered message. Implementations must return an error
// on any delivery failure rather than swallowing it.
type Sender interface {
	Send(ctx context.Context, message *models.EmailMessage) error
}

// TemplateContext is the fixed substitution context for job notifications
type TemplateContext struct {
	ID   uint
	Name string
}

// JobMailer dispatches templated messages to the job owner and share group
// based on the job's current state
type JobMailer struct {
	emailRepo   *repos.EmailRepository
	sender      Sender
	senderEmail string
	escape      EscapePolicy
}

// NewJobMailer creates a new job mailer
func NewJobMailer(emailRepo *repos.EmailRepository, sender Sender, senderEmail string, escape EscapePolicy) *JobMailer {
	if senderEmail == "" {
		senderEmail = DefaultSenderEmail
	}
	return &JobMailer{
		emailRepo:   emailRepo,
		sender:      sender,
		senderEmail: senderEmail,
		escape:      escape,
	}
}

// Dispatch inspects the job state and sends zero or more notifications.
// Owner and share group addresses are resolved by the caller. States with
// no notification configured are a silent no-op.
func (m *JobMailer) Dispatch(ctx context.Context, job *models.Job, ownerEmail, shareGroupEmail string) error {
	var messages []*models.EmailMessage

	appendMessage := func(templateName, toEmail string) error {
		message, err := m.makeMessage(ctx, job, templateName, toEmail)
		if err != nil {
			return err
		}
		messages = append(messages, message)
		return nil
	}

	switch job.State {
	case models.JobStateRunning:
		if err := appendMessage(TemplateJobRunningUser, ownerEmail); err != nil {
			return err
		}
	case models.JobStateCancel:
		if err := appendMessage(TemplateJobCancelUser, ownerEmail); err != nil {
			return err
		}
	case models.JobStateFinished:
		if err := appendMessage(TemplateJobFinishedUser, ownerEmail); err != nil {
			return err
		}
		if err := appendMessage(TemplateJobFinishedShare, shareGroupEmail); err != nil {
			return err
		}
	case models.JobStateError:
		if err := appendMessage(TemplateJobErrorUser, ownerEmail); err != nil {
			return err
		}
	default:
		// No notification configured for this state
		return nil
	}

	for _, message := range messages {
		if err := m.deliver(ctx, message); err != nil {
			return err
		}
	}
	return nil
}

// makeMessage renders the named template against the job and persists the
// resulting message record in the new state
func (m *JobMailer) makeMessage(ctx context.Context, job *models.Job, templateName, toEmail string) (*models.EmailMessage, error) {
	emailTemplate, err := m.emailRepo.GetTemplateByName(ctx, templateName)
	if err != nil {
		return nil, err
	}

	templateCtx := TemplateContext{ID: job.ID, Name: job.Name}
	subject, err := m.render(emailTemplate.SubjectTemplate, templateCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to render subject of %s: %w", templateName, err)
	}
	body, err := m.render(emailTemplate.BodyTemplate, templateCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to render body of %s: %w", templateName, err)
	}

	message := &models.EmailMessage{
		State:       models.MessageStateNew,
		SenderEmail: m.senderEmail,
		ToEmail:     toEmail,
		Subject:     subject,
		Body:        body,
	}
	if err := m.emailRepo.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}
	return message, nil
}

// deliver hands the message to the transport, recording the outcome on the
// message row. Delivery failure is surfaced but never retried here.
func (m *JobMailer) deliver(ctx context.Context, message *models.EmailMessage) error {
	if err := m.sender.Send(ctx, message); err != nil {
		if markErr := m.emailRepo.MarkErrored(ctx, message, err.Error()); markErr != nil {
			logger.Errorf("failed to mark message %d errored: %v", message.ID, markErr)
		}
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	if err := m.emailRepo.MarkSent(ctx, message); err != nil {
		return fmt.Errorf("failed to mark message sent: %w", err)
	}
	return nil
}

func (m *JobMailer) render(templateText string, templateCtx TemplateContext) (string, error) {
	var buf bytes.Buffer
	switch m.escape {
	case EscapeHTML:
		t, err := htmltemplate.New("email").Parse(templateText)
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, templateCtx); err != nil {
			return "", err
		}
	default:
		t, err := template.New("email").Parse(templateText)
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, templateCtx); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
