package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/pkg/jobs"
	"github.com/noah-isme/academic-scheduler-api/pkg/mailer"
)

// Mail templates.
const (
	MailWindowOpened    = "preferences_window_opened"
	MailAccessRequested = "preferences_access_requested"
)

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// MailService renders workflow emails and hands them to the mail queue.
// Enqueue failures are logged; mail never fails the calling operation.
type MailService struct {
	queue       jobDispatcher
	frontendURL string
	logger      *zap.Logger
}

// NewMailService constructs a mail service. A nil queue disables mail.
func NewMailService(queue jobDispatcher, frontendURL string, logger *zap.Logger) *MailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailService{queue: queue, frontendURL: strings.TrimRight(frontendURL, "/"), logger: logger}
}

// WindowOpened tells each faculty that preference submission is open.
func (s *MailService) WindowOpened(ctx context.Context, faculty []models.Faculty, deadline null.Time) {
	until := "until further notice"
	if deadline.Valid {
		until = "until " + deadline.Time.Format(dateLayout)
	}
	for _, f := range faculty {
		s.enqueue(MailWindowOpened, mailer.Message{
			To:      []mailer.Recipient{{Name: f.Name(), Email: f.Email}},
			Subject: "Teaching preference submission is open",
			Text: fmt.Sprintf("Hello %s,\n\nYou can now submit your teaching preferences %s.\n\n%s/faculty/preferences\n",
				f.Name(), until, s.frontendURL),
		})
	}
}

// AccessRequested tells every admin that a faculty asked for preference access.
func (s *MailService) AccessRequested(ctx context.Context, admins []models.User, requester models.Faculty) {
	for _, admin := range admins {
		name := models.DisplayName(admin.FirstName, "", admin.LastName, "")
		s.enqueue(MailAccessRequested, mailer.Message{
			To:      []mailer.Recipient{{Name: name, Email: admin.Email}},
			Subject: "Preference access requested by " + requester.Name(),
			Text: fmt.Sprintf("Hello %s,\n\n%s requested access to submit teaching preferences.\n\n%s/admin/preferences\n",
				name, requester.Name(), s.frontendURL),
		})
	}
}

func (s *MailService) enqueue(template string, msg mailer.Message) {
	if s.queue == nil {
		s.logger.Debug("mail disabled, dropping message", zap.String("template", template))
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: template, Payload: msg}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue mail", zap.String("template", template), zap.Error(err))
	}
}

// MailWorker delivers queued mail jobs.
type MailWorker struct {
	mailer  mailer.Mailer
	metrics *MetricsService
	logger  *zap.Logger
}

// NewMailWorker constructs the mail queue handler.
func NewMailWorker(m mailer.Mailer, metrics *MetricsService, logger *zap.Logger) *MailWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailWorker{mailer: m, metrics: metrics, logger: logger}
}

// Handle sends one queued message.
func (w *MailWorker) Handle(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mailer.Message)
	if !ok {
		w.logger.Error("unexpected mail payload", zap.String("job_id", job.ID))
		return nil
	}
	err := w.mailer.Send(ctx, msg)
	w.metrics.RecordMail(job.Type, err)
	if err != nil {
		return fmt.Errorf("send %s: %w", job.Type, err)
	}
	return nil
}
