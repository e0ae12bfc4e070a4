package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-scheduler-api/pkg/jobs"
	"github.com/noah-isme/academic-scheduler-api/pkg/partner"
)

// NotifierService forwards publication changes to partner systems through a
// queue so no database transaction waits on partner I/O.
type NotifierService struct {
	queue  jobDispatcher
	logger *zap.Logger
}

// NewNotifierService constructs the notifier. A nil queue disables notifications.
func NewNotifierService(queue jobDispatcher, logger *zap.Logger) *NotifierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifierService{queue: queue, logger: logger}
}

// NotifyPublicationChanged is fire-and-forget; failures are logged at warn.
func (s *NotifierService) NotifyPublicationChanged(ctx context.Context, action string, isPublished bool, facultyID *int64) {
	if s.queue == nil {
		s.logger.Debug("partner notifier disabled", zap.String("action", action))
		return
	}
	event := partner.PublicationEvent{Action: action, IsPublished: isPublished, FacultyID: facultyID, OccurredAt: time.Now().UTC()}
	if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: action, Payload: event}); err != nil {
		s.logger.Warn("failed to enqueue partner notification", zap.String("action", action), zap.Error(err))
	}
}

type partnerPublisher interface {
	Publish(ctx context.Context, event partner.PublicationEvent) error
}

// NotifierWorker delivers queued publication events. The queue must be
// configured without retries.
type NotifierWorker struct {
	client  partnerPublisher
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNotifierWorker constructs the notifier queue handler.
func NewNotifierWorker(client partnerPublisher, metrics *MetricsService, logger *zap.Logger) *NotifierWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifierWorker{client: client, metrics: metrics, logger: logger}
}

// Handle posts one event. Failures are logged and swallowed.
func (w *NotifierWorker) Handle(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(partner.PublicationEvent)
	if !ok {
		w.logger.Error("unexpected notifier payload", zap.String("job_id", job.ID))
		return nil
	}
	err := w.client.Publish(ctx, event)
	w.metrics.RecordNotification(event.Action, err)
	fields := []zap.Field{zap.String("action", event.Action), zap.Bool("is_published", event.IsPublished)}
	if event.FacultyID != nil {
		fields = append(fields, zap.Int64("faculty_id", *event.FacultyID))
	}
	if err != nil {
		w.logger.Warn("partner notification failed", append(fields, zap.Error(err))...)
		return nil
	}
	w.logger.Info("partner notification delivered", fields...)
	return nil
}

// String describes the worker for logs.
func (w *NotifierWorker) String() string {
	return fmt.Sprintf("notifier(%T)", w.client)
}
