package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

const deferredBatchSize = 50

type dueNotifications interface {
	ClaimDue(ctx context.Context, exec sqlx.ExtContext, now time.Time, limit int) ([]models.ScheduledNotification, error)
	MarkDispatched(ctx context.Context, exec sqlx.ExtContext, ids []int64, at time.Time) error
}

type scheduledWindows interface {
	EnableScheduled(ctx context.Context, exec sqlx.ExtContext, facultyID *int64, startDate time.Time) ([]int64, error)
	GetSetting(ctx context.Context, exec sqlx.ExtContext, facultyID int64) (*models.PreferencesSetting, error)
}

type activeFacultyLister interface {
	ListActive(ctx context.Context) ([]models.Faculty, error)
}

// DeferredDispatcher executes persisted window-opening jobs once they are due.
type DeferredDispatcher struct {
	notifications dueNotifications
	windows       scheduledWindows
	faculty       activeFacultyLister
	mail          preferenceMailer
	tx            txProvider
	now           func() time.Time
	logger        *zap.Logger
}

// NewDeferredDispatcher constructs the dispatcher run by the cron scheduler.
func NewDeferredDispatcher(notifications dueNotifications, windows scheduledWindows, faculty activeFacultyLister, mail preferenceMailer, tx txProvider, logger *zap.Logger) *DeferredDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeferredDispatcher{notifications: notifications, windows: windows, faculty: faculty, mail: mail, tx: tx, now: time.Now, logger: logger}
}

// Run dispatches one batch. It matches the cron task signature.
func (d *DeferredDispatcher) Run(ctx context.Context) error {
	_, err := d.Dispatch(ctx)
	return err
}

// Dispatch claims due jobs, opens their windows and returns how many jobs ran.
// Mail goes out after commit for faculty whose window actually opened.
func (d *DeferredDispatcher) Dispatch(ctx context.Context) (count int, err error) {
	tx, err := d.tx.BeginTxx(ctx, nil)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := d.now().UTC()
	due, err := d.notifications.ClaimDue(ctx, tx, now, deferredBatchSize)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to claim deferred jobs")
	}
	if len(due) == 0 {
		err = tx.Commit()
		return 0, err
	}

	ids := make([]int64, 0, len(due))
	mailTo := make(map[int64]struct{})
	for _, job := range due {
		ids = append(ids, job.ID)
		if job.Kind != models.NotificationPreferencesWindowOpen {
			d.logger.Warn("skipping unknown deferred job", zap.Int64("id", job.ID), zap.String("kind", job.Kind))
			continue
		}
		var payload models.WindowOpenPayload
		if decodeErr := json.Unmarshal(job.Payload, &payload); decodeErr != nil {
			d.logger.Warn("skipping malformed deferred job", zap.Int64("id", job.ID), zap.Error(decodeErr))
			continue
		}
		start, parseErr := time.Parse(dateLayout, payload.StartDate)
		if parseErr != nil {
			d.logger.Warn("skipping deferred job with bad start date", zap.Int64("id", job.ID), zap.String("start_date", payload.StartDate))
			continue
		}
		opened, enableErr := d.windows.EnableScheduled(ctx, tx, payload.FacultyID, start)
		if enableErr != nil {
			err = appErrors.Wrap(enableErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open scheduled window")
			return 0, err
		}
		d.logger.Info("scheduled preference window opened", zap.Int64("job_id", job.ID), zap.Int("faculty", len(opened)))
		if payload.SendEmail {
			for _, id := range opened {
				mailTo[id] = struct{}{}
			}
		}
	}

	if err = d.notifications.MarkDispatched(ctx, tx, ids, now); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark deferred jobs")
	}
	if err = tx.Commit(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit deferred jobs")
	}

	if len(mailTo) > 0 {
		d.mailOpened(ctx, mailTo)
	}
	return len(due), nil
}

func (d *DeferredDispatcher) mailOpened(ctx context.Context, targets map[int64]struct{}) {
	faculty, err := d.faculty.ListActive(ctx)
	if err != nil {
		d.logger.Warn("failed to list faculty for window mail", zap.Error(err))
		return
	}
	for _, f := range faculty {
		if _, ok := targets[f.ID]; !ok {
			continue
		}
		setting, err := d.windows.GetSetting(ctx, nil, f.ID)
		if err != nil {
			d.logger.Warn("failed to load window for mail", zap.Int64("faculty_id", f.ID), zap.Error(err))
			continue
		}
		d.mail.WindowOpened(ctx, []models.Faculty{f}, setting.EffectiveDeadline())
	}
}
