// Package bootstrap builds the repository and service graph shared by the API
// server and the operator CLI.
package bootstrap

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-scheduler-api/internal/handler"
	"github.com/noah-isme/academic-scheduler-api/internal/repository"
	"github.com/noah-isme/academic-scheduler-api/internal/service"
	"github.com/noah-isme/academic-scheduler-api/pkg/config"
	"github.com/noah-isme/academic-scheduler-api/pkg/jobs"
	"github.com/noah-isme/academic-scheduler-api/pkg/mailer"
	"github.com/noah-isme/academic-scheduler-api/pkg/partner"
)

const (
	viewCachePrefix   = "schedule_views"
	dispatchTimeout   = 2 * time.Minute
	mailRetryDelay    = 30 * time.Second
	deferredTaskName  = "deferred_dispatch"
	mailQueueName     = "mail"
	notifierQueueName = "partner_notifier"
)

// Repositories groups the SQL and cache stores.
type Repositories struct {
	Periods       *repository.PeriodRepository
	Catalog       *repository.CatalogRepository
	Sections      *repository.SectionRepository
	Schedules     *repository.ScheduleRepository
	Offerings     *repository.OfferingQuery
	Preferences   *repository.PreferenceRepository
	Notifications *repository.NotificationRepository
	Publications  *repository.PublicationRepository
	Faculty       *repository.FacultyRepository
	Cache         *repository.CacheRepository
}

// Services groups the domain services.
type Services struct {
	Metrics      *service.MetricsService
	Cache        *service.CacheService
	Tokens       *service.TokenService
	Mail         *service.MailService
	Notifier     *service.NotifierService
	Periods      *service.PeriodService
	Reconcile    *service.ReconcileService
	Assignments  *service.AssignmentService
	Preferences  *service.PreferenceService
	Publications *service.PublicationService
	Views        *service.ScheduleViewService
	Sections     *service.SectionService
	Dispatcher   *service.DeferredDispatcher
}

// App owns the wired graph and its background workers.
type App struct {
	Config       *config.Config
	DB           *sqlx.DB
	Redis        *redis.Client
	Logger       *zap.Logger
	Repositories Repositories
	Services     Services

	mailQueue     *jobs.Queue
	notifierQueue *jobs.Queue
	scheduler     *jobs.Scheduler
}

// New wires every repository and service. rdb may be nil, which disables the view cache.
func New(cfg *config.Config, db *sqlx.DB, rdb *redis.Client, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{Config: cfg, DB: db, Redis: rdb, Logger: logger}

	repos := Repositories{
		Periods:       repository.NewPeriodRepository(db),
		Catalog:       repository.NewCatalogRepository(db),
		Sections:      repository.NewSectionRepository(db),
		Schedules:     repository.NewScheduleRepository(db),
		Offerings:     repository.NewOfferingQuery(db),
		Preferences:   repository.NewPreferenceRepository(db),
		Notifications: repository.NewNotificationRepository(db),
		Publications:  repository.NewPublicationRepository(db),
		Faculty:       repository.NewFacultyRepository(db),
	}
	if rdb != nil {
		repos.Cache = repository.NewCacheRepository(rdb, viewCachePrefix, logger)
	}
	app.Repositories = repos

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if repos.Cache != nil {
		cacheRepo = repos.Cache
	}
	cache := service.NewCacheService(cacheRepo, metrics, cfg.ViewCache.TTL, logger.Named("cache"), cfg.ViewCache.Enabled && cacheRepo != nil)

	app.mailQueue = jobs.NewQueue(mailQueueName, service.NewMailWorker(newMailer(cfg.Mail, logger), metrics, logger.Named("mail")).Handle, jobs.QueueConfig{
		Workers:    cfg.Workers.Concurrency,
		MaxRetries: cfg.Workers.MailRetries,
		RetryDelay: mailRetryDelay,
		Logger:     logger,
	})
	mail := service.NewMailService(app.mailQueue, cfg.Mail.FrontendBaseURL, logger.Named("mail"))

	var notifierQueue jobDispatcher
	if cfg.Notifier.Enabled && len(cfg.Notifier.PartnerURLs) > 0 {
		client := partner.NewClient(cfg.Notifier.PartnerURLs, cfg.Notifier.APIKey, cfg.Notifier.Timeout)
		app.notifierQueue = jobs.NewQueue(notifierQueueName, service.NewNotifierWorker(client, metrics, logger.Named("notifier")).Handle, jobs.QueueConfig{
			Workers: cfg.Workers.Concurrency,
			Logger:  logger,
			NoRetry: true,
		})
		notifierQueue = app.notifierQueue
	}
	notifier := service.NewNotifierService(notifierQueue, logger.Named("notifier"))

	app.Services = Services{
		Metrics:  metrics,
		Cache:    cache,
		Tokens:   service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Expiry: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer}),
		Mail:     mail,
		Notifier: notifier,
		Periods: service.NewPeriodService(repos.Periods, repos.Catalog, repos.Sections, repos.Schedules, repos.Preferences,
			db, cache, metrics, validate, logger.Named("periods")),
		Reconcile: service.NewReconcileService(repos.Periods, repos.Catalog, repos.Sections, repos.Schedules, repos.Offerings,
			db, cache, metrics, logger.Named("reconcile")),
		Assignments: service.NewAssignmentService(repos.Periods, repos.Schedules, repos.Faculty, cache, validate, logger.Named("assignments")),
		Preferences: service.NewPreferenceService(repos.Periods, repos.Preferences, repos.Notifications, repos.Publications, repos.Faculty, mail,
			db, cache, service.PreferenceOptions{
				UnpublishScope: cfg.Preferences.IndividualUnpublishScope,
				Location:       cfg.Scheduling.Location(),
			}, validate, logger.Named("preferences")),
		Publications: service.NewPublicationService(repos.Periods, repos.Publications, repos.Schedules, repos.Preferences, notifier,
			db, cache, metrics, validate, logger.Named("publications")),
		Views:      service.NewScheduleViewService(repos.Periods, repos.Offerings, cache, logger.Named("views")),
		Sections:   service.NewSectionService(repos.Periods, repos.Sections, repos.Catalog, repos.Schedules, db, cache, validate, logger.Named("sections")),
		Dispatcher: service.NewDeferredDispatcher(repos.Notifications, repos.Preferences, repos.Faculty, mail, db, logger.Named("dispatcher")),
	}
	return app
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

func newMailer(cfg config.MailConfig, logger *zap.Logger) mailer.Mailer {
	if cfg.Provider == config.MailProviderSendGrid && cfg.SendGridAPIKey != "" {
		return mailer.NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromName, cfg.FromEmail)
	}
	return mailer.NewConsoleMailer(logger.Named("console_mailer"))
}

// StartWorkers starts the mail and notifier queues. Call before serving traffic
// so post-commit side effects are not dropped.
func (a *App) StartWorkers(ctx context.Context) {
	a.mailQueue.Start(ctx)
	if a.notifierQueue != nil {
		a.notifierQueue.Start(ctx)
	}
}

// StartScheduler registers the deferred dispatcher with cron and starts it.
func (a *App) StartScheduler() error {
	a.scheduler = jobs.NewScheduler(a.Logger.Named("cron"), dispatchTimeout)
	if err := a.scheduler.Register(deferredTaskName, a.Config.Scheduling.DeferredDispatchSpec, a.Services.Dispatcher.Run); err != nil {
		return err
	}
	a.scheduler.Start()
	return nil
}

// Stop halts cron first, then drains the worker queues.
func (a *App) Stop() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.notifierQueue != nil {
		a.notifierQueue.Stop()
	}
	a.mailQueue.Stop()
}

// Handlers builds the HTTP handlers over the wired services.
func (a *App) Handlers() handler.Handlers {
	return handler.Handlers{
		Periods:      handler.NewPeriodHandler(a.Services.Periods),
		Reconcile:    handler.NewReconcileHandler(a.Services.Reconcile),
		Schedules:    handler.NewScheduleHandler(a.Services.Assignments),
		Preferences:  handler.NewPreferenceHandler(a.Services.Preferences),
		Publications: handler.NewPublicationHandler(a.Services.Publications),
		Views:        handler.NewViewHandler(a.Services.Views),
		Sections:     handler.NewSectionHandler(a.Services.Sections),
		System:       handler.NewMetricsHandler(a.Services.Metrics, a.Readiness()),
	}
}

// Readiness lists the dependencies checked by /ready.
func (a *App) Readiness() map[string]handler.Pinger {
	deps := map[string]handler.Pinger{
		"postgres": handler.PingFunc(a.DB.PingContext),
	}
	if a.Repositories.Cache != nil {
		deps["redis"] = a.Repositories.Cache
	}
	return deps
}
