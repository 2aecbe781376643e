// cmd/container.go
//
// Root composition root. Owns infrastructure (DB, Redis, template storage,
// email, jobs) and composes bounded-context containers.
package main

import (
	"context"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/cachex"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/cachex/cachexmemory"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/cachex/cachexredis"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/config"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/fsx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/fsx/fsxlocal"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/fsx/fsxs3"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/account/accountinfra"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/iamcontainer"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup/signupinfra"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/jobx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/jobx/jobxredis"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/notifx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/notifx/notifxconsole"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/notifx/notifxses"
)

// Container holds shared infrastructure and composed module containers.
type Container struct {
	Config *config.Config
	Logger *logx.Logger
	log    *logx.Logger

	// Infrastructure (shared across all modules)
	DB        *sqlx.DB
	Redis     *redis.Client
	Cache     cachex.Store
	Templates fsx.FileReader
	Mail      *notifx.Client
	Jobs      *jobx.Client
	Metrics   *prometheus.Registry

	// Bounded-context containers
	IAM *iamcontainer.Container
}

func NewContainer(ctx context.Context, cfg *config.Config, logger *logx.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger, log: logger.Named("container")}
	c.log.Info("Initializing application container...")

	if err := c.initInfrastructure(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}
	if err := c.initModules(); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.log.Info("Application container initialized")
	return c, nil
}

// ---------------------------------------------------------------------------
// Infrastructure
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure(ctx context.Context) error {
	c.log.Info("Initializing infrastructure...")

	c.Metrics = prometheus.NewRegistry()
	c.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	steps := []func(context.Context) error{
		c.initDatabase,
		c.initCache,
		c.initTemplateStorage,
		c.initMail,
		c.initJobs,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}

	c.log.Info("Infrastructure initialized")
	return nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	dbCfg := c.Config.Database

	db, err := sqlx.ConnectContext(ctx, "postgres", dbCfg.DSN())
	if err != nil {
		return errx.Wrap(err, "connect to database", errx.TypeExternal)
	}
	db.SetMaxOpenConns(dbCfg.MaxOpenConns)
	db.SetMaxIdleConns(dbCfg.MaxIdleConns)
	db.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	c.DB = db
	c.log.WithFields(logx.Fields{"host": dbCfg.Host, "db": dbCfg.Name}).Info("Database connected")

	if dbCfg.MigrateOnStart {
		if err := accountinfra.Migrate(ctx, db.DB, c.Logger); err != nil {
			return err
		}
		c.log.Info("Database migrations applied")
	}
	return nil
}

// needsRedis reports whether any component is configured to use Redis.
func (c *Container) needsRedis() bool {
	return c.Config.Redis.CacheDriver == "redis" || c.Config.Signup.MailerMode == config.MailerQueue
}

func (c *Container) initCache(ctx context.Context) error {
	if c.needsRedis() {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Addr(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return errx.Wrap(err, "connect to redis", errx.TypeExternal)
		}
		c.log.WithField("addr", c.Config.Redis.Addr()).Info("Redis connected")
	}

	if c.Config.Redis.CacheDriver == "memory" {
		c.Cache = cachexmemory.NewStore()
		c.log.Warn("Using in-process cache; signup sessions and refresh tokens are not shared between instances")
		return nil
	}
	c.Cache = cachexredis.NewStore(c.Redis, c.Config.Redis.KeyPrefix)
	return nil
}

func (c *Container) initTemplateStorage(ctx context.Context) error {
	storage := c.Config.Storage

	switch storage.Mode {
	case config.StorageS3:
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(storage.S3Region))
		if err != nil {
			return errx.Wrap(err, "load AWS config for S3", errx.TypeExternal)
		}
		c.Templates = fsxs3.NewFileSystem(s3.NewFromConfig(awsCfg), storage.S3Bucket, storage.S3Prefix)
		c.log.WithFields(logx.Fields{"bucket": storage.S3Bucket, "region": storage.S3Region}).Info("S3 template storage configured")

	case config.StorageLocal:
		localFS, err := fsxlocal.NewLocalFileSystem(storage.LocalDir)
		if err != nil {
			return err
		}
		c.Templates = localFS
		c.log.WithField("path", storage.LocalDir).Info("Local template storage configured")

	default:
		c.log.Info("Using embedded templates only")
	}
	return nil
}

func (c *Container) initMail(ctx context.Context) error {
	nc := c.Config.Notifx
	registry := notifx.NewTemplateRegistry()

	names, err := signupinfra.LoadTemplates(ctx, registry, c.Templates, nc.TemplateDir)
	if err != nil {
		return err
	}
	c.log.WithField("templates", names).Info("Email templates loaded")

	var provider notifx.EmailSender
	switch nc.Provider {
	case "ses":
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(nc.AWSRegion))
		if err != nil {
			return errx.Wrap(err, "load AWS config for SES", errx.TypeExternal)
		}
		provider = notifxses.NewSESProvider(ses.NewFromConfig(awsCfg), nc.FromAddress)
	default:
		provider = notifxconsole.NewConsoleProvider(c.Logger.Named("mail"))
	}

	var defaults []notifx.Option
	if nc.ConfigurationSet != "" {
		defaults = append(defaults, notifx.WithConfigurationSet(nc.ConfigurationSet))
	}
	c.Mail = notifx.NewClient(provider, registry, nc.FromName, nc.FromAddress, defaults...)
	c.log.WithField("provider", nc.Provider).Info("Email client configured")
	return nil
}

func (c *Container) initJobs(context.Context) error {
	if c.Config.Signup.MailerMode != config.MailerQueue {
		return nil
	}
	jc := c.Config.Jobx
	queue := jobxredis.NewQueue(c.Redis, jobxredis.WithKeyPrefix(jc.KeyPrefix))
	c.Jobs = jobx.NewClient(queue, c.Logger,
		jobx.WithQueues(jc.Queues...),
		jobx.WithConcurrency(jc.Concurrency),
		jobx.WithPollInterval(jc.PollInterval),
		jobx.WithShutdownTimeout(jc.ShutdownTimeout),
		jobx.WithDequeueTimeout(jc.DequeueTimeout),
		jobx.WithDefaultRetryDelay(jc.DefaultRetryDelay),
		jobx.WithJobTimeout(c.Config.Signup.MailTimeout),
		jobx.WithMetrics(c.Metrics),
	)
	c.log.WithField("queues", jc.Queues).Info("Job queue configured")
	return nil
}

// pingTemplates checks the template source is reachable.
func (c *Container) pingTemplates(ctx context.Context) error {
	if c.Templates == nil {
		return nil
	}
	_, err := c.Templates.Exists(ctx, c.Config.Notifx.TemplateDir)
	return err
}

// ---------------------------------------------------------------------------
// Module composition
// ---------------------------------------------------------------------------

func (c *Container) initModules() error {
	c.log.Info("Initializing modules...")

	deps := iamcontainer.Deps{
		DB:      c.DB,
		Cache:   c.Cache,
		Mail:    c.Mail,
		Cfg:     c.Config,
		Logger:  c.log.Named("iam"),
		Metrics: c.Metrics,
	}
	if c.Jobs != nil {
		deps.Jobs = c.Jobs
	}

	iam, err := iamcontainer.New(deps)
	if err != nil {
		return err
	}
	c.IAM = iam

	if c.Jobs != nil {
		c.IAM.RegisterJobHandlers(c.Jobs)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (c *Container) StartBackgroundServices(ctx context.Context) {
	if c.Jobs == nil {
		return
	}
	c.log.Info("Starting background workers...")
	go func() {
		if err := c.Jobs.Start(ctx); err != nil {
			c.log.WithError(err).Error("Job workers stopped")
		}
	}()
}

func (c *Container) Cleanup() {
	c.log.Info("Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.log.WithError(err).Error("Error closing database")
		} else {
			c.log.Info("Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.log.WithError(err).Error("Error closing Redis")
		} else {
			c.log.Info("Redis connection closed")
		}
	}
}
