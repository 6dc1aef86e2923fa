package container

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/MateusMartins/projetoPOS/config"
	"github.com/MateusMartins/projetoPOS/internal/application"
	"github.com/MateusMartins/projetoPOS/internal/infrastructure/elastic"
	pginfra "github.com/MateusMartins/projetoPOS/internal/infrastructure/postgres"
	"github.com/MateusMartins/projetoPOS/internal/infrastructure/redisstore"
	"github.com/MateusMartins/projetoPOS/internal/interface/middleware"
	"github.com/MateusMartins/projetoPOS/pkg/helpers"
)

// Container holds the constructed store clients and services shared by the
// router and the command entry points. Fields left nil are optional.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PG     *pgxpool.Pool
	DB     *sql.DB
	Redis  *redis.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitQueue // nil unless MAIL_SEND_ENABLED

	Session  *middleware.SessionCookie
	Auth     *application.AuthService
	Articles *application.ArticleService

	closers []func()
}

// New connects every backing store, runs migrations and wires the services.
// On error, anything already opened is closed.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (c *Container, err error) {
	c = &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			c.Close()
			c = nil
		}
	}()

	c.PG, err = pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return c, fmt.Errorf("postgres: %w", err)
	}
	c.onClose(c.PG.Close)
	c.DB = pginfra.OpenDB(c.PG)
	c.onClose(func() { _ = c.DB.Close() })

	if err = pginfra.RunMigrations(c.DB, cfg.MigrationsDir, logger); err != nil {
		return c, fmt.Errorf("migrations: %w", err)
	}

	c.Redis, err = helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return c, fmt.Errorf("redis: %w", err)
	}
	c.onClose(func() { _ = c.Redis.Close() })

	c.ES, err = helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return c, fmt.Errorf("elasticsearch: %w", err)
	}
	if err = helpers.EnsureIndex(ctx, c.ES, cfg.ESArticlesIndex, elastic.ArticlesMapping); err != nil {
		return c, fmt.Errorf("elasticsearch: %w", err)
	}

	var mail application.MailQueue
	if cfg.MailSendEnabled {
		c.Rabbit, err = helpers.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return c, fmt.Errorf("rabbitmq: %w", err)
		}
		c.onClose(c.Rabbit.Close)
		mail = c.Rabbit
	}

	c.Session = middleware.NewSessionCookie(
		helpers.NewJWTManager(cfg.SessionSecret, cfg.SessionTTL),
		helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	)
	c.Auth = application.NewAuthService(
		pginfra.NewUserRepository(c.DB),
		redisstore.NewSessionRepository(c.Redis, cfg.SessionTTL, cfg.FlashTTL),
		mail,
		logger,
		cfg.AppName,
		cfg.BaseURL,
	)
	c.Articles = application.NewArticleService(
		elastic.NewArticleRepository(c.ES, cfg.ESArticlesIndex, cfg.ESMaxResults),
		logger,
	)
	return c, nil
}

func (c *Container) onClose(fn func()) { c.closers = append(c.closers, fn) }

// Close releases clients in reverse order of construction. Safe to call twice.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
