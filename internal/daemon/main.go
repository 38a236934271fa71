// Package daemon wires the database, the session storage and the web service together.
package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	mysqlstorage "github.com/gofiber/storage/mysql/v2"
	postgresstorage "github.com/gofiber/storage/postgres/v3"
	redisstorage "github.com/gofiber/storage/redis/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/config"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/dsn"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
	gormlog "github.com/GoAccessAdmin/GoAccessAdmin/internal/logger/adapter/gorm"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/handler"
)

// ErrConfigNil is returned by New without a config.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
}

// Start runs the web service until SIGINT or SIGTERM. After a signal it returns
// once the shutdown has completed.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	if err := d.webService.Start(); err != nil {
		return err //nolint:wrapcheck
	}

	<-d.webService.Stopped()

	return nil
}

// New opens and migrates the database, seeds it and builds the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	deps := handler.NewDeps(cfg, db)

	if err = Seed(ctx, cfg, deps); err != nil {
		return nil, err
	}

	storage, err := NewSessionStorage(cfg)
	if err != nil {
		return nil, err
	}

	ws, err := web.New(cfg, deps, storage)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create web service")
	}

	return &Daemon{webService: ws}, nil
}

// OpenDB opens the configured database and migrates the schema.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	source, err := dsn.Create(cfg.DB)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		dialector = gormmysql.Open(source)
	case config.EnginePostgres:
		dialector = gormpostgres.Open(source)
	default:
		if dir := filepath.Dir(cfg.DB.Name); cfg.DB.Name != ":memory:" && dir != "." {
			if err = os.MkdirAll(dir, 0o750); err != nil { //nolint:mnd
				return nil, errors.Wrap(err, "failed to create sqlite directory")
			}
		}

		dialector = sqlite.Open(source)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlog.New(cfg.Log.SQL, log.Logger),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.GormEngine)
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Msg("database ready")

	return db, nil
}

// NewSessionStorage returns the configured session storage, nil for memory.
// The sql storages reuse the database settings.
func NewSessionStorage(cfg *config.Config) (fiber.Storage, error) {
	switch cfg.Session.Storage {
	case config.SessionStorageMySQL:
		return mysqlstorage.New(mysqlstorage.Config{
			ConnectionURI: dsn.MySQL(cfg.DB),
			Table:         cfg.Session.Table,
		}), nil
	case config.SessionStoragePostgres:
		return postgresstorage.New(postgresstorage.Config{
			ConnectionURI: dsn.Postgres(cfg.DB),
			Table:         cfg.Session.Table,
		}), nil
	case config.SessionStorageRedis:
		return redisstorage.New(redisstorage.Config{
			Host:     cfg.Session.Redis.Host,
			Port:     cfg.Session.Redis.Port,
			Username: cfg.Session.Redis.Username,
			Password: cfg.Session.Redis.Password,
			Database: cfg.Session.Redis.Database,
		}), nil
	case config.SessionStorageMemory, "":
		return nil, nil //nolint:nilnil // fiber's memory storage
	default:
		return nil, fmt.Errorf("unsupported session storage %q", cfg.Session.Storage) //nolint:goerr113
	}
}
