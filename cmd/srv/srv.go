package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ecohabit/backend/config"
	"github.com/ecohabit/backend/internal/domain"
	"github.com/ecohabit/backend/internal/domain/gamify"
	"github.com/ecohabit/backend/internal/domain/syncqueue"
	"github.com/ecohabit/backend/internal/entity"
	"github.com/ecohabit/backend/internal/gateway"
	"github.com/ecohabit/backend/internal/model"
	"github.com/ecohabit/backend/internal/repository"
	"github.com/ecohabit/backend/pkg/logger"
	"github.com/ecohabit/backend/pkg/router"
	"github.com/ecohabit/backend/pkg/xcontext"
	"github.com/ecohabit/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs *config.Configs

	kvRepo        repository.KeyValueRepository
	stateRepo     repository.StateRepository
	identityRepo  repository.IdentityRepository
	sessionRepo   repository.SessionRepository
	localUserRepo repository.LocalUserRepository

	remote gateway.RemoteGateway
	queue  *syncqueue.Queue

	storeDomain    domain.StoreDomain
	identityDomain domain.IdentityDomain

	router *router.Router
	server *http.Server
}

// prepare builds everything a command needs, from the configs to the
// resolved session.
func (s *srv) prepare(cctx *cli.Context) error {
	s.ctx = cctx.Context
	if s.ctx == nil {
		s.ctx = context.Background()
	}

	if err := s.loadConfig(cctx.String("config")); err != nil {
		return err
	}

	s.loadLogger()

	if err := s.loadStorage(); err != nil {
		return err
	}

	s.loadRepos()
	s.loadGateway()
	s.loadDomains()

	if _, err := s.identityDomain.ResolveSession(s.ctx, &model.ResolveSessionRequest{}); err != nil {
		return err
	}

	return nil
}

// close waits for the pending remote work so a short-lived command does
// not exit before its action reached the backend.
func (s *srv) close(*cli.Context) error {
	if s.queue != nil {
		s.queue.Wait()
		s.queue.Stop()
	}

	return nil
}

func (s *srv) loadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	s.configs = cfg
	s.ctx = xcontext.WithConfigs(s.ctx, *cfg)
	return nil
}

func (s *srv) loadLogger() {
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(s.configs.Log.Level)))
}

func (s *srv) loadStorage() error {
	switch s.configs.Storage.Driver {
	case "redis":
		redisClient, err := xredis.NewClient(s.ctx)
		if err != nil {
			return fmt.Errorf("cannot connect to redis: %w", err)
		}

		s.kvRepo = repository.NewRedisKeyValueRepository(redisClient)
		return nil

	case "sqlite", "mysql":
		db, err := s.newDatabase()
		if err != nil {
			return err
		}

		s.ctx = xcontext.WithDB(s.ctx, db)
		if err := s.migrateDB(); err != nil {
			return err
		}

		s.kvRepo = repository.NewKeyValueRepository()
		return nil

	default:
		return fmt.Errorf("unknown storage driver %s", s.configs.Storage.Driver)
	}
}

func (s *srv) newDatabase() (*gorm.DB, error) {
	var dialector gorm.Dialector
	if s.configs.Storage.Driver == "mysql" {
		dialector = mysql.New(mysql.Config{
			DSN:                       s.configs.Database.ConnectionString(), // data source name
			DefaultStringSize:         256,                                   // default size for string fields
			DisableDatetimePrecision:  true,                                  // disable datetime precision, which not supported before MySQL 5.6
			DontSupportRenameIndex:    true,                                  // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
			DontSupportRenameColumn:   true,                                  // `change` when rename column, rename column not supported before MySQL 8, MariaDB
			SkipInitializeWithVersion: false,                                 // auto configure based on currently MySQL version
		})
	} else {
		dialector = sqlite.Open(s.configs.Database.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetConnMaxLifetime(time.Hour)
	if s.configs.Storage.Driver == "sqlite" {
		// sqlite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func (s *srv) migrateDB() error {
	if err := entity.MigrateTable(s.ctx); err != nil {
		return fmt.Errorf("cannot migrate database: %w", err)
	}

	return nil
}

func (s *srv) loadRepos() {
	s.stateRepo = repository.NewStateRepository(s.kvRepo)
	s.identityRepo = repository.NewIdentityRepository(s.kvRepo)
	s.sessionRepo = repository.NewSessionRepository(s.kvRepo)
	s.localUserRepo = repository.NewLocalUserRepository(s.kvRepo)
}

func (s *srv) loadGateway() {
	s.remote = gateway.New(s.ctx, s.sessionRepo)
}

func (s *srv) loadDomains() {
	s.queue = syncqueue.New(s.ctx)
	s.storeDomain = domain.NewStoreDomain(
		s.stateRepo, s.remote, s.queue, gamify.DefaultAchievementManager())
	s.identityDomain = domain.NewIdentityDomain(
		s.identityRepo, s.localUserRepo, s.remote, s.storeDomain)
}
