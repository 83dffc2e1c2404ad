package main

import (
	"context"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	"github.com/TimeBox-aste/obo-space-web/internal/config"
	"github.com/TimeBox-aste/obo-space-web/internal/consumer"
	notifrepo "github.com/TimeBox-aste/obo-space-web/internal/repository/notification"
	regrepo "github.com/TimeBox-aste/obo-space-web/internal/repository/registration"
	"github.com/TimeBox-aste/obo-space-web/internal/scheduler"
	notifsvc "github.com/TimeBox-aste/obo-space-web/internal/service/notification"
	regsvc "github.com/TimeBox-aste/obo-space-web/internal/service/registration"
	"github.com/TimeBox-aste/obo-space-web/pkg/email"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))

	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	dbNum, err := strconv.Atoi(cfg.Redis.Database)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to parse redis database")
	}

	rdb := redis.New(cfg.Redis.Address, cfg.Redis.Password, dbNum)

	if err = rdb.Ping(ctx).Err(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	smtpPort, err := strconv.Atoi(cfg.Email.SMTPPort)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to parse email smtp port")
	}

	emailClient := email.NewClient(
		cfg.Email.SMTPHost,
		smtpPort,
		cfg.Email.Username,
		cfg.Email.Password,
		cfg.Email.From,
		cfg.Email.BaseURL,
		cfg.Email.Timeout,
	)

	// The consumer dials the broker itself so it can reconnect; no shared
	// RabbitMQ connection is held here.
	ingestService := regsvc.NewService(regrepo.NewRepository(db), nil)
	deliveryService := notifsvc.NewService(notifrepo.NewRepository(db), rdb)

	cons := consumer.New(cfg, ingestService)
	sched := scheduler.New(
		deliveryService,
		emailClient,
		cfg.Scheduler.PollInterval,
		cfg.Scheduler.RetryDelay,
		cfg.Retry,
	)

	go cons.Run(ctx)
	go sched.Run(ctx)

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Printf("failed to close master DB: %v", err)
	}

	for i, s := range db.Slaves {
		if err := s.Close(); err != nil {
			zlog.Logger.Printf("failed to close slave DB %d: %v", i, err)
		}
	}
}
