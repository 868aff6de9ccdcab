package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Care_Club/internal/config"
	"Care_Club/internal/handler"
	"Care_Club/internal/model"
	"Care_Club/internal/pkg"
	"Care_Club/internal/repository/mysql"
	"Care_Club/internal/repository/redis"
	"Care_Club/internal/router"
	"Care_Club/internal/service"
)

func main() {
	cfg := config.Load()

	pkg.SetAccessSecret(cfg.JWTAccessSecret)

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		log.Fatalf("mysql init: %v", err)
	}
	if err := mysql.DB.AutoMigrate(
		&model.Post{},
		&model.Comment{},
		&model.HelpfulVote{},
		&model.Report{},
		&model.ModerationAction{},
		&model.ModerationOutbox{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	if err := redis.Init(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB); err != nil {
		log.Fatalf("redis init: %v", err)
	}
	defer redis.Close()

	posts := mysql.NewPostRepository()
	comments := mysql.NewCommentRepository()
	votes := mysql.NewVoteRepository()
	reports := mysql.NewReportRepository()
	outbox := mysql.NewOutboxRepository()
	users := mysql.NewUserRepository()
	plants := mysql.NewPlantRepository()
	limiter := redis.NewRateLimitRepository()

	mailer := pkg.NewMailer(pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	guard := service.NewGuard(users, limiter, cfg)
	enrich := service.NewEnrichService(users, plants, cfg.AssetsBaseURL)
	postSvc := service.NewPostService(posts, plants, guard, enrich)
	commentSvc := service.NewCommentService(comments, posts, votes, guard, enrich)
	moderationSvc := service.NewModerationService(reports, posts, comments, mailer, cfg.AdminAlertMail)

	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		producer := pkg.NewModerationProducer(pkg.KafkaConfig{Brokers: brokers, Topic: cfg.KafkaTopic})
		defer producer.Close()
		go service.NewOutboxRelay(outbox, producer).Run(relayCtx)
	} else {
		log.Println("kafka brokers not configured; moderation events stay in outbox")
	}

	r := router.SetupRouter(router.Handlers{
		Post:    handler.NewPostHandler(postSvc),
		Comment: handler.NewCommentHandler(commentSvc),
		Report:  handler.NewReportHandler(moderationSvc),
		Admin:   handler.NewAdminHandler(moderationSvc),
	}, cfg.AdminKeyHash)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("care club api listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	stopRelay()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
