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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lacteosdev/catalogo-web/internal/config"
	"github.com/lacteosdev/catalogo-web/internal/es"
	"github.com/lacteosdev/catalogo-web/internal/handlers"
	"github.com/lacteosdev/catalogo-web/internal/logging"
	"github.com/lacteosdev/catalogo-web/internal/mailer"
	"github.com/lacteosdev/catalogo-web/internal/middleware/csrf"
	"github.com/lacteosdev/catalogo-web/internal/middleware/requestlog"
	"github.com/lacteosdev/catalogo-web/internal/mykafka"
	"github.com/lacteosdev/catalogo-web/internal/service/search"
	"github.com/lacteosdev/catalogo-web/internal/session"
	"github.com/lacteosdev/catalogo-web/internal/store"
	httpserver "github.com/lacteosdev/catalogo-web/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := config.SeedCatalog(db); err != nil {
		log.Fatalf("catalog seed error: %v", err)
	}

	brokers := []string{configuration.KAFKA_ADDRESS}
	topics := []string{mykafka.TopicUserEvents, mykafka.TopicProductEvents, mykafka.TopicMailEvents}
	prod, err := mykafka.NewProducer(brokers, topics)
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	sender, err := mailer.NewSMTPSender(configuration)
	if err != nil {
		log.Fatal(err)
	}

	st := store.New(db)
	sessions := session.NewManager(db, []byte(configuration.SESSION_SECRET), configuration.SESSION_TTL)
	notifier := &mailer.Notifier{Store: st, Sender: sender}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(requestlog.Middleware(logger))
	e.Use(csrf.Middleware(csrf.Config{Secure: true}))

	deps := httpserver.Deps{
		DB:       db,
		Sessions: sessions,
		AuthHandler: &handlers.AuthHandler{
			Sessions: sessions, Store: st, Config: configuration, Producer: prod,
		},
		ProductHandler: &handlers.ProductHandler{
			Sessions: sessions, Store: st, ES: esClient, ESIndex: search.Index, Producer: prod,
		},
		MailHandler: &handlers.MailHandler{
			Sessions: sessions, Store: st, Notifier: notifier, Producer: prod,
		},
		SearchHandler: &handlers.SearchHandler{
			Sessions: sessions, ES: esClient, Index: search.Index,
		},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
