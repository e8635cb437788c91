// Command server runs the rxcampus API: the clinical program catalog, the
// resource library proxy, and the member dashboard. main wires configuration
// into services and keeps the lifecycle small; business logic lives in the
// internal packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"rxcampus/internal/activity"
	activityhandler "rxcampus/internal/activity/handler"
	activitymetrics "rxcampus/internal/activity/metrics"
	activitymemory "rxcampus/internal/activity/store/memory"
	activitypostgres "rxcampus/internal/activity/store/postgres"
	"rxcampus/internal/airtable"
	cataloghandler "rxcampus/internal/catalog/handler"
	catalogservice "rxcampus/internal/catalog/service"
	catalogsource "rxcampus/internal/catalog/source"
	enrollhandler "rxcampus/internal/enroll/handler"
	enrollservice "rxcampus/internal/enroll/service"
	"rxcampus/internal/enroll/sink"
	librarycache "rxcampus/internal/library/cache"
	libraryhandler "rxcampus/internal/library/handler"
	librarymetrics "rxcampus/internal/library/metrics"
	libraryservice "rxcampus/internal/library/service"
	librarysource "rxcampus/internal/library/source"
	memberhandler "rxcampus/internal/member/handler"
	membermetrics "rxcampus/internal/member/metrics"
	memberservice "rxcampus/internal/member/service"
	"rxcampus/internal/member/store"
	bookmarkstore "rxcampus/internal/member/store/bookmark"
	memberstore "rxcampus/internal/member/store/member"
	sessionstore "rxcampus/internal/member/store/session"
	"rxcampus/internal/platform/config"
	"rxcampus/internal/platform/httpserver"
	"rxcampus/internal/platform/logger"
	"rxcampus/internal/platform/metrics"
	"rxcampus/internal/platform/redis"
	ratelimitmetrics "rxcampus/internal/ratelimit/metrics"
	ratelimitmw "rxcampus/internal/ratelimit/middleware"
	ratelimitservice "rxcampus/internal/ratelimit/service"
	"rxcampus/internal/ratelimit/store/bucket"
	"rxcampus/internal/supabase"
	"rxcampus/internal/token"
	httptransport "rxcampus/internal/transport/http"
)

const (
	tokenIssuer   = "rxcampus"
	tokenAudience = "rxcampus-api"

	shutdownTimeout = 10 * time.Second
)

func main() {
	// A local .env is a development convenience; deployments configure
	// through the environment.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()
	mx := metrics.New()

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	content, err := buildContent(cfg, log)
	if err != nil {
		log.Error("content source setup failed", "source", string(cfg.Content.Source), "error", err)
		os.Exit(1)
	}

	// The activity feed and the publisher share one store so dashboard reads
	// see what the services emit.
	var activityStore activity.Store = activitymemory.NewInMemoryStore()
	if content.db != nil {
		activityStore = activitypostgres.New(content.db)
	}
	publisher := activity.NewPublisher(activityStore,
		activity.WithPublisherLogger(log),
		activity.WithPublisherMetrics(activitymetrics.New()),
	)
	activitySvc := activity.NewService(activityStore, activity.WithServiceLogger(log))

	members := memberstore.NewInMemory()
	if _, err := store.SeedDemoMember(members, cfg.Auth); err != nil {
		log.Error("demo member seed failed", "error", err)
		os.Exit(1)
	}

	var sessions memberservice.SessionStore = sessionstore.New()
	if rdb != nil {
		sessions = sessionstore.NewRedis(rdb)
	}
	var bookmarks memberservice.BookmarkStore = bookmarkstore.NewInMemory()
	if content.db != nil {
		bookmarks = bookmarkstore.NewPostgres(content.db)
	}

	tokens := token.NewService(cfg.Auth.JWTSigningKey, tokenIssuer, tokenAudience)
	memberSvc := memberservice.New(members, sessions, bookmarks, tokens,
		memberservice.WithLogger(log),
		memberservice.WithMetrics(membermetrics.New()),
		memberservice.WithTokenTTL(cfg.Auth.TokenTTL),
		memberservice.WithActivity(publisher),
	)

	catalogSvc := catalogservice.New(content.catalog,
		catalogservice.WithLogger(log),
		catalogservice.WithActivity(publisher),
	)

	libraryOpts := []libraryservice.Option{
		libraryservice.WithLogger(log),
		libraryservice.WithMetrics(librarymetrics.New()),
		libraryservice.WithActivity(publisher),
	}
	if rdb != nil {
		libraryOpts = append(libraryOpts,
			libraryservice.WithCache(librarycache.NewRedis(rdb), cfg.Content.CacheTTL))
	}
	librarySvc := libraryservice.New(content.library, libraryOpts...)

	enrollSvc := enrollservice.New(content.enroll, enrollservice.WithLogger(log))

	limiter, err := ratelimitservice.New(bucket.New(),
		ratelimitservice.WithLogger(log),
		ratelimitservice.WithMetrics(ratelimitmetrics.New()),
	)
	if err != nil {
		log.Error("rate limiter setup failed", "error", err)
		os.Exit(1)
	}
	rateLimit := ratelimitmw.New(limiter, log,
		ratelimitmw.WithDisabled(cfg.RateLimit.Disabled))

	router := httptransport.NewRouter(
		httptransport.Handlers{
			Catalog:  cataloghandler.New(catalogSvc, log),
			Library:  libraryhandler.New(librarySvc, log),
			Member:   memberhandler.New(memberSvc, log),
			Activity: activityhandler.New(activitySvc, log),
			Enroll:   enrollhandler.New(enrollSvc, log),
		},
		httptransport.Deps{
			Logger:         log,
			Metrics:        mx,
			Tokens:         token.NewServiceAdapter(tokens),
			Sessions:       sessions,
			RateLimit:      rateLimit,
			AdminToken:     cfg.Server.AdminToken,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
	)

	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("rxcampus api listening",
			"addr", cfg.Server.Addr,
			"content_source", string(cfg.Content.Source),
			"redis", rdb != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	// Drain buffered activity events before the stores go away.
	publisher.Close()
	content.close()
	if rdb != nil {
		rdb.Close()
	}
}

// contentStack bundles everything that depends on where content lives, so the
// source switch happens exactly once.
type contentStack struct {
	catalog catalogservice.Source
	library libraryservice.Source
	enroll  enrollservice.Sink
	db      *sql.DB
	close   func()
}

func buildContent(cfg config.Config, log *slog.Logger) (*contentStack, error) {
	switch cfg.Content.Source {
	case config.ContentSourceAirtable:
		at, err := airtable.New(cfg.Airtable, airtable.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("airtable client: %w", err)
		}
		return &contentStack{
			catalog: catalogsource.NewAirtable(at),
			library: librarysource.NewAirtable(at),
			enroll:  sink.NewAirtable(at),
			close:   func() {},
		}, nil

	case config.ContentSourcePostgres:
		if cfg.Database.URL == "" {
			return nil, errors.New("CONTENT_SOURCE=postgres requires DATABASE_URL")
		}
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		sb, err := supabase.New(cfg.Supabase, supabase.WithLogger(log))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("supabase client: %w", err)
		}
		return &contentStack{
			catalog: catalogsource.NewPostgres(db, cfg.Storage.Bucket, sb),
			library: librarysource.NewPostgres(db, cfg.Storage.Bucket, sb),
			enroll:  sink.NewPostgres(db),
			db:      db,
			close:   func() { db.Close() },
		}, nil

	default:
		catalogSrc := catalogsource.NewInMemory()
		catalogsource.SeedDemoCatalog(catalogSrc)
		librarySrc := librarysource.NewInMemory()
		librarysource.SeedDemoLibrary(librarySrc)
		return &contentStack{
			catalog: catalogSrc,
			library: librarySrc,
			enroll:  sink.NewInMemory(),
			close:   func() {},
		}, nil
	}
}
