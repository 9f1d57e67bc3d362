// Package kernel assembles the site: services, listeners, middleware and
// routes over the collaborators the server (or a test) hands it.
package kernel

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/app/controllers"
	"github.com/shashiranjanraj/shashikala/app/graph"
	"github.com/shashiranjanraj/shashikala/app/listeners"
	"github.com/shashiranjanraj/shashikala/app/routes"
	"github.com/shashiranjanraj/shashikala/app/services"
	"github.com/shashiranjanraj/shashikala/pkg/auth"
	"github.com/shashiranjanraj/shashikala/pkg/cache"
	"github.com/shashiranjanraj/shashikala/pkg/database"
	"github.com/shashiranjanraj/shashikala/pkg/event"
	pkggraphql "github.com/shashiranjanraj/shashikala/pkg/graphql"
	"github.com/shashiranjanraj/shashikala/pkg/logger"
	"github.com/shashiranjanraj/shashikala/pkg/metrics"
	"github.com/shashiranjanraj/shashikala/pkg/middleware"
	"github.com/shashiranjanraj/shashikala/pkg/queue"
	"github.com/shashiranjanraj/shashikala/pkg/reqid"
	"github.com/shashiranjanraj/shashikala/pkg/response"
	"github.com/shashiranjanraj/shashikala/pkg/router"
	"github.com/shashiranjanraj/shashikala/pkg/storage"
	"github.com/shashiranjanraj/shashikala/pkg/workerpool"
	"github.com/shashiranjanraj/shashikala/pkg/ws"
)

// Options are the kernel's collaborators and settings. DB, Store, Disk and
// Signer are required; a nil Queue disables mail.
type Options struct {
	DB     *gorm.DB
	Store  cache.Store
	Disk   storage.Disk
	Signer *auth.Signer
	Queue  *queue.Manager

	AdminEmail       string
	CORSOrigins      []string
	LegacyHeaderAuth bool
	RateLimit        int
	RateLimitWindow  time.Duration
	EventWorkers     int
}

// Kernel is the booted application. Run its Hub before serving, and call
// Shutdown after the HTTP server has stopped.
type Kernel struct {
	Services *services.Services
	Events   *event.Dispatcher
	Hub      *ws.Hub
	Router   *router.Router

	db   *gorm.DB
	pool *workerpool.Pool
}

func New(o Options) (*Kernel, error) {
	if o.DB == nil || o.Store == nil || o.Disk == nil || o.Signer == nil {
		return nil, errors.New("kernel: DB, Store, Disk and Signer are required")
	}

	if o.RateLimitWindow <= 0 {
		o.RateLimitWindow = time.Minute
	}

	pool := workerpool.New("events", max(o.EventWorkers, 1))
	dispatcher := event.NewDispatcher(pool)
	hub := ws.NewHub(o.CORSOrigins)
	listeners.Register(dispatcher, listeners.Deps{Queue: o.Queue, Feed: hub, AdminEmail: o.AdminEmail})

	revocations := auth.NewRevocations(o.Store, o.Signer)
	svc := services.New(services.Deps{
		DB:          o.DB,
		Events:      dispatcher,
		Disk:        o.Disk,
		Signer:      o.Signer,
		Revocations: revocations,
	})

	schema, err := graph.NewSchema(svc.Products, svc.Events)
	if err != nil {
		return nil, err
	}

	r := router.New()
	// outermost first: metrics sees total latency, the request id exists
	// before anything logs, and recovery runs inside the logger so a panic
	// is logged as a 500
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(middleware.DefaultCORSOptions(o.CORSOrigins)),
		middleware.RateLimit(o.Store, o.RateLimit, o.RateLimitWindow),
	)

	k := &Kernel{Services: svc, Events: dispatcher, Hub: hub, Router: r, db: o.DB, pool: pool}
	r.Get("/health", "health", k.health)
	r.Get("/metrics", "metrics", metrics.Handler())
	if local, ok := o.Disk.(*storage.LocalDisk); ok {
		r.Handle("/storage/*", "storage", local.Handler("/storage/"))
	}

	routes.RegisterAPI(r, routes.API{
		Controllers: controllers.NewRegistry(svc),
		ArtistAuth:  middleware.ArtistAuth(o.Signer, revocations, o.LegacyHeaderAuth),
		LiveFeed:    hub,
		GraphQL:     pkggraphql.Handler(schema),
	})
	return k, nil
}

func (k *Kernel) Handler() http.Handler { return k.Router.Handler() }

// health reports whether the database answers.
func (k *Kernel) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := database.Ping(ctx, k.db); err != nil {
		logger.WithCtx(r.Context()).Warn("health check failed", "error", err)
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Shutdown drains event listeners still running on the worker pool.
func (k *Kernel) Shutdown(ctx context.Context) error {
	return k.pool.Shutdown(ctx)
}
