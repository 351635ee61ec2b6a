// Package serverapp builds the full HTTP handler: simulation core, slot
// manager, cloud store, auth and middleware wired together.
package serverapp

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/achievement"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/auth"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/catalog"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/cloud"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/config"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/game"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/httpmw"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/save"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/server"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/telemetry"
)

type Options struct {
	Config  config.Config
	Catalog *catalog.Catalog
	Clock   game.Clock
	Logger  *zap.Logger
}

// App is the assembled server with its long-lived components exposed for
// tests and the ops tooling.
type App struct {
	Handler http.Handler
	Manager *save.Manager
	Metrics *telemetry.Metrics
}

// New builds the whole application. Everything is explicitly constructed and
// injectable; there are no package-level singletons.
func New(opts Options) (*App, error) {
	if opts.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if opts.Clock == nil {
		opts.Clock = game.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	cfg := opts.Config
	logger := opts.Logger

	engine := game.NewEngine(opts.Catalog, cfg.Balance, opts.Clock, nil)
	eval := achievement.NewEvaluator(opts.Catalog, opts.Clock, logger.Named("achievements"))

	repo, err := save.NewFileRepo(filepath.Join(cfg.Server.DataDir, "saves"))
	if err != nil {
		return nil, err
	}
	manager, err := save.NewManager(save.ManagerOptions{
		Engine:  engine,
		Eval:    eval,
		Catalog: opts.Catalog,
		Balance: cfg.Balance,
		Clock:   opts.Clock,
		Repo:    repo,
		Logger:  logger.Named("slots"),
	})
	if err != nil {
		return nil, err
	}

	metrics := telemetry.New()
	api := server.NewAPI(manager, metrics, logger.Named("api"))

	authRepo, err := auth.NewFileRepo(filepath.Join(cfg.Server.DataDir, "auth"))
	if err != nil {
		return nil, err
	}
	authService := auth.NewService(authRepo, cfg.Auth.TokenSecret, cfg.Auth.TokenTTL, logger.Named("auth"))
	authHandler := auth.NewHandler(authService)

	cloudStore, err := cloud.NewFileStore(filepath.Join(cfg.Server.DataDir, "cloud"))
	if err != nil {
		return nil, err
	}
	cloudHandler := cloud.NewHandler(cloudStore, logger.Named("cloud"))

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true,"service":"clickfluencer","time":"` +
			time.Now().UTC().Format(time.RFC3339) + `"}`))
	})
	mux.Handle("/metrics", metrics.HTTPHandler())

	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.Handle("/api/auth/session", authService.RequireAPI(http.HandlerFunc(authHandler.Session)))

	mux.HandleFunc("/api/game/click", api.Click)
	mux.HandleFunc("/api/game/tick", api.Tick)
	mux.HandleFunc("/api/game/generators/buy", api.BuyGenerator)
	mux.HandleFunc("/api/game/upgrades/buy", api.BuyUpgrade)
	mux.HandleFunc("/api/game/themes/buy", api.BuyTheme)
	mux.HandleFunc("/api/game/themes/activate", api.ActivateTheme)
	mux.HandleFunc("/api/game/prestige", api.Prestige)
	mux.HandleFunc("/api/game/state", api.State)
	mux.HandleFunc("/api/game/breakdown", api.Breakdown)

	mux.HandleFunc("/api/slots", api.Slots)
	mux.HandleFunc("/api/slots/", api.SlotOp)
	mux.HandleFunc("/api/save/export", api.ExportSave)
	mux.HandleFunc("/api/save/import", api.ImportSave)
	mux.HandleFunc("/api/save/diff", api.DiffSave)

	mux.Handle("/api/cloud/save", authService.RequireAPI(http.HandlerFunc(cloudHandler.SaveHandler)))
	mux.Handle("/api/cloud/load", authService.RequireAPI(http.HandlerFunc(cloudHandler.LoadHandler)))

	handler := httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(logger),
		httpmw.WithAccessLog(logger),
		httpmw.WithMetrics(metrics),
	)

	return &App{Handler: handler, Manager: manager, Metrics: metrics}, nil
}
