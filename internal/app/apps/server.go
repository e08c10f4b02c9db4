package apps

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"ecocoleta/internal/pkg/handler"
	"ecocoleta/internal/pkg/metrics"
	"ecocoleta/internal/pkg/seed"
	"ecocoleta/internal/pkg/server"
	"ecocoleta/internal/pkg/store"
	"ecocoleta/internal/pkg/validate"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

const healthShutdownTimeout = 5 * time.Second

// ServerAppCfg configures a ServerApp.
type ServerAppCfg interface {
	ApplyServerApp(*ServerApp) error
}

// ServerApp is the EcoColeta registry server.
type ServerApp struct {
	Port          uint16 `validate:"required"`
	HealthPort    uint16 `validate:"nefield=Port"`
	AdminUser     string `validate:"required"`
	AdminPassword string `validate:"required"`
	Seed          bool

	store store.Store
}

// NewServerApp creates a new ServerApp.
func NewServerApp(cfgs ...ServerAppCfg) (*ServerApp, error) {
	app := &ServerApp{}
	for _, cfg := range cfgs {
		if err := cfg.ApplyServerApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ServerApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ServerApp failed")
	}
	app.store = store.NewMemoryStore()
	return app, nil
}

// Store returns the store shared by every connection.
func (app *ServerApp) Store() store.Store {
	return app.store
}

// Run serves the registry, and the health endpoint when HealthPort is set,
// until ctx is done or either listener fails.
func (app *ServerApp) Run(ctx context.Context, args []string) error {
	if app.Seed {
		seed.Load(app.store, seed.Demo)
	}
	recorder := metrics.NewPrometheus()
	h, err := handler.NewHandler(
		handler.WithStore(app.store),
		handler.WithCredentials(app.AdminUser, app.AdminPassword),
		handler.WithMetrics(recorder),
	)
	if err != nil {
		return errors.Wrap(err, "create handler failed")
	}
	srv, err := server.NewServer(
		server.WithHandler(h),
		server.WithMetrics(recorder),
	)
	if err != nil {
		return errors.Wrap(err, "create server failed")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return errors.Wrap(srv.ListenAndServe(gctx, listenAddr(app.Port)), "serve registry failed")
	})
	if app.HealthPort != 0 {
		health := &http.Server{
			Addr:              listenAddr(app.HealthPort),
			Handler:           metrics.NewMux(recorder),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.WithField("addr", health.Addr).Info("health server listening")
			if err := health.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "serve health failed")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), healthShutdownTimeout)
			defer cancel()
			return errors.Wrap(health.Shutdown(shutdownCtx), "shutdown health server failed")
		})
	}
	return g.Wait()
}

func listenAddr(port uint16) string {
	return net.JoinHostPort("", strconv.Itoa(int(port)))
}
