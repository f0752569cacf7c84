// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"homefinder/internal/api/client"
	"homefinder/internal/config"
	"homefinder/internal/domain/auth"
	"homefinder/internal/domain/geo"
	"homefinder/internal/domain/listing"
	"homefinder/internal/domain/session"
	"homefinder/internal/repository"
	"homefinder/internal/utils"
)

// App is the wired core shared by the CLI and the gateway. There is exactly
// one session State per App.
type App struct {
	Config *config.Config
	Logger *utils.Logger

	API      *client.Client
	Session  *session.State
	Boot     *session.Bootstrapper
	Auth     *auth.AuthService
	Listings *listing.QueryController
	Detail   *listing.DetailController
	Owner    *listing.OwnerController
	Editor   *listing.Editor

	closers []func()
}

// New builds an App from cfg. The persisted token is loaded before anything
// touches the network.
func New(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	state, err := session.NewState(ctx, store)
	if err != nil {
		a.Close()
		return nil, err
	}

	api := client.New(cfg.APIURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		client.WithUserAgent(cfg.UserAgent),
		client.WithLogger(logger),
		client.WithOrigin(cfg.APIOrigin()),
	)
	geocoder := geo.NewNominatim(cfg.GeocoderURL, cfg.UserAgent, cfg.HTTPTimeout, cfg.GeocoderRetries, logger)
	v := auth.NewValidator(validator.New())

	a.API = api
	a.Session = state
	a.Boot = session.NewBootstrapper(state, api, logger)
	a.Auth = auth.NewAuthService(api, state, v, logger)
	a.Listings = listing.NewQueryController(api, logger)
	a.Detail = listing.NewDetailController(api, logger)
	a.Owner = listing.NewOwnerController(api, state, logger)
	a.Editor = listing.NewEditor(api, geocoder, state, v, logger, listing.WithStrictNumbers(cfg.StrictNumbers))
	return a, nil
}

func (a *App) openStore(ctx context.Context) (session.TokenStore, error) {
	cfg := a.Config
	switch cfg.SessionBackend {
	case "memory":
		return session.NewMemoryStore(""), nil

	case "redis":
		rdb, err := session.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("app: redis ping: %w", err)
		}
		a.onClose(func() { closeRedis(rdb, a.Logger) })
		a.Logger.Info("[app] session backend: redis")
		return session.NewRedisStore(rdb, cfg.RedisPrefix), nil

	case "postgres":
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.onClose(pool.Close)
		repo, err := repository.NewSessionRepository(pool, "default")
		if err != nil {
			return nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			return nil, err
		}
		a.Logger.Info("[app] session backend: postgres")
		return repo, nil

	default:
		fs := session.NewFileStore(cfg.SessionPath)
		a.Logger.Debug("[app] session backend: file %s", fs.Path())
		return fs, nil
	}
}

func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close releases store connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func closeRedis(rdb *redis.Client, logger *utils.Logger) {
	if err := rdb.Close(); err != nil {
		logger.Warn("[app] closing redis: %v", err)
	}
}
