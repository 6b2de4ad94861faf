package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"postboard/config"
	"postboard/internal/adapter/in/web"
	memstore "postboard/internal/adapter/out/storage/inmemory"
	pgstore "postboard/internal/adapter/out/storage/postgres"
	"postboard/internal/model"
	"postboard/internal/service"
	"postboard/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/language"
)

type App struct {
	cfg  config.Config
	srv  *http.Server
	pool *pgxpool.Pool
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	renderer, err := web.NewRenderer(web.RendererConfig{
		Target:     cfg.Render.ContainerID,
		Containers: []string{web.GridContainerID},
		Stagger:    time.Duration(cfg.Render.StaggerMillis) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	posts, pool, err := NewPostService(ctx, cfg, renderer)
	if err != nil {
		return nil, err
	}

	// A missing container leaves the page empty but the app keeps serving.
	if err := posts.Render(ctx); err != nil {
		if !errors.Is(err, web.ErrContainerNotFound) {
			closePool(pool)
			return nil, fmt.Errorf("initial render: %w", err)
		}
		log.Warn("blog page not rendered", "container", cfg.Render.ContainerID)
	} else if c, ok := renderer.Container(cfg.Render.ContainerID); ok {
		log.Info("blog page initialized", "posts", c.Len())
	}

	srv := web.NewServer(posts, renderer, web.LinkActivator{}, web.ServerConfig{
		Title:       cfg.Render.Title,
		SearchInput: cfg.Render.SearchInput,
		AssetsDir:   cfg.HTTP.AssetsDir,
	})

	addr := ":" + cfg.HTTP.Port
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		BaseContext:       baseContext(ctx),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType)
	return &App{cfg: cfg, srv: httpSrv, pool: pool}, nil
}

// NewPostService opens the configured storage, seeds it and builds the service.
// The returned pool is nil for in-memory storage.
func NewPostService(ctx context.Context, cfg config.Config, renderer service.Renderer) (*service.PostService, *pgxpool.Pool, error) {
	tag, err := language.Parse(cfg.Render.Locale)
	if err != nil {
		return nil, nil, fmt.Errorf("locale %q: %w", cfg.Render.Locale, err)
	}

	seed, err := LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, nil, err
	}

	var (
		postStorage service.PostStorage
		pool        *pgxpool.Pool
	)

	switch cfg.StorageType {
	case config.StoragePostgres:
		dsn := cfg.Postgres.GetDSN()
		if err := pgstore.Migrate(ctx, dsn); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}

		pool, err = pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool: %w", err)
		}

		pg := pgstore.NewPostStorage(pool, trmpgx.DefaultCtxGetter)
		if _, err := pg.SeedPosts(ctx, seed); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("seed posts: %w", err)
		}
		postStorage = pg

	default:
		postStorage = memstore.NewPostStorage(seed...)
	}

	return service.NewPostService(postStorage, renderer, service.WithLocale(tag)), pool, nil
}

// LoadSeed reads posts from path, or returns the built-in posts when path is empty.
func LoadSeed(path string) ([]model.Post, error) {
	if path == "" {
		return model.DefaultSeed(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	posts, err := model.LoadSeed(f)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return posts, nil
}

func (a *App) Handler() http.Handler {
	return a.srv.Handler
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.srv.Shutdown(shCtx)
		closePool(a.pool)
		return nil

	case err := <-errCh:
		closePool(a.pool)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Requests start from a context carrying the app logger.
func baseContext(ctx context.Context) func(net.Listener) context.Context {
	log := logger.FromContext(ctx)
	return func(net.Listener) context.Context {
		return logger.WithLogger(context.Background(), log)
	}
}

func closePool(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}
