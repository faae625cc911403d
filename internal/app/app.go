package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/saecki/minesweeper/internal/config"
	"github.com/saecki/minesweeper/internal/database"
	"github.com/saecki/minesweeper/internal/middleware"
	"github.com/saecki/minesweeper/internal/repository"
)

type App struct {
	log     *logrus.Logger
	router  *http.ServeMux
	db      *pgxpool.Pool
	queries *repository.Queries
	cookies *config.Cookies
	ws      *config.WebSocket
}

func New(log *logrus.Logger) *App {
	return &App{
		log:    log,
		router: http.NewServeMux(),
	}
}

// Start connects to the database, binds the routes and serves until
// ctx is canceled or the server fails.
func (a *App) Start(ctx context.Context) error {
	db, err := database.Connect(ctx)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()
	a.db = db
	a.queries = repository.New(db)

	j, err := config.NewJWT()
	if err != nil {
		return err
	}
	cookies, err := config.NewCookies(j)
	if err != nil {
		return err
	}
	a.cookies = cookies

	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}
	a.ws = ws

	a.loadRoutes()

	var handler http.Handler = a.router
	if basePath := config.BasePath(); basePath != "" {
		handler = http.StripPrefix(basePath, handler)
	}
	handler = middleware.Wrap(handler,
		middleware.Cors(),
		middleware.Auth(a.log, cookies),
		middleware.Logging(a.log),
	)

	addr := config.Addr()
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe()
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
