// Package server contains the TunaMUD server, which lets characters log in
// and play over an HTTP API or a websocket line protocol.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dekarrin/tunamud/internal/annotate"
	"github.com/dekarrin/tunamud/internal/command"
	"github.com/dekarrin/tunamud/internal/game"
	"github.com/dekarrin/tunamud/internal/verb"
	"github.com/dekarrin/tunamud/internal/worldfile"
	"github.com/dekarrin/tunamud/server/api"
	"github.com/dekarrin/tunamud/server/tunas"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout is how long Serve waits for open requests to finish once
// its context is done.
const ShutdownTimeout = 10 * time.Second

// Server is an HTTP server that runs TunaMUD commands for logged-in
// characters. Create one with New.
type Server struct {
	cfg    Config
	stores Stores
	api    api.API
	router http.Handler
	log    *zap.Logger
}

// New creates a Server from cfg, after filling in defaults. It connects to the
// database, and if the database is fresh, loads the world file into it.
func New(cfg Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	lex := annotate.NewLexicon()
	if cfg.LexiconFile != "" {
		var err error
		lex, err = annotate.LoadLexiconFile(cfg.LexiconFile)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
	}

	reg, err := verb.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("register verbs: %w", err)
	}

	stores, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	if stores.Fresh {
		if err := loadWorld(stores, cfg); err != nil {
			stores.Close()
			return nil, err
		}
		log.Info("loaded world", zap.String("file", cfg.WorldFile), zap.Stringer("db", cfg.DB))
	} else {
		log.Info("using existing world", zap.Stringer("db", cfg.DB))
	}

	a := api.API{
		Backend: tunas.Service{
			World:       stores.World,
			Transcript:  stores.Transcript,
			Interpreter: game.New(command.NewBuilder(lex, reg), stores.World, log.Named("interpreter")),
		},
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
		Log:         log.Named("api"),
	}

	return &Server{
		cfg:    cfg,
		stores: stores,
		api:    a,
		router: newRouter(a),
		log:    log,
	}, nil
}

func loadWorld(stores Stores, cfg Config) error {
	wd, err := worldfile.Load(cfg.WorldFile)
	if err != nil {
		return fmt.Errorf("load world: %w", err)
	}

	if _, err := worldfile.Populate(context.Background(), stores.World, wd, cfg.PasswordCost); err != nil {
		return fmt.Errorf("populate world: %w", err)
	}
	return nil
}

// Handler gives the http.Handler that serves the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Service gives the backend service the API calls into.
func (s *Server) Service() tunas.Service {
	return s.api.Backend
}

// Close closes the server's database connections. It must not be called
// while the server is serving.
func (s *Server) Close() error {
	return s.stores.Close()
}

// ServeUntilDone listens on the configured address and serves requests until
// ctx is done, then shuts down gracefully.
func (s *Server) ServeUntilDone(ctx context.Context) error {
	l, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, l)
}

// Serve serves requests on l until ctx is done, then shuts down gracefully.
// It takes ownership of l.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	httpSrv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,

		// hijacked websocket connections are not closed by Shutdown; they
		// watch their request context instead.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		s.log.Info("listening", zap.String("address", l.Addr().String()))
		err := httpSrv.Serve(l)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		s.log.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
