package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"example.com/golfbuddy/internal/auth"
	"example.com/golfbuddy/internal/logger"
	"example.com/golfbuddy/internal/middleware"
	"example.com/golfbuddy/internal/social"
	"example.com/golfbuddy/internal/store"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	svc           *social.Service
	tokens        *auth.TokenService
	blocklist     auth.Blocklist
	notifications store.NotificationStore
}

// Options controls how Run listens.
type Options struct {
	Addr        string
	TLSCertFile string
	TLSKeyFile  string
	CORSOrigins []string
}

var logg = logger.New("server")

func New(svc *social.Service, tokens *auth.TokenService, blocklist auth.Blocklist, notifications store.NotificationStore) *Server {
	if notifications == nil {
		notifications = store.NopNotifications{}
	}
	return &Server{
		svc:           svc,
		tokens:        tokens,
		blocklist:     blocklist,
		notifications: notifications,
	}
}

// Routes builds the HTTP handler. Everything under /user except
// registration, listing and login requires a bearer token.
func (s *Server) Routes(corsOrigins []string) http.Handler {
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", s.helloHandler)
	r.Get("/health", s.healthHandler)

	r.Route("/user", func(r chi.Router) {
		r.Post("/", s.registerHandler)
		r.Get("/", s.listUsersHandler)
		r.Post("/login", s.loginHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.tokens, s.blocklist))

			r.Post("/logout", s.logoutHandler)

			r.Route("/{uid}", func(r chi.Router) {
				r.Get("/", s.getUserHandler)
				r.Put("/", s.editUserHandler)
				r.Delete("/", s.deleteUserHandler)

				r.Get("/feed", s.feedHandler)
				r.Get("/notifications", s.notificationsHandler)

				r.Post("/following", s.followHandler)
				r.Delete("/following/{target}", s.unfollowHandler)

				r.Post("/post", s.createPostHandler)
				r.Get("/post", s.listPostsHandler)

				r.Route("/post/{pid}", func(r chi.Router) {
					r.Get("/", s.getPostHandler)
					r.Put("/", s.editPostHandler)
					r.Delete("/", s.deletePostHandler)

					r.Post("/comment", s.addCommentHandler)
					r.Get("/comment/{cid}", s.getCommentHandler)
					r.Delete("/comment/{cid}", s.deleteCommentHandler)

					r.Post("/like", s.likeHandler)
					r.Delete("/like/{lid}", s.unlikeHandler)
				})
			})
		})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, s *Server, opts Options) {
	srv := &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Routes(opts.CORSOrigins),
		ReadTimeout:  10 * time.Second, // prevent slowloris attacks
		WriteTimeout: 10 * time.Second,
	}

	// --- Start server in a goroutine ---
	go func() {
		var err error
		if opts.TLSCertFile != "" && opts.TLSKeyFile != "" {
			logg.Info("Starting HTTPS server on " + opts.Addr)
			err = srv.ListenAndServeTLS(opts.TLSCertFile, opts.TLSKeyFile)
		} else {
			logg.Info("Starting HTTP server on " + opts.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error("Server stopped unexpectedly", err)
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	logg.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("Error during server shutdown", err)
	} else {
		logg.Info("Server stopped gracefully")
	}
}
