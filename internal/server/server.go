// internal/server/server.go
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"homefinder/internal/api/handler"
	"homefinder/internal/app"
	"homefinder/internal/domain/listing"
	"homefinder/internal/domain/session"
)

type Server struct {
	app      *app.App
	router   *chi.Mux
	auth     *handler.AuthHandler
	listings *handler.ListingHandler
	mortgage *handler.MortgageHandler
	ws       *handler.SessionStreamHandler
}

// New wires the gateway routes onto a. The App owns every dependency.
func New(a *app.App) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	s := &Server{
		app:      a,
		router:   r,
		auth:     handler.NewAuthHandler(a.Auth, a.Session, a.Boot, a.Logger),
		listings: handler.NewListingHandler(a.Listings, a.Detail, a.Owner, a.Editor, a.Config.PlaceholderImage, a.Logger),
		mortgage: handler.NewMortgageHandler(a.Logger),
		ws:       handler.NewSessionStreamHandler(a.Session, a.Logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is done, keeping the session reconciled in the
// background.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.app.Boot.Watch(ctx)

	srv := &http.Server{
		Addr:              s.app.Config.ServerPort,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.app.Logger.Info("[server] listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "ok")
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/session", s.auth.Session)
		r.Post("/signin", s.auth.SignIn)
		r.Post("/register", s.auth.Register)
		r.Post("/logout", s.auth.Logout)

		r.Get("/listings", s.listings.List)
		r.Get("/listings/{id}", s.listings.Get)
		r.Post("/geocode", s.listings.Geocode)
		r.Get("/mortgage", s.mortgage.Quote)

		r.Group(func(r chi.Router) {
			r.Use(RequireToken(s.app.Session))
			r.Put("/profile", s.auth.UpdateProfile)
			r.Get("/my/listings", s.listings.Mine)
			r.Post("/my/listings", s.listings.Create)
			r.Put("/my/listings/{id}", s.listings.Update)
			r.Delete("/my/listings/{id}", s.listings.Delete)
		})
	})

	s.router.Get("/ws/session", s.ws.HandleConnection)
}

// RequireToken answers 401 with a redirect to the sign-in page when the
// session holds no token.
func RequireToken(src session.TokenSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if src.Token() == "" {
				handler.WriteJSON(w, r, handler.Error{
					Status:   http.StatusUnauthorized,
					Message:  listing.MsgSignInRequired,
					Redirect: "/signin",
				}, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
