// Package httpapi exposes the WealFlow JSON API over HTTP with cookie-based
// sessions.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/wealflow/wealflow/internal/logging"
	"github.com/wealflow/wealflow/internal/server/models"
	"github.com/wealflow/wealflow/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// UserService is the account and session side of the API.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, *services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	FederatedLogin(ctx context.Context, idToken string) (*models.User, *services.TokenPair, error)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	UpdateProfile(ctx context.Context, userID, name, email string) (*models.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
}

type TransactionService interface {
	List(ctx context.Context, userID string) ([]models.Transaction, error)
	Create(ctx context.Context, userID string, in services.TransactionInput) (*models.Transaction, error)
	Update(ctx context.Context, userID, id string, fields map[string]any) error
	Delete(ctx context.Context, userID, id string) error
}

type ExportService interface {
	Export(ctx context.Context, userID string) (string, error)
}

// Options carries the transport settings taken from the server config.
type Options struct {
	Address        string
	JWTSecret      string
	FrontendOrigin string
	Cookies        CookieOptions
}

type Server struct {
	address      string
	logger       logging.Logger
	users        UserService
	transactions TransactionService
	exports      ExportService
	jwtSecret    []byte
	origin       string
	cookies      CookieOptions
}

func NewServer(o Options, l logging.Logger, us UserService, ts TransactionService, es ExportService) *Server {
	return &Server{
		address:      o.Address,
		logger:       l.With("module", "http_server"),
		users:        us,
		transactions: ts,
		exports:      es,
		jwtSecret:    []byte(o.JWTSecret),
		origin:       o.FrontendOrigin,
		cookies:      o.Cookies,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
