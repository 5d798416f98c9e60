package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/wealflow/wealflow/internal/client/client"
	"github.com/wealflow/wealflow/internal/client/config"
	"github.com/wealflow/wealflow/internal/client/repositories/metadata"
	"github.com/wealflow/wealflow/internal/client/services"
	"github.com/wealflow/wealflow/internal/client/store"
	"github.com/wealflow/wealflow/internal/filex"
	"github.com/wealflow/wealflow/internal/logging"
)

// preferences is the part of services.Preferences the CLI uses.
type preferences interface {
	Theme(ctx context.Context) (services.Theme, error)
	SetTheme(ctx context.Context, t services.Theme) error
	FirstVisit(ctx context.Context) (bool, error)
	MarkVisited(ctx context.Context) error
}

type App struct {
	config   *config.Config
	api      client.Client
	db       *sql.DB
	sessions services.SessionManager
	txs      services.TransactionSynchronizer
	prefs    preferences
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	styles   styles
	now      func() time.Time
}

// NewApp is the composition root: it opens the local database, restores the
// cookie jar and builds the services around one shared store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, slog.LevelWarn)

	if err := filex.EnsureParentDir(c.LocalDBPath); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, c.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	repo := metadata.NewSQLiteRepository(db)

	jar, err := client.NewPersistentJar(ctx, repo, c.ServerBaseURL, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	api, err := client.NewHTTPClient(c.ServerBaseURL, jar, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	st := store.New()
	prefs := services.NewPreferences(repo)

	a := &App{
		config:   c,
		api:      api,
		db:       db,
		sessions: services.NewSessionManager(api, repo, st, logger),
		txs:      services.NewTransactionSynchronizer(api, st, logger),
		prefs:    prefs,
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		now:      time.Now,
	}
	theme, err := prefs.Theme(ctx)
	if err != nil {
		logger.Warn(ctx, "failed to read theme", "error", err)
	}
	a.styles = newStyles(a.out, theme)
	return a, nil
}

// Run restores the previous session, greets first-time users and blocks in
// the REPL until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, a.styles.title.Render("WealFlow")+" (type 'help' for commands)")
	a.welcome(ctx)

	if s := a.sessions.Bootstrap(ctx); s.Authenticated {
		fmt.Fprintf(a.out, "Signed in as %s <%s>\n", s.User.Name, s.User.Email)
		if _, err := a.txs.List(ctx); err != nil {
			printlnFn("Could not load transactions:", err)
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	var errs []error
	if a.api != nil {
		errs = append(errs, a.api.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn(context.Background(), "shutdown", "error", err)
	}
}

func (a *App) welcome(ctx context.Context) {
	first, err := a.prefs.FirstVisit(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to read first-run flag", "error", err)
		return
	}
	if !first {
		return
	}
	fmt.Fprintln(a.out, a.styles.muted.Render(
		"Welcome! Track income and expenses, see where your money goes.\n"+
			"Start with 'register' or 'login', then 'add' your first transaction."))
	if err := a.prefs.MarkVisited(ctx); err != nil {
		a.logger.Warn(ctx, "failed to save first-run flag", "error", err)
	}
}

func (a *App) loggedIn() bool {
	return a.sessions.State().LoggedIn()
}

func (a *App) getStatus() string {
	s := a.sessions.State()
	if s.User == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", s.User.Email)
}

func (a *App) today() time.Time {
	if a.now == nil {
		return time.Now()
	}
	return a.now()
}
