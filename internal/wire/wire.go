// Package wire provides dependency injection for the dutybot application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/example/dutybot/internal/adapters/chat"
	cliadapter "github.com/example/dutybot/internal/adapters/cli"
	"github.com/example/dutybot/internal/adapters/jsonstore"
	"github.com/example/dutybot/internal/adapters/sqlite"
	"github.com/example/dutybot/internal/app"
	"github.com/example/dutybot/internal/config"
	"github.com/example/dutybot/internal/confirm"
	"github.com/example/dutybot/internal/db"
	"github.com/example/dutybot/internal/ports/primary"
	"github.com/example/dutybot/internal/ports/secondary"
)

var (
	env      *config.Env
	settings *config.Settings
	logger   *slog.Logger
	envOnce  sync.Once

	notifier secondary.Notifier

	store          *jsonstore.Store
	members        *jsonstore.MemberRoles
	database       *sql.DB
	ledgerRepo     *sqlite.LedgerRepository
	dutyService    *app.DutyServiceImpl
	missionService *app.MissionServiceImpl
	economyService *app.EconomyServiceImpl
	setupService   *app.SetupServiceImpl
	router         *chat.Router
	once           sync.Once
)

// Env returns the process configuration.
func Env() *config.Env {
	envOnce.Do(initEnv)
	return env
}

// Settings returns the rules loaded from the configuration file.
func Settings() *config.Settings {
	envOnce.Do(initEnv)
	return settings
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	envOnce.Do(initEnv)
	return logger
}

func initEnv() {
	var err error
	env, err = config.LoadEnv()
	if err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}
	logger = NewLogger(os.Stderr, env.LogFormat, env.SlogLevel())
	slog.SetDefault(logger)

	settings, err = config.LoadSettings(env.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
}

// NewLogger builds a text or JSON slog logger.
func NewLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// UseNotifier sets the platform notifier the services deliver through. It
// must be called before the first service is requested; without it effects
// are printed to stdout.
func UseNotifier(n secondary.Notifier) {
	notifier = n
}

// DutyService returns the singleton DutyService instance.
func DutyService() *app.DutyServiceImpl {
	once.Do(initServices)
	return dutyService
}

// MissionService returns the singleton MissionService instance.
func MissionService() *app.MissionServiceImpl {
	once.Do(initServices)
	return missionService
}

// EconomyService returns the singleton EconomyService instance.
func EconomyService() primary.EconomyService {
	once.Do(initServices)
	return economyService
}

// SetupService returns the singleton SetupService instance.
func SetupService() primary.SetupService {
	once.Do(initServices)
	return setupService
}

// Router returns the chat command router.
func Router() *chat.Router {
	once.Do(initServices)
	return router
}

// Store returns the document store.
func Store() *jsonstore.Store {
	once.Do(initServices)
	return store
}

// Ledger returns the payout ledger repository.
func Ledger() secondary.LedgerRepository {
	once.Do(initServices)
	return ledgerRepo
}

// Database returns the ledger database connection.
func Database() *sql.DB {
	once.Do(initServices)
	return database
}

// Close releases the ledger database.
func Close() {
	if database != nil {
		_ = database.Close()
	}
}

// Rules converts the loaded settings into service rules.
func Rules() app.Rules {
	e, s := Env(), Settings()
	levels, err := s.Levels()
	if err != nil {
		log.Fatalf("invalid settings: %v", err)
	}
	return app.Rules{
		OwnerID:            string(s.OwnerID),
		Categories:         s.MissionCategories,
		ExperienceLevels:   levels,
		DutyConfirmWindow:  e.DutyConfirmWindow,
		EndConfirmWindow:   e.EndConfirmWindow,
		AbortConfirmWindow: e.AbortConfirmWindow,
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	e, lg, rules := Env(), Logger(), Rules()

	// Open the ledger database
	var err error
	database, err = db.Open(e.LedgerPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports)
	store = jsonstore.NewStore(e.DataPath)
	members = jsonstore.NewMemberRoles(store)
	ledgerRepo = sqlite.NewLedgerRepository(database)
	events := sqlite.NewLogWriterAdapter(sqlite.NewMissionEventRepository(database))
	if notifier == nil {
		notifier = cliadapter.NewConsoleNotifier(os.Stdout)
	}

	// Create effect executor and the shared confirmation registry
	executor := app.NewEffectExecutor(notifier, members, lg)
	registry := confirm.NewRegistry(time.Now)

	// Create services (primary ports implementation)
	dutyService = app.NewDutyService(store, members, notifier, ledgerRepo, registry, executor, rules, lg)
	missionService = app.NewMissionService(store, events, registry, executor, rules, lg)
	economyService = app.NewEconomyService(store, members, ledgerRepo, executor, rules, lg)
	setupService = app.NewSetupService(store, members, members, rules, lg)
	router = chat.NewRouter(dutyService, missionService, economyService, setupService, lg)
}

// MissionAdapter returns a new MissionAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func MissionAdapter() *cliadapter.MissionAdapter {
	return cliadapter.NewMissionAdapter(MissionService(), os.Stdout)
}

// DutyAdapter returns a new DutyAdapter writing to stdout.
func DutyAdapter() *cliadapter.DutyAdapter {
	return cliadapter.NewDutyAdapter(DutyService(), os.Stdout)
}

// EconomyAdapter returns a new EconomyAdapter writing to stdout.
func EconomyAdapter() *cliadapter.EconomyAdapter {
	return cliadapter.NewEconomyAdapter(EconomyService(), os.Stdout)
}

// SetupAdapter returns a new SetupAdapter writing to stdout.
func SetupAdapter() *cliadapter.SetupAdapter {
	return cliadapter.NewSetupAdapter(SetupService(), os.Stdout)
}
