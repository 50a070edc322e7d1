package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/notekeep/notekeep/internal/admin"
	"github.com/notekeep/notekeep/internal/api"
	"github.com/notekeep/notekeep/internal/config"
	"github.com/notekeep/notekeep/internal/flow"
	"github.com/notekeep/notekeep/internal/genai"
	"github.com/notekeep/notekeep/internal/lockfile"
	"github.com/notekeep/notekeep/internal/messaging"
	"github.com/notekeep/notekeep/internal/profile"
	"github.com/notekeep/notekeep/internal/responder"
	"github.com/notekeep/notekeep/internal/store"
	"github.com/notekeep/notekeep/internal/telegram"
	"github.com/notekeep/notekeep/internal/util"
	"github.com/notekeep/notekeep/internal/vecstore"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for NoteKeep state data
	DefaultStateDir = "/var/lib/notekeep"
	// DefaultProfileDBFileName is the default SQLite profiles database filename
	DefaultProfileDBFileName = "notekeep.db"
	// DefaultNotesDBFileName is the default SQLite notes database filename
	DefaultNotesDBFileName = "notes.db"
	// DefaultConfigFileName is the default assistant configuration document
	DefaultConfigFileName = "config.json"
	// DefaultAPIAddr is the default listen address for the webhook server
	DefaultAPIAddr = ":8080"
	// DefaultAdminAddr is the default listen address for the admin server
	DefaultAdminAddr = ":8081"
)

func main() {
	initializeLogger()

	cfg := loadEnvironmentConfig()
	flags := parseCommandLineFlags(cfg)

	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		slog.Error("Failed to acquire state directory lock", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	slog.Info("Bootstrapping NoteKeep with configured modules")
	if err := run(flags); err != nil {
		slog.Error("NoteKeep failed to run", "error", err)
		lock.Release()
		os.Exit(1)
	}
	slog.Info("NoteKeep exited successfully")
}

// Config holds environment configuration
type Config struct {
	InputBotToken  string
	OutputBotToken string
	WebhookURL     string
	StateDir       string
	ProfileDSN     string
	NotesDSN       string
	ConfigPath     string
	APIKey         string
	APIAddr        string
	AdminAddr      string
	AdminEnabled   bool
}

// Flags holds command line flag values
type Flags struct {
	inputToken   *string
	outputToken  *string
	webhookURL   *string
	stateDir     *string
	profileDSN   *string
	notesDSN     *string
	configPath   *string
	apiKey       *string
	apiAddr      *string
	adminAddr    *string
	adminEnabled bool
}

// initializeLogger sets up structured logging with debug level
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	cfg := Config{
		InputBotToken:  os.Getenv("INPUT_BOT_TOKEN"),
		OutputBotToken: os.Getenv("OUTPUT_BOT_TOKEN"),
		WebhookURL:     os.Getenv("WEBHOOK_URL"),
		StateDir:       os.Getenv("NOTEKEEP_STATE_DIR"),
		ProfileDSN:     os.Getenv("PROFILE_DB_DSN"),
		NotesDSN:       os.Getenv("NOTES_DB_DSN"),
		ConfigPath:     os.Getenv("CONFIG_PATH"),
		APIKey:         os.Getenv("OPENROUTER_API_KEY"),
		APIAddr:        os.Getenv("API_ADDR"),
		AdminAddr:      os.Getenv("ADMIN_ADDR"),
		AdminEnabled:   util.ParseBoolEnv("ADMIN_ENABLED", true),
	}

	if cfg.ProfileDSN == "" {
		cfg.ProfileDSN = os.Getenv("DATABASE_URL")
		if cfg.ProfileDSN != "" {
			slog.Debug("Using DATABASE_URL as PROFILE_DB_DSN", "dsn_set", true)
		}
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if cfg.StateDir == "" {
		cfg.StateDir = DefaultStateDir
		slog.Debug("No NOTEKEEP_STATE_DIR set, using default", "default_state_dir", cfg.StateDir)
	}
	if cfg.ProfileDSN == "" {
		cfg.ProfileDSN = filepath.Join(cfg.StateDir, DefaultProfileDBFileName)
		slog.Debug("No profile DSN provided, defaulting to SQLite", "sqlite_path", cfg.ProfileDSN)
	}
	if cfg.NotesDSN == "" {
		cfg.NotesDSN = filepath.Join(cfg.StateDir, DefaultNotesDBFileName)
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = filepath.Join(cfg.StateDir, DefaultConfigFileName)
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = DefaultAPIAddr
	}
	if cfg.AdminAddr == "" {
		cfg.AdminAddr = DefaultAdminAddr
	}

	slog.Debug("environment variables loaded",
		"INPUT_BOT_TOKEN_SET", cfg.InputBotToken != "",
		"OUTPUT_BOT_TOKEN_SET", cfg.OutputBotToken != "",
		"WEBHOOK_URL", cfg.WebhookURL,
		"NOTEKEEP_STATE_DIR", cfg.StateDir,
		"PROFILE_DB_DSN_SET", cfg.ProfileDSN != "",
		"OPENROUTER_API_KEY_SET", cfg.APIKey != "",
		"API_ADDR", cfg.APIAddr,
		"ADMIN_ADDR", cfg.AdminAddr,
		"ADMIN_ENABLED", cfg.AdminEnabled)

	return cfg
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(cfg Config) Flags {
	flags := Flags{
		inputToken:   flag.String("input-bot-token", cfg.InputBotToken, "Telegram token for the collector bot (overrides $INPUT_BOT_TOKEN)"),
		outputToken:  flag.String("output-bot-token", cfg.OutputBotToken, "Telegram token for the assistant bot (overrides $OUTPUT_BOT_TOKEN)"),
		webhookURL:   flag.String("webhook-url", cfg.WebhookURL, "public base URL for Telegram webhooks (overrides $WEBHOOK_URL)"),
		stateDir:     flag.String("state-dir", cfg.StateDir, "state directory for NoteKeep data (overrides $NOTEKEEP_STATE_DIR)"),
		profileDSN:   flag.String("profile-dsn", cfg.ProfileDSN, "profile store DSN, SQLite path or Postgres URL (overrides $PROFILE_DB_DSN or $DATABASE_URL)"),
		notesDSN:     flag.String("notes-dsn", cfg.NotesDSN, "SQLite path for the notes index (overrides $NOTES_DB_DSN)"),
		configPath:   flag.String("config", cfg.ConfigPath, "path to the assistant configuration document (overrides $CONFIG_PATH)"),
		apiKey:       flag.String("api-key", cfg.APIKey, "completion provider API key (overrides $OPENROUTER_API_KEY)"),
		apiAddr:      flag.String("api-addr", cfg.APIAddr, "webhook server address (overrides $API_ADDR)"),
		adminAddr:    flag.String("admin-addr", cfg.AdminAddr, "admin server address (overrides $ADMIN_ADDR)"),
		adminEnabled: cfg.AdminEnabled,
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"inputTokenSet", *flags.inputToken != "",
		"outputTokenSet", *flags.outputToken != "",
		"webhookURL", *flags.webhookURL,
		"stateDir", *flags.stateDir,
		"profileDSN_set", *flags.profileDSN != "",
		"apiKeySet", *flags.apiKey != "",
		"apiAddr", *flags.apiAddr,
		"adminAddr", *flags.adminAddr)

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	dirs := []string{*flags.stateDir, filepath.Dir(*flags.notesDSN), filepath.Dir(*flags.configPath)}
	if !isPostgresDSN(*flags.profileDSN) {
		dirs = append(dirs, filepath.Dir(*flags.profileDSN))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("Failed to create directory", "error", err, "dir", dir)
			return err
		}
	}
	return nil
}

// isPostgresDSN reports whether a DSN targets Postgres rather than a SQLite file path.
func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=")
}

// buildProfileStore selects the profile document backend from the DSN.
func buildProfileStore(flags Flags) (store.ProfileDocumentStore, func(), error) {
	dsn := *flags.profileDSN
	if isPostgresDSN(dsn) {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL profile store", "dsn_set", true)
		st, err := store.NewPostgresProfileStore(dsn)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { st.Close() }, nil
	}
	if strings.HasSuffix(dsn, ".json") {
		slog.Debug("Detected JSON path, configuring file profile store", "path", dsn)
		return store.NewFileProfileStore(dsn), func() {}, nil
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite profile store", "db_path", dsn)
	st, err := store.NewSQLiteProfileStore(dsn)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { st.Close() }, nil
}

func run(flags Flags) error {
	if *flags.inputToken == "" || *flags.outputToken == "" {
		return errors.New("both input and output bot tokens are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configStore := store.NewFileConfigStore(*flags.configPath)
	resolver := config.NewResolver(configStore)

	profileDocs, closeProfiles, err := buildProfileStore(flags)
	if err != nil {
		return err
	}
	defer closeProfiles()
	profiles := profile.NewStore(profileDocs, resolver)

	notes, err := vecstore.NewSQLiteNotes(*flags.notesDSN)
	if err != nil {
		return err
	}
	defer notes.Close()

	genaiClient, err := genai.NewClient(genai.WithAPIKey(*flags.apiKey))
	if err != nil {
		return err
	}

	inputBot, err := telegram.NewClient(*flags.inputToken)
	if err != nil {
		return err
	}
	outputBot, err := telegram.NewClient(*flags.outputToken)
	if err != nil {
		return err
	}

	resp := responder.New(genaiClient, notes, profiles, resolver)
	states := flow.NewStateManager()
	control := flow.NewControlFlow(outputBot, states, profiles, resolver, resp, notes)
	collect := flow.NewCollectFlow(inputBot, outputBot, notes, resolver, resp)

	inputDispatcher := messaging.NewDispatcher(collect.HandleUpdate)
	outputDispatcher := messaging.NewDispatcher(control.HandleUpdate)
	defer inputDispatcher.Stop()
	defer outputDispatcher.Stop()

	apiServer := api.NewServer(inputDispatcher, outputDispatcher)
	httpServer := &http.Server{Addr: *flags.apiAddr, Handler: apiServer.Router()}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("Webhook server listening", "addr", *flags.apiAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var adminServer *http.Server
	if flags.adminEnabled {
		versionsDir := filepath.Join(*flags.stateDir, "config_versions")
		adm, err := admin.NewServer(*flags.configPath, versionsDir)
		if err != nil {
			return err
		}
		adminServer = &http.Server{Addr: *flags.adminAddr, Handler: adm.Router()}
		go func() {
			slog.Info("Admin server listening", "addr", *flags.adminAddr)
			if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	api.RegisterWebhooks(ctx, *flags.webhookURL, inputBot, outputBot)

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-errCh:
		slog.Error("HTTP server failed", "error", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Webhook server shutdown failed", "error", err)
	}
	if adminServer != nil {
		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("Admin server shutdown failed", "error", err)
		}
	}
	return nil
}
