package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bapung/basic-auth-check/pkg/admin"
	"github.com/bapung/basic-auth-check/pkg/auth"
	"github.com/bapung/basic-auth-check/pkg/env"
	"github.com/bapung/basic-auth-check/pkg/guard"
	"github.com/bapung/basic-auth-check/pkg/server"
	"github.com/bapung/basic-auth-check/pkg/store"
)

func newLogger(level string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zap.Must(cfg.Build()).Sugar()
}

// newProvider picks the user database from DB_TYPE. "none" returns nil.
func newProvider(logger *zap.SugaredLogger) (store.DBProvider, error) {
	dbType := strings.ToLower(env.GetString("DB_TYPE", "sqlite"))

	switch dbType {
	case "sqlite":
		dbPath := env.GetString("DB_PATH", "./users.db")
		logger.Infof("Using SQLite database at: %s", dbPath)
		return store.NewSQLiteProvider(dbPath), nil

	case "postgres", "postgresql":
		connStr := env.GetString("DB_CONNECTION_STRING", "")
		if connStr == "" {
			return nil, errors.New("PostgreSQL connection string not provided, set DB_CONNECTION_STRING")
		}
		logger.Infof("Using PostgreSQL database")
		return store.NewPostgresProvider(connStr), nil

	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported database type: %s, supported types: sqlite, postgres, none", dbType)
}

// seedStore registers the YAML users when the database is empty
func seedStore(s *store.Store, yamlPath string, logger *zap.SugaredLogger) error {
	if s.Len() > 0 {
		return nil
	}

	users, err := store.LoadUsersFromYAML(yamlPath)
	if err != nil {
		logger.Warnf("No users in database and failed to load from YAML: %v", err)
		return nil
	}

	for _, u := range users {
		if _, err := s.RegisterUser(u); err != nil {
			return fmt.Errorf("failed to register user %q from YAML: %w", u.Username, err)
		}
	}
	logger.Infof("Loaded %d users from YAML file", len(users))
	return nil
}

func main() {
	envErr := env.Load()
	logger := newLogger(env.GetString("LOG_LEVEL", "info"))
	defer logger.Sync()

	if envErr != nil {
		logger.Infof(".env file not found, relying on system environment variables")
	}

	provider, err := newProvider(logger)
	if err != nil {
		logger.Fatalf("Failed to select database: %v", err)
	}

	yamlPath := env.GetString("USERS_YAML_PATH", "./authorized_users.yaml")
	checker := auth.Checker{Realm: env.GetString("AUTH_REALM", auth.DefaultRealm)}

	var (
		spec        auth.Spec
		adminRouter http.Handler
	)

	if provider == nil {
		pairs, err := store.LoadPairsFromYAML(yamlPath)
		if err != nil {
			logger.Fatalf("Failed to load allow-list: %v", err)
		}
		if len(pairs) == 0 {
			logger.Fatalf("No users found in %s. Cannot start the service without users.", yamlPath)
		}
		logger.Infof("Loaded %d allowed credential pairs from YAML file", len(pairs))
		spec = pairs
	} else {
		userStore, err := store.NewStore(provider)
		if err != nil {
			logger.Fatalf("Failed to initialize user store: %v", err)
		}
		defer userStore.Close()

		if err := seedStore(userStore, yamlPath, logger); err != nil {
			logger.Fatalf("%v", err)
		}
		if userStore.Len() == 0 {
			logger.Fatalf("No users found in database or YAML file. Cannot start the service without users.")
		}
		spec = userStore.Predicate()

		adminUser := env.GetString("ADMIN_USER", "")
		adminPass := env.GetString("ADMIN_PASS", "")
		if adminUser == "" || adminPass == "" {
			logger.Warnf("ADMIN_USER/ADMIN_PASS not set! Admin endpoints will be disabled.")
		} else {
			admins := auth.Pairs{{Username: adminUser, Password: adminPass}}
			adminRouter = admin.NewAPI(userStore, checker, admins, logger).Routes()
			logger.Infof("Admin API is enabled and secured with basic auth")
		}
	}

	g := guard.New(env.GetString("AUTH_PATH_PREFIX", ""), env.GetList("AUTH_SKIP_PATHS", nil))
	if g.PathPrefix != "" {
		logger.Infof("Using path prefix: %s", g.PathPrefix)
	}

	srv := server.New(checker, spec, g, logger)
	srv.ExposeMetrics = env.GetBool("METRICS_ENABLED", true)

	port := env.GetString("PORT", "8000")
	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Routes(adminRouter),
		ReadHeaderTimeout: time.Duration(env.GetInt("READ_HEADER_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	logger.Infof("Starting auth service on port %s...", port)
	if err := httpServer.ListenAndServe(); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
