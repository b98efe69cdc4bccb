package main

import (
	"flag"
	"strings"

	"go.uber.org/zap"

	"github.com/bapung/basic-auth-check/pkg/store"
)

func main() {
	// Command line flags
	dbType := flag.String("type", "sqlite", "Database type: sqlite or postgres")
	dbPath := flag.String("db", "users.db", "Path to SQLite database file")
	connStr := flag.String("conn", "", "PostgreSQL connection string")
	flag.Parse()

	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	var provider store.DBProvider
	switch strings.ToLower(*dbType) {
	case "sqlite":
		provider = store.NewSQLiteProvider(*dbPath)
	case "postgres", "postgresql":
		if *connStr == "" {
			logger.Fatalf("PostgreSQL connection string not provided, use -conn")
		}
		provider = store.NewPostgresProvider(*connStr)
	default:
		logger.Fatalf("Unsupported database type: %s", *dbType)
	}

	if err := provider.Connect(); err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer provider.Close()

	if err := provider.InitializeSchema(); err != nil {
		logger.Fatalf("Failed to execute migration: %v", err)
	}

	logger.Infof("Database migration completed successfully")
}
