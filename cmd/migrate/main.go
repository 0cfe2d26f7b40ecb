package main

import (
	"log"

	"turkgpt/internal/config"
	"turkgpt/pkg/database"
	"turkgpt/pkg/store/factory"
	"turkgpt/pkg/store/gormstore"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Environment Variables
	cfg := config.Load()

	// 2. Connect to the SQL backend
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Backend {
	case factory.BackendPostgres:
		if cfg.Database.Connection == "" {
			log.Fatal("Error: DB_CONNECTION_STRING is not set")
		}
		db, err = database.NewPostgres(database.Config{
			DSN:  cfg.Database.Connection,
			Name: cfg.Database.Name,
		})
	case factory.BackendSQLite:
		db, err = database.NewSQLite(database.Config{DSN: cfg.Database.Name + ".db"})
	default:
		log.Printf("Storage backend %q has no schema, nothing to migrate", cfg.Database.Backend)
		return
	}
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. AutoMigrate the documents table
	log.Println("Step 1: Running AutoMigrate for documents...")
	if err := gormstore.Migrate(db); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Post-Migration: expression indexes for the chat lookups
	if cfg.Database.Backend == factory.BackendPostgres {
		log.Println("Step 2: Creating expression indexes...")
		postMigrationSQL := []string{
			`CREATE INDEX IF NOT EXISTS idx_documents_message_session ON documents ((body->>'session_id')) WHERE collection = 'messages';`,
			`CREATE INDEX IF NOT EXISTS idx_documents_session_id ON documents ((body->>'id')) WHERE collection = 'chat_sessions';`,
		}
		for _, sql := range postMigrationSQL {
			if err := db.Exec(sql).Error; err != nil {
				log.Printf("Warn: Failed to execute post-migration SQL: %v. Continuing...", err)
			}
		}
	}

	log.Println("Migration completed")
}
