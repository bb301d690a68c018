package main

import (
	"log"
	"net/http"
	"os"

	"crossletters/internal/config"
	"crossletters/internal/db"
	"crossletters/internal/server"
	"crossletters/internal/store"

	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	var conn *gorm.DB
	if os.Getenv("DATABASE_URL") != "" {
		opened, err := db.Open()
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		if err := db.Migrate(opened); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
		conn = opened
	}

	srv := server.New(chooseStore(cfg, conn), conn, chooseDictionary(cfg, conn), cfg)
	addr := ":" + cfg.Port
	log.Printf("crossletters server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}

// chooseStore prefers the remote document store, then Postgres, then memory.
// The memory store loses every game on restart, so it warns.
func chooseStore(cfg config.Config, conn *gorm.DB) store.Store {
	if cfg.StoreBaseURL != "" {
		log.Printf("using remote document store at %s", cfg.StoreBaseURL)
		return store.NewRemoteStore(cfg.StoreBaseURL, cfg.StoreAuthToken)
	}
	if conn != nil {
		log.Println("using postgres document store")
		return store.NewPostgresStore(conn)
	}
	log.Println("warning: using in-memory document store, games will not survive restarts")
	return store.NewMemoryStore()
}

func chooseDictionary(cfg config.Config, conn *gorm.DB) server.Dictionary {
	if conn != nil {
		log.Println("using database dictionary")
		return server.NewDBDictionary(conn)
	}
	if cfg.WordsFile != "" {
		dict, err := server.LoadWordList(cfg.WordsFile)
		if err != nil {
			log.Fatalf("failed to load word list %s: %v", cfg.WordsFile, err)
		}
		log.Printf("using word list from %s", cfg.WordsFile)
		return dict
	}
	log.Println("warning: no dictionary configured, every word will be accepted")
	return server.PermissiveDictionary{}
}
