package db

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"
)

func MustOpen(dsn string) *sql.DB {
	if dsn == "" {
		log.Fatal("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("ping db: %v", err)
	}

	return db
}
