package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"attribution/api/config"
)

type DBClient struct {
	DB *sql.DB
}

// NewPostgresDB opens the connection pool and checks connectivity once. A failed ping is
// logged but does not fail construction; queries will surface the error per request.
func NewPostgresDB(cfg *config.Config) (*DBClient, error) {
	dsn := cfg.DatabaseURL
	if cfg.DBSSLInsecure {
		dsn = withInsecureSSL(dsn)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Printf("Error connecting to database (ping failed): %v", err)
	} else {
		log.Println("Successfully connected to PostgreSQL database!")
	}

	return &DBClient{DB: db}, nil
}

func (c *DBClient) Close() {
	if c.DB != nil {
		err := c.DB.Close()
		if err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("PostgreSQL database connection closed.")
		}
	}
}

// withInsecureSSL asks for an encrypted connection without certificate verification,
// unless the DSN already picks an sslmode.
func withInsecureSSL(dsn string) string {
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("sslmode", "require")
		u.RawQuery = q.Encode()
		return u.String()
	}

	return strings.TrimSpace(dsn + " sslmode=require")
}
