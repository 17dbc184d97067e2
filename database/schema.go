package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// schemaStatements mirror the three tables the stores read and write. order_id is
// deliberately not unique: resubmitting an order records another conversion.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS conversions (
		id                 BIGSERIAL PRIMARY KEY,
		order_id           TEXT,
		order_number       TEXT,
		value              NUMERIC(12,2),
		subtotal           NUMERIC(12,2),
		tax                NUMERIC(12,2),
		currency           TEXT,
		gclid              TEXT,
		first_gclid        TEXT,
		utm_source         TEXT,
		utm_medium         TEXT,
		utm_campaign       TEXT,
		utm_term           TEXT,
		utm_content        TEXT,
		first_utm_source   TEXT,
		first_utm_medium   TEXT,
		first_utm_campaign TEXT,
		attr_source        TEXT,
		attr_campaign      TEXT,
		attr_adgroup       TEXT,
		attr_ad            TEXT,
		first_attr_source  TEXT,
		first_attr_campaign TEXT,
		market             TEXT,
		domain             TEXT,
		shipping_country   TEXT,
		billing_country    TEXT,
		customer_email     TEXT,
		journey_length     INTEGER,
		time_to_conversion NUMERIC,
		first_click_at     TIMESTAMPTZ,
		last_click_at      TIMESTAMPTZ,
		converted_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversions_order_id ON conversions (order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_conversions_converted_at ON conversions (converted_at)`,
	`CREATE TABLE IF NOT EXISTS conversion_products (
		id            BIGSERIAL PRIMARY KEY,
		conversion_id BIGINT NOT NULL REFERENCES conversions(id) ON DELETE CASCADE,
		product_name  TEXT,
		product_sku   TEXT,
		variant_title TEXT,
		quantity      INTEGER,
		price         NUMERIC(12,2)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversion_products_conversion_id ON conversion_products (conversion_id)`,
	`CREATE TABLE IF NOT EXISTS customer_journey (
		id              BIGSERIAL PRIMARY KEY,
		conversion_id   BIGINT NOT NULL REFERENCES conversions(id) ON DELETE CASCADE,
		url             TEXT,
		path            TEXT,
		title           TEXT,
		page_type       TEXT,
		referrer        TEXT,
		visited_at      TIMESTAMPTZ,
		sequence_number INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_customer_journey_conversion_id ON customer_journey (conversion_id, sequence_number)`,
}

// EnsureSchema creates any missing tables and indexes. It is idempotent and does not
// alter existing tables.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	log.Printf("Database schema ensured (%d statements).", len(schemaStatements))
	return nil
}
