package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"attribution/api/models"
)

// dbtx is the subset of *sql.DB and *sql.Tx the stores need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const insertConversionQuery = `
	INSERT INTO conversions (
		order_id, order_number, value, subtotal, tax, currency,
		gclid, first_gclid,
		utm_source, utm_medium, utm_campaign, utm_term, utm_content,
		first_utm_source, first_utm_medium, first_utm_campaign,
		attr_source, attr_campaign, attr_adgroup, attr_ad,
		first_attr_source, first_attr_campaign,
		market, domain, shipping_country, billing_country,
		customer_email,
		journey_length, time_to_conversion,
		first_click_at, last_click_at, converted_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8,
		$9, $10, $11, $12, $13,
		$14, $15, $16,
		$17, $18, $19, $20,
		$21, $22,
		$23, $24, $25, $26,
		$27,
		$28, $29,
		$30, $31, $32
	) RETURNING id
`

const insertProductQuery = `
	INSERT INTO conversion_products (
		conversion_id, product_name, product_sku, variant_title, quantity, price
	) VALUES ($1, $2, $3, $4, $5, $6)
`

const insertJourneyStepQuery = `
	INSERT INTO customer_journey (
		conversion_id, url, path, title, page_type, referrer,
		visited_at, sequence_number
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type ConversionStore struct {
	db     *sql.DB
	atomic bool
	now    func() time.Time
}

// NewConversionStore returns a writer over db. With atomic set, the conversion and its
// child rows are written in a single transaction; otherwise each insert commits on its own
// and a failure part way through leaves the rows written so far.
func NewConversionStore(db *sql.DB, atomic bool) *ConversionStore {
	return &ConversionStore{
		db:     db,
		atomic: atomic,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RecordConversion inserts the conversion, then each product and journey step in input
// order, and returns the generated id with the converted_at instant it stored.
func (s *ConversionStore) RecordConversion(ctx context.Context, req *models.ConversionRequest) (models.RecordedConversion, error) {
	if !s.atomic {
		return s.record(ctx, s.db, req)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.RecordedConversion{}, fmt.Errorf("failed to begin conversion transaction: %w", err)
	}

	rec, err := s.record(ctx, tx, req)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("Error rolling back conversion transaction: %v", rbErr)
		}
		return models.RecordedConversion{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.RecordedConversion{}, fmt.Errorf("failed to commit conversion: %w", err)
	}
	return rec, nil
}

func (s *ConversionStore) record(ctx context.Context, q dbtx, req *models.ConversionRequest) (models.RecordedConversion, error) {
	var conversionID int64
	convertedAt := s.now()
	err := q.QueryRowContext(ctx, insertConversionQuery,
		req.OrderID, req.OrderNumber, req.Value, req.Subtotal, req.Tax, req.Currency,
		req.Gclid, req.FirstClickGclid,
		req.UTMSource, req.UTMMedium, req.UTMCampaign, req.UTMTerm, req.UTMContent,
		req.FirstUTMSource, req.FirstUTMMedium, req.FirstUTMCampaign,
		req.AttrSource, req.AttrCampaign, req.AttrAdgroup, req.AttrAd,
		req.FirstAttrSource, req.FirstAttrCampaign,
		req.Market, req.Domain, req.ShippingCountry, req.BillingCountry,
		req.Email,
		req.JourneyLength, req.TimeToConversion,
		req.FirstClickTimestamp, req.LastClickTimestamp, convertedAt,
	).Scan(&conversionID)
	if err != nil {
		return models.RecordedConversion{}, fmt.Errorf("failed to insert conversion: %w", err)
	}

	for i, product := range req.Products {
		_, err := q.ExecContext(ctx, insertProductQuery,
			conversionID,
			product.Name,
			product.SKU,
			product.Variant,
			product.Quantity,
			product.Price,
		)
		if err != nil {
			return models.RecordedConversion{}, fmt.Errorf("failed to insert product %d for conversion %d: %w", i+1, conversionID, err)
		}
	}

	for i, step := range req.Journey {
		_, err := q.ExecContext(ctx, insertJourneyStepQuery,
			conversionID,
			step.URL,
			step.Path,
			step.Title,
			step.PageType,
			step.Referrer,
			step.Timestamp,
			i+1,
		)
		if err != nil {
			return models.RecordedConversion{}, fmt.Errorf("failed to insert journey step %d for conversion %d: %w", i+1, conversionID, err)
		}
	}

	log.Printf("Conversion saved: order=%s id=%d products=%d journey=%d",
		req.OrderID.String, conversionID, len(req.Products), len(req.Journey))
	return models.RecordedConversion{ID: conversionID, ConvertedAt: convertedAt}, nil
}
