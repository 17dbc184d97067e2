package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"attribution/api/models"
)

// ErrOrderNotFound is returned by GetOrder when no conversion carries the order id.
var ErrOrderNotFound = errors.New("order not found")

const selectConversionByOrderQuery = `
	SELECT
		id, order_id, order_number, value, subtotal, tax, currency,
		gclid, first_gclid,
		utm_source, utm_medium, utm_campaign, utm_term, utm_content,
		first_utm_source, first_utm_medium, first_utm_campaign,
		attr_source, attr_campaign, attr_adgroup, attr_ad,
		first_attr_source, first_attr_campaign,
		market, domain, shipping_country, billing_country,
		customer_email,
		journey_length, time_to_conversion,
		first_click_at, last_click_at, converted_at
	FROM conversions
	WHERE order_id = $1
	LIMIT 1
`

const selectProductsQuery = `
	SELECT id, conversion_id, product_name, product_sku, variant_title, quantity, price
	FROM conversion_products
	WHERE conversion_id = $1
`

const selectJourneyQuery = `
	SELECT id, conversion_id, url, path, title, page_type, referrer, visited_at, sequence_number
	FROM customer_journey
	WHERE conversion_id = $1
	ORDER BY sequence_number
`

type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// GetOrder loads a conversion by order id with its products and journey. Order ids are not
// unique; when several conversions match, whichever row the database yields first is used.
func (s *OrderStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order := &models.Order{
		Products: []models.ConversionProduct{},
		Journey:  []models.JourneyStep{},
	}

	c := &order.Conversion
	err := s.db.QueryRowContext(ctx, selectConversionByOrderQuery, orderID).Scan(
		&c.ID, &c.OrderID, &c.OrderNumber, &c.Value, &c.Subtotal, &c.Tax, &c.Currency,
		&c.Gclid, &c.FirstGclid,
		&c.UTMSource, &c.UTMMedium, &c.UTMCampaign, &c.UTMTerm, &c.UTMContent,
		&c.FirstUTMSource, &c.FirstUTMMedium, &c.FirstUTMCampaign,
		&c.AttrSource, &c.AttrCampaign, &c.AttrAdgroup, &c.AttrAd,
		&c.FirstAttrSource, &c.FirstAttrCampaign,
		&c.Market, &c.Domain, &c.ShippingCountry, &c.BillingCountry,
		&c.CustomerEmail,
		&c.JourneyLength, &c.TimeToConversion,
		&c.FirstClickAt, &c.LastClickAt, &c.ConvertedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get conversion by order id: %w", err)
	}

	if order.Products, err = s.products(ctx, c.ID); err != nil {
		return nil, err
	}
	if order.Journey, err = s.journey(ctx, c.ID); err != nil {
		return nil, err
	}

	return order, nil
}

func (s *OrderStore) products(ctx context.Context, conversionID int64) ([]models.ConversionProduct, error) {
	rows, err := s.db.QueryContext(ctx, selectProductsQuery, conversionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.ConversionProduct{}
	for rows.Next() {
		var p models.ConversionProduct
		if err := rows.Scan(&p.ID, &p.ConversionID, &p.ProductName, &p.ProductSKU, &p.VariantTitle, &p.Quantity, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for products: %w", err)
	}
	return products, nil
}

func (s *OrderStore) journey(ctx context.Context, conversionID int64) ([]models.JourneyStep, error) {
	rows, err := s.db.QueryContext(ctx, selectJourneyQuery, conversionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journey: %w", err)
	}
	defer rows.Close()

	steps := []models.JourneyStep{}
	for rows.Next() {
		var j models.JourneyStep
		if err := rows.Scan(&j.ID, &j.ConversionID, &j.URL, &j.Path, &j.Title, &j.PageType, &j.Referrer, &j.VisitedAt, &j.SequenceNumber); err != nil {
			return nil, fmt.Errorf("failed to scan journey step: %w", err)
		}
		steps = append(steps, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for journey: %w", err)
	}
	return steps, nil
}
