package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"attribution/api/models"
)

const (
	// DefaultCampaignStart is the lower bound used when no startDate is given.
	DefaultCampaignStart = "2024-01-01"
	// AllMarkets disables the market filter.
	AllMarkets = "all"
)

type CampaignStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewCampaignStore(db *sql.DB) *CampaignStore {
	return &CampaignStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// predicate accumulates AND-ed conditions with positional placeholders.
type predicate struct {
	clauses []string
	args    []any
}

func (p *predicate) add(column, op string, value any) {
	p.args = append(p.args, value)
	p.clauses = append(p.clauses, fmt.Sprintf("%s %s $%d", column, op, len(p.args)))
}

func (p *predicate) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.clauses, " AND ")
}

// campaignPredicate applies the default date range and drops the market filter for ""
// and "all". Dates are passed through as text and parsed by the database.
func campaignPredicate(f models.CampaignFilter, now time.Time) *predicate {
	start := f.StartDate
	if start == "" {
		start = DefaultCampaignStart
	}
	end := f.EndDate
	if end == "" {
		end = now.Format(time.RFC3339Nano)
	}

	p := &predicate{}
	p.add("converted_at", ">=", start)
	p.add("converted_at", "<=", end)
	if f.Market != "" && f.Market != AllMarkets {
		p.add("market", "=", f.Market)
	}
	return p
}

// CampaignPerformance groups conversions by campaign and market, highest revenue first.
func (s *CampaignStore) CampaignPerformance(ctx context.Context, f models.CampaignFilter) ([]models.CampaignPerformance, error) {
	p := campaignPredicate(f, s.now())

	query := fmt.Sprintf(`
		SELECT
			utm_campaign,
			attr_campaign,
			market,
			COUNT(*) AS conversions,
			SUM(value) AS revenue,
			AVG(journey_length) AS avg_journey_length,
			AVG(time_to_conversion) AS avg_time_to_conversion
		FROM conversions
		%s
		GROUP BY utm_campaign, attr_campaign, market
		ORDER BY revenue DESC
	`, p.where())

	rows, err := s.db.QueryContext(ctx, query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaign performance: %w", err)
	}
	defer rows.Close()

	results := []models.CampaignPerformance{}
	for rows.Next() {
		var r models.CampaignPerformance
		if err := rows.Scan(
			&r.UTMCampaign,
			&r.AttrCampaign,
			&r.Market,
			&r.Conversions,
			&r.Revenue,
			&r.AvgJourneyLength,
			&r.AvgTimeToConversion,
		); err != nil {
			return nil, fmt.Errorf("failed to scan campaign performance row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during campaign performance query: %w", err)
	}

	return results, nil
}
