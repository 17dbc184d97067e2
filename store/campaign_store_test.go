package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attribution/api/models"
)

var campaignColumns = []string{
	"utm_campaign", "attr_campaign", "market", "conversions", "revenue",
	"avg_journey_length", "avg_time_to_conversion",
}

func TestCampaignPredicateDefaults(t *testing.T) {
	p := campaignPredicate(models.CampaignFilter{}, fixedNow)

	assert.Equal(t, "WHERE converted_at >= $1 AND converted_at <= $2", p.where())
	assert.Equal(t, []any{DefaultCampaignStart, fixedNow.Format(time.RFC3339Nano)}, p.args)
}

func TestCampaignPredicateMarket(t *testing.T) {
	p := campaignPredicate(models.CampaignFilter{
		Market:    "UK",
		StartDate: "2024-02-01",
		EndDate:   "2024-02-29",
	}, fixedNow)

	assert.Equal(t, "WHERE converted_at >= $1 AND converted_at <= $2 AND market = $3", p.where())
	assert.Equal(t, []any{"2024-02-01", "2024-02-29", "UK"}, p.args)
}

func TestCampaignPredicateAllMarketsMatchesNoFilter(t *testing.T) {
	all := campaignPredicate(models.CampaignFilter{Market: AllMarkets}, fixedNow)
	none := campaignPredicate(models.CampaignFilter{}, fixedNow)
	assert.Equal(t, none, all)
}

func newCampaignStore(t *testing.T) (*CampaignStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewCampaignStore(db)
	s.now = func() time.Time { return fixedNow }
	return s, mock
}

func TestCampaignPerformance(t *testing.T) {
	s, mock := newCampaignStore(t)

	rows := sqlmock.NewRows(campaignColumns).
		AddRow("spring_sale", "brand_search", "US", int64(3), "300.00", "4.0000", "7200.5").
		AddRow(nil, nil, "UK", int64(1), "20.00", nil, nil)

	mock.ExpectQuery(`FROM conversions[\s\S]*GROUP BY utm_campaign, attr_campaign, market[\s\S]*ORDER BY revenue DESC`).
		WithArgs(DefaultCampaignStart, fixedNow.Format(time.RFC3339Nano)).
		WillReturnRows(rows)

	data, err := s.CampaignPerformance(context.Background(), models.CampaignFilter{})
	require.NoError(t, err)
	require.Len(t, data, 2)

	assert.Equal(t, "spring_sale", *data[0].UTMCampaign)
	assert.Equal(t, "US", *data[0].Market)
	assert.Equal(t, int64(3), data[0].Conversions)
	assert.Equal(t, "300", data[0].Revenue.Decimal.String())
	assert.Equal(t, "4", data[0].AvgJourneyLength.Decimal.String())

	assert.Nil(t, data[1].UTMCampaign)
	assert.False(t, data[1].AvgJourneyLength.Valid)
	assert.True(t, data[0].Revenue.Decimal.GreaterThan(data[1].Revenue.Decimal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignPerformanceMarketFilter(t *testing.T) {
	s, mock := newCampaignStore(t)

	mock.ExpectQuery(`AND market = \$3`).
		WithArgs("2024-01-15", "2024-01-31", "DE").
		WillReturnRows(sqlmock.NewRows(campaignColumns))

	data, err := s.CampaignPerformance(context.Background(), models.CampaignFilter{
		Market: "DE", StartDate: "2024-01-15", EndDate: "2024-01-31",
	})
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignPerformanceBadDate(t *testing.T) {
	s, mock := newCampaignStore(t)

	mock.ExpectQuery("FROM conversions").
		WithArgs("not-a-date", sqlmock.AnyArg()).
		WillReturnError(errors.New(`invalid input syntax for type timestamp with time zone: "not-a-date"`))

	_, err := s.CampaignPerformance(context.Background(), models.CampaignFilter{StartDate: "not-a-date"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-date")
	assert.NoError(t, mock.ExpectationsWereMet())
}
