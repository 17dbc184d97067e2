package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"attribution/api/database"
	"attribution/api/models"
	"attribution/api/utils"
)

// EventStore mirrors recorded conversions into ClickHouse for time-series reporting.
type EventStore struct {
	DB *database.ClickHouseClient
}

func NewEventStore(chClient *database.ClickHouseClient) *EventStore {
	return &EventStore{
		DB: chClient,
	}
}

// BuildConversionEvents flattens a recorded conversion into one conversion event followed by
// one journey_step event per step. Steps without a timestamp inherit the conversion instant.
func BuildConversionEvents(rec models.RecordedConversion, req *models.ConversionRequest) []models.ConversionEvent {
	base := models.ConversionEvent{
		ConversionID: rec.ID,
		OrderID:      req.OrderID.String,
		Market:       req.Market.String,
		UTMCampaign:  req.UTMCampaign.String,
		AttrCampaign: req.AttrCampaign.String,
	}
	if req.Value.Valid {
		base.Value = req.Value.Decimal.InexactFloat64()
	}

	events := make([]models.ConversionEvent, 0, len(req.Journey)+1)

	conversion := base
	conversion.EventID = uuid.New().String()
	conversion.EventType = models.EventTypeConversion
	conversion.Timestamp = rec.ConvertedAt
	events = append(events, conversion)

	for i, step := range req.Journey {
		ev := base
		ev.EventID = uuid.New().String()
		ev.EventType = models.EventTypeJourneyStep
		ev.URL = step.URL.String
		ev.SequenceNumber = uint32(i + 1)
		ev.Timestamp = rec.ConvertedAt
		if step.Timestamp.Valid {
			ev.Timestamp = step.Timestamp.Time
		}
		events = append(events, ev)
	}

	return events
}

func (s *EventStore) MirrorConversion(ctx context.Context, rec models.RecordedConversion, req *models.ConversionRequest) error {
	return s.InsertConversionEvents(ctx, BuildConversionEvents(rec, req))
}

func (s *EventStore) InsertConversionEvents(ctx context.Context, events []models.ConversionEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO conversion_events (
			event_id, event_type, conversion_id, order_id, market, utm_campaign,
			attr_campaign, value, url, sequence_number, timestamp
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, event := range events {
		eventID, err := uuid.Parse(event.EventID)
		if err != nil {
			_ = batch.Abort()
			return fmt.Errorf("invalid event id %q: %w", event.EventID, err)
		}
		err = batch.Append(
			eventID,
			event.EventType,
			event.ConversionID,
			event.OrderID,
			event.Market,
			event.UTMCampaign,
			event.AttrCampaign,
			event.Value,
			event.URL,
			event.SequenceNumber,
			event.Timestamp,
		)
		if err != nil {
			_ = batch.Abort()
			return fmt.Errorf("failed to append event %s to batch: %w", event.EventID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Mirrored %d conversion events to ClickHouse.", len(events))
	return nil
}

// ConversionsOverTime counts conversion events per interval bucket, optionally for one market.
func (s *EventStore) ConversionsOverTime(ctx context.Context, interval string, start, end time.Time, market string) ([]models.EventCountByTime, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	args := []any{models.EventTypeConversion, start, end}
	selectCols := fmt.Sprintf("toStartOf%s(timestamp) AS time_bucket, count() AS total", interval)
	groupByCols := "time_bucket"
	whereClause := "WHERE event_type = ? AND timestamp >= ? AND timestamp <= ?"
	orderByCols := "time_bucket ASC"
	byMarket := market != "" && market != AllMarkets

	if byMarket {
		selectCols += ", market"
		groupByCols += ", market"
		whereClause += " AND market = ?"
		args = append(args, market)
		orderByCols += ", market ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM conversion_events
		%s
		GROUP BY %s
		ORDER BY %s
	`, selectCols, whereClause, groupByCols, orderByCols)

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversions over time: %w", err)
	}
	defer rows.Close()

	results := []models.EventCountByTime{}
	for rows.Next() {
		var (
			bucket time.Time
			count  uint64
			result models.EventCountByTime
		)

		if byMarket {
			var m string
			if err := rows.Scan(&bucket, &count, &m); err != nil {
				return nil, fmt.Errorf("failed to scan conversions over time row: %w", err)
			}
			result.Market = &m
		} else if err := rows.Scan(&bucket, &count); err != nil {
			return nil, fmt.Errorf("failed to scan conversions over time row: %w", err)
		}

		result.Time = bucket
		result.Count = count
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during conversions over time query: %w", err)
	}

	return results, nil
}
