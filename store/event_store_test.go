package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attribution/api/models"
)

func TestBuildConversionEvents(t *testing.T) {
	req := decodeRequest(t, `{
		"orderId": "A100", "value": "50.25", "market": "US",
		"utmCampaign": "spring_sale", "attrCampaign": "brand",
		"journey": [{"url": "/x", "timestamp": 2000}, {"url": "/y"}]
	}`)

	events := BuildConversionEvents(models.RecordedConversion{ID: 7, ConvertedAt: fixedNow}, req)
	require.Len(t, events, 3)

	conv := events[0]
	assert.Equal(t, models.EventTypeConversion, conv.EventType)
	assert.Equal(t, int64(7), conv.ConversionID)
	assert.Equal(t, "A100", conv.OrderID)
	assert.Equal(t, "US", conv.Market)
	assert.Equal(t, "spring_sale", conv.UTMCampaign)
	assert.Equal(t, "brand", conv.AttrCampaign)
	assert.InDelta(t, 50.25, conv.Value, 0.0001)
	assert.Equal(t, fixedNow, conv.Timestamp)
	_, err := uuid.Parse(conv.EventID)
	assert.NoError(t, err)

	assert.Equal(t, models.EventTypeJourneyStep, events[1].EventType)
	assert.Equal(t, "/x", events[1].URL)
	assert.Equal(t, uint32(1), events[1].SequenceNumber)
	assert.Equal(t, time.UnixMilli(2000).UTC(), events[1].Timestamp)

	assert.Equal(t, uint32(2), events[2].SequenceNumber)
	assert.Equal(t, fixedNow, events[2].Timestamp)
	assert.NotEqual(t, events[1].EventID, events[2].EventID)
}

func TestBuildConversionEventsWithoutValue(t *testing.T) {
	events := BuildConversionEvents(models.RecordedConversion{ID: 8, ConvertedAt: fixedNow}, decodeRequest(t, `{}`))
	require.Len(t, events, 1)
	assert.Equal(t, float64(0), events[0].Value)
	assert.Equal(t, "", events[0].OrderID)
}

func TestInsertConversionEventsEmpty(t *testing.T) {
	s := NewEventStore(nil)
	assert.NoError(t, s.InsertConversionEvents(context.Background(), nil))
}

func TestConversionsOverTimeRejectsInterval(t *testing.T) {
	s := NewEventStore(nil)
	_, err := s.ConversionsOverTime(context.Background(), "Fortnight", fixedNow.Add(-time.Hour), fixedNow, "")
	assert.EqualError(t, err, "invalid interval: Fortnight")
}
