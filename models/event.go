package models

import "time"

const (
	EventTypeConversion  = "conversion"
	EventTypeJourneyStep = "journey_step"
)

// ConversionEvent is one row mirrored into the ClickHouse conversion_events table.
type ConversionEvent struct {
	EventID        string    `json:"eventId"`
	EventType      string    `json:"eventType"`
	ConversionID   int64     `json:"conversionId"`
	OrderID        string    `json:"orderId"`
	Market         string    `json:"market"`
	UTMCampaign    string    `json:"utmCampaign"`
	AttrCampaign   string    `json:"attrCampaign"`
	Value          float64   `json:"value"`
	URL            string    `json:"url,omitempty"`
	SequenceNumber uint32    `json:"sequenceNumber,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type EventCountByTime struct {
	Time   time.Time `json:"time"`
	Market *string   `json:"market,omitempty"`
	Count  uint64    `json:"count"`
}
