package models

import "github.com/shopspring/decimal"

// CampaignFilter narrows the campaign performance report. Empty fields fall back to the
// store's defaults.
type CampaignFilter struct {
	Market    string
	StartDate string
	EndDate   string
}

// CampaignPerformance is one (utm_campaign, attr_campaign, market) group.
type CampaignPerformance struct {
	UTMCampaign         *string             `json:"utm_campaign"`
	AttrCampaign        *string             `json:"attr_campaign"`
	Market              *string             `json:"market"`
	Conversions         int64               `json:"conversions"`
	Revenue             decimal.NullDecimal `json:"revenue"`
	AvgJourneyLength    decimal.NullDecimal `json:"avg_journey_length"`
	AvgTimeToConversion decimal.NullDecimal `json:"avg_time_to_conversion"`
}
