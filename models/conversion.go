package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionRequest is the body of POST /api/track-conversion. Scalars are coerced the way
// the columns accept them, and absent values are stored as NULL.
type ConversionRequest struct {
	OrderID     Text                `json:"orderId"`
	OrderNumber Text                `json:"orderNumber"`
	Value       decimal.NullDecimal `json:"value"`
	Subtotal    decimal.NullDecimal `json:"subtotal"`
	Tax         decimal.NullDecimal `json:"tax"`
	Currency    Text                `json:"currency"`

	Gclid           Text `json:"gclid"`
	FirstClickGclid Text `json:"firstClickGclid"`

	UTMSource   Text `json:"utmSource"`
	UTMMedium   Text `json:"utmMedium"`
	UTMCampaign Text `json:"utmCampaign"`
	UTMTerm     Text `json:"utmTerm"`
	UTMContent  Text `json:"utmContent"`

	FirstUTMSource   Text `json:"firstUtmSource"`
	FirstUTMMedium   Text `json:"firstUtmMedium"`
	FirstUTMCampaign Text `json:"firstUtmCampaign"`

	AttrSource   Text `json:"attrSource"`
	AttrCampaign Text `json:"attrCampaign"`
	AttrAdgroup  Text `json:"attrAdgroup"`
	AttrAd       Text `json:"attrAd"`

	FirstAttrSource   Text `json:"firstAttrSource"`
	FirstAttrCampaign Text `json:"firstAttrCampaign"`

	Market          Text `json:"market"`
	Domain          Text `json:"domain"`
	ShippingCountry Text `json:"shippingCountry"`
	BillingCountry  Text `json:"billingCountry"`
	Email           Text `json:"email"`

	JourneyLength    Integer             `json:"journeyLength"`
	TimeToConversion decimal.NullDecimal `json:"timeToConversion"`

	FirstClickTimestamp ClickTimestamp `json:"firstClickTimestamp"`
	LastClickTimestamp  ClickTimestamp `json:"lastClickTimestamp"`

	Products []ProductLine  `json:"products"`
	Journey  []JourneyVisit `json:"journey"`
}

type ProductLine struct {
	Name     Text                `json:"name"`
	SKU      Text                `json:"sku"`
	Variant  Text                `json:"variant"`
	Quantity Integer             `json:"quantity"`
	Price    decimal.NullDecimal `json:"price"`
}

type JourneyVisit struct {
	URL       Text      `json:"url"`
	Path      Text      `json:"path"`
	Title     Text      `json:"title"`
	PageType  Text      `json:"pageType"`
	Referrer  Text      `json:"referrer"`
	Timestamp Timestamp `json:"timestamp"`
}

// RecordedConversion identifies a stored conversion row.
type RecordedConversion struct {
	ID          int64
	ConvertedAt time.Time
}

// Conversion is a stored row of the conversions table.
type Conversion struct {
	ID                int64               `json:"id"`
	OrderID           *string             `json:"order_id"`
	OrderNumber       *string             `json:"order_number"`
	Value             decimal.NullDecimal `json:"value"`
	Subtotal          decimal.NullDecimal `json:"subtotal"`
	Tax               decimal.NullDecimal `json:"tax"`
	Currency          *string             `json:"currency"`
	Gclid             *string             `json:"gclid"`
	FirstGclid        *string             `json:"first_gclid"`
	UTMSource         *string             `json:"utm_source"`
	UTMMedium         *string             `json:"utm_medium"`
	UTMCampaign       *string             `json:"utm_campaign"`
	UTMTerm           *string             `json:"utm_term"`
	UTMContent        *string             `json:"utm_content"`
	FirstUTMSource    *string             `json:"first_utm_source"`
	FirstUTMMedium    *string             `json:"first_utm_medium"`
	FirstUTMCampaign  *string             `json:"first_utm_campaign"`
	AttrSource        *string             `json:"attr_source"`
	AttrCampaign      *string             `json:"attr_campaign"`
	AttrAdgroup       *string             `json:"attr_adgroup"`
	AttrAd            *string             `json:"attr_ad"`
	FirstAttrSource   *string             `json:"first_attr_source"`
	FirstAttrCampaign *string             `json:"first_attr_campaign"`
	Market            *string             `json:"market"`
	Domain            *string             `json:"domain"`
	ShippingCountry   *string             `json:"shipping_country"`
	BillingCountry    *string             `json:"billing_country"`
	CustomerEmail     *string             `json:"customer_email"`
	JourneyLength     *int64              `json:"journey_length"`
	TimeToConversion  decimal.NullDecimal `json:"time_to_conversion"`
	FirstClickAt      *time.Time          `json:"first_click_at"`
	LastClickAt       *time.Time          `json:"last_click_at"`
	ConvertedAt       time.Time           `json:"converted_at"`
}

type ConversionProduct struct {
	ID           int64               `json:"id"`
	ConversionID int64               `json:"conversion_id"`
	ProductName  *string             `json:"product_name"`
	ProductSKU   *string             `json:"product_sku"`
	VariantTitle *string             `json:"variant_title"`
	Quantity     *int64              `json:"quantity"`
	Price        decimal.NullDecimal `json:"price"`
}

type JourneyStep struct {
	ID             int64      `json:"id"`
	ConversionID   int64      `json:"conversion_id"`
	URL            *string    `json:"url"`
	Path           *string    `json:"path"`
	Title          *string    `json:"title"`
	PageType       *string    `json:"page_type"`
	Referrer       *string    `json:"referrer"`
	VisitedAt      *time.Time `json:"visited_at"`
	SequenceNumber int        `json:"sequence_number"`
}

// Order is a conversion together with its line items and ordered journey.
type Order struct {
	Conversion
	Products []ConversionProduct `json:"products"`
	Journey  []JourneyStep       `json:"journey"`
}
