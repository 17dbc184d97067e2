package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API. analytics may be nil when no event store is configured.
func RegisterRoutes(r gin.IRouter, conversions *ConversionHandlers, analytics *AnalyticsHandlers) {
	r.GET("/", conversions.Health)

	api := r.Group("/api")
	{
		api.POST("/track-conversion", conversions.TrackConversion)
		api.GET("/conversions/by-campaign", conversions.GetConversionsByCampaign)
		api.GET("/order/:orderId", conversions.GetOrder)

		if analytics != nil {
			api.GET("/conversions/over-time", analytics.GetConversionsOverTime)
		}
	}
}
