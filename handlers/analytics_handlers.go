package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attribution/api/models"
	"attribution/api/utils"
)

type ConversionTimeline interface {
	ConversionsOverTime(ctx context.Context, interval string, start, end time.Time, market string) ([]models.EventCountByTime, error)
}

// AnalyticsHandlers serve reports backed by the ClickHouse event mirror.
type AnalyticsHandlers struct {
	Events  ConversionTimeline
	Timeout time.Duration
}

func NewAnalyticsHandlers(events ConversionTimeline, timeout time.Duration) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		Events:  events,
		Timeout: timeout,
	}
}

// parseTimeRange reads RFC3339 start/end query params, defaulting to the last 7 days.
func parseTimeRange(c *gin.Context, now time.Time) (start, end time.Time, err error) {
	start = now.Add(-7 * 24 * time.Hour)
	end = now

	if startParam := c.Query("start"); startParam != "" {
		start, err = time.Parse(time.RFC3339, startParam)
		if err != nil {
			return start, end, errors.New("Invalid 'start' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)")
		}
	}

	if endParam := c.Query("end"); endParam != "" {
		end, err = time.Parse(time.RFC3339, endParam)
		if err != nil {
			return start, end, errors.New("Invalid 'end' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)")
		}
	}

	return start, end, nil
}

func (h *AnalyticsHandlers) GetConversionsOverTime(c *gin.Context) {
	interval := c.DefaultQuery("interval", "Day")
	if !utils.IsValidInterval(interval) {
		respondError(c, http.StatusBadRequest, "interval must be one of Minute, Hour, Day, Week, Month, Quarter, Year")
		return
	}

	start, end, err := parseTimeRange(c, time.Now().UTC())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	results, err := h.Events.ConversionsOverTime(ctx, interval, start, end, c.Query("market"))
	if err != nil {
		log.Printf("Error getting conversions over time: %v", err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}
