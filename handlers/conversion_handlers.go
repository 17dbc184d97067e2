package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attribution/api/models"
	"attribution/api/store"
)

type ConversionRecorder interface {
	RecordConversion(ctx context.Context, req *models.ConversionRequest) (models.RecordedConversion, error)
}

type CampaignReporter interface {
	CampaignPerformance(ctx context.Context, f models.CampaignFilter) ([]models.CampaignPerformance, error)
}

type OrderReader interface {
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// EventMirror receives a copy of every recorded conversion. Mirror failures are logged only.
type EventMirror interface {
	MirrorConversion(ctx context.Context, rec models.RecordedConversion, req *models.ConversionRequest) error
}

type ConversionHandlers struct {
	Recorder  ConversionRecorder
	Campaigns CampaignReporter
	Orders    OrderReader
	Events    EventMirror
	Timeout   time.Duration
}

func NewConversionHandlers(recorder ConversionRecorder, campaigns CampaignReporter, orders OrderReader, timeout time.Duration) *ConversionHandlers {
	return &ConversionHandlers{
		Recorder:  recorder,
		Campaigns: campaigns,
		Orders:    orders,
		Timeout:   timeout,
	}
}

// WithEventMirror enables mirroring of recorded conversions.
func (h *ConversionHandlers) WithEventMirror(m EventMirror) *ConversionHandlers {
	h.Events = m
	return h
}

func (h *ConversionHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "running",
		"message":   "Attribution Tracking Server",
		"timestamp": time.Now().UTC(),
	})
}

func (h *ConversionHandlers) TrackConversion(c *gin.Context) {
	var req models.ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Error binding conversion JSON: %v", err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("Received conversion: %s", req.OrderID.String)

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	rec, err := h.Recorder.RecordConversion(ctx, &req)
	if err != nil {
		log.Printf("Error saving conversion %s: %v", req.OrderID.String, err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if h.Events != nil {
		if err := h.Events.MirrorConversion(ctx, rec, &req); err != nil {
			log.Printf("Error mirroring conversion %d to event store: %v", rec.ID, err)
		}
	}

	resp := gin.H{
		"success":      true,
		"conversionId": rec.ID,
	}
	if req.OrderID.Valid {
		resp["orderId"] = req.OrderID.String
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConversionHandlers) GetConversionsByCampaign(c *gin.Context) {
	filter := models.CampaignFilter{
		Market:    c.Query("market"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	data, err := h.Campaigns.CampaignPerformance(ctx, filter)
	if err != nil {
		log.Printf("Error fetching conversions by campaign: %v", err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func (h *ConversionHandlers) GetOrder(c *gin.Context) {
	orderID := c.Param("orderId")

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	order, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}
		log.Printf("Error fetching order %s: %v", orderID, err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}
