// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package api exposes the latest boiler reading over a read-only HTTP and
// WebSocket interface.
package api

import (
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Thermoquad/intergastat/pkg/intergas"
	"github.com/Thermoquad/intergastat/pkg/logger"
)

const (
	statusOK = "ok"

	errNoReading = "no reading yet"
)

// Handler wires HTTP routes to the store
type Handler struct {
	store *Store
	log   *logger.Logger
}

// NewHandler constructs a handler over store
func NewHandler(store *Store, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{store: store, log: log}
}

// InitRoutes builds the gin router with all routes registered
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", h.health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/telemetry", h.getTelemetry)
		v1.GET("/statistics", h.getStatistics)
		v1.GET("/stream", h.stream)
	}

	return router
}

type anomalyView struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type telemetryView struct {
	Timestamp time.Time          `json:"timestamp"`
	Telemetry intergas.Telemetry `json:"telemetry"`
	Anomalies []anomalyView      `json:"anomalies"`
	FrameHex  string             `json:"frame_hex"`
}

func newTelemetryView(s Snapshot) telemetryView {
	anomalies := make([]anomalyView, 0, len(s.Anomalies))
	for _, a := range s.Anomalies {
		anomalies = append(anomalies, anomalyView{
			Type:     a.Type.String(),
			Severity: a.Severity.String(),
			Message:  a.Message,
		})
	}
	return telemetryView{
		Timestamp: s.Timestamp,
		Telemetry: s.Telemetry,
		Anomalies: anomalies,
		FrameHex:  hex.EncodeToString(s.Frame),
	}
}

func (h *Handler) health(c *gin.Context) {
	_, ok := h.store.Latest()
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "has_reading": ok})
}

func (h *Handler) getTelemetry(c *gin.Context) {
	snap, ok := h.store.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoReading})
		return
	}
	c.JSON(http.StatusOK, newTelemetryView(snap))
}

func (h *Handler) getStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Statistics())
}
