package main

import (
	"sync"

	"github.com/gin-gonic/gin"
)

// Handler holds shared dependencies (entry store, config) for all route handlers.
type Handler struct {
	store         EntryStore
	tokens        *tokenStore
	passwordHash  string // bcrypt hash of the app password; empty disables auth
	openAIBaseURL string // Base URL for OpenAI API (overridable for tests)

	mu      sync.RWMutex
	profile *goalProfile // saved biometric profile; nil until PUT /api/profile
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)
	router.POST("/goals/calculate", h.calculateGoals)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/entries", h.listEntries)
	api.POST("/entries", h.createEntry)
	api.PUT("/entries/:id", h.updateEntry)
	api.DELETE("/entries/:id", h.deleteEntry)
	api.GET("/entries/earliest-date", h.getEarliestEntryDate)
	api.GET("/summary/daily", h.getDailySummary)
	api.GET("/summary/week", h.getWeekSummary)
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.putProfile)
	api.POST("/analyze", h.analyzeDescription)
}
