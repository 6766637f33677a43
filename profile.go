package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// currentProfile returns a copy of the saved profile, or nil if none has
// been saved yet. Safe for concurrent use.
func (h *Handler) currentProfile() *goalProfile {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.profile == nil {
		return nil
	}
	p := *h.profile
	return &p
}

// getProfile returns the saved biometric profile with its computed goals.
// GET /api/profile. 404 until a profile has been saved.
func (h *Handler) getProfile(c *gin.Context) {
	p := h.currentProfile()
	if p == nil {
		apiError(c, http.StatusNotFound, "profile not set")
		return
	}
	c.JSON(http.StatusOK, profileResponse{Profile: *p, Goals: computeGoals(*p)})
}

// putProfile replaces the saved profile. Validates the same ranges as the
// goals endpoint so a saved profile is always a valid calculator input.
// PUT /api/profile.
func (h *Handler) putProfile(c *gin.Context) {
	var p goalProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if bad := validateGoalProfile(p); len(bad) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": bad})
		return
	}

	h.mu.Lock()
	h.profile = &p
	h.mu.Unlock()

	c.JSON(http.StatusOK, profileResponse{Profile: p, Goals: computeGoals(p)})
}
