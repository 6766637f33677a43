package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// validEntryTypes is the set of allowed entry types. Reject unknown values
// with 400 at the boundary rather than letting a bad value corrupt summaries.
var validEntryTypes = map[string]bool{
	"food":     true,
	"exercise": true,
}

// currentMonday returns the Monday of the current week at midnight UTC.
// Uses AddDate to safely handle month/year boundaries — direct day
// subtraction can produce day=0 or negative, which time.Date normalizes
// but is confusing.
func currentMonday() time.Time {
	now := time.Now().UTC()
	weekday := int(now.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7 // treat Sunday as day 7 so Mon=1..Sun=7
	}
	daysBack := weekday - 1
	return now.AddDate(0, 0, -daysBack).Truncate(24 * time.Hour)
}

// createEntry inserts a new food or exercise entry.
// POST /api/entries. Defaults date to today if omitted.
func (h *Handler) createEntry(c *gin.Context) {
	var body createEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if !validEntryTypes[body.Type] {
		apiError(c, http.StatusBadRequest, "type must be one of: food, exercise")
		return
	}
	if body.Calories < 0 {
		apiError(c, http.StatusBadRequest, "calories must not be negative")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	}
	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	e, err := h.store.Create(c.Request.Context(), entry{
		Date:     DateOnly{date},
		Name:     body.Name,
		Type:     body.Type,
		Qty:      body.Qty,
		Unit:     body.Unit,
		Calories: body.Calories,
		ProteinG: body.ProteinG,
		CarbsG:   body.CarbsG,
		FatG:     body.FatG,
	})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create entry")
		return
	}

	c.JSON(http.StatusCreated, e)
}

// updateEntry partially updates an existing entry.
// PUT /api/entries/:id. Omitted fields keep their current values.
func (h *Handler) updateEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid entry id")
		return
	}

	var body entryPatch
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date != nil {
		if _, err := time.Parse("2006-01-02", *body.Date); err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}
	if body.Type != nil && !validEntryTypes[*body.Type] {
		apiError(c, http.StatusBadRequest, "type must be one of: food, exercise")
		return
	}
	if body.Calories != nil && *body.Calories < 0 {
		apiError(c, http.StatusBadRequest, "calories must not be negative")
		return
	}

	e, err := h.store.Update(c.Request.Context(), id, body)
	if err != nil {
		// Distinguish a missing row from a real store failure so callers get
		// an actionable status code rather than a misleading 404.
		if errors.Is(err, errEntryNotFound) {
			apiError(c, http.StatusNotFound, "entry not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update entry")
		}
		return
	}

	c.JSON(http.StatusOK, e)
}

// deleteEntry removes an entry. Returns 204 on success.
// DELETE /api/entries/:id.
func (h *Handler) deleteEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid entry id")
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, errEntryNotFound) {
			apiError(c, http.StatusNotFound, "entry not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to delete entry")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// listEntries returns all entries for a given date.
// GET /api/entries?date=YYYY-MM-DD (defaults to today).
func (h *Handler) listEntries(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	items, err := h.store.ByDate(c.Request.Context(), date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch entries")
		return
	}
	// Ensure entries is an empty array (not null) in JSON
	if items == nil {
		items = []entry{}
	}

	c.JSON(http.StatusOK, items)
}

// getDailySummary returns entries and computed totals for a given date.
// GET /api/summary/daily?date=YYYY-MM-DD (defaults to today). When a profile
// has been saved, the goal-derived calorie budget and calories left are
// included.
func (h *Handler) getDailySummary(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	items, err := h.store.ByDate(c.Request.Context(), date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch entries")
		return
	}
	if items == nil {
		items = []entry{}
	}

	summary := dailySummary{Date: date, Items: items}
	for _, e := range items {
		if e.Type == "exercise" {
			summary.CaloriesExercise += e.Calories
		} else {
			summary.CaloriesFood += e.Calories
		}
		if e.ProteinG != nil {
			summary.ProteinG += *e.ProteinG
		}
		if e.CarbsG != nil {
			summary.CarbsG += *e.CarbsG
		}
		if e.FatG != nil {
			summary.FatG += *e.FatG
		}
	}
	// Net = food minus exercise, left = budget minus net
	summary.NetCalories = summary.CaloriesFood - summary.CaloriesExercise

	if p := h.currentProfile(); p != nil {
		budget := computeGoals(*p).Calories
		left := budget - summary.NetCalories
		summary.CalorieBudget = &budget
		summary.CaloriesLeft = &left
	}

	c.JSON(http.StatusOK, summary)
}

// getWeekSummary returns per-day totals for the Mon-Sun week starting at
// week_start. Days with no entries are included with hasData=false.
// GET /api/summary/week?week_start=YYYY-MM-DD (defaults to current week).
func (h *Handler) getWeekSummary(c *gin.Context) {
	var weekStart time.Time
	if s := c.Query("week_start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
			return
		}
		weekStart = t
	} else {
		weekStart = currentMonday()
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	items, err := h.store.ByRange(c.Request.Context(),
		weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02"))
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch week data")
		return
	}

	// Accumulate per-day totals, then build a full 7-day response with
	// zeros for days that have no entries.
	byDate := make(map[string]*weekDaySummary, 7)
	for _, e := range items {
		key := e.Date.Format("2006-01-02")
		day := byDate[key]
		if day == nil {
			day = &weekDaySummary{HasData: true}
			byDate[key] = day
		}
		if e.Type == "exercise" {
			day.CaloriesExercise += e.Calories
		} else {
			day.CaloriesFood += e.Calories
		}
		if e.ProteinG != nil {
			day.ProteinG += *e.ProteinG
		}
		if e.CarbsG != nil {
			day.CarbsG += *e.CarbsG
		}
		if e.FatG != nil {
			day.FatG += *e.FatG
		}
	}

	result := make([]weekDaySummary, 7)
	for i := 0; i < 7; i++ {
		d := weekStart.AddDate(0, 0, i)
		day := weekDaySummary{Date: DateOnly{d}}
		if totals, ok := byDate[d.Format("2006-01-02")]; ok {
			day.HasData = true
			day.CaloriesFood = totals.CaloriesFood
			day.CaloriesExercise = totals.CaloriesExercise
			day.ProteinG = totals.ProteinG
			day.CarbsG = totals.CarbsG
			day.FatG = totals.FatG
		}
		day.NetCalories = day.CaloriesFood - day.CaloriesExercise
		result[i] = day
	}

	c.JSON(http.StatusOK, result)
}

// getEarliestEntryDate returns the earliest date with a logged entry.
// GET /api/entries/earliest-date. Used by the client to bound "All Time"
// ranges. Returns { "date": "YYYY-MM-DD" } or { "date": null }.
func (h *Handler) getEarliestEntryDate(c *gin.Context) {
	date, err := h.store.EarliestDate(c.Request.Context())
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch earliest date")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date})
}
