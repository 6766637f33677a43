package main

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

/* ─── Types ──────────────────────────────────────────────────────────── */

// goalProfile is the biometric profile used for goal calculation.
// Weights are kg, height is cm, timeframe is months. Field names are
// camelCase to match the web client's payloads.
type goalProfile struct {
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	CurrentWeight float64 `json:"currentWeight"`
	TargetWeight  float64 `json:"targetWeight"`
	Height        float64 `json:"height"`
	ActivityLevel string  `json:"activityLevel"`
	Timeframe     int     `json:"timeframe"`
}

// calculatedGoals is the daily target derived from a goalProfile.
// WeightChangePerWeek is signed kg/week (negative = loss); all other
// fields are rounded integers. Calories may be floor-clamped (see
// computeGoals), in which case WeightChangePerWeek and CalorieAdjustment
// still report the pre-floor rate.
type calculatedGoals struct {
	Calories            int     `json:"calories"`
	Carbs               int     `json:"carbs"`
	Protein             int     `json:"protein"`
	Fat                 int     `json:"fat"`
	BMR                 int     `json:"bmr"`
	TDEE                int     `json:"tdee"`
	WeightChangePerWeek float64 `json:"weightChangePerWeek"`
	CalorieAdjustment   int     `json:"calorieAdjustment"`
}

/* ─── Constants ──────────────────────────────────────────────────────── */

const (
	weeksPerMonth = 4.33 // average weeks in a month
	kcalPerKgBody = 7700 // energy equivalent of 1 kg body mass

	// Safe weekly weight-change bounds, kg/week. Anything below the
	// minimum is bumped up to it ("minimum effective change rate") so the
	// recommendation is never a no-op whenever target differs from current.
	minWeeklyLoss = 0.25
	maxWeeklyLoss = 1.0
	minWeeklyGain = 0.25
	maxWeeklyGain = 0.5

	fatCalorieShare = 0.28 // fat gets a fixed share of final calories

	// Daily calorie floors. Applied after the adjustment, so the final
	// number can override the deficit implied by the weekly-change rate.
	calorieFloorFemale = 1200
	calorieFloorMale   = 1500
)

/* ─── Pure calculation ───────────────────────────────────────────────── */

// activityMultiplier returns the TDEE multiplier for an activity level.
// Unknown levels fall back to sedentary (1.2) rather than failing; the
// HTTP layer rejects unknown levels before they get here, so the default
// branch only matters for direct callers.
func activityMultiplier(level string) float64 {
	switch level {
	case "sedentary":
		return 1.2
	case "lightly_active":
		return 1.375
	case "moderately_active":
		return 1.55
	case "very_active":
		return 1.725
	case "extremely_active":
		return 1.9
	default:
		return 1.2
	}
}

// clampWeeklyChange applies the safe-rate bounds to the desired weekly
// change. Loss magnitude is clamped into [0.25, 1.0], gain into
// [0.25, 0.5]. A desired change of exactly zero lands in the gain branch
// and comes out as +0.25 — that is the documented behavior, not a bug.
func clampWeeklyChange(desired float64) float64 {
	if desired < 0 {
		mag := -desired
		if mag < minWeeklyLoss {
			mag = minWeeklyLoss
		}
		if mag > maxWeeklyLoss {
			mag = maxWeeklyLoss
		}
		return -mag
	}
	mag := desired
	if mag < minWeeklyGain {
		mag = minWeeklyGain
	}
	if mag > maxWeeklyGain {
		mag = maxWeeklyGain
	}
	return mag
}

// computeGoals maps a biometric profile to daily calorie and macro targets.
// Pure and total: no I/O, no error path, same input always yields the same
// output. Range enforcement is the caller's job (see validateGoalProfile).
//
// BMR uses Mifflin-St Jeor; TDEE scales it by the activity multiplier.
// The weekly weight-change target is derived from the weight delta over
// the timeframe, clamped to safe bounds, then converted to a daily calorie
// adjustment (7700 kcal per kg). The final calorie number is floor-clamped
// at 1200 (female) / 1500 (male); the reported rate and adjustment are NOT
// recomputed when the floor triggers, so callers must not assume
// calories == tdee + calorieAdjustment.
func computeGoals(p goalProfile) calculatedGoals {
	bmr := 10*p.CurrentWeight + 6.25*p.Height - 5*float64(p.Age)
	if p.Gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	tdee := bmr * activityMultiplier(p.ActivityLevel)

	desired := (p.TargetWeight - p.CurrentWeight) / (float64(p.Timeframe) * weeksPerMonth)
	weekly := clampWeeklyChange(desired)
	// Round the rate to 2 decimals once, here; the adjustment below is
	// derived from the rounded value so the two fields stay consistent.
	weekly = math.Round(weekly*100) / 100

	adjustment := int(math.Round(weekly * kcalPerKgBody / 7))

	calories := int(math.Round(tdee + float64(adjustment)))
	floor := calorieFloorFemale
	if p.Gender == "male" {
		floor = calorieFloorMale
	}
	if calories < floor {
		calories = floor
	}

	// Macros come from the floored calorie total. Protein scales with the
	// target weight (higher per-kg allowance when losing), fat takes a
	// fixed share, carbs get whatever remains.
	losing := p.TargetWeight < p.CurrentWeight
	proteinPerKg := 1.8
	if losing {
		proteinPerKg = 2.0
	}
	proteinG := int(math.Round(p.TargetWeight * proteinPerKg))
	proteinCal := proteinG * 4

	fatG := int(math.Round(float64(calories) * fatCalorieShare / 9))
	fatCal := fatG * 9

	carbCal := calories - proteinCal - fatCal
	if carbCal < 0 {
		carbCal = 0
	}
	carbsG := int(math.Round(float64(carbCal) / 4))

	return calculatedGoals{
		Calories:            calories,
		Carbs:               carbsG,
		Protein:             proteinG,
		Fat:                 fatG,
		BMR:                 int(math.Round(bmr)),
		TDEE:                int(math.Round(tdee)),
		WeightChangePerWeek: weekly,
		CalorieAdjustment:   adjustment,
	}
}

/* ─── Validation ─────────────────────────────────────────────────────── */

var validGenders = map[string]bool{
	"male":   true,
	"female": true,
}

// validActivityLevels is the set of levels accepted at the API boundary.
// The calculator itself tolerates unknown levels (sedentary fallback), but
// letting them through would silently mask client bugs.
var validActivityLevels = map[string]bool{
	"sedentary":         true,
	"lightly_active":    true,
	"moderately_active": true,
	"very_active":       true,
	"extremely_active":  true,
}

// validateGoalProfile checks every field against its documented range and
// returns the names of all failing fields (empty slice = valid).
func validateGoalProfile(p goalProfile) []string {
	var bad []string
	if p.Age < 1 || p.Age > 120 {
		bad = append(bad, "age")
	}
	if !validGenders[p.Gender] {
		bad = append(bad, "gender")
	}
	if p.CurrentWeight < 1 || p.CurrentWeight > 500 {
		bad = append(bad, "currentWeight")
	}
	if p.TargetWeight < 1 || p.TargetWeight > 500 {
		bad = append(bad, "targetWeight")
	}
	if p.Height < 50 || p.Height > 300 {
		bad = append(bad, "height")
	}
	if !validActivityLevels[p.ActivityLevel] {
		bad = append(bad, "activityLevel")
	}
	if p.Timeframe < 1 || p.Timeframe > 24 {
		bad = append(bad, "timeframe")
	}
	return bad
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// calculateGoals handles POST /goals/calculate. Rejects malformed or
// out-of-range profiles with a 400 listing every failing field; otherwise
// returns the computed goals.
func (h *Handler) calculateGoals(c *gin.Context) {
	var p goalProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if bad := validateGoalProfile(p); len(bad) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": bad})
		return
	}
	c.JSON(http.StatusOK, computeGoals(p))
}
