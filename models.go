package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL zeroes the time and returns nil so that
// *DateOnly fields can be nilled by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// entry is a single logged food or exercise record, keyed by calendar date.
// Calories are always stored positive; Type decides direction when summing
// (food adds, exercise subtracts). Nullable numeric fields use pointers so
// the Postgres store can scan NULLs and JSON reflects absence naturally.
type entry struct {
	ID        int        `json:"id" db:"id"`
	Date      DateOnly   `json:"date" db:"date"`
	Name      string     `json:"name" db:"name"`
	Type      string     `json:"type" db:"type"`
	Qty       *float64   `json:"qty" db:"qty"`
	Unit      *string    `json:"unit" db:"unit"`
	Calories  int        `json:"calories" db:"calories"`
	ProteinG  *float64   `json:"proteinG" db:"protein_g"`
	CarbsG    *float64   `json:"carbsG" db:"carbs_g"`
	FatG      *float64   `json:"fatG" db:"fat_g"`
	CreatedAt *time.Time `json:"createdAt" db:"created_at"`
}

// createEntryRequest is the request body for POST /api/entries.
type createEntryRequest struct {
	Date     string   `json:"date"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Qty      *float64 `json:"qty"`
	Unit     *string  `json:"unit"`
	Calories int      `json:"calories"`
	ProteinG *float64 `json:"proteinG"`
	CarbsG   *float64 `json:"carbsG"`
	FatG     *float64 `json:"fatG"`
}

// entryPatch is the request body for PUT /api/entries/:id. All fields are
// pointers — only non-nil fields get applied.
type entryPatch struct {
	Date     *string  `json:"date"`
	Name     *string  `json:"name"`
	Type     *string  `json:"type"`
	Qty      *float64 `json:"qty"`
	Unit     *string  `json:"unit"`
	Calories *int     `json:"calories"`
	ProteinG *float64 `json:"proteinG"`
	CarbsG   *float64 `json:"carbsG"`
	FatG     *float64 `json:"fatG"`
}

// dailySummary is the response shape for GET /api/summary/daily.
// CalorieBudget and CaloriesLeft are only present when a profile has been
// saved (the budget comes from the goal calculation).
type dailySummary struct {
	Date             string  `json:"date"`
	CalorieBudget    *int    `json:"calorieBudget,omitempty"`
	CaloriesFood     int     `json:"caloriesFood"`
	CaloriesExercise int     `json:"caloriesExercise"`
	NetCalories      int     `json:"netCalories"`
	CaloriesLeft     *int    `json:"caloriesLeft,omitempty"`
	ProteinG         float64 `json:"proteinG"`
	CarbsG           float64 `json:"carbsG"`
	FatG             float64 `json:"fatG"`
	Items            []entry `json:"items"`
}

// weekDaySummary is one day's row in the GET /api/summary/week response.
// Days with no logged entries have HasData=false and zero totals.
type weekDaySummary struct {
	Date             DateOnly `json:"date"`
	CaloriesFood     int      `json:"caloriesFood"`
	CaloriesExercise int      `json:"caloriesExercise"`
	NetCalories      int      `json:"netCalories"`
	ProteinG         float64  `json:"proteinG"`
	CarbsG           float64  `json:"carbsG"`
	FatG             float64  `json:"fatG"`
	HasData          bool     `json:"hasData"`
}

// profileResponse is the shape of GET/PUT /api/profile responses: the stored
// profile plus the goals it implies.
type profileResponse struct {
	Profile goalProfile     `json:"profile"`
	Goals   calculatedGoals `json:"goals"`
}
