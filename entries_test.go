package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// setupEntriesTest builds a router backed by a fresh in-memory store. Auth is
// disabled (no password hash), so the /api group passes requests through.
func setupEntriesTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{store: newMemoryStore(), tokens: newTokenStore()}
	router := gin.New()
	h.registerRoutes(router)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateEntry_OK(t *testing.T) {
	router := setupEntriesTest()

	w := doJSON(router, "POST", "/api/entries",
		`{"date":"2026-03-01","name":"Oatmeal","type":"food","calories":300,"proteinG":10}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var e entry
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if e.ID != 1 {
		t.Errorf("id = %d, want 1", e.ID)
	}
	if e.Name != "Oatmeal" || e.Calories != 300 {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestCreateEntry_InvalidType(t *testing.T) {
	router := setupEntriesTest()

	w := doJSON(router, "POST", "/api/entries",
		`{"date":"2026-03-01","name":"Oatmeal","type":"snack","calories":300}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateEntry_MissingName(t *testing.T) {
	router := setupEntriesTest()

	w := doJSON(router, "POST", "/api/entries", `{"date":"2026-03-01","type":"food","calories":300}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateEntry_DefaultsToToday(t *testing.T) {
	router := setupEntriesTest()

	w := doJSON(router, "POST", "/api/entries", `{"name":"Walk","type":"exercise","calories":120}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var e entry
	json.Unmarshal(w.Body.Bytes(), &e)
	if got := e.Date.Format("2006-01-02"); got != time.Now().Format("2006-01-02") {
		t.Errorf("date = %s, want today", got)
	}
}

func TestListEntries_ByDate(t *testing.T) {
	router := setupEntriesTest()
	doJSON(router, "POST", "/api/entries", `{"date":"2026-03-01","name":"Oatmeal","type":"food","calories":300}`)
	doJSON(router, "POST", "/api/entries", `{"date":"2026-03-02","name":"Salad","type":"food","calories":150}`)

	w := doJSON(router, "GET", "/api/entries?date=2026-03-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var items []entry
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Oatmeal" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestListEntries_EmptyIsArray(t *testing.T) {
	router := setupEntriesTest()

	w := doJSON(router, "GET", "/api/entries?date=2026-03-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestUpdateEntry_PatchesFields(t *testing.T) {
	router := setupEntriesTest()
	doJSON(router, "POST", "/api/entries", `{"date":"2026-03-01","name":"Oatmeal","type":"food","calories":300}`)

	w := doJSON(router, "PUT", "/api/entries/1", `{"calories":350}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var e entry
	json.Unmarshal(w.Body.Bytes(), &e)
	if e.Calories != 350 || e.Name != "Oatmeal" {
		t.Errorf("unexpected entry after patch: %+v", e)
	}
}

func TestUpdateEntry_NotFound(t *testing.T) {
	router := setupEntriesTest()

	w := doJSON(router, "PUT", "/api/entries/99", `{"calories":350}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteEntry(t *testing.T) {
	router := setupEntriesTest()
	doJSON(router, "POST", "/api/entries", `{"date":"2026-03-01","name":"Oatmeal","type":"food","calories":300}`)

	w := doJSON(router, "DELETE", "/api/entries/1", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(router, "DELETE", "/api/entries/1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d: %s", w.Code, w.Body.String())
	}
}

/* ─── Summary tests ──────────────────────────────────────────────────── */

func TestDailySummary_Totals(t *testing.T) {
	router := setupEntriesTest()
	doJSON(router, "POST", "/api/entries", `{"date":"2026-03-01","name":"Oatmeal","type":"food","calories":300,"proteinG":10,"carbsG":50,"fatG":6}`)
	doJSON(router, "POST", "/api/entries", `{"date":"2026-03-01","name":"Chicken","type":"food","calories":400,"proteinG":40}`)
	doJSON(router, "POST", "/api/entries", `{"date":"2026-03-01","name":"Run","type":"exercise","calories":250}`)

	w := doJSON(router, "GET", "/api/summary/daily?date=2026-03-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var s dailySummary
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if s.CaloriesFood != 700 {
		t.Errorf("CaloriesFood = %d, want 700", s.CaloriesFood)
	}
	if s.CaloriesExercise != 250 {
		t.Errorf("CaloriesExercise = %d, want 250", s.CaloriesExercise)
	}
	if s.NetCalories != 450 {
		t.Errorf("NetCalories = %d, want 450", s.NetCalories)
	}
	if s.ProteinG != 50 {
		t.Errorf("ProteinG = %v, want 50", s.ProteinG)
	}
	if s.CalorieBudget != nil {
		t.Error("CalorieBudget should be absent with no saved profile")
	}
	if len(s.Items) != 3 {
		t.Errorf("Items = %d, want 3", len(s.Items))
	}
}

// TestDailySummary_UsesProfileBudget verifies the goal-derived budget and
// calories-left appear once a profile is saved.
func TestDailySummary_UsesProfileBudget(t *testing.T) {
	router := setupEntriesTest()
	doJSON(router, "PUT", "/api/profile",
		`{"age":30,"gender":"male","currentWeight":90,"targetWeight":80,"height":180,"activityLevel":"moderately_active","timeframe":6}`)
	doJSON(router, "POST", "/api/entries", `{"date":"2026-03-01","name":"Oatmeal","type":"food","calories":300}`)

	w := doJSON(router, "GET", "/api/summary/daily?date=2026-03-01", "")
	var s dailySummary
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	wantBudget := computeGoals(baseProfile()).Calories
	if s.CalorieBudget == nil || *s.CalorieBudget != wantBudget {
		t.Fatalf("CalorieBudget = %v, want %d", s.CalorieBudget, wantBudget)
	}
	if s.CaloriesLeft == nil || *s.CaloriesLeft != wantBudget-300 {
		t.Errorf("CaloriesLeft = %v, want %d", s.CaloriesLeft, wantBudget-300)
	}
}

func TestWeekSummary_FillsSevenDays(t *testing.T) {
	router := setupEntriesTest()
	// Week of Mon 2026-03-02 .. Sun 2026-03-08
	doJSON(router, "POST", "/api/entries", `{"date":"2026-03-03","name":"Oatmeal","type":"food","calories":300}`)
	doJSON(router, "POST", "/api/entries", `{"date":"2026-03-03","name":"Run","type":"exercise","calories":100}`)

	w := doJSON(router, "GET", "/api/summary/week?week_start=2026-03-02", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var days []weekDaySummary
	if err := json.Unmarshal(w.Body.Bytes(), &days); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("got %d days, want 7", len(days))
	}
	if !days[1].HasData || days[1].NetCalories != 200 {
		t.Errorf("Tuesday = %+v, want hasData with net 200", days[1])
	}
	if days[0].HasData {
		t.Errorf("Monday should have no data: %+v", days[0])
	}
}

func TestEarliestEntryDate(t *testing.T) {
	router := setupEntriesTest()

	w := doJSON(router, "GET", "/api/entries/earliest-date", "")
	if body := strings.TrimSpace(w.Body.String()); body != `{"date":null}` {
		t.Errorf("body = %s, want null date for empty store", body)
	}

	doJSON(router, "POST", "/api/entries", `{"date":"2026-03-05","name":"B","type":"food","calories":100}`)
	doJSON(router, "POST", "/api/entries", `{"date":"2026-03-01","name":"A","type":"food","calories":100}`)

	w = doJSON(router, "GET", "/api/entries/earliest-date", "")
	var resp struct {
		Date *string `json:"date"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Date == nil || *resp.Date != "2026-03-01" {
		t.Errorf("date = %v, want 2026-03-01", resp.Date)
	}
}

/* ─── currentMonday tests ────────────────────────────────────────────── */

// TestCurrentMonday_ReturnsMonday verifies the returned time's weekday is Monday.
func TestCurrentMonday_ReturnsMonday(t *testing.T) {
	monday := currentMonday()
	if monday.Weekday() != time.Monday {
		t.Errorf("currentMonday() returned %s, want Monday", monday.Weekday())
	}
}

// TestCurrentMonday_MidnightUTC verifies the returned time is at midnight UTC.
func TestCurrentMonday_MidnightUTC(t *testing.T) {
	monday := currentMonday()
	if monday.Hour() != 0 || monday.Minute() != 0 || monday.Second() != 0 || monday.Nanosecond() != 0 {
		t.Errorf("currentMonday() returned non-midnight time: %v", monday)
	}
	if monday.Location() != time.UTC {
		t.Errorf("currentMonday() returned non-UTC location: %v", monday.Location())
	}
}

/* ─── Profile endpoint tests ─────────────────────────────────────────── */

func TestProfile_RoundTrip(t *testing.T) {
	router := setupEntriesTest()

	w := doJSON(router, "GET", "/api/profile", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before save, got %d", w.Code)
	}

	w = doJSON(router, "PUT", "/api/profile",
		`{"age":30,"gender":"male","currentWeight":90,"targetWeight":80,"height":180,"activityLevel":"moderately_active","timeframe":6}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on save, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(router, "GET", "/api/profile", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after save, got %d", w.Code)
	}

	var resp profileResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Profile.CurrentWeight != 90 {
		t.Errorf("CurrentWeight = %v, want 90", resp.Profile.CurrentWeight)
	}
	if resp.Goals.BMR != 1880 {
		t.Errorf("Goals.BMR = %d, want 1880", resp.Goals.BMR)
	}
}

func TestPutProfile_RejectsInvalid(t *testing.T) {
	router := setupEntriesTest()

	w := doJSON(router, "PUT", "/api/profile",
		`{"age":0,"gender":"male","currentWeight":90,"targetWeight":80,"height":180,"activityLevel":"moderately_active","timeframe":6}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
