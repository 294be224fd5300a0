package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstanton/wishful/internal/domain"
	"github.com/mstanton/wishful/internal/service"
	"github.com/mstanton/wishful/internal/store"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := store.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := store.NewRepository(db)
	planner := service.NewPlanner(repo, log)
	srv := httptest.NewServer(NewHandler(planner, repo, log).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestIncomeEndpoints(t *testing.T) {
	srv := testServer(t)

	resp := postJSON(t, srv.URL+"/api/incomes", `{
		"description": "salary",
		"amount": 2000,
		"recurrence": "specific_date",
		"dayOfMonth": 15
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.IncomeSource
	decode(t, resp, &created)
	assert.NotZero(t, created.ID)

	resp, err := http.Get(srv.URL + "/api/incomes")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var incomes []domain.IncomeSource
	decode(t, resp, &incomes)
	require.Len(t, incomes, 1)
	assert.Equal(t, "salary", incomes[0].Description)
}

func TestCreateIncomeRejectsInvalid(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad JSON", `{`, http.StatusBadRequest},
		{"bad date", `{"description":"x","amount":1,"recurrence":"one_time","oneTimeDate":"06/01/2026"}`, http.StatusBadRequest},
		{"missing recurrence field", `{"description":"x","amount":1,"recurrence":"biweekly"}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"description":"x","amount":0,"recurrence":"last_day"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/incomes", tt.body)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestGoalLifecycle(t *testing.T) {
	srv := testServer(t)

	resp := postJSON(t, srv.URL+"/api/goals", `{
		"name": "camera",
		"cost": 800,
		"policy": "target_date",
		"targetDate": "2026-05-01"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Goal
	decode(t, resp, &created)
	require.NotZero(t, created.ID)

	resp = postJSON(t, srv.URL+"/api/goals/"+itoa(created.ID)+"/purchase", `{"amount": 779.99, "note": "on sale"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/goals")
	require.NoError(t, err)
	var goals []domain.Goal
	decode(t, resp, &goals)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].Purchased)

	resp, err = http.Get(srv.URL + "/api/purchases")
	require.NoError(t, err)
	var purchases []domain.PurchaseRecord
	decode(t, resp, &purchases)
	require.Len(t, purchases, 1)
	assert.Equal(t, "on sale", purchases[0].Note)
}

func TestReportEndpoint(t *testing.T) {
	srv := testServer(t)

	resp := postJSON(t, srv.URL+"/api/incomes", `{
		"description": "salary",
		"amount": 500,
		"recurrence": "specific_date",
		"dayOfMonth": 15
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/goals", `{
		"name": "chair",
		"cost": 800,
		"policy": "sequential",
		"order": 1
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/report?as_of=2026-01-01")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report domain.Report
	decode(t, resp, &report)
	require.Len(t, report.Allocations, 1)
	assert.True(t, report.Allocations[0].Feasible)

	resp, err = http.Get(srv.URL + "/api/report?as_of=January")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreviewEndpointWritesNothing(t *testing.T) {
	srv := testServer(t)

	resp := postJSON(t, srv.URL+"/api/incomes", `{
		"description": "salary",
		"amount": 500,
		"recurrence": "specific_date",
		"dayOfMonth": 15
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/goals/preview", `{
		"name": "what if",
		"cost": 400,
		"policy": "sequential",
		"order": 1
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Outcome *domain.AllocationOutcome `json:"outcome"`
	}
	decode(t, resp, &body)
	require.NotNil(t, body.Outcome)
	assert.True(t, body.Outcome.Feasible)

	resp, err := http.Get(srv.URL + "/api/goals")
	require.NoError(t, err)
	var goals []domain.Goal
	decode(t, resp, &goals)
	assert.Empty(t, goals)
}

func TestDeleteUnknownGoal(t *testing.T) {
	srv := testServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/goals/999", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
