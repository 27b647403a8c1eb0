package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estate_dashboard_backend/internal/http/middleware"
	"estate_dashboard_backend/internal/leads/domain"
	"estate_dashboard_backend/internal/leads/forecast"
	"estate_dashboard_backend/internal/leads/management"
	"estate_dashboard_backend/internal/leads/repository"
	"estate_dashboard_backend/internal/leads/scheduling"
	"estate_dashboard_backend/internal/leads/transport"
	"estate_dashboard_backend/internal/rbac"
	"estate_dashboard_backend/platform/logger"
	"estate_dashboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

var (
	agent   = rbac.Principal{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000a1"), Role: rbac.RoleAgent}
	manager = rbac.Principal{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000c1"), Role: rbac.RoleSalesManager}

	openLead = domain.Lead{ID: uuid.MustParse("10000000-0000-0000-0000-000000000001"), CustomerName: "Ravi", Value: 5_000_000, Probability: 30, Stage: domain.StageQualification, AssignedAgentID: agent.ID, CreatorID: agent.ID, Priority: domain.PriorityMedium, CreatedAt: fixedNow.Add(-48 * time.Hour)}
	lostLead = domain.Lead{ID: uuid.MustParse("10000000-0000-0000-0000-000000000002"), CustomerName: "Dev", Value: 3_000_000, Stage: domain.StageLost, AssignedAgentID: agent.ID, CreatorID: agent.ID, Priority: domain.PriorityLow, CreatedAt: fixedNow.Add(-72 * time.Hour)}
)

type testServer struct {
	engine *gin.Engine
	as     *rbac.Principal
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	repo := repository.New()
	for _, l := range []domain.Lead{openLead, lostLead} {
		if err := repo.InsertLead(ctx, l); err != nil {
			t.Fatalf("InsertLead: %v", err)
		}
	}
	val := validator.New()
	if err := transport.RegisterValidations(val); err != nil {
		t.Fatalf("RegisterValidations: %v", err)
	}

	mgmt := management.New(repo, nil, logger.Nop())
	mgmt.SetClock(func() time.Time { return fixedNow })
	sched := scheduling.New(repo, nil, logger.Nop())
	sched.SetClock(func() time.Time { return fixedNow })

	ts := &testServer{engine: gin.New(), as: &agent}
	group := ts.engine.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.ContextPrincipalKey, *ts.as)
		c.Next()
	})
	New(mgmt, sched, forecast.New(repo), val).RegisterRoutes(group)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func TestCreateLead(t *testing.T) {
	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"minimal", map[string]any{"customerName": "Meera"}, http.StatusCreated},
		{"explicit stage", map[string]any{"customerName": "Meera", "stage": "proposal", "probability": 55}, http.StatusCreated},
		{"missing name", map[string]any{"value": 10}, http.StatusBadRequest},
		{"probability above range", map[string]any{"customerName": "Meera", "probability": 101}, http.StatusBadRequest},
		{"unknown stage", map[string]any{"customerName": "Meera", "stage": "sold"}, http.StatusBadRequest},
		{"terminal stage", map[string]any{"customerName": "Meera", "stage": "won"}, http.StatusBadRequest},
		{"unknown priority", map[string]any{"customerName": "Meera", "priority": "urgent"}, http.StatusBadRequest},
		{"malformed json", nil, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			rec := ts.do(t, http.MethodPost, "/leads", tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestLeadResponseCarriesSuggestedProbability(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/leads/"+openLead.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got transport.LeadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Stage != "qualification" || got.Terminal || got.Suggested == nil {
		t.Fatalf("response = %+v", got)
	}
}

func TestReopenAndProbability(t *testing.T) {
	ts := newTestServer(t)

	// Agents lack approval rights.
	if rec := ts.do(t, http.MethodPost, "/leads/"+lostLead.ID.String()+"/reopen", map[string]string{"stage": "proposal", "reason": "customer called back"}); rec.Code != http.StatusForbidden {
		t.Fatalf("agent reopen: status = %d, want 403", rec.Code)
	}

	ts.as = &manager
	if rec := ts.do(t, http.MethodPost, "/leads/"+lostLead.ID.String()+"/reopen", map[string]string{"stage": "proposal"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing reason: status = %d, want 400", rec.Code)
	}
	rec := ts.do(t, http.MethodPost, "/leads/"+lostLead.ID.String()+"/reopen", map[string]string{"stage": "proposal", "reason": "customer called back"})
	if rec.Code != http.StatusOK {
		t.Fatalf("reopen: status = %d (%s)", rec.Code, rec.Body.String())
	}

	if rec := ts.do(t, http.MethodPatch, "/leads/"+openLead.ID.String()+"/probability", map[string]int{"probability": 140}); rec.Code != http.StatusBadRequest {
		t.Fatalf("probability 140: status = %d, want 400", rec.Code)
	}
	if rec := ts.do(t, http.MethodPatch, "/leads/"+openLead.ID.String()+"/probability", map[string]int{"probability": 45}); rec.Code != http.StatusOK {
		t.Fatalf("probability 45: status = %d", rec.Code)
	}
}

func TestFollowUpLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/followups", map[string]any{
		"leadId":      openLead.ID,
		"title":       "Site visit",
		"scheduledAt": fixedNow.Add(26 * time.Hour),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("schedule: status = %d (%s)", rec.Code, rec.Body.String())
	}
	var fu transport.FollowUpResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &fu); err != nil {
		t.Fatal(err)
	}
	if fu.AssigneeID != agent.ID {
		t.Fatalf("assignee = %s, want lead owner", fu.AssigneeID)
	}

	windows := []struct {
		query  string
		status int
		items  int
	}{
		{"", http.StatusOK, 1},
		{"?window=24h", http.StatusOK, 0},
		{"?window=48h", http.StatusOK, 1},
		{"?window=soon", http.StatusBadRequest, 0},
		{"?window=3000h", http.StatusBadRequest, 0},
		{"?window=-1h", http.StatusBadRequest, 0},
	}
	for _, w := range windows {
		rec := ts.do(t, http.MethodGet, "/followups/upcoming"+w.query, nil)
		if rec.Code != w.status {
			t.Fatalf("upcoming%s: status = %d, want %d", w.query, rec.Code, w.status)
		}
		if w.status != http.StatusOK {
			continue
		}
		var list transport.FollowUpListResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatal(err)
		}
		if len(list.Items) != w.items {
			t.Fatalf("upcoming%s: %d items, want %d", w.query, len(list.Items), w.items)
		}
	}

	for range 2 {
		rec := ts.do(t, http.MethodPost, "/followups/"+fu.ID.String()+"/complete", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("complete: status = %d", rec.Code)
		}
	}
	if rec := ts.do(t, http.MethodPost, "/followups/"+uuid.NewString()+"/complete", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown follow-up: status = %d, want 404", rec.Code)
	}

	// Past times are rejected.
	rec = ts.do(t, http.MethodPost, "/followups", map[string]any{
		"leadId":      openLead.ID,
		"title":       "Too late",
		"scheduledAt": fixedNow.Add(-time.Minute),
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("past follow-up: status = %d, want 400", rec.Code)
	}
}

func TestPipelineStageFilter(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/pipeline?stage=qualification", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Stage string `json:"stage"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Stage != "qualification" {
		t.Fatalf("stage = %q", got.Stage)
	}
}
