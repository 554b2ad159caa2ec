package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flow-admin/internal/audit"
	"flow-admin/internal/auth"
	"flow-admin/internal/clone"
	"flow-admin/internal/policy"
	"flow-admin/internal/refdata"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

type testEnv struct {
	router *gin.Engine
	refs   *refdata.MemoryStore
	events *audit.MemoryRepo
}

// newTestEnv builds a router with a fixed identity injected, bypassing JWT
// verification. Auth middleware behavior is covered in internal/auth.
func newTestEnv(t *testing.T, userID, workspaceID, role string) testEnv {
	t.Helper()

	refs := refdata.NewMemoryStore()
	events := audit.NewMemoryRepo()
	h := Handlers{
		Refs:  refs,
		Audit: audit.NewService(events),
		Clone: clone.Config{ConnectorID: "conn-test", DevOrgID: "org-test"},
	}

	r := gin.New()
	if userID != "" {
		r.Use(func(c *gin.Context) {
			ctx := auth.WithIdentity(c.Request.Context(), userID, workspaceID, role)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
	r.POST("/v1/policies/clone", h.ClonePolicy)
	r.POST("/v1/policies/clone/report", h.CloneReport)
	r.POST("/v1/policies/validate", h.ValidatePolicy)
	r.POST("/v1/policies/delete-check", h.DeleteCheck)
	r.GET("/v1/policy-types/:code", h.PolicyTypeDisplay)

	return testEnv{router: r, refs: refs, events: events}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestClonePolicy_HappyPath(t *testing.T) {
	env := newTestEnv(t, "u1", "ws1", "editor")
	env.refs.Put("ws1", refdata.Context{
		Users: []refdata.Record{{ID: "user-1", Name: "Dana"}},
	})

	src := &policy.Policy{
		PolicyID:   "11111111-2222-3333-4444-555555555555",
		PolicyName: "Support Line",
		Nodes: []*policy.Node{{
			ID:            "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
			Name:          "Connect",
			TemplateClass: policy.ClassConnectTo,
			Outputs: []*policy.Output{{
				Name:          "primary",
				TemplateClass: policy.ClassConnectTo,
				Config: &policy.OutputConfig{
					Targets: map[string]*policy.Target{
						policy.TargetMethodUser: {Method: policy.TargetMethodUser, TargetID: "missing-user", Name: "Gone"},
					},
				},
			}},
		}},
	}

	w := doJSON(t, env.router, http.MethodPost, "/v1/policies/clone", cloneRequest{Policy: src})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp cloneResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Policy == nil {
		t.Fatalf("expected cloned policy in response")
	}
	if resp.Policy.PolicyID != "" {
		t.Fatalf("clone kept source policy id %q", resp.Policy.PolicyID)
	}
	if len(resp.Report.Messages) == 0 {
		t.Fatalf("expected report message for unknown user target")
	}

	evs := env.events.Events()
	if len(evs) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(evs))
	}
	if evs[0].Type != audit.EventTypeClone || evs[0].WorkspaceID != "ws1" || evs[0].ActorUserID != "u1" {
		t.Fatalf("unexpected audit event: %+v", evs[0])
	}
}

func TestClonePolicy_RequiresIdentity(t *testing.T) {
	env := newTestEnv(t, "", "", "")
	w := doJSON(t, env.router, http.MethodPost, "/v1/policies/clone", cloneRequest{Policy: &policy.Policy{PolicyName: "x"}})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestClonePolicy_RequiresPolicyBody(t *testing.T) {
	env := newTestEnv(t, "u1", "ws1", "editor")
	w := doJSON(t, env.router, http.MethodPost, "/v1/policies/clone", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestClonePolicy_UnknownWorkspace(t *testing.T) {
	env := newTestEnv(t, "u1", "ws-without-refs", "editor")
	w := doJSON(t, env.router, http.MethodPost, "/v1/policies/clone", cloneRequest{Policy: &policy.Policy{PolicyName: "x"}})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}

func TestCloneReport_TextDownload(t *testing.T) {
	env := newTestEnv(t, "u1", "ws1", "admin")
	env.refs.Put("ws1", refdata.Context{})

	src := &policy.Policy{
		PolicyName: "Sales Line",
		Nodes: []*policy.Node{{
			ID:            "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
			Name:          "Entry",
			TemplateClass: policy.ClassNumericEntry,
			SubItems:      []*policy.SubItem{{Number: "+15550100"}},
		}},
	}

	w := doJSON(t, env.router, http.MethodPost, "/v1/policies/clone/report", cloneRequest{Policy: src})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Sales Line") {
		t.Fatalf("report missing policy name:\n%s", body)
	}
	if !strings.Contains(body, "+15550100") {
		t.Fatalf("report missing removed number:\n%s", body)
	}
}

func TestValidatePolicy_ReportsViolations(t *testing.T) {
	env := newTestEnv(t, "u1", "ws1", "viewer")
	w := doJSON(t, env.router, http.MethodPost, "/v1/policies/validate", cloneRequest{Policy: &policy.Policy{}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp validateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Valid {
		t.Fatalf("empty policy reported valid")
	}
	if len(resp.Violations) == 0 {
		t.Fatalf("expected violations")
	}

	evs := env.events.Events()
	if len(evs) != 1 || evs[0].Type != audit.EventTypeValidate {
		t.Fatalf("expected validate audit event, got %+v", evs)
	}
}

func TestValidatePolicy_ValidDocument(t *testing.T) {
	env := newTestEnv(t, "u1", "ws1", "editor")
	p := &policy.Policy{
		PolicyName: "Good",
		Nodes:      []*policy.Node{{ID: "n1", Name: "Entry"}},
	}
	w := doJSON(t, env.router, http.MethodPost, "/v1/policies/validate", cloneRequest{Policy: p})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp validateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Valid || len(resp.Violations) != 0 {
		t.Fatalf("expected valid, got %+v", resp)
	}
}

func TestDeleteCheck(t *testing.T) {
	env := newTestEnv(t, "u1", "ws1", "admin")

	w := doJSON(t, env.router, http.MethodPost, "/v1/policies/delete-check",
		cloneRequest{Policy: &policy.Policy{PolicyName: "sys", Source: policy.SourceSystem}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"can_delete":false`) {
		t.Fatalf("system policy reported deletable: %s", w.Body.String())
	}

	w = doJSON(t, env.router, http.MethodPost, "/v1/policies/delete-check",
		cloneRequest{Policy: &policy.Policy{PolicyName: "mine"}})
	if !strings.Contains(w.Body.String(), `"can_delete":true`) {
		t.Fatalf("tenant policy reported protected: %s", w.Body.String())
	}
}

func TestPolicyTypeDisplay(t *testing.T) {
	env := newTestEnv(t, "u1", "ws1", "viewer")
	w := doJSON(t, env.router, http.MethodGet, "/v1/policy-types/"+policy.TypeDataAnalytics, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Data Analytics") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
