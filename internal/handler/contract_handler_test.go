package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blues/agrocoin/internal/auth"
	"github.com/blues/agrocoin/internal/config"
	"github.com/blues/agrocoin/internal/contract"
	"github.com/blues/agrocoin/internal/router"
	"github.com/blues/agrocoin/internal/store"
	"github.com/gin-gonic/gin"
)

const (
	adminAddr    = "0x0000000000000000000000000000000000000001"
	producerAddr = "0x0000000000000000000000000000000000000002"
	investorAddr = "0x0000000000000000000000000000000000000003"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, authMode string) *gin.Engine {
	t.Helper()
	engine := contract.NewEngine(store.NewMemoryStore(), contract.SystemClock{}, auth.StaticAuthorizer{})
	cfg := &config.Config{}
	cfg.Contract.AuthMode = authMode
	return router.Setup(engine, nil, nil, cfg)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
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

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return resp
}

func setupProject(t *testing.T, r *gin.Engine) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/contract/initialize",
		gin.H{"admin": adminAddr})
	if w.Code != http.StatusOK {
		t.Fatalf("initialize status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/projects", gin.H{
		"owner":           producerAddr,
		"name":            "Cacao Orgánico",
		"description":     "test",
		"funding_goal":    "1000000",
		"min_investment":  "10000",
		"expected_roi":    1800,
		"duration_months": 12,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create project status = %d: %s", w.Code, w.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	r := newTestServer(t, "static")
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
}

func TestCreateAndGetProject(t *testing.T) {
	r := newTestServer(t, "static")
	setupProject(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/v1/projects/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get project status = %d: %s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	project := data["project"].(map[string]interface{})
	if project["funding_goal"] != float64(1_000_000) {
		t.Errorf("funding_goal = %v, want 1000000", project["funding_goal"])
	}
	if project["is_funded"] != false {
		t.Errorf("is_funded = %v, want false", project["is_funded"])
	}
}

func TestInvestFlow(t *testing.T) {
	r := newTestServer(t, "static")
	setupProject(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/invest",
		gin.H{"investor": investorAddr, "amount": "500000"})
	if w.Code != http.StatusOK {
		t.Fatalf("invest status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/v1/projects/1/investments/%s", investorAddr), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get investment status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/v1/users/%s/investments", investorAddr), nil)
	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	ids := data["project_ids"].([]interface{})
	if len(ids) != 1 || ids[0] != float64(1) {
		t.Errorf("project_ids = %v, want [1]", ids)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	r := newTestServer(t, "static")
	setupProject(t, r)

	// 超额投资 -> 422 EXCEEDS_GOAL
	w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/invest",
		gin.H{"investor": investorAddr, "amount": "1500000"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("exceeds-goal status = %d, want 422", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp["code"] != string(contract.CodeExceedsGoal) {
		t.Errorf("code = %v, want %s", resp["code"], contract.CodeExceedsGoal)
	}

	// 项目不存在 -> 404
	w = doJSON(t, r, http.MethodGet, "/api/v1/projects/42", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("not-found status = %d, want 404", w.Code)
	}

	// 非管理员暂停 -> 403
	w = doJSON(t, r, http.MethodPost, "/api/v1/projects/1/pause",
		gin.H{"admin": producerAddr})
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin pause status = %d, want 403", w.Code)
	}

	// 重复初始化 -> 409
	w = doJSON(t, r, http.MethodPost, "/api/v1/contract/initialize",
		gin.H{"admin": adminAddr})
	if w.Code != http.StatusConflict {
		t.Errorf("re-initialize status = %d, want 409", w.Code)
	}

	// 非法金额 -> 400
	w = doJSON(t, r, http.MethodPost, "/api/v1/projects/1/invest",
		gin.H{"investor": investorAddr, "amount": "abc"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad amount status = %d, want 400", w.Code)
	}
}

func TestSignatureModeRequiresHeaders(t *testing.T) {
	r := newTestServer(t, "signature")

	w := doJSON(t, r, http.MethodPost, "/api/v1/contract/initialize",
		gin.H{"admin": adminAddr})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing signature headers status = %d, want 401", w.Code)
	}
}

func TestProjectCount(t *testing.T) {
	r := newTestServer(t, "static")
	setupProject(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/v1/projects/count", nil)
	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	if data["count"] != float64(1) {
		t.Errorf("count = %v, want 1", data["count"])
	}
}
