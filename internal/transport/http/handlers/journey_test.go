package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"appraisal/internal/app/server"
	"appraisal/internal/domain/scoring"
	"appraisal/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		DatabaseURL:       dbURL,
		JWTSecret:         "test-secret",
		TokenTTL:          time.Hour,
		Environment:       "test",
		SeedAdminEmail:    "admin@test.local",
		SeedAdminPassword: "ChangeMe123!",
		EmailFrom:         "no-reply@test.local",
		RunMigrations:     true,
		RunSeed:           true,
		MaxBodyBytes:      1048576,
	}
}

func TestEvaluationLifecycleJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.DB.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	employeeID := createEmployee(t, client, ts.URL, token, employeeEmail)

	evaluationID := createDraft(t, client, ts.URL, token, employeeID)

	selectType(t, client, ts.URL, token, evaluationID, "regular", "q1", "")

	submitted := submitEvaluation(t, client, ts.URL, token, evaluationID)
	if submitted.Status != "pending" {
		t.Fatalf("expected status pending after submit, got %s", submitted.Status)
	}
	if submitted.Verdict != "PASS" {
		t.Fatalf("expected PASS verdict for all-fours sheet, got %s", submitted.Verdict)
	}

	approved := approve(t, client, ts.URL, token, evaluationID, "employee")
	if approved.Status != "employee_approved" {
		t.Fatalf("expected employee_approved, got %s", approved.Status)
	}

	final := approve(t, client, ts.URL, token, evaluationID, "evaluator")
	if final.Status != "fully_approved" {
		t.Fatalf("expected fully_approved, got %s", final.Status)
	}

	entries := listHistory(t, client, ts.URL, token, evaluationID)
	if len(entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(entries))
	}

	// Q1 is consumed for this employee and year.
	quarters := eligibility(t, client, ts.URL, token, employeeID)
	if !quarters["q1"] {
		t.Fatal("expected q1 to be marked used after submission")
	}

	pdf := export(t, client, ts.URL, token, evaluationID)
	if len(pdf) == 0 || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("expected a PDF payload from export")
	}
}

func TestRejectedEvaluationIsTerminal(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.DB.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("reject-%d@example.com", time.Now().UnixNano())
	employeeID := createEmployee(t, client, ts.URL, token, employeeEmail)
	evaluationID := createDraft(t, client, ts.URL, token, employeeID)
	selectType(t, client, ts.URL, token, evaluationID, "others", "improvement", "")
	submitEvaluation(t, client, ts.URL, token, evaluationID)

	rejected := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/evaluations/"+evaluationID+"/reject", token,
		map[string]string{"reason": "scores disputed"}, http.StatusOK)
	var record evaluationView
	if err := json.Unmarshal(rejected, &record); err != nil {
		t.Fatalf("decode reject response: %v", err)
	}
	if record.Status != "rejected" {
		t.Fatalf("expected rejected, got %s", record.Status)
	}

	// No transition leaves the rejected state.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/evaluations/"+evaluationID+"/approve/evaluator", token,
		map[string]string{"artifact": "sig"}, http.StatusConflict)
}

func TestUninvolvedEmployeeCannotDriveApproval(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.DB.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("target-%d@example.com", time.Now().UnixNano())
	employeeID := createEmployee(t, client, ts.URL, adminToken, employeeEmail)
	evaluationID := createDraft(t, client, ts.URL, adminToken, employeeID)
	selectType(t, client, ts.URL, adminToken, evaluationID, "others", "improvement", "")
	submitEvaluation(t, client, ts.URL, adminToken, evaluationID)

	// A second login with the employee role but no link to the evaluated
	// employee must not be able to sign or reject the record.
	intruderEmail := fmt.Sprintf("intruder-%d@example.com", time.Now().UnixNano())
	intruderToken := createLoginUser(t, app.DB, client, ts.URL, intruderEmail, "employee")

	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/evaluations/"+evaluationID+"/approve/employee", intruderToken,
		map[string]string{"artifact": "sig"}, http.StatusForbidden)
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/evaluations/"+evaluationID+"/reject", intruderToken,
		map[string]string{"reason": "not mine"}, http.StatusForbidden)

	// An employee token cannot reach the evaluator signature route at all.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/evaluations/"+evaluationID+"/approve/evaluator", intruderToken,
		map[string]string{"artifact": "sig"}, http.StatusForbidden)

	// The record is untouched by any of the attempts.
	data := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/evaluations/"+evaluationID, adminToken, nil, http.StatusOK)
	var payload struct {
		Evaluation evaluationView `json:"evaluation"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode evaluation response: %v", err)
	}
	if payload.Evaluation.Status != "pending" {
		t.Fatalf("expected record to stay pending, got %s", payload.Evaluation.Status)
	}

	// Once linked to the evaluated employee, the same login may sign.
	linkEmployeeToUser(t, app.DB, employeeID, intruderEmail)
	approved := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/evaluations/"+evaluationID+"/approve/employee", intruderToken,
		map[string]string{"artifact": "sig"}, http.StatusOK)
	var record evaluationView
	if err := json.Unmarshal(approved, &record); err != nil {
		t.Fatalf("decode approve response: %v", err)
	}
	if record.Status != "employee_approved" {
		t.Fatalf("expected employee_approved, got %s", record.Status)
	}
}

func createLoginUser(t *testing.T, pool *pgxpool.Pool, client *http.Client, baseURL, email, role string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	_, err = pool.Exec(context.Background(), `
    INSERT INTO users (id, email, name, role, password_hash, active)
    VALUES ($1, $2, $3, $4, $5, TRUE)
  `, uuid.NewString(), email, "Second User", role, string(hash))
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return login(t, client, baseURL, email, "Password123!")
}

func linkEmployeeToUser(t *testing.T, pool *pgxpool.Pool, employeeID, userEmail string) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
    UPDATE employees SET user_id = (SELECT id FROM users WHERE email = $1) WHERE id = $2
  `, userEmail, employeeID)
	if err != nil {
		t.Fatalf("link employee to user: %v", err)
	}
}

type evaluationView struct {
	ID      string  `json:"id"`
	Status  string  `json:"status"`
	Overall float64 `json:"overall"`
	Verdict string  `json:"verdict"`
}

func fullSheet(score int) scoring.ScoreSheet {
	sheet := scoring.ScoreSheet{}
	for _, category := range scoring.Categories {
		ratings := make([]scoring.Rating, category.Indicators)
		for i := range ratings {
			ratings[i] = scoring.Rated(score)
		}
		sheet[category.Key] = ratings
	}
	return sheet
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	data := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "",
		map[string]string{"email": email, "password": password}, http.StatusOK)
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if payload.Token == "" {
		t.Fatal("expected a token from login")
	}
	return payload.Token
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token, email string) string {
	t.Helper()
	data := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/employees/", token, map[string]any{
		"name":     "Journey Employee",
		"email":    email,
		"position": "Engineer",
		"hireDate": "2024-01-15",
	}, http.StatusCreated)
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode employee response: %v", err)
	}
	return payload.ID
}

func createDraft(t *testing.T, client *http.Client, baseURL, token, employeeID string) string {
	t.Helper()
	data := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/evaluations/", token, map[string]any{
		"employeeId":  employeeID,
		"periodStart": "2026-01-01",
		"periodEnd":   "2026-03-31",
		"scores":      fullSheet(4),
	}, http.StatusCreated)
	var record evaluationView
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("decode draft response: %v", err)
	}
	return record.ID
}

func selectType(t *testing.T, client *http.Client, baseURL, token, evaluationID, group, member, custom string) {
	t.Helper()
	doJSON(t, client, http.MethodPost, baseURL+"/api/v1/evaluations/"+evaluationID+"/select-type", token,
		map[string]string{"group": group, "member": member, "custom": custom}, http.StatusOK)
}

func submitEvaluation(t *testing.T, client *http.Client, baseURL, token, evaluationID string) evaluationView {
	t.Helper()
	data := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/evaluations/"+evaluationID+"/submit", token,
		map[string]string{}, http.StatusOK)
	var record evaluationView
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	return record
}

func approve(t *testing.T, client *http.Client, baseURL, token, evaluationID, party string) evaluationView {
	t.Helper()
	data := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/evaluations/"+evaluationID+"/approve/"+party, token,
		map[string]string{"artifact": "sig-" + party}, http.StatusOK)
	var record evaluationView
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("decode approve response: %v", err)
	}
	return record
}

func listHistory(t *testing.T, client *http.Client, baseURL, token, evaluationID string) []json.RawMessage {
	t.Helper()
	data := doJSON(t, client, http.MethodGet, baseURL+"/api/v1/evaluations/"+evaluationID+"/history", token, nil, http.StatusOK)
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("decode history response: %v", err)
	}
	return entries
}

func eligibility(t *testing.T, client *http.Client, baseURL, token, employeeID string) map[string]bool {
	t.Helper()
	data := doJSON(t, client, http.MethodGet, baseURL+"/api/v1/evaluations/eligibility?employeeId="+employeeID, token, nil, http.StatusOK)
	var payload struct {
		Quarters map[string]bool `json:"quarters"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode eligibility response: %v", err)
	}
	return payload.Quarters
}

func export(t *testing.T, client *http.Client, baseURL, token, evaluationID string) []byte {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/evaluations/"+evaluationID+"/export", nil)
	if err != nil {
		t.Fatalf("build export request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from export, got %d", resp.StatusCode)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read export body: %v", err)
	}
	return buf.Bytes()
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, wantStatus int) json.RawMessage {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s response: %v", method, url, err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s returned %d (want %d): %v", method, url, resp.StatusCode, wantStatus, env.Error)
	}
	return env.Data
}
