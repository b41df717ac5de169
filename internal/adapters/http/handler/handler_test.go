package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ogurasousui/hrsync/internal/core/cache"
	"github.com/ogurasousui/hrsync/internal/core/hrsync"
	"github.com/ogurasousui/hrsync/internal/core/kv"
	"github.com/ogurasousui/hrsync/internal/core/settings"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeReader struct {
	rows map[string][][]string
}

func (f *fakeReader) ReadRange(ctx context.Context, cfg settings.Configuration, readRange string) ([][]string, error) {
	return f.rows[readRange], nil
}

type fakeWriter struct {
	mu       sync.Mutex
	requests []hrsync.AppendRequest
}

func (f *fakeWriter) Append(ctx context.Context, proxyURL string, req hrsync.AppendRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return nil
}

type fixture struct {
	router   *gin.Engine
	settings *settings.Store
	reader   *fakeReader
	writer   *fakeWriter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	quiet := log.New(io.Discard, "", 0)
	store := kv.NewMemoryStore()
	cfgStore := settings.NewStore(store)
	reader := &fakeReader{rows: map[string][][]string{}}
	writer := &fakeWriter{}

	svc := hrsync.NewService(cfgStore, cache.New(store, nil, quiet), reader, writer, hrsync.WithLogger(quiet))
	h := NewHRSyncHTTPHandler(svc, hrsync.NewSnapshot(svc), cfgStore, settings.NewAppStore(store))
	h.now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }

	return &fixture{router: NewRouter(h, nil), settings: cfgStore, reader: reader, writer: writer}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return rec, decoded
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	rec, body := newFixture(t).do(t, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected response: %d %v", rec.Code, body)
	}
}

func TestRouter_AddEmployee_UnconfiguredIsVisibleLocally(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec, body := f.do(t, http.MethodPost, "/api/employees", `{"name":"Layla","position":"HR","baseSalary":900,"joinDate":"2024-02-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", rec.Code, body)
	}
	write := body["write"].(map[string]any)
	if write["outcome"] != string(hrsync.OutcomeUnconfigured) || write["accepted"] != false {
		t.Fatalf("unexpected write report: %v", write)
	}
	emp := body["employee"].(map[string]any)
	id, _ := emp["id"].(string)
	if !strings.HasPrefix(id, "EMP-") {
		t.Fatalf("expected generated id, got %q", id)
	}

	rec, body = f.do(t, http.MethodGet, "/api/sync", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	employees := body["employees"].([]any)
	if len(employees) != 1 {
		t.Fatalf("expected cached employee after sync, got %v", employees)
	}
	got := employees[0].(map[string]any)
	if got["id"] != id || got["syncState"] != "local_only" {
		t.Fatalf("unexpected employee: %v", got)
	}
	if len(f.writer.requests) != 0 {
		t.Fatalf("expected no proxy call while unconfigured")
	}
}

func TestRouter_AddEmployee_ValidationErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/api/employees", `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d", rec.Code)
	}

	rec, body := f.do(t, http.MethodPost, "/api/employees", `{"name":"  ","baseSalary":100}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d: %v", rec.Code, body)
	}

	rec, _ = f.do(t, http.MethodPost, "/api/employees", `{"name":"Omar","baseSalary":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative salary, got %d", rec.Code)
	}
}

func TestRouter_Settings_SaveThenLoadHidesAPIKey(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec, body := f.do(t, http.MethodPut, "/api/settings", `{"sheetId":" S1 ","apiKey":"k1","proxyUrl":"https://script.example/exec"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", rec.Code, body)
	}

	rec, body = f.do(t, http.MethodGet, "/api/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, ok := body["apiKey"]; ok {
		t.Fatalf("api key must not be returned: %v", body)
	}
	if body["sheetId"] != "S1" || body["hasApiKey"] != true || body["configured"] != true {
		t.Fatalf("unexpected settings: %v", body)
	}

	cfg, err := f.settings.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIKey != "k1" {
		t.Fatalf("expected api key to be stored, got %q", cfg.APIKey)
	}
}

func TestRouter_AddAttendance_DispatchesToProxy(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.settings.Save(context.Background(), settings.Configuration{SheetID: "S1", APIKey: "k1", ProxyURL: "https://script.example/exec"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	rec, body := f.do(t, http.MethodPost, "/api/attendance", `{"employeeId":"EMP-1","date":"2024-05-01","clockIn":"09:20","delayMinutes":20,"status":"late"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", rec.Code, body)
	}
	write := body["write"].(map[string]any)
	if write["durable"] != true {
		t.Fatalf("expected dispatched write, got %v", write)
	}

	f.writer.mu.Lock()
	defer f.writer.mu.Unlock()
	if len(f.writer.requests) != 1 || f.writer.requests[0].Range != hrsync.AttendanceAppendRange {
		t.Fatalf("unexpected proxy requests: %+v", f.writer.requests)
	}
}

func TestRouter_Summary(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.settings.Save(context.Background(), settings.Configuration{SheetID: "S1", APIKey: "k1"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	f.reader.rows[hrsync.EmployeesReadRange] = [][]string{
		{"E1", "Ali", "Dev", "1,000", "2023-01-01"},
		{"E2", "Sara", "QA", "800", "2023-03-01"},
	}
	f.reader.rows[hrsync.AttendanceReadRange] = [][]string{
		{"A1", "E1", "2024-05-01", "09:00", "17:00", "0", "PRESENT"},
		{"A2", "E2", "2024-05-01", "09:30", "17:00", "30", "LATE"},
		{"A3", "E2", "2024-04-30", "", "", "0", "ABSENT"},
	}

	rec, body := f.do(t, http.MethodGet, "/api/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", rec.Code, body)
	}
	if body["date"] != "2024-05-01" || body["totalEmployees"] != float64(2) || body["monthlyPayroll"] != float64(1800) {
		t.Fatalf("unexpected summary: %v", body)
	}
	if body["recordsOnDate"] != float64(2) || body["averageDelayMinutes"] != float64(30) {
		t.Fatalf("unexpected attendance figures: %v", body)
	}

	rec, _ = f.do(t, http.MethodGet, "/api/summary?date=2024-04-30", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec, _ = f.do(t, http.MethodGet, "/api/summary?date=30-04-2024", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", rec.Code)
	}
}

func TestRouter_AppSettings_SaveThenSummaryReportsCurrency(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/app-settings", "")
	if rec.Code != http.StatusOK || body["currency"] != "EGP" || body["accountingPeriod"] != "MONTHLY" {
		t.Fatalf("expected default app settings, got %d %v", rec.Code, body)
	}

	rec, body = f.do(t, http.MethodPut, "/api/app-settings",
		`{"companyName":"Delta","currency":"sar","workingHoursStart":"08:00","workingHoursEnd":"16:00","accountingPeriod":"WEEKLY_SAT_THU"}`)
	if rec.Code != http.StatusOK || body["currency"] != "SAR" {
		t.Fatalf("unexpected save response: %d %v", rec.Code, body)
	}

	rec, body = f.do(t, http.MethodGet, "/api/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", rec.Code, body)
	}
	if body["currency"] != "SAR" || body["companyName"] != "Delta" || body["accountingPeriod"] != "WEEKLY_SAT_THU" {
		t.Fatalf("summary must carry the saved app settings: %v", body)
	}
}

func TestRouter_AppSettings_ValidationErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	cases := map[string]string{
		"malformed json": `{"companyName":`,
		"bad hours":      `{"companyName":"Delta","currency":"EGP","workingHoursStart":"9","workingHoursEnd":"17:00","accountingPeriod":"MONTHLY"}`,
		"bad period":     `{"companyName":"Delta","currency":"EGP","workingHoursStart":"09:00","workingHoursEnd":"17:00","accountingPeriod":"DAILY"}`,
	}
	for name, body := range cases {
		rec, decoded := f.do(t, http.MethodPut, "/api/app-settings", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d: %v", name, rec.Code, decoded)
		}
	}

	_, body := f.do(t, http.MethodGet, "/api/app-settings", "")
	if body["companyName"] != settings.DefaultAppSettings().CompanyName {
		t.Fatalf("rejected settings must not be stored: %v", body)
	}
}

func TestNewRouter_WritesAccessLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewHRSyncHTTPHandler(nil, nil, nil, nil)
	r := NewRouter(h, log.New(&buf, "", 0))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "/api/health") {
		t.Fatalf("expected access log entry, got %q", buf.String())
	}
}
