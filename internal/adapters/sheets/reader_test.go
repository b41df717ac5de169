package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"

	"github.com/ogurasousui/hrsync/internal/core/settings"
)

func TestReader_ReadRange_ReturnsCellsAsStrings(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Employees!A2:E","majorDimension":"ROWS","values":[["E1","Ali","Dev",1000,"2024-01-01"],["E2","Sara"]]}`))
	}))
	t.Cleanup(srv.Close)

	reader := NewReader(srv.URL+"/", 0)
	rows, err := reader.ReadRange(context.Background(), settings.Configuration{SheetID: "S1", APIKey: "k1"}, "Employees!A2:E")
	if err != nil {
		t.Fatalf("ReadRange returned error: %v", err)
	}

	if !strings.Contains(gotPath, "/v4/spreadsheets/S1/values/Employees!A2:E") {
		t.Fatalf("unexpected request path: %s", gotPath)
	}
	if gotKey != "k1" {
		t.Fatalf("expected api key k1, got %q", gotKey)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if got := strings.Join(rows[0], "|"); got != "E1|Ali|Dev|1000|2024-01-01" {
		t.Fatalf("unexpected first row: %s", got)
	}
	if len(rows[1]) != 2 || rows[1][1] != "Sara" {
		t.Fatalf("unexpected second row: %#v", rows[1])
	}
}

func TestReader_ReadRange_NoValues(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Attendance!A2:H","majorDimension":"ROWS"}`))
	}))
	t.Cleanup(srv.Close)

	rows, err := NewReader(srv.URL+"/", 0).ReadRange(context.Background(), settings.Configuration{SheetID: "S1", APIKey: "k1"}, "Attendance!A2:H")
	if err != nil {
		t.Fatalf("ReadRange returned error: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil rows, got %#v", rows)
	}
}

func TestReader_ReadRange_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid"}}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewReader(srv.URL+"/", 0).ReadRange(context.Background(), settings.Configuration{SheetID: "S1", APIKey: "bad"}, "Employees!A2:E")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusForbidden {
		t.Fatalf("expected googleapi 403 error, got %v", err)
	}
}

func TestReader_ReadRange_MissingSheetID(t *testing.T) {
	t.Parallel()

	_, err := NewReader("", 0).ReadRange(context.Background(), settings.Configuration{APIKey: "k1"}, "Employees!A2:E")
	if !errors.Is(err, ErrMissingSheetID) {
		t.Fatalf("expected ErrMissingSheetID, got %v", err)
	}
}
