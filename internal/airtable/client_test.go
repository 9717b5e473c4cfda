package airtable

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*httpClient, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &httpClient{
		baseURL: srv.URL,
		apiKey:  "test-key",
		baseID:  "appTEST",
		hc:      &http.Client{Timeout: 5 * time.Second},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, srv
}

func TestFindOne(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		var gotFormula, gotAuth string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotFormula = r.URL.Query().Get("filterByFormula")
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"records": []map[string]any{
					{"id": "rec1", "fields": map[string]any{"Code": "AETH-1234", "Name": "Ada"}},
				},
			})
		})

		rec, err := client.FindOne(context.Background(), "Members", EqualsFold("Code", "aeth-1234"))
		if err != nil {
			t.Fatalf("FindOne() error = %v", err)
		}
		if rec == nil || rec.ID != "rec1" {
			t.Fatalf("FindOne() record = %+v, expected rec1", rec)
		}
		if StringField(rec, "Name") != "Ada" {
			t.Errorf("Name field = %q, expected Ada", StringField(rec, "Name"))
		}
		if gotFormula != `UPPER({Code}) = "AETH-1234"` {
			t.Errorf("filterByFormula = %q", gotFormula)
		}
		if gotAuth != "Bearer test-key" {
			t.Errorf("Authorization = %q", gotAuth)
		}
	})

	t.Run("not found is nil nil", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"records": []map[string]any{}})
		})

		rec, err := client.FindOne(context.Background(), "Members", "")
		if err != nil {
			t.Fatalf("FindOne() error = %v", err)
		}
		if rec != nil {
			t.Errorf("FindOne() = %+v, expected nil", rec)
		}
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"INVALID_API_KEY"}`, http.StatusUnauthorized)
		})

		if _, err := client.FindOne(context.Background(), "Members", ""); err == nil {
			t.Fatal("FindOne() expected error on 401")
		}
	})
}

func TestFindAllPaginationAndSort(t *testing.T) {
	t.Parallel()

	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if got := r.URL.Query().Get("sort[0][field]"); got != "Date" {
			t.Errorf("sort field = %q, expected Date", got)
		}
		if got := r.URL.Query().Get("sort[0][direction]"); got != "asc" {
			t.Errorf("sort direction = %q, expected asc", got)
		}

		if r.URL.Query().Get("offset") == "" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"records": []map[string]any{{"id": "rec1", "fields": map[string]any{}}},
				"offset":  "page2",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"records": []map[string]any{{"id": "rec2", "fields": map[string]any{}}},
		})
	})

	records, err := client.FindAll(context.Background(), "Events", "", &Sort{Field: "Date"})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(records) != 2 || records[0].ID != "rec1" || records[1].ID != "rec2" {
		t.Fatalf("FindAll() = %+v, expected rec1 then rec2", records)
	}
	if calls != 2 {
		t.Errorf("request count = %d, expected 2", calls)
	}
}

func TestCreateAndUpdate(t *testing.T) {
	t.Parallel()

	t.Run("create posts fields", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, expected POST", r.Method)
			}
			var body map[string]map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["fields"]["Title"] != "Summer Meetup" {
				t.Errorf("Title = %v", body["fields"]["Title"])
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "recNew", "fields": body["fields"]})
		})

		rec, err := client.Create(context.Background(), "Events", map[string]any{"Title": "Summer Meetup"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if rec.ID != "recNew" {
			t.Errorf("Create() id = %q, expected recNew", rec.ID)
		}
	})

	t.Run("update patches record", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch {
				t.Errorf("method = %s, expected PATCH", r.Method)
			}
			if r.URL.Path != "/appTEST/Events/rec9" {
				t.Errorf("path = %s", r.URL.Path)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "rec9", "fields": map[string]any{"Published": false}})
		})

		rec, err := client.Update(context.Background(), "Events", "rec9", map[string]any{"Published": false})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if BoolField(rec, "Published") {
			t.Error("Published = true, expected false")
		}
	})

	t.Run("update requires record id", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		if _, err := client.Update(context.Background(), "Events", "", nil); err == nil {
			t.Fatal("Update() expected error for empty record id")
		}
	})
}
