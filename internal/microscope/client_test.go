package microscope

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fakeScope struct {
	moves [][2]float64
	areas string
}

func (f *fakeScope) router() http.Handler {
	r := chi.NewRouter()
	r.Post(moveToPath, func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if req.XMM < 5 && req.YMM < 5 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"detail": "target overlaps forbidden area clip"}`))
			return
		}
		f.moves = append(f.moves, [2]float64{req.XMM, req.YMM})
		w.Write([]byte(`{"ok": true}`))
	})
	r.Get(forbiddenAreasPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(f.areas))
	})
	return r
}

func setup(t *testing.T, f *fakeScope) *Client {
	t.Helper()
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/"})
}

func TestMoveObjectiveTo(t *testing.T) {
	f := &fakeScope{}
	c := setup(t, f)
	if err := c.MoveObjectiveTo(context.Background(), 50, 30.5); err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(f.moves) != 1 || f.moves[0] != [2]float64{50, 30.5} {
		t.Fatalf("server saw %v", f.moves)
	}
	err := c.MoveObjectiveTo(context.Background(), 1, 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Detail != "target overlaps forbidden area clip" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestFetchForbiddenAreas(t *testing.T) {
	f := &fakeScope{areas: `[
  {"name": "clip", "min_x_mm": 0, "max_x_mm": 10, "min_y_mm": 0, "max_y_mm": 5},
  {"name": "no bounds"},
  {"name": "edge", "min_x_mm": 120, "max_x_mm": 127, "min_y_mm": 80, "max_y_mm": 85}
]`}
	c := setup(t, f)
	areas, err := c.FetchForbiddenAreas(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(areas) != 2 || areas[1].Name != "edge" || areas[1].MaxXMM != 127 {
		t.Fatalf("areas = %+v", areas)
	}
}

func TestErrors(t *testing.T) {
	if err := NewClient(Config{}).MoveObjectiveTo(context.Background(), 1, 2); !errors.Is(err, ErrNoServer) {
		t.Errorf("expected ErrNoServer, got %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "stage offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	_, err := NewClient(Config{BaseURL: srv.URL}).FetchForbiddenAreas(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "stage offline" {
		t.Fatalf("got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewClient(Config{BaseURL: srv.URL}).MoveObjectiveTo(ctx, 1, 1); err == nil {
		t.Error("cancelled context should fail")
	}
}
