package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/cinematch/internal/catalog"
	"github.com/mmcdole/cinematch/internal/log"
	"github.com/mmcdole/cinematch/internal/request"
	"github.com/mmcdole/cinematch/internal/service"
	"github.com/mmcdole/cinematch/internal/tui"
)

func testServices(t *testing.T, h http.HandlerFunc) tui.Services {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	logger := log.NullLogger()
	reqClient := request.NewClient(request.Config{
		BaseURL:    srv.URL,
		MaxRetries: request.Retries(0),
	}, logger)
	client := catalog.NewClient(reqClient, logger)
	return tui.Services{Catalog: service.NewCatalogService(client, nil, logger)}
}

func TestRunPrintPosters(t *testing.T) {
	var gotLimit string
	svc := testServices(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sample_posters" {
			http.NotFound(w, r)
			return
		}
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"posters":["https://img/a.jpg","https://img/b.jpg"]}`))
	})

	var out bytes.Buffer
	if err := runPrint(flags{posters: true}, svc, &out); err != nil {
		t.Fatalf("runPrint: %v", err)
	}
	if want := "https://img/a.jpg\nhttps://img/b.jpg\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if gotLimit != "120" {
		t.Errorf("limit = %q, want 120", gotLimit)
	}
}

func TestPostersFlagSelectsPrintMode(t *testing.T) {
	if (flags{}).printMode() {
		t.Error("empty flags should not select print mode")
	}
	if !(flags{posters: true}).printMode() {
		t.Error("-posters should select print mode")
	}
}
