package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gondgesagar/Web-scrapper-alert/config"
	"github.com/gondgesagar/Web-scrapper-alert/utils"
)

func htmlSource(name, url string) config.SourceConfig {
	return config.SourceConfig{
		Name:   name,
		Type:   config.SourceTypeHTML,
		Cities: []config.CityPage{{Name: "pune", URL: url}},
	}
}

func fetchConfig() *config.Config {
	return &config.Config{
		HTTPTimeoutSec: 5,
		MaxConcurrency: 1,
		MaxRetries:     0,
	}
}

func TestFetchAllKeepsZeroRecordSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><p>No auctions scheduled today.</p></body></html>"))
	}))
	defer srv.Close()

	sources := []config.SourceConfig{htmlSource("eauction", srv.URL)}
	batches, err := fetchAll(context.Background(), fetchConfig(), sources, utils.NewLogger())
	require.NoError(t, err, "a reachable page listing nothing is not a fetch failure")
	require.Len(t, batches, 1, "empty batches still reach the pipeline so the state refreshes")
	assert.Equal(t, "eauction", batches[0].Name)
	assert.Empty(t, batches[0].Payloads)
}

func TestFetchAllAllSourcesErrored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sources := []config.SourceConfig{htmlSource("eauction", srv.URL)}
	batches, err := fetchAll(context.Background(), fetchConfig(), sources, utils.NewLogger())
	assert.Error(t, err, "total inability to fetch must surface as an error")
	assert.Empty(t, batches)
}

func TestFetchAllPartialFailureProceeds(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<div class="card"><h3>Corner Plot</h3><a href="/p/1">v</a></div>`))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	sources := []config.SourceConfig{
		htmlSource("good", good.URL),
		htmlSource("bad", bad.URL),
	}
	batches, err := fetchAll(context.Background(), fetchConfig(), sources, utils.NewLogger())
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "good", batches[0].Name)
	assert.Len(t, batches[0].Payloads, 1)
}

func TestFetchAllNoUsableSources(t *testing.T) {
	sources := []config.SourceConfig{{Name: "odd", Type: "ftp"}}
	_, err := fetchAll(context.Background(), fetchConfig(), sources, utils.NewLogger())
	assert.Error(t, err)
}
