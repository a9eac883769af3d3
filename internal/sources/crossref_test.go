package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paperhound/paperhound/internal/resolver"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(srv.Client(), Config{})
}

func TestCrossref_FetchMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/works/10.1234%2Fabc", r.URL.EscapedPath())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"message": {
				"title": ["A Study of Things"],
				"container-title": ["Nature", "Nature (alt)"],
				"author": [
					{"given": "Ada", "family": "Lovelace", "affiliation": [{"name": "Analytical Engines Ltd"}]},
					{"given": "", "family": "Turing", "affiliation": []},
					{"given": "", "family": ""}
				],
				"created": {"date-parts": [[2021, 3, 14]]}
			}
		}`))
	}))
	defer srv.Close()

	old := crossrefAPIBase
	crossrefAPIBase = srv.URL + "/works/"
	defer func() { crossrefAPIBase = old }()

	s := &Crossref{Client: newTestClient(srv)}
	got, err := s.FetchMetadata(context.Background(), "10.1234/abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "A Study of Things", got.Meta.Title)
	require.Equal(t, "Nature", got.Meta.Journal)
	require.Equal(t, 2021, got.Meta.Year)
	require.Equal(t, []resolver.Author{
		{Name: "Ada Lovelace", Affiliation: "Analytical Engines Ltd"},
		{Name: "Turing"},
	}, got.Meta.Authors)
}

func TestCrossref_FetchMetadata_EmptyRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message": {}}`))
	}))
	defer srv.Close()

	old := crossrefAPIBase
	crossrefAPIBase = srv.URL + "/works/"
	defer func() { crossrefAPIBase = old }()

	s := &Crossref{Client: newTestClient(srv)}
	got, err := s.FetchMetadata(context.Background(), "10.1234/abc")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCrossref_FetchMetadata_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	old := crossrefAPIBase
	crossrefAPIBase = srv.URL + "/works/"
	defer func() { crossrefAPIBase = old }()

	s := &Crossref{Client: newTestClient(srv)}
	_, err := s.FetchMetadata(context.Background(), "10.1234/abc")
	require.Error(t, err)
}

func TestCrossrefEvents_NeverContributes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message": {"events": [{"id": "evt-1"}]}}`))
	}))
	defer srv.Close()

	old := crossrefEventAPIBase
	crossrefEventAPIBase = srv.URL + "/v1/events"
	defer func() { crossrefEventAPIBase = old }()

	s := &CrossrefEvents{Client: newTestClient(srv)}
	got, err := s.FetchMetadata(context.Background(), "10.1234/abc")
	require.NoError(t, err)
	require.Nil(t, got)
}
