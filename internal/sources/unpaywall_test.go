package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnpaywall_FindPDF_BestLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "oa@example.org", r.URL.Query().Get("email"))
		_, _ = w.Write([]byte(`{
			"best_oa_location": {"url_for_pdf": "https://repo.example/best.pdf", "host_type": "repository"},
			"oa_locations": [{"url_for_pdf": "https://repo.example/other.pdf", "host_type": "publisher"}]
		}`))
	}))
	defer srv.Close()

	old := unpaywallAPIBase
	unpaywallAPIBase = srv.URL + "/v2/"
	defer func() { unpaywallAPIBase = old }()

	s := &Unpaywall{Client: NewClient(srv.Client(), Config{UnpaywallEmail: "oa@example.org"})}
	got, err := s.FindPDF(context.Background(), "10.1234/abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "https://repo.example/best.pdf", got.URL)
	require.Equal(t, "repository", got.HostType)
	require.Equal(t, "Unpaywall", got.Source)
}

func TestUnpaywall_FindPDF_FallsBackToLocationList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"best_oa_location": {"url_for_pdf": "", "host_type": "publisher"},
			"oa_locations": [
				{"url_for_pdf": "", "host_type": "publisher"},
				{"url_for_pdf": "https://repo.example/found.pdf", "host_type": "repository"}
			]
		}`))
	}))
	defer srv.Close()

	old := unpaywallAPIBase
	unpaywallAPIBase = srv.URL + "/v2/"
	defer func() { unpaywallAPIBase = old }()

	s := &Unpaywall{Client: NewClient(srv.Client(), Config{UnpaywallEmail: "oa@example.org"})}
	got, err := s.FindPDF(context.Background(), "10.1234/abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "https://repo.example/found.pdf", got.URL)
}

func TestUnpaywall_SkipsWithoutEmail(t *testing.T) {
	t.Parallel()

	s := &Unpaywall{Client: NewClient(http.DefaultClient, Config{})}
	got, err := s.FindPDF(context.Background(), "10.1234/abc")
	require.NoError(t, err)
	require.Nil(t, got)
}
