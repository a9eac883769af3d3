package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDOI_StripsPrefixes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"10.1038/s41586-020-2649-2", "10.1038/s41586-020-2649-2"},
		{"  10.1038/s41586-020-2649-2  ", "10.1038/s41586-020-2649-2"},
		{"https://doi.org/10.1038/s41586-020-2649-2", "10.1038/s41586-020-2649-2"},
		{"http://dx.doi.org/10.1101/2020.03.01", "10.1101/2020.03.01"},
		{"doi:10.1101/2020.03.01", "10.1101/2020.03.01"},
		{"DOI:10.1101/2020.03.01", "10.1101/2020.03.01"},
		{"https://doi.org/doi:10.48550/arXiv.2101.00001", "10.48550/arXiv.2101.00001"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, NormalizeDOI(tc.raw), "input %q", tc.raw)
	}
}

func TestIsDOI(t *testing.T) {
	t.Parallel()

	require.True(t, IsDOI("10.1038/s41586-020-2649-2"))
	require.True(t, IsDOI("10.48550/arXiv.2101.00001"))
	require.False(t, IsDOI(""))
	require.False(t, IsDOI("not a doi"))
	require.False(t, IsDOI("11.1038/s41586"))
	require.False(t, IsDOI("10.1038/"))
	require.False(t, IsDOI("10.1038/has space"))
}
