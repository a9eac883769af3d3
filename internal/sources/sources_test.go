package sources

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlexStrings(t *testing.T) {
	t.Parallel()

	var single struct {
		Creator flexStrings `json:"creator"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"creator": "Ada Lovelace"}`), &single))
	require.Equal(t, flexStrings{"Ada Lovelace"}, single.Creator)

	var list struct {
		Creator flexStrings `json:"creator"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"creator": ["Ada", "Grace"]}`), &list))
	require.Equal(t, flexStrings{"Ada", "Grace"}, list.Creator)

	var bad struct {
		Creator flexStrings `json:"creator"`
	}
	require.Error(t, json.Unmarshal([]byte(`{"creator": 42}`), &bad))
}

func TestAtoiSafe(t *testing.T) {
	t.Parallel()

	require.Equal(t, 2021, atoiSafe("2021"))
	require.Equal(t, 2021, atoiSafe(" 2021 "))
	require.Equal(t, 0, atoiSafe("n/a"))
	require.Equal(t, 0, atoiSafe(""))
}

func TestDefaultRegistry_Coverage(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry(NewClient(nil, Config{}))
	require.NotEmpty(t, reg.PDF)
	require.NotEmpty(t, reg.Metadata)

	names := make(map[string]struct{})
	for _, s := range reg.PDF {
		names[s.Name()] = struct{}{}
	}
	require.Contains(t, names, "arxiv")
	require.Contains(t, names, "unpaywall")
	require.Contains(t, names, "doi_resolver")

	// The registrar catch-all must stay last: it answers for nearly
	// every DOI, so anything after it would never win.
	require.Equal(t, "doi_resolver", reg.PDF[len(reg.PDF)-1].Name())
}
