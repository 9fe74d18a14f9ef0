package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/sliders/internal/config"
	"github.com/idilsaglam/sliders/internal/model"
)

func testOptions(t *testing.T, backend string) (Options, *bytes.Buffer) {
	t.Helper()
	file := config.DefaultJSONFile
	if backend == config.StoreSQLite {
		file = config.DefaultSQLiteFile
	}
	var out bytes.Buffer
	return Options{
		Config: config.Config{
			Max:       decimal.NewFromInt(100),
			Min:       decimal.Zero,
			Step:      decimal.NewFromInt(1),
			Store:     backend,
			DataPath:  filepath.Join(t.TempDir(), file),
			NameLimit: 32,
		},
		Out: &out,
		Now: func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) },
	}, &out
}

func run(opt Options, args ...string) int {
	return Run(context.Background(), args, opt)
}

func snapshot(t *testing.T, opt Options, out *bytes.Buffer) []model.SnapshotEntry {
	t.Helper()
	out.Reset()
	require.Equal(t, 0, run(opt, "export"))
	var snap []model.SnapshotEntry
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	return snap
}

func TestUsageErrors(t *testing.T) {
	opt, _ := testOptions(t, config.StoreJSON)
	tests := []struct {
		name string
		args []string
	}{
		{name: "no args"},
		{name: "unknown", args: []string{"frobnicate"}},
		{name: "add without name", args: []string{"add"}},
		{name: "set arity", args: []string{"set", "1"}},
		{name: "set bad id", args: []string{"set", "x", "1"}},
		{name: "set bad value", args: []string{"set", "1", "lots"}},
		{name: "rm arity", args: []string{"rm"}},
		{name: "rename arity", args: []string{"rename", "1"}},
		{name: "import arity", args: []string{"import"}},
		{name: "report arity", args: []string{"report"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 2, run(opt, tt.args...))
		})
	}
	assert.Equal(t, 0, run(opt, "help"))
}

func TestAddSetRemoveFlow(t *testing.T) {
	for _, backend := range []string{config.StoreJSON, config.StoreSQLite} {
		t.Run(backend, func(t *testing.T) {
			opt, out := testOptions(t, backend)

			require.Equal(t, 0, run(opt, "add", "Alice"))
			require.Equal(t, 0, run(opt, "add", "Bob"))
			require.Equal(t, 0, run(opt, "set", "1", "60"))
			assert.Equal(t, 1, run(opt, "set", "2", "41"))
			require.Equal(t, 0, run(opt, "set", "2", "40"))
			assert.Equal(t, 2, run(opt, "set", "9", "1"))

			snap := snapshot(t, opt, out)
			require.Len(t, snap, 2)
			assert.True(t, snap[0].Value.Equal(decimal.NewFromInt(60)))
			assert.True(t, snap[1].Value.Equal(decimal.NewFromInt(40)))

			require.Equal(t, 0, run(opt, "rename", "2", "Robert", "Jr"))
			require.Equal(t, 0, run(opt, "rm", "1"))
			assert.Equal(t, 0, run(opt, "rm", "1"))

			snap = snapshot(t, opt, out)
			require.Len(t, snap, 1)
			assert.Equal(t, int64(2), snap[0].ID)

			out.Reset()
			require.Equal(t, 0, run(opt, "ls"))
			assert.Contains(t, out.String(), "Robert Jr")
			assert.Contains(t, out.String(), "40/100")
		})
	}
}

func TestListGrouped(t *testing.T) {
	opt, out := testOptions(t, config.StoreJSON)
	require.Equal(t, 0, run(opt, "add", "Alice"))
	require.Equal(t, 0, run(opt, "add", "Bob"))
	require.Equal(t, 0, run(opt, "set", "2", "10"))

	opt.Group = true
	out.Reset()
	require.Equal(t, 0, run(opt, "ls"))
	s := out.String()
	assert.Contains(t, s, "Allocated")
	assert.Contains(t, s, "Unallocated")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Bob")), bytes.Index(out.Bytes(), []byte("Alice")))
}

func TestCorruptStoreFails(t *testing.T) {
	opt, _ := testOptions(t, config.StoreJSON)
	require.NoError(t, os.WriteFile(opt.Config.DataPath, []byte(`[{"id":1,"name":"A","value":70},{"id":2,"name":"B","value":70}]`), 0o644))
	assert.Equal(t, 1, run(opt, "ls"))
}

func TestRemoveDeclinedByMinimum(t *testing.T) {
	opt, _ := testOptions(t, config.StoreJSON)
	require.NoError(t, os.WriteFile(opt.Config.DataPath, []byte(`[{"id":1,"name":"A","value":30},{"id":2,"name":"B","value":30}]`), 0o644))
	opt.Config.Min = decimal.NewFromInt(50)
	assert.Equal(t, 1, run(opt, "rm", "1"))
}

func TestImportAndPublish(t *testing.T) {
	var published []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `[{"id":4,"name":"Parks","value":25},{"id":7,"name":"Arts","value":50}]`)
		case http.MethodPost:
			_ = json.NewDecoder(r.Body).Decode(&published)
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer srv.Close()

	opt, out := testOptions(t, config.StoreJSON)
	opt.HTTPClient = srv.Client()

	require.Equal(t, 0, run(opt, "import", srv.URL))
	snap := snapshot(t, opt, out)
	require.Len(t, snap, 2)
	assert.Equal(t, int64(7), snap[1].ID)

	require.Equal(t, 0, run(opt, "export", srv.URL))
	require.Len(t, published, 2)
	assert.Equal(t, float64(25), published[0]["value"])
}

func TestImportRejectsInfeasibleSeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"name":"A","value":80},{"id":2,"name":"B","value":80}]`)
	}))
	defer srv.Close()

	opt, out := testOptions(t, config.StoreJSON)
	opt.HTTPClient = srv.Client()
	assert.Equal(t, 1, run(opt, "import", srv.URL))
	assert.Empty(t, snapshot(t, opt, out))
}

func TestReport(t *testing.T) {
	opt, _ := testOptions(t, config.StoreJSON)
	require.Equal(t, 0, run(opt, "add", "Alice"))
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.Equal(t, 0, run(opt, "report", path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
}

func TestNamesAreCappedAtTheLimit(t *testing.T) {
	opt, _ := testOptions(t, config.StoreJSON)
	opt.Config.NameLimit = 8

	require.Equal(t, 0, run(opt, "add", "Community", "garden"))
	require.Equal(t, 0, run(opt, "add", "Parks"))
	require.Equal(t, 0, run(opt, "rename", "2", "Public", "libraries"))

	b, err := os.ReadFile(opt.Config.DataPath)
	require.NoError(t, err)
	var stored []model.Entry
	require.NoError(t, json.Unmarshal(b, &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, "Communit", stored[0].Name)
	assert.Equal(t, "Public l", stored[1].Name)
}
