package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryJSONUsesBareNumbers(t *testing.T) {
	b, err := json.Marshal(Entry{ID: 3, Name: "Red Cross", Value: decimal.RequireFromString("12.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"name":"Red Cross","value":12.5}`, string(b))
}

func TestEntryUnmarshalRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "complete", in: `{"id":1,"name":"A","value":40}`},
		{name: "quoted value", in: `{"id":1,"name":"A","value":"40"}`},
		{name: "missing id", in: `{"name":"A","value":40}`, wantErr: true},
		{name: "missing name", in: `{"id":1,"value":40}`, wantErr: true},
		{name: "missing value", in: `{"id":1,"name":"A"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Entry
			err := json.Unmarshal([]byte(tt.in), &e)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), e.ID)
			assert.True(t, e.Value.Equal(decimal.NewFromInt(40)))
		})
	}
}

func TestSnapshotShape(t *testing.T) {
	entries := []Entry{
		{ID: 1, Name: "A", Value: decimal.NewFromInt(40)},
		{ID: 2, Name: "B", Value: decimal.NewFromInt(30)},
	}
	b, err := json.Marshal(Snapshot(entries))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"value":40},{"id":2,"value":30}]`, string(b))

	var back []SnapshotEntry
	require.NoError(t, json.Unmarshal(b, &back))
	merged, err := MergeNames(back, map[int64]string{1: "A", 2: "B"})
	require.NoError(t, err)
	if diff := cmp.Diff(entries, merged, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeNamesRequiresEveryName(t *testing.T) {
	_, err := MergeNames([]SnapshotEntry{{ID: 9, Value: decimal.Zero}}, map[int64]string{})
	require.ErrorIs(t, err, ErrMalformed)
}
