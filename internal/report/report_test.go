package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/sliders/internal/allocation"
	"github.com/idilsaglam/sliders/internal/model"
)

func TestWritePDF(t *testing.T) {
	set, err := allocation.New(allocation.DefaultConfig(), []model.Entry{
		{ID: 1, Name: "Food bank", Value: decimal.NewFromInt(60)},
		{ID: 2, Name: "A rather long organisation name that needs cutting", Value: decimal.NewFromInt(25)},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, "Donations", set, time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestWritePDFEmptySet(t *testing.T) {
	set, err := allocation.New(allocation.DefaultConfig(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, "Empty", set, time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestShare(t *testing.T) {
	assert.Equal(t, 0.5, share(decimal.NewFromInt(50), decimal.NewFromInt(100)))
	assert.Equal(t, 1.0, share(decimal.NewFromInt(150), decimal.NewFromInt(100)))
	assert.Equal(t, 0.0, share(decimal.NewFromInt(5), decimal.Zero))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}
