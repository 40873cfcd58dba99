package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil input", in: nil, want: []string{}},
		{name: "lowercases and trims", in: []string{" Manga ", "REREAD"}, want: []string{"manga", "reread"}},
		{name: "collapses duplicates", in: []string{"go", "Go", " go"}, want: []string{"go"}},
		{name: "sorts regardless of input order", in: []string{"zeta", "alpha", "mid"}, want: []string{"alpha", "mid", "zeta"}},
		{name: "drops empty names", in: []string{"", "  ", "x"}, want: []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "fiction", NormalizeName(" Fiction "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestEntryFilterPage(t *testing.T) {
	ptr := func(n int) *int { return &n }

	tests := []struct {
		name       string
		filter     EntryFilter
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", filter: EntryFilter{}, wantLimit: 50, wantOffset: 0},
		{name: "zero limit clamps to one", filter: EntryFilter{Limit: ptr(0)}, wantLimit: 1},
		{name: "large limit clamps to max", filter: EntryFilter{Limit: ptr(1000)}, wantLimit: 200},
		{name: "negative offset clamps to zero", filter: EntryFilter{Offset: ptr(-5)}, wantLimit: 50},
		{name: "values inside range kept", filter: EntryFilter{Limit: ptr(10), Offset: ptr(20)}, wantLimit: 10, wantOffset: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := tt.filter.Page()
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestTimestampScan(t *testing.T) {
	want := time.Date(2024, 3, 9, 10, 11, 12, 345_000_000, time.UTC)

	tests := []struct {
		name string
		src  any
	}{
		{name: "sqlite strftime text", src: "2024-03-09T10:11:12.345Z"},
		{name: "bytes", src: []byte("2024-03-09T10:11:12.345Z")},
		{name: "postgres text", src: "2024-03-09 10:11:12.345+00"},
		{name: "native time", src: want.In(time.FixedZone("CET", 3600))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, ts.Scan(tt.src))
			assert.True(t, ts.Equal(want), "got %v", ts.Time)
		})
	}
}

func TestTimestampScan_Rejects(t *testing.T) {
	var ts Timestamp
	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(42))
}

func TestEntryJSONShape(t *testing.T) {
	e := Entry{ID: "e1", Title: "Read Pluto", Tags: []string{}}
	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, []any{}, decoded["tags"])
	assert.Nil(t, decoded["url"])
	assert.Contains(t, decoded, "created_at")
}

func TestTelegramSource(t *testing.T) {
	assert.Equal(t, "telegram:-100123", TelegramSource(-100123))
}
