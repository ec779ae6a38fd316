package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMergeTags(t *testing.T) {
	got := MergeTags([]string{"beach", "sea"}, []string{"sea", " sunset ", ""}, nil, []string{"beach"})
	assert.Equal(t, []string{"beach", "sea", "sunset"}, got)

	assert.NotNil(t, MergeTags())
	assert.Empty(t, MergeTags(nil, []string{"  "}))
}

func TestMergeTags_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tag := rapid.SampledFrom([]string{"beach", "sea", "dog", "mountain", "car", " sea", ""})
		lists := rapid.SliceOfN(rapid.SliceOfN(tag, 0, 6), 0, 4).Draw(t, "lists")

		got := MergeTags(lists...)

		seen := map[string]bool{}
		for _, g := range got {
			if seen[g] {
				t.Fatalf("duplicate tag %q in %v", g, got)
			}
			if g == "" {
				t.Fatalf("blank tag in %v", got)
			}
			seen[g] = true
		}

		// every non-blank input is represented, and first-seen order holds
		var order []string
		firstSeen := map[string]bool{}
		for _, l := range lists {
			for _, in := range l {
				n := trimmed(in)
				if n == "" || firstSeen[n] {
					continue
				}
				firstSeen[n] = true
				order = append(order, n)
			}
		}
		if len(order) == 0 {
			order = []string{}
		}
		if len(order) != len(got) {
			t.Fatalf("got %v, want %v", got, order)
		}
		for i := range order {
			if order[i] != got[i] {
				t.Fatalf("got %v, want %v", got, order)
			}
		}

		// merging the result again is a no-op
		again := MergeTags(got, got)
		if len(again) != len(got) {
			t.Fatalf("merge not idempotent: %v vs %v", again, got)
		}
	})
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func TestLocation(t *testing.T) {
	s := FormatLocation(48.8566, 2.3522)
	assert.Equal(t, "48.8566,2.3522", s)

	lat, lon, ok := ParseLocation(s)
	require.True(t, ok)
	assert.InDelta(t, 48.8566, lat, 1e-9)
	assert.InDelta(t, 2.3522, lon, 1e-9)

	for _, bad := range []string{UnknownLocation, "", "91,0", "0,181", "a,b", "12.5", "NaN,NaN", "10,NaN", "nan,0"} {
		_, _, ok := ParseLocation(bad)
		assert.False(t, ok, bad)
	}

	assert.Equal(t, UnknownLocation, NormalizeLocation("nowhere"))
	assert.Equal(t, "-33.8688,151.2093", NormalizeLocation(" -33.8688 , 151.2093"))
	assert.Equal(t, UnknownLocation, NormalizeLocation("NaN,NaN"))
}

func TestDistanceKm(t *testing.T) {
	// Paris to London
	assert.InDelta(t, 343.5, DistanceKm(48.8566, 2.3522, 51.5074, -0.1278), 1.0)
	assert.Zero(t, DistanceKm(10, 20, 10, 20))
	assert.InDelta(t, DistanceKm(0, 0, 0, 90), DistanceKm(0, 90, 0, 0), 1e-9)
}

func TestEncodeDecodeStrings(t *testing.T) {
	s, err := EncodeStrings(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	s, err = EncodeStrings([]string{"file:///a.jpg", "s3://b/c.jpg"})
	require.NoError(t, err)
	assert.Equal(t, `["file:///a.jpg","s3://b/c.jpg"]`, s)

	list, err := DecodeStrings(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"file:///a.jpg", "s3://b/c.jpg"}, list)

	list, err = DecodeStrings("")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = DecodeStrings("null")
	require.NoError(t, err)
	assert.NotNil(t, list)

	_, err = DecodeStrings("not json")
	require.Error(t, err)
}

func TestParseTime(t *testing.T) {
	ts := time.Date(2024, 6, 1, 10, 30, 0, 123, time.FixedZone("CET", 3600))
	got, err := ParseTime(FormatTime(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
	assert.Equal(t, time.UTC, got.Location())

	assert.Equal(t, "2024-06-01T09:30:00.000000123Z", FormatTime(ts))
	assert.Less(t, FormatTime(ts), FormatTime(ts.Add(time.Second)))

	_, err = ParseTime("yesterday")
	require.Error(t, err)
}

func TestToWire(t *testing.T) {
	e := &JournalEntry{
		ID:        "e1",
		Title:     "Lisbon",
		Photos:    []string{"a.jpg"},
		Tags:      []string{"tram", "hill"},
		Location:  "38.7223,-9.1393",
		Date:      time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		IsOffline: true,
	}

	w, err := ToWire(e)
	require.NoError(t, err)

	b, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id":"e1","title":"Lisbon","description":"",
		"photos":"[\"a.jpg\"]","tags":"[\"tram\",\"hill\"]",
		"date":"2024-05-02T00:00:00.000000000Z","location":"38.7223,-9.1393",
		"isOffline":true,"createdAt":""
	}`, string(b))
}

func TestEntryHelpers(t *testing.T) {
	e := &JournalEntry{Photos: []string{"a"}}
	assert.True(t, e.NeedsEnrichment())

	c := e.Clone()
	c.Photos[0] = "b"
	assert.Equal(t, "a", e.Photos[0])

	e.Tags = []string{"x"}
	assert.False(t, e.NeedsEnrichment())

	p := SyncedPatch([]string{"x", "x", "y"})
	require.NotNil(t, p.IsOffline)
	assert.False(t, *p.IsOffline)
	assert.Equal(t, []string{"x", "y"}, *p.Tags)
	assert.False(t, p.IsEmpty())
	assert.True(t, EntryPatch{}.IsEmpty())
}
