package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `# BRON: KONINKLIJK NEDERLANDS METEOROLOGISCH INSTITUUT (KNMI)
# Opmerking: door stationsverplaatsingen en veranderingen in waarneemmethodieken
# zijn deze tijdreeksen van uurwaarden mogelijk inhomogeen.
# STN,YYYYMMDD,   HH,   DD,   FH,   FF,   FX,    T
  225,20151115,   10,  210,   10,   12,   20,  105
  225,20151115,   11,  220,   20,   14,   40,  110
  225,20151115,   12,  230,   30,   16,   60,  115
`

func TestParseObservations(t *testing.T) {
	obs, err := ParseObservations(sampleFeed)
	require.NoError(t, err)

	assert.Equal(t, 3, obs.Hours())
	assert.Equal(t, []string{"10", "20", "30"}, obs.Values("FH"))
	assert.Equal(t, []string{"210", "220", "230"}, obs.Values("DD"))
	assert.Equal(t, []string{"225", "225", "225"}, obs.Values("STN"))
}

func TestParseObservations_EmptyFeed(t *testing.T) {
	tests := []struct {
		name string
		feed string
	}{
		{"empty string", ""},
		{"comments only", "# STN,YYYYMMDD\n# no data for this station\n"},
		{"blank lines only", "\n\n   \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseObservations(tt.feed)
			require.ErrorIs(t, err, ErrNoObservations)
		})
	}
}

func TestParseObservations_IncompleteVariableDropped(t *testing.T) {
	// T is blank in the first observed hour: the station does not report
	// temperature for this window, so the whole variable is discarded.
	feed := `# STN,YYYYMMDD,   HH,   DD,   FH,   FF,   FX,    T
  225,20151115,   10,  210,   10,   12,   20,
  225,20151115,   11,  220,   20,   14,   40,  110
`
	obs, err := ParseObservations(feed)
	require.NoError(t, err)

	assert.Nil(t, obs.Values("T"))
	assert.Equal(t, []string{"10", "20"}, obs.Values("FH"))

	stats := obs.Aggregate()
	_, ok := stats["T"]
	assert.False(t, ok)
}

func TestAggregate_RoundTrip(t *testing.T) {
	// FH samples [10, 20, 30] deci-m/s average to 20 deci-m/s, which is
	// 20 * 0.194384449 ≈ 3.8877 knots after conversion.
	obs, err := ParseObservations(sampleFeed)
	require.NoError(t, err)

	stats := obs.Aggregate()

	fh, ok := stats["FH"]
	require.True(t, ok)
	assert.InDelta(t, 3.8877, fh.Average, 0.0005)
	assert.Equal(t, 3, fh.Samples)

	fx, ok := stats["FX"]
	require.True(t, ok)
	assert.InDelta(t, 7.7754, fx.Average, 0.0005)
	assert.InDelta(t, 11.6631, fx.Max, 0.0005, "strongest gust is the FX maximum")

	dd, ok := stats["DD"]
	require.True(t, ok)
	assert.InDelta(t, 220.0, dd.Average, 0.0001, "wind direction passes through unconverted")

	temp, ok := stats["T"]
	require.True(t, ok)
	assert.InDelta(t, 11.0, temp.Average, 0.0001, "tenths of a degree divide by 10")
}

func TestAggregate_ExcludesKeyColumns(t *testing.T) {
	obs, err := ParseObservations(sampleFeed)
	require.NoError(t, err)

	stats := obs.Aggregate()
	for _, key := range []string{"STN", "YYYYMMDD", "HH"} {
		_, ok := stats[key]
		assert.False(t, ok, "%s should not be aggregated", key)
	}
}

func TestAggregate_SkipsNonNumericSamples(t *testing.T) {
	feed := `# STN,YYYYMMDD,   HH,   DD,   FH
  225,20151115,   10,  210,   10
  225,20151115,   11,  220,    x
  225,20151115,   12,  230,   30
`
	obs, err := ParseObservations(feed)
	require.NoError(t, err)

	stats := obs.Aggregate()
	fh := stats["FH"]
	assert.Equal(t, 2, fh.Samples)
	assert.InDelta(t, DeciMSToKnots(20), fh.Average, 0.0001)
}
