package loyalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bizErrors "steamsbury/pkg/errors"
)

func defaultTable() TierTable {
	return TierTable{
		{ID: "Bronze", MinPoints: 0},
		{ID: "Silver", MinPoints: 1000},
		{ID: "Gold", MinPoints: 5000},
		{ID: "Platinum", MinPoints: 15000},
	}
}

func TestParseTierTable(t *testing.T) {
	table, err := ParseTierTable([]string{"Bronze:0", "Silver:1000", "Gold:5000", "Platinum:15000"})
	require.NoError(t, err)
	assert.Equal(t, defaultTable(), table)

	cases := []struct {
		name    string
		entries []string
	}{
		{"empty", nil},
		{"missing threshold", []string{"Bronze"}},
		{"non numeric", []string{"Bronze:abc"}},
		{"first not zero", []string{"Bronze:100", "Silver:1000"}},
		{"not increasing", []string{"Bronze:0", "Silver:1000", "Gold:1000"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTierTable(tc.entries)
			assert.ErrorIs(t, err, bizErrors.TierTableInvalid)
		})
	}
}

func TestResolve(t *testing.T) {
	table := defaultTable()

	cases := []struct {
		name         string
		points       int64
		wantTier     string
		wantNext     string
		wantFraction float64
		wantToNext   int64
	}{
		{"zero points", 0, "Bronze", "Silver", 0, 1000},
		{"mid bronze", 500, "Bronze", "Silver", 0.5, 500},
		{"exact threshold", 1000, "Silver", "Gold", 0, 4000},
		{"just below gold", 4999, "Silver", "Gold", 0.99975, 1},
		{"maxed", 15000, "Platinum", "", 1, 0},
		{"beyond max", 99999, "Platinum", "", 1, 0},
		{"negative treated as zero", -42, "Bronze", "Silver", 0, 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, err := table.Resolve(tc.points)
			require.NoError(t, err)
			assert.Equal(t, tc.wantTier, status.Current.ID)
			if tc.wantNext == "" {
				assert.Nil(t, status.Next)
			} else {
				require.NotNil(t, status.Next)
				assert.Equal(t, tc.wantNext, status.Next.ID)
			}
			assert.InDelta(t, tc.wantFraction, status.ProgressFraction, 1e-9)
			assert.Equal(t, tc.wantToNext, status.PointsToNext)
		})
	}
}

// 当前等级门槛必须不超过积分，进度必须落在 [0,1]
func TestResolveInvariants(t *testing.T) {
	table := defaultTable()
	for points := int64(-100); points <= 20000; points += 37 {
		status, err := table.Resolve(points)
		require.NoError(t, err)

		effective := points
		if effective < 0 {
			effective = 0
		}
		assert.LessOrEqual(t, status.Current.MinPoints, effective)
		assert.GreaterOrEqual(t, status.ProgressFraction, 0.0)
		assert.LessOrEqual(t, status.ProgressFraction, 1.0)
	}
}

func TestResolveMalformedTable(t *testing.T) {
	bad := TierTable{{ID: "Silver", MinPoints: 1000}}
	_, err := bad.Resolve(100)
	assert.ErrorIs(t, err, bizErrors.TierTableInvalid)
}
