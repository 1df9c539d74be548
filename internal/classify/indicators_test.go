package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicatorSetCountsEachOnce(t *testing.T) {
	set, err := NewIndicatorSet([]Indicator{
		{Name: "otp", Regex: `\botp\b`},
		{Name: "do not share", Regex: `do\s+not\s+share`},
	})
	require.NoError(t, err)

	// "otp" appears three times but contributes one count.
	assert.Equal(t, 2, set.Count("otp otp otp, do not share"))
	assert.Equal(t, 1, set.Count("OTP only"))
	assert.Equal(t, 0, set.Count("nothing relevant"))
}

func TestIndicatorSetMatchesInDefinitionOrder(t *testing.T) {
	set, err := NewIndicatorSet([]Indicator{
		{Name: "first", Regex: `aaa`},
		{Name: "second", Regex: `bbb`},
		{Name: "third", Regex: `ccc`},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "third"}, set.Matches("ccc then aaa"))
}

func TestExclusionFilter(t *testing.T) {
	filter, err := NewExclusionFilter([]string{
		`no[-\s]?cost\s+emi`,
		`promo\s+code`,
	})
	require.NoError(t, err)

	assert.True(t, filter.Excluded("No Cost EMI available!"))
	assert.True(t, filter.Excluded("use promo code SAVE20"))
	assert.False(t, filter.Excluded("your EMI is due"))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-5))
	assert.Equal(t, 0, clampScore(0))
	assert.Equal(t, 55, clampScore(55))
	assert.Equal(t, 100, clampScore(120))
}

func TestCappedIndicatorScore(t *testing.T) {
	assert.Equal(t, 30, cappedIndicatorScore(2, 15, 45))
	assert.Equal(t, 45, cappedIndicatorScore(4, 15, 45))
	assert.Equal(t, 0, cappedIndicatorScore(0, 15, 45))
}
