package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlots(t *testing.T) {
	slots := Slots()
	require.Len(t, slots, 14)

	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "11:30", slots[5])
	assert.Equal(t, "14:00", slots[6])
	assert.Equal(t, "17:30", slots[13])

	for i := 1; i < len(slots); i++ {
		assert.Less(t, slots[i-1], slots[i], "slots must be strictly increasing")
	}

	hours := map[string]bool{"09": true, "10": true, "11": true, "14": true, "15": true, "16": true, "17": true}
	for _, s := range slots {
		require.Len(t, s, 5)
		assert.True(t, hours[s[:2]], "unexpected hour in %s", s)
		assert.Contains(t, []string{"00", "30"}, s[3:])
	}
}

func TestSlotsSkipLunchBreak(t *testing.T) {
	for _, s := range Slots() {
		assert.NotEqual(t, "12", s[:2])
		assert.NotEqual(t, "13", s[:2])
	}
}
