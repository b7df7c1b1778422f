package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_IsOpenMatchesTable(t *testing.T) {
	p := Default()
	hours := DefaultHours()
	for day := time.Sunday; day <= time.Saturday; day++ {
		w := hours[day]
		for hour := 0; hour < 24; hour++ {
			want := hour >= w.Start && hour < w.End
			assert.Equal(t, want, p.IsOpen(day, hour), "%s %02d:00", day, hour)
		}
	}
}

func TestPolicy_Boundaries(t *testing.T) {
	p := Default()

	assert.True(t, p.IsOpen(time.Monday, 11), "start hour is open")
	assert.False(t, p.IsOpen(time.Monday, 10))
	assert.True(t, p.IsOpen(time.Monday, 22))
	assert.False(t, p.IsOpen(time.Monday, 23), "end hour is closed")
	assert.False(t, p.IsOpen(time.Sunday, 22))
	assert.True(t, p.IsOpen(time.Friday, 23), "friday runs until midnight")
	assert.False(t, p.IsOpen(time.Saturday, 11))
}

func TestPolicy_IsOpenAt(t *testing.T) {
	p := Default()

	// 2025-01-07 is a Tuesday.
	open, err := p.IsOpenAt("2025-01-07", "19:00")
	require.NoError(t, err)
	assert.True(t, open)

	open, err = p.IsOpenAt("2025-01-07", "23:00")
	require.NoError(t, err)
	assert.False(t, open)

	open, err = p.IsOpenAt("2025-01-07", "10:59")
	require.NoError(t, err)
	assert.False(t, open)

	_, err = p.IsOpenAt("2025-13-07", "19:00")
	assert.ErrorIs(t, err, ErrInvalidSlot)
	_, err = p.IsOpenAt("2025-01-07", "7pm")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestPolicy_IsOpenAtUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	p, err := NewPolicy(Hours{time.Tuesday: {Start: 11, End: 23}}, loc)
	require.NoError(t, err)

	open, err := p.IsOpenAt("2025-01-07", "22:00")
	require.NoError(t, err)
	assert.True(t, open, "wall-clock hour is evaluated in the policy zone")
	assert.Equal(t, loc, p.Location())
}

func TestPolicy_Slots(t *testing.T) {
	p := Default()

	slots := p.Slots(time.Sunday)
	require.Len(t, slots, 10)
	assert.Equal(t, "12:00", slots[0])
	assert.Equal(t, "21:00", slots[len(slots)-1])

	fri := p.Slots(time.Friday)
	assert.Equal(t, "23:00", fri[len(fri)-1])

	// restartable: a second call yields the same sequence
	assert.Equal(t, slots, p.Slots(time.Sunday))

	closed, err := NewPolicy(Hours{time.Monday: {Start: 9, End: 10}}, nil)
	require.NoError(t, err)
	assert.Empty(t, closed.Slots(time.Tuesday))
	assert.False(t, closed.IsOpen(time.Tuesday, 9))

	bySlot, err := p.SlotsFor("2025-01-05")
	require.NoError(t, err)
	assert.Equal(t, slots, bySlot)
}

func TestNewPolicy_RejectsBadWindows(t *testing.T) {
	cases := []Window{
		{Start: -1, End: 10},
		{Start: 10, End: 25},
		{Start: 12, End: 12},
		{Start: 14, End: 12},
	}
	for _, w := range cases {
		_, err := NewPolicy(Hours{time.Monday: w}, nil)
		assert.Error(t, err, "%+v", w)
	}
}

func TestHourBucket(t *testing.T) {
	assert.Equal(t, "19:00", HourBucket("19:30"))
	assert.Equal(t, "09:00", HourBucket("9:15"))
	assert.Equal(t, "garbage", HourBucket("garbage"))
}
