package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59"}
	for _, s := range valid {
		assert.NoError(t, TimeString(s).Validate(), s)
	}

	invalid := []string{"", "24:00", "12:60", "9:30", "12:5", "12-30", "garbage", "12:30:00"}
	for _, s := range invalid {
		assert.ErrorIs(t, TimeString(s).Validate(), ErrInvalidTimeString, s)
	}
}

func TestTimeString_Minutes(t *testing.T) {
	m, err := TimeString("00:00").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	m, err = TimeString("14:45").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 885, m)

	m, err = TimeString("23:59").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 1439, m)
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("10:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:15"), got)

	// Переход через полночь заворачивается
	got, err = TimeString("23:50").AddMinutes(20)
	require.NoError(t, err)
	assert.Equal(t, TimeString("00:10"), got)

	got, err = TimeString("00:10").AddMinutes(-20)
	require.NoError(t, err)
	assert.Equal(t, TimeString("23:50"), got)
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:00").IsAfter("09:59"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
}

func TestNewTimeString(t *testing.T) {
	moment := time.Date(2026, time.March, 12, 9, 5, 30, 0, time.UTC)
	assert.Equal(t, TimeString("09:05"), NewTimeString(moment))
}

func TestNewTimeStringFromString(t *testing.T) {
	got, err := NewTimeStringFromString("18:30")
	require.NoError(t, err)
	assert.Equal(t, TimeString("18:30"), got)

	_, err = NewTimeStringFromString("18:3")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("08:15").Value()
	require.NoError(t, err)
	assert.Equal(t, "08:15", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("bad").Value()
	assert.Error(t, err)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres TIME приходит с секундами
	require.NoError(t, ts.Scan("14:30:00"))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan([]byte("09:00:00")))
	assert.Equal(t, TimeString("09:00"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
}
