package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateString(t *testing.T) {
	assert.Equal(t, "2021-01-01", NewDate(2021, time.January, 1).String())
	assert.Equal(t, "0099-12-31", NewDate(99, time.December, 31).String())
}

func TestDateOf(t *testing.T) {
	d := DateOf(time.Date(2021, time.March, 15, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, NewDate(2021, time.March, 15), d)
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "12:00:00", NewTimeOfDay(12, 0, 0).String())
	assert.Equal(t, "01:02:03", NewTimeOfDay(1, 2, 3).String())
	assert.Equal(t, "12:00:00+00:00", NewTimeOfDay(12, 0, 0).WithOffset(0).String())
	assert.Equal(t, "12:00:00+05:30",
		NewTimeOfDay(12, 0, 0).WithOffset(5*time.Hour+30*time.Minute).String())
	assert.Equal(t, "12:00:00-08:00",
		NewTimeOfDay(12, 0, 0).WithOffset(-8*time.Hour).String())
}

func TestNaiveDateTimeString(t *testing.T) {
	n := NaiveDateTime{
		Date: NewDate(2021, time.January, 1),
		Time: NewTimeOfDay(12, 30, 45),
	}
	assert.Equal(t, "2021-01-01T12:30:45", n.String())
}

func TestNaiveOfStripsZone(t *testing.T) {
	zoned := time.Date(2021, time.January, 1, 12, 0, 0, 0, time.FixedZone("", -5*60*60))
	assert.Equal(t, "2021-01-01T12:00:00", NaiveOf(zoned).String())
}
