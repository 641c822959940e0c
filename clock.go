package orrery

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// DaysToCenturies converts days into Julian centuries of 36525 days.
	DaysToCenturies = 1.0 / 36525
	// J2000 is the Julian day of the reference epoch, 2000-01-01 12:00.
	J2000 = 2451545.0
	// DefaultRate is the default number of simulated days per real second.
	DefaultRate = 5.0
)

// Clock is the simulated time: an epoch in Julian centuries since J2000 which advances
// at Rate simulated days per real second while running.
// A Clock must have a single owner; it is not safe for concurrent mutation.
type Clock struct {
	current float64
	rate    float64
	paused  bool
}

// NewClock returns a running clock at J2000 with the provided rate.
func NewClock(rate float64) *Clock {
	return &Clock{rate: rate}
}

// Now returns the current epoch in Julian centuries since J2000.
func (c *Clock) Now() float64 {
	return c.current
}

// Advance moves the clock forward by the real elapsed duration, scaled by the rate.
// It does nothing while paused.
func (c *Clock) Advance(elapsed time.Duration) {
	if c.paused {
		return
	}
	c.current += c.rate * elapsed.Seconds() * DaysToCenturies
}

// SetDate sets the clock to the provided calendar date.
func (c *Clock) SetDate(dt time.Time) {
	c.current = (julian.TimeToJD(dt) - J2000) * DaysToCenturies
}

// SetCentury sets the clock directly; NaN is treated as J2000.
func (c *Clock) SetCentury(t float64) {
	if math.IsNaN(t) {
		t = 0
	}
	c.current = t
}

// Date returns an approximate calendar date for display only: the year is taken from a
// fixed 2000 offset and the day of year from 365.25 day years. It drifts by up to a day
// and must not be used for anything that needs calendar accuracy.
func (c *Clock) Date() time.Time {
	years := c.current * 100
	whole := math.Floor(years)
	days := (years - whole) * 365.25
	start := time.Date(2000+int(whole), time.January, 1, 12, 0, 0, 0, time.UTC)
	return start.Add(time.Duration(days * 24 * float64(time.Hour)))
}

// JDE returns the current epoch as a Julian day.
func (c *Clock) JDE() float64 {
	return J2000 + c.current/DaysToCenturies
}

// Pause stops the clock.
func (c *Clock) Pause() {
	c.paused = true
}

// Resume restarts the clock.
func (c *Clock) Resume() {
	c.paused = false
}

// Paused returns whether the clock is paused.
func (c *Clock) Paused() bool {
	return c.paused
}

// Rate returns the number of simulated days per real second.
func (c *Clock) Rate() float64 {
	return c.rate
}

// SetRate changes the number of simulated days per real second.
func (c *Clock) SetRate(rate float64) {
	c.rate = rate
}
