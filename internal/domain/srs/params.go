package srs

import "github.com/topiklearn/srs-api/internal/domain"

// Params defines the configurable parameters of the SM-2 scheduler.
type Params struct {
	// MinEaseFactor is the floor applied after every ease adjustment.
	MinEaseFactor float64

	// FirstInterval and SecondInterval are the fixed interval ramp, in days,
	// for the first and second consecutive successful reviews. Later
	// intervals scale by the ease factor.
	FirstInterval  int
	SecondInterval int

	// LapseInterval is the interval, in days, assigned after a failed review.
	LapseInterval int

	// MaxInterval caps interval growth, in days. Zero disables the cap.
	MaxInterval int
}

// DefaultParams returns the standard SM-2 parameters: the 1.3 ease floor,
// the 1-day/6-day ramp, next-day lapses, and a one-year interval cap.
func DefaultParams() Params {
	return Params{
		MinEaseFactor:  domain.MinEaseFactor,
		FirstInterval:  1,
		SecondInterval: 6,
		LapseInterval:  1,
		MaxInterval:    365,
	}
}

// Validate rejects parameter sets that would break scheduling invariants.
func (p Params) Validate() error {
	if p.MinEaseFactor < 1.0 {
		return ErrInvalidParams
	}
	if p.FirstInterval < 1 || p.SecondInterval < p.FirstInterval || p.LapseInterval < 1 {
		return ErrInvalidParams
	}
	if p.MaxInterval < 0 {
		return ErrInvalidParams
	}
	return nil
}
