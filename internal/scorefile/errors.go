package scorefile

import "errors"

var (
	// ErrMalformed is returned for score files that cannot be parsed.
	ErrMalformed = errors.New("scorefile: malformed score file")
	// ErrGrouping is returned when input files cannot be arranged into
	// PRI/IGI/IGI triples.
	ErrGrouping = errors.New("scorefile: cannot group input files")
)
