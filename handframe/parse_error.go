package handframe

import (
	"fmt"
)

type ParseError struct {
	Message string

	// Line is a 1-based line number inside the frame stream.
	Line int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (line=%d)", e.Message, e.Line)
}
