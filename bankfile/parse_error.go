package bankfile

import (
	"fmt"
)

type ParseError struct {
	Message string

	// Path points to the offending bank element, like "maps[1].digits.ring[0]".
	// It's empty for document-level errors.
	Path string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (at %s)", e.Message, e.Path)
}
