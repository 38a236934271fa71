package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Cause is one link of a serialized error chain.
type Cause struct {
	Exception string `json:"exception"`
	Message   string `json:"message"`
}

// Body is the JSON error body written by the HTTP layer.
type Body struct {
	Exception string  `json:"exception"`
	Message   string  `json:"message"`
	Status    int     `json:"status"`
	Causes    []Cause `json:"causes"`
}

// NewBody serializes err and its chain of causes.
// Links that only add a stack trace (same text as their cause) are folded away.
func NewBody(err error) Body {
	links := chain(err)

	body := Body{
		Status: StatusCode(err),
		Causes: make([]Cause, 0, len(links)),
	}

	if len(links) == 0 {
		return body
	}

	body.Exception = links[0].Exception
	body.Message = links[0].Message
	body.Causes = append(body.Causes, links[1:]...)

	return body
}

func chain(err error) []Cause {
	var out []Cause

	for e := err; e != nil; {
		next := errors.Unwrap(e)

		// skip wrappers that add nothing but a stack
		if next != nil && next.Error() == e.Error() {
			e = next
			continue
		}

		msg := e.Error()
		if next != nil {
			msg = strings.TrimSuffix(msg, ": "+next.Error())
		}

		out = append(out, Cause{
			Exception: fmt.Sprintf("%T", e),
			Message:   msg,
		})

		e = next
	}

	return out
}
