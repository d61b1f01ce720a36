package domain

import (
	"strconv"
	"strings"
)

type attendeesKind int

const (
	attendeesNone attendeesKind = iota
	attendeesText
	attendeesList
)

// AttendeesInput is the client representation of the attendee list: either
// delimited text ("1,2,3") or a sequence of values. The zero value means the
// field was not sent.
type AttendeesInput struct {
	kind  attendeesKind
	text  string
	items []string
}

// AttendeesFromText returns an input holding comma-separated text.
func AttendeesFromText(s string) AttendeesInput {
	return AttendeesInput{kind: attendeesText, text: s}
}

// AttendeesFromList returns an input holding a sequence of values.
func AttendeesFromList(items []string) AttendeesInput {
	return AttendeesInput{kind: attendeesList, items: items}
}

// IsZero reports whether no attendees were supplied.
func (a AttendeesInput) IsZero() bool { return a.kind == attendeesNone }

// Normalize resolves the input to a canonical integer sequence. Absent input
// yields an empty, non-nil slice. Blank elements are skipped.
func (a AttendeesInput) Normalize() ([]int, error) {
	var raw []string
	switch a.kind {
	case attendeesText:
		raw = strings.Split(a.text, ",")
	case attendeesList:
		raw = a.items
	}
	out := make([]int, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, NewValidationError("invalid attendees")
		}
		out = append(out, n)
	}
	return out, nil
}
