// Package prompt defines the request/response port through which editors ask
// the user for a value. Dialogs are external collaborators implementing it.
package prompt

import (
	"strconv"
	"strings"
)

// Kind is the type of value requested.
type Kind int

const (
	KindName Kind = iota
	KindInteger
)

// Request asks for a single value. Seed pre-fills the input.
type Request struct {
	Kind    Kind
	Title   string
	Message string
	Seed    string
}

// Response carries the entered value, or OK=false on cancellation.
type Response struct {
	Value string
	OK    bool
}

// Cancel is the response of a dismissed dialog.
func Cancel() Response {
	return Response{}
}

// Value is the response of a confirmed dialog.
func Value(v string) Response {
	return Response{Value: v, OK: true}
}

// Port answers requests synchronously.
type Port interface {
	Ask(Request) Response
}

// PortFunc adapts a function to a Port.
type PortFunc func(Request) Response

// Ask implements Port.
func (f PortFunc) Ask(r Request) Response {
	return f(r)
}

// Name returns the trimmed name, or false when cancelled or blank.
func Name(r Response) (string, bool) {
	if !r.OK {
		return "", false
	}
	name := strings.TrimSpace(r.Value)
	return name, name != ""
}

// ParseInt returns the integer value, or false when cancelled or not an integer.
func ParseInt(r Response) (int, bool) {
	if !r.OK {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(r.Value))
	if err != nil {
		return 0, false
	}
	return n, true
}
