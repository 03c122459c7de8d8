package shortener

import (
	"errors"
	"fmt"
)

// Kind classifies a failed shortening call.
type Kind int

const (
	// KindAliasTaken means the service rejected a request that carried an alias.
	KindAliasTaken Kind = iota + 1
	// KindInvalidURL means the service rejected a request without an alias,
	// so the URL itself is at fault.
	KindInvalidURL
	// KindNetwork means the service could not be reached.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindAliasTaken:
		return "AliasTakenOrInvalid"
	case KindInvalidURL:
		return "InvalidUrl"
	case KindNetwork:
		return "NetworkError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels matched by (*Error).Is.
var (
	ErrAliasTaken = errors.New("alias taken or invalid")
	ErrInvalidURL = errors.New("invalid url")
	ErrNetwork    = errors.New("network error")
)

// Error is returned by Client.Shorten for every failure.
type Error struct {
	Kind Kind
	// Alias is the alias that was requested, if any.
	Alias string
	Msg   string
	// Err is the transport error behind a KindNetwork failure.
	Err error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrAliasTaken:
		return e.Kind == KindAliasTaken
	case ErrInvalidURL:
		return e.Kind == KindInvalidURL
	case ErrNetwork:
		return e.Kind == KindNetwork
	}
	return false
}

func rejected(alias string) *Error {
	if alias != "" {
		return &Error{
			Kind:  KindAliasTaken,
			Alias: alias,
			Msg:   fmt.Sprintf("The alias %q is already taken. Please choose another.", alias),
		}
	}
	return &Error{
		Kind: KindInvalidURL,
		Msg:  "Invalid URL. Please ensure it starts with http:// or https://",
	}
}

func unreachable(alias string, err error) *Error {
	return &Error{
		Kind:  KindNetwork,
		Alias: alias,
		Msg:   "Network error. Please check your connection.",
		Err:   err,
	}
}
