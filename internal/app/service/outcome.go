package service

import "github.com/atinyakov/shortify/internal/models"

// FailureKind names why a creation attempt ended without a record.
type FailureKind int

const (
	// FailureInvalidURLFormat is a local validation failure; nothing was sent.
	FailureInvalidURLFormat FailureKind = iota + 1
	// FailureAliasTaken means the service rejected the requested alias.
	FailureAliasTaken
	// FailureInvalidURL means the service rejected the URL itself.
	FailureInvalidURL
	// FailureNetwork means the shortening service could not be reached.
	FailureNetwork
	// FailureStorage means the link was shortened but could not be saved.
	FailureStorage
	// FailureUnexpected covers errors outside the taxonomy above.
	FailureUnexpected
)

func (k FailureKind) String() string {
	switch k {
	case FailureInvalidURLFormat:
		return "InvalidUrlFormat"
	case FailureAliasTaken:
		return "AliasTakenOrInvalid"
	case FailureInvalidURL:
		return "InvalidUrl"
	case FailureNetwork:
		return "NetworkError"
	case FailureStorage:
		return "StorageError"
	default:
		return "Unexpected"
	}
}

// Outcome is the result of LinkService.Create: Success, SuccessWithNotice or Failure.
type Outcome interface {
	outcome()
}

// Success carries the stored record.
type Success struct {
	Record models.LinkRecord
}

// SuccessWithNotice carries the stored record and an informational, non-fatal notice.
type SuccessWithNotice struct {
	Record models.LinkRecord
	Notice string
}

// Failure is a terminal creation failure. It doubles as an error.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (Success) outcome()           {}
func (SuccessWithNotice) outcome() {}
func (Failure) outcome()           {}

func (f Failure) Error() string {
	return f.Message
}

func (f Failure) Unwrap() error {
	return f.Err
}
