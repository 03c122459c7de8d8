// Package models defines the persisted link record and the request and
// response data structures exchanged with HTTP clients.
package models

// CreateRequest represents a request to shorten a URL.
type CreateRequest struct {
	// URL is the destination, with or without a scheme.
	URL string `json:"url"`

	// Alias is the optional requested slug.
	Alias string `json:"alias,omitempty"`

	// AIGenerated reports that Alias came from the suggestion service and
	// was not edited afterwards.
	AIGenerated bool `json:"aiGenerated,omitempty"`
}

// CreateResponse carries the stored record and an optional informational notice.
type CreateResponse struct {
	Record LinkRecord `json:"record"`
	Notice string     `json:"notice,omitempty"`
}

// SuggestRequest asks for an alias suggestion for URL.
type SuggestRequest struct {
	URL string `json:"url"`
}

// SuggestResponse holds a suggested alias.
type SuggestResponse struct {
	Alias string `json:"alias"`
}

// ErrorResponse is returned for every failed API call.
type ErrorResponse struct {
	// Kind is a stable machine-readable failure name.
	Kind string `json:"kind"`

	// Message is meant to be shown to the user verbatim.
	Message string `json:"message"`
}
