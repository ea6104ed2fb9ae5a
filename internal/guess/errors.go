package guess

import "errors"

var (
	// ErrNotFound is returned when no candidate produced the sentinel.
	ErrNotFound = errors.New("no candidate matched")

	// ErrNoCandidates is returned when the candidate list is empty.
	ErrNoCandidates = errors.New("candidate list is empty")

	// ErrMissingPasswordPlaceholder is returned for templates without {password}.
	ErrMissingPasswordPlaceholder = errors.New("URL template must contain {password}")

	// ErrInvalidTemplate is returned for templates that are not absolute http(s) URLs.
	ErrInvalidTemplate = errors.New("URL template must be an absolute http or https URL")

	// ErrMissingUsername is returned when the template uses {username} but none is set.
	ErrMissingUsername = errors.New("URL template contains {username} but no username was given")

	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrInvalidProxyAddress is returned when the proxy is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")
)
