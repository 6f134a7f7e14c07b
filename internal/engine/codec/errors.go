package codec

import "errors"

// Errors for document encoding and decoding.
var (
	// ErrUnknownKind is returned when a command kind is not registered.
	ErrUnknownKind = errors.New("unknown command kind")

	// ErrNotPersistable is returned when a command does not report a kind.
	ErrNotPersistable = errors.New("command cannot be persisted")

	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported history format")

	// ErrVersion is returned when a document has an unsupported version.
	ErrVersion = errors.New("unsupported history version")

	// ErrMalformed is returned when a document cannot be parsed.
	ErrMalformed = errors.New("malformed history document")
)
