package codec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/pixelstorm/internal/engine/history"
)

// FormatVersion is the version written to new documents.
const FormatVersion = 1

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format for path by extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Document is a saved history.
type Document struct {
	ID       uuid.UUID
	Version  int
	SavedAt  time.Time
	Snapshot *history.Snapshot
}

// NewDocument wraps snap in a document with a fresh id.
func NewDocument(snap *history.Snapshot) *Document {
	return &Document{
		ID:       uuid.New(),
		Version:  FormatVersion,
		SavedAt:  time.Now().UTC().Truncate(time.Second),
		Snapshot: snap,
	}
}

// Codec encodes and decodes documents using a registry of command kinds.
type Codec struct {
	registry *Registry
}

// New creates a codec. A nil registry means DefaultRegistry.
func New(registry *Registry) *Codec {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Codec{registry: registry}
}

// Registry returns the codec's registry.
func (c *Codec) Registry() *Registry {
	return c.registry
}

// Encode encodes doc in the given format.
func (c *Codec) Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return c.EncodeJSON(doc)
	case FormatYAML:
		return c.EncodeYAML(doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Decode decodes data in the given format.
func (c *Codec) Decode(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatJSON:
		return c.DecodeJSON(data)
	case FormatYAML:
		return c.DecodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Save writes doc to path in the format chosen by its extension.
func (c *Codec) Save(path string, doc *Document) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := c.Encode(doc, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Open reads a document from path in the format chosen by its extension.
func (c *Codec) Open(path string) (*Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	doc, err := c.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes snap to path with the default registry.
func Save(path string, snap *history.Snapshot) error {
	return New(nil).Save(path, NewDocument(snap))
}

// Open reads a document from path with the default registry.
func Open(path string) (*Document, error) {
	return New(nil).Open(path)
}

// checkVersion rejects documents from newer or invalid format versions.
func checkVersion(v int) error {
	if v < 1 || v > FormatVersion {
		return fmt.Errorf("%w: %d", ErrVersion, v)
	}
	return nil
}
