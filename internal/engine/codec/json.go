package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/pixelstorm/internal/engine/history"
)

// EncodeJSON encodes doc as indented JSON.
func (c *Codec) EncodeJSON(doc *Document) ([]byte, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}

	out := []byte(`{}`)
	var err error
	if out, err = sjson.SetBytes(out, "version", doc.Version); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "id", doc.ID.String()); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "saved_at", doc.SavedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}

	initial, err := encodeJSONCommand(doc.Snapshot.Initial)
	if err != nil {
		return nil, fmt.Errorf("initial command: %w", err)
	}
	if out, err = sjson.SetRawBytes(out, "initial", initial); err != nil {
		return nil, err
	}

	if out, err = sjson.SetRawBytes(out, "commands", []byte(`[]`)); err != nil {
		return nil, err
	}
	for i, cmd := range doc.Snapshot.Commands {
		raw, err := encodeJSONCommand(cmd)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		if out, err = sjson.SetRawBytes(out, "commands.-1", raw); err != nil {
			return nil, err
		}
	}

	return pretty.Pretty(out), nil
}

// encodeJSONCommand encodes one command as {"kind": ..., "params": {...}}.
func encodeJSONCommand(cmd history.Command) ([]byte, error) {
	kind, err := kindOf(cmd)
	if err != nil {
		return nil, err
	}

	out, err := sjson.SetBytes([]byte(`{}`), "kind", kind)
	if err != nil {
		return nil, err
	}

	if compound, ok := cmd.(*history.CompoundCommand); ok {
		if out, err = sjson.SetBytes(out, "params.name", compound.Name); err != nil {
			return nil, err
		}
		if out, err = sjson.SetRawBytes(out, "params.commands", []byte(`[]`)); err != nil {
			return nil, err
		}
		for i, child := range compound.Commands {
			raw, err := encodeJSONCommand(child)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			if out, err = sjson.SetRawBytes(out, "params.commands.-1", raw); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	params, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	if string(params) == "{}" {
		return out, nil
	}
	return sjson.SetRawBytes(out, "params", params)
}

// DecodeJSON decodes a JSON document.
func (c *Codec) DecodeJSON(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: document is not an object", ErrMalformed)
	}

	version := int(root.Get("version").Int())
	if err := checkVersion(version); err != nil {
		return nil, err
	}
	doc := &Document{Version: version, Snapshot: &history.Snapshot{}}

	if id := root.Get("id"); id.Exists() {
		parsed, err := uuid.Parse(id.String())
		if err != nil {
			return nil, fmt.Errorf("%w: id: %v", ErrMalformed, err)
		}
		doc.ID = parsed
	}
	if ts := root.Get("saved_at"); ts.Exists() {
		parsed, err := time.Parse(time.RFC3339, ts.String())
		if err != nil {
			return nil, fmt.Errorf("%w: saved_at: %v", ErrMalformed, err)
		}
		doc.SavedAt = parsed
	}

	// Fail on unknown kinds before building any command.
	for i, kind := range root.Get("commands.#.kind").Array() {
		if !c.registry.Has(kind.String()) {
			return nil, fmt.Errorf("command %d: %w: %q", i, ErrUnknownKind, kind.String())
		}
	}

	initial := root.Get("initial")
	if !initial.Exists() {
		return nil, fmt.Errorf("%w: missing initial command", ErrMalformed)
	}
	cmd, err := c.decodeJSONCommand(initial)
	if err != nil {
		return nil, fmt.Errorf("initial command: %w", err)
	}
	doc.Snapshot.Initial = cmd

	commands := root.Get("commands")
	if commands.Exists() && !commands.IsArray() {
		return nil, fmt.Errorf("%w: commands is not a list", ErrMalformed)
	}
	for i, v := range commands.Array() {
		cmd, err := c.decodeJSONCommand(v)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		doc.Snapshot.Commands = append(doc.Snapshot.Commands, cmd)
	}
	return doc, nil
}

// decodeJSONCommand builds a command from {"kind": ..., "params": {...}}.
func (c *Codec) decodeJSONCommand(v gjson.Result) (history.Command, error) {
	if !v.IsObject() {
		return nil, fmt.Errorf("%w: command is not an object", ErrMalformed)
	}
	kind := v.Get("kind").String()
	cmd, err := c.registry.New(kind)
	if err != nil {
		return nil, err
	}
	params := v.Get("params")

	if compound, ok := cmd.(*history.CompoundCommand); ok {
		compound.Name = params.Get("name").String()
		for i, child := range params.Get("commands").Array() {
			sub, err := c.decodeJSONCommand(child)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			compound.Add(sub)
		}
		if err := compound.Validate(); err != nil {
			return nil, err
		}
		return compound, nil
	}

	if params.Exists() {
		if err := json.Unmarshal([]byte(params.Raw), cmd); err != nil {
			return nil, fmt.Errorf("%w: %s params: %v", ErrMalformed, kind, err)
		}
	}
	return cmd, nil
}

// checkDocument rejects documents with nothing to encode.
func checkDocument(doc *Document) error {
	if doc == nil || doc.Snapshot == nil || doc.Snapshot.Initial == nil {
		return fmt.Errorf("%w: no initial command", ErrMalformed)
	}
	return nil
}
