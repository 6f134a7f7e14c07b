package codec

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dshills/pixelstorm/internal/engine/history"
)

// yamlDocument is the YAML layout of a document.
type yamlDocument struct {
	Version  int           `yaml:"version"`
	ID       string        `yaml:"id,omitempty"`
	SavedAt  time.Time     `yaml:"saved_at,omitempty"`
	Initial  *yamlCommand  `yaml:"initial"`
	Commands []yamlCommand `yaml:"commands"`
}

// yamlCommand holds a command kind and its undecoded parameters.
type yamlCommand struct {
	Kind   string     `yaml:"kind"`
	Params *yaml.Node `yaml:"params,omitempty"`
}

// yamlCompound is the parameter layout of a compound command.
type yamlCompound struct {
	Name     string        `yaml:"name,omitempty"`
	Commands []yamlCommand `yaml:"commands"`
}

// EncodeYAML encodes doc as YAML.
func (c *Codec) EncodeYAML(doc *Document) ([]byte, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}

	initial, err := encodeYAMLCommand(doc.Snapshot.Initial)
	if err != nil {
		return nil, fmt.Errorf("initial command: %w", err)
	}
	out := yamlDocument{
		Version:  doc.Version,
		ID:       doc.ID.String(),
		SavedAt:  doc.SavedAt,
		Initial:  &initial,
		Commands: make([]yamlCommand, 0, len(doc.Snapshot.Commands)),
	}
	for i, cmd := range doc.Snapshot.Commands {
		yc, err := encodeYAMLCommand(cmd)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		out.Commands = append(out.Commands, yc)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeYAMLCommand(cmd history.Command) (yamlCommand, error) {
	kind, err := kindOf(cmd)
	if err != nil {
		return yamlCommand{}, err
	}

	var params any = cmd
	if compound, ok := cmd.(*history.CompoundCommand); ok {
		yc := yamlCompound{
			Name:     compound.Name,
			Commands: make([]yamlCommand, 0, len(compound.Commands)),
		}
		for i, child := range compound.Commands {
			sub, err := encodeYAMLCommand(child)
			if err != nil {
				return yamlCommand{}, fmt.Errorf("step %d: %w", i, err)
			}
			yc.Commands = append(yc.Commands, sub)
		}
		params = yc
	}

	node := &yaml.Node{}
	if err := node.Encode(params); err != nil {
		return yamlCommand{}, fmt.Errorf("encode %s: %w", kind, err)
	}
	if node.Kind == yaml.MappingNode && len(node.Content) == 0 {
		node = nil
	}
	return yamlCommand{Kind: kind, Params: node}, nil
}

// DecodeYAML decodes a YAML document.
func (c *Codec) DecodeYAML(data []byte) (*Document, error) {
	var in yamlDocument
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := checkVersion(in.Version); err != nil {
		return nil, err
	}

	doc := &Document{
		Version:  in.Version,
		SavedAt:  in.SavedAt,
		Snapshot: &history.Snapshot{},
	}
	if in.ID != "" {
		id, err := uuid.Parse(in.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: id: %v", ErrMalformed, err)
		}
		doc.ID = id
	}

	if in.Initial == nil {
		return nil, fmt.Errorf("%w: missing initial command", ErrMalformed)
	}
	initial, err := c.decodeYAMLCommand(*in.Initial)
	if err != nil {
		return nil, fmt.Errorf("initial command: %w", err)
	}
	doc.Snapshot.Initial = initial

	for i, yc := range in.Commands {
		cmd, err := c.decodeYAMLCommand(yc)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		doc.Snapshot.Commands = append(doc.Snapshot.Commands, cmd)
	}
	return doc, nil
}

func (c *Codec) decodeYAMLCommand(yc yamlCommand) (history.Command, error) {
	cmd, err := c.registry.New(yc.Kind)
	if err != nil {
		return nil, err
	}

	if compound, ok := cmd.(*history.CompoundCommand); ok {
		var params yamlCompound
		if yc.Params != nil {
			if err := yc.Params.Decode(&params); err != nil {
				return nil, fmt.Errorf("%w: compound params: %v", ErrMalformed, err)
			}
		}
		compound.Name = params.Name
		for i, child := range params.Commands {
			sub, err := c.decodeYAMLCommand(child)
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

	if yc.Params != nil {
		if err := yc.Params.Decode(cmd); err != nil {
			return nil, fmt.Errorf("%w: %s params: %v", ErrMalformed, yc.Kind, err)
		}
	}
	return cmd, nil
}
