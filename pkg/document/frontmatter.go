package document

import (
	"bytes"
	"encoding/json"
	stderrors "errors"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pagecraft/sitemark/internal/ulid"
)

var ErrFrontmatterInvalid = stderrors.New("invalid frontmatter")

const (
	frontmatterFormatYAML = "yaml"
	frontmatterFormatJSON = "json"
	frontmatterFormatTOML = "toml"
)

// metadataVersion is written into newly minted page identity blocks.
const metadataVersion = "1"

// PageMetadata is the identity block a page carries in its frontmatter.
type PageMetadata struct {
	ID      string `yaml:"id,omitempty" json:"id,omitempty" toml:"id,omitempty"`
	Version string `yaml:"version,omitempty" json:"version,omitempty" toml:"version,omitempty"`
}

func (m *PageMetadata) IsEmpty() bool {
	if m == nil {
		return true
	}
	return m.ID == "" && m.Version == ""
}

// Frontmatter is the page-level metadata ahead of the markup content.
// Unknown keys authored by the user survive a round trip; only the fields
// below are interpreted.
type Frontmatter struct {
	Sitemark    *PageMetadata `yaml:"sitemark,omitempty" json:"sitemark,omitempty" toml:"sitemark,omitempty"`
	Title       string        `yaml:"title,omitempty" json:"title,omitempty" toml:"title,omitempty"`
	Layout      string        `yaml:"layout,omitempty" json:"layout,omitempty" toml:"layout,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Tags        []string      `yaml:"tags,omitempty" json:"tags,omitempty" toml:"tags,omitempty"`
	Draft       bool          `yaml:"draft,omitempty" json:"draft,omitempty" toml:"draft,omitempty"`

	format string
	raw    string // using string to be able to compare using ==
}

func NewYAMLFrontmatter() *Frontmatter {
	return &Frontmatter{format: frontmatterFormatYAML}
}

func newFrontmatter() *Frontmatter {
	return &Frontmatter{
		Sitemark: &PageMetadata{
			ID:      ulid.GenerateID(),
			Version: metadataVersion,
		},
		format: frontmatterFormatYAML,
	}
}

// Marshal returns marshaled frontmatter including its delimiter lines.
// If an identity is required but the receiver is nil, a new frontmatter is
// created.
func (f *Frontmatter) Marshal(requireIdentity bool) ([]byte, error) {
	if f == nil {
		if !requireIdentity {
			return nil, nil
		}
		f = newFrontmatter()
	}
	return f.marshal(requireIdentity)
}

func (f *Frontmatter) marshal(requireIdentity bool) ([]byte, error) {
	if requireIdentity {
		f.ensureID()
	}

	m := make(map[string]interface{})

	var unmarshal func([]byte, interface{}) error
	switch f.format {
	case frontmatterFormatJSON:
		unmarshal = json.Unmarshal
	case frontmatterFormatTOML:
		unmarshal = toml.Unmarshal
	default:
		unmarshal = yaml.Unmarshal
	}
	if f.raw != "" {
		if err := unmarshal([]byte(f.raw), &m); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	f.overlay(m)

	switch f.format {
	case frontmatterFormatJSON:
		data, err := json.Marshal(m)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return append(append([]byte("---\n"), data...), []byte("\n---")...), nil

	case frontmatterFormatTOML:
		data, err := toml.Marshal(m)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return append(append([]byte("+++\n"), data...), []byte("+++")...), nil

	default:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(m); err != nil {
			return nil, errors.WithStack(err)
		}
		if err := encoder.Close(); err != nil {
			return nil, errors.WithStack(err)
		}
		return append(append([]byte("---\n"), buf.Bytes()...), []byte("---")...), nil
	}
}

// overlay writes the interpreted fields on top of the raw map so edits made
// after parsing win over the original text while unknown keys survive.
func (f *Frontmatter) overlay(m map[string]interface{}) {
	if f.Title != "" {
		m["title"] = f.Title
	}
	if f.Layout != "" {
		m["layout"] = f.Layout
	}
	if f.Description != "" {
		m["description"] = f.Description
	}
	if len(f.Tags) > 0 {
		m["tags"] = f.Tags
	}
	if f.Draft {
		m["draft"] = true
	}
	if !f.Sitemark.IsEmpty() {
		m["sitemark"] = f.Sitemark
	}
}

func (f *Frontmatter) ensureID() {
	if f.Sitemark.IsEmpty() {
		f.Sitemark = &PageMetadata{}
	}

	if !ulid.ValidID(f.Sitemark.ID) {
		f.Sitemark.ID = ulid.GenerateID()
	}
	if f.Sitemark.Version == "" {
		f.Sitemark.Version = metadataVersion
	}
}

// ParseFrontmatter parses raw frontmatter, delimiters included. Formats are
// tried in order: YAML, JSON, TOML.
func ParseFrontmatter(raw []byte) (*Frontmatter, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	lines := bytes.Split(raw, []byte{'\n'})

	if len(lines) < 2 || !bytes.Equal(bytes.TrimSpace(lines[0]), bytes.TrimSpace(lines[len(lines)-1])) {
		return nil, errors.WithStack(ErrFrontmatterInvalid)
	}

	raw = bytes.Join(lines[1:len(lines)-1], []byte{'\n'})

	parsers := []func([]byte, interface{}) error{
		yaml.Unmarshal,
		json.Unmarshal,
		toml.Unmarshal,
	}
	parserNames := []string{
		frontmatterFormatYAML,
		frontmatterFormatJSON,
		frontmatterFormatTOML,
	}

	var f Frontmatter
	var firstError error
	errorsCount := 0

	for idx, parse := range parsers {
		err := parse(raw, &f)
		if err == nil {
			f.format = parserNames[idx]
			f.raw = string(raw)
			break
		}

		errorsCount++
		if firstError == nil {
			firstError = errors.Wrap(err, "failed to parse frontmatter content")
		}
	}

	if errorsCount == len(parsers) {
		return nil, firstError
	}

	return &f, nil
}
