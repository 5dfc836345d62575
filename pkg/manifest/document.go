package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// indent is the indentation Composer uses when it writes composer.json.
const indent = "    "

type member struct {
	key   string
	value json.RawMessage
}

// Document is a JSON object that remembers key order. It is the
// structured form used when a manifest has to be rewritten in full.
type Document struct {
	members []member
}

// ParseDocument parses data, which must hold a single JSON object.
// A key that appears twice keeps its first position and its last value.
func ParseDocument(data []byte) (*Document, error) {
	members, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	return &Document{members: members}, nil
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.members))
	for i, m := range d.members {
		keys[i] = m.key
	}
	return keys
}

// Get returns the raw value stored under key.
func (d *Document) Get(key string) (json.RawMessage, bool) {
	for _, m := range d.members {
		if m.key == key {
			return m.value, true
		}
	}
	return nil, false
}

// Set stores value under key, in place when the key exists and appended
// otherwise.
func (d *Document) Set(key string, value json.RawMessage) {
	d.members = setMember(d.members, key, value)
}

// Dependencies decodes section s. A missing section, null, or an empty
// array yields no dependencies.
func (d *Document) Dependencies(s Section) ([]Dependency, error) {
	raw, ok := d.Get(string(s))
	if !ok || isEmptyValue(raw) {
		return nil, nil
	}
	members, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s, err)
	}
	deps := make([]Dependency, 0, len(members))
	for _, m := range members {
		var constraint string
		if err := json.Unmarshal(m.value, &constraint); err != nil {
			return nil, fmt.Errorf("%s: constraint of %s is not a string", s, m.key)
		}
		deps = append(deps, Dependency{Name: m.key, Constraint: constraint})
	}
	return deps, nil
}

// SetConstraint sets the constraint of name in section s, adding the
// package (and the section) when missing.
func (d *Document) SetConstraint(s Section, name, constraint string) error {
	var members []member
	if raw, ok := d.Get(string(s)); ok && !isEmptyValue(raw) {
		var err error
		if members, err = decodeObject(raw); err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
	}

	value, err := encodeString(constraint)
	if err != nil {
		return err
	}
	members = setMember(members, name, value)

	var buf bytes.Buffer
	if err := writeObject(&buf, members, "", ""); err != nil {
		return err
	}
	d.Set(string(s), buf.Bytes())
	return nil
}

// Encode serialises the document the way Composer does: four-space
// indentation, unescaped slashes and HTML characters, trailing newline.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeObject(&buf, d.members, "", indent); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// writeObject writes members as an object. With an empty indentation the
// output is compact.
func writeObject(buf *bytes.Buffer, members []member, prefix, ind string) error {
	if len(members) == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		if ind != "" {
			buf.WriteString("\n" + prefix + ind)
		}
		key, err := encodeString(m.key)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if ind != "" {
			buf.WriteByte(' ')
		}

		var compact bytes.Buffer
		if err := reencode(&compact, json.NewDecoder(bytes.NewReader(m.value))); err != nil {
			return fmt.Errorf("%s: %w", m.key, err)
		}
		if ind == "" {
			buf.Write(compact.Bytes())
			continue
		}
		if err := json.Indent(buf, compact.Bytes(), prefix+ind, ind); err != nil {
			return fmt.Errorf("%s: %w", m.key, err)
		}
	}
	if ind != "" {
		buf.WriteString("\n" + prefix)
	}
	buf.WriteByte('}')
	return nil
}

// encodeString quotes s as a JSON string without HTML escaping.
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// reencode copies the next value of dec to buf in compact form, quoting
// every string with encodeString. Member order and number literals are
// kept as written.
func reencode(buf *bytes.Buffer, dec *json.Decoder) error {
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch t := tok.(type) {
	case json.Delim:
		buf.WriteByte(byte(t))
		for i := 0; dec.More(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			if t == '{' {
				key, err := dec.Token()
				if err != nil {
					return err
				}
				if err := writeString(buf, key.(string)); err != nil {
					return err
				}
				buf.WriteByte(':')
			}
			if err := reencode(buf, dec); err != nil {
				return err
			}
		}
		end, err := dec.Token()
		if err != nil {
			return err
		}
		buf.WriteByte(byte(end.(json.Delim)))
	case string:
		return writeString(buf, t)
	case json.Number:
		buf.WriteString(t.String())
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case nil:
		buf.WriteString("null")
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := encodeString(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// decodeObject reads a JSON object into ordered members.
func decodeObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected a JSON object")
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		members = setMember(members, key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after the top-level object")
	}
	return members, nil
}

func setMember(members []member, key string, value json.RawMessage) []member {
	for i := range members {
		if members[i].key == key {
			members[i].value = value
			return members
		}
	}
	return append(members, member{key: key, value: value})
}

func isEmptyValue(raw json.RawMessage) bool {
	s := string(bytes.TrimSpace(raw))
	return s == "null" || s == "[]"
}
