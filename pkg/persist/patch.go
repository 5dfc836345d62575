package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/bumper/pkg/manifest"
	"github.com/matzehuels/bumper/pkg/update"
)

// Reasons a structural patch is abandoned.
var (
	ErrSectionMissing = errors.New("section not found")
	ErrPackageMissing = errors.New("package not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrNotString      = errors.New("value is not a string")
	ErrConflict       = errors.New("conflicting edits")
)

// span is a byte range [start, end) of the source text.
type span struct {
	start, end int
	str        bool
}

type section struct {
	count    int
	isObject bool
	values   map[string][]span
}

// Patch applies decisions to src by replacing the constraint strings in
// place. It fails without partial output if any decision cannot be applied
// to exactly one string value.
func Patch(src []byte, decisions []update.Decision) ([]byte, error) {
	idx, err := indexSections(src)
	if err != nil {
		return nil, err
	}

	type edit struct {
		span
		value []byte
	}
	edits := make([]edit, 0, len(decisions))
	seen := make(map[string]bool, len(decisions))
	for _, d := range decisions {
		id := string(d.Section) + "\x00" + d.Package
		if seen[id] {
			return nil, fmt.Errorf("%w: %s %s", ErrConflict, d.Section, d.Package)
		}
		seen[id] = true

		s, err := locate(idx, d)
		if err != nil {
			return nil, err
		}
		value, err := quote(d.To)
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit{span: s, value: value})
	}

	slices.SortFunc(edits, func(a, b edit) int { return b.start - a.start })
	out := slices.Clone(src)
	for _, e := range edits {
		out = slices.Replace(out, e.start, e.end, e.value...)
	}
	return out, nil
}

func locate(idx map[string]*section, d update.Decision) (span, error) {
	sec, ok := idx[string(d.Section)]
	switch {
	case !ok || sec.count == 0:
		return span{}, fmt.Errorf("%w: %s", ErrSectionMissing, d.Section)
	case sec.count > 1:
		return span{}, fmt.Errorf("%w: %s", ErrDuplicateKey, d.Section)
	case !sec.isObject:
		return span{}, fmt.Errorf("%w: %s is not an object", ErrSectionMissing, d.Section)
	}

	spans := sec.values[d.Package]
	switch {
	case len(spans) == 0:
		return span{}, fmt.Errorf("%w: %s %s", ErrPackageMissing, d.Section, d.Package)
	case len(spans) > 1:
		return span{}, fmt.Errorf("%w: %s %s", ErrDuplicateKey, d.Section, d.Package)
	case !spans[0].str:
		return span{}, fmt.Errorf("%w: %s %s", ErrNotString, d.Section, d.Package)
	}
	return spans[0], nil
}

// indexSections records where the values of the dependency sections sit in
// src.
func indexSections(src []byte) (map[string]*section, error) {
	idx := make(map[string]*section)
	for _, s := range manifest.Sections() {
		idx[string(s)] = &section{}
	}

	dec := json.NewDecoder(bytes.NewReader(src))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		sec, tracked := idx[key]
		if !tracked {
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}

		sec.count++
		start := valueStart(src, int(dec.InputOffset()))
		if start >= len(src) || src[start] != '{' {
			sec.isObject = false
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}

		sec.isObject = true
		sec.values = make(map[string][]span)
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		for dec.More() {
			pkg, err := readKey(dec)
			if err != nil {
				return nil, err
			}
			start := valueStart(src, int(dec.InputOffset()))
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			end := int(dec.InputOffset())
			sec.values[pkg] = append(sec.values[pkg], span{start: start, end: end, str: src[start] == '"'})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return idx, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("unexpected token %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %v, got %v", want, tok)
	}
	return nil
}

func skipValue(dec *json.Decoder) error {
	var raw json.RawMessage
	return dec.Decode(&raw)
}

// valueStart skips the whitespace and colon that follow an object key.
func valueStart(src []byte, off int) int {
	for off < len(src) {
		switch src[off] {
		case ' ', '\t', '\r', '\n', ':':
			off++
		default:
			return off
		}
	}
	return off
}

// quote encodes s as a JSON string without escaping HTML characters.
func quote(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
