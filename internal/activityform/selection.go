package activityform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Selection is one entry of a multi-select: either a plain checkbox or an
// "Others" entry carrying free-text values.
type Selection struct {
	Key          string   `json:"key"`
	Selected     bool     `json:"selected"`
	CustomValues []string `json:"customValues,omitempty"`
}

// IsCustom reports whether the entry is an "Others" entry carrying free text.
func (s Selection) IsCustom() bool {
	return s.CustomValues != nil
}

// IsSelected is true for a checked box, or for a custom entry with at least
// one non-blank value. A blank custom entry never counts.
func (s Selection) IsSelected() bool {
	if s.IsCustom() {
		return len(s.customValues()) > 0
	}
	return s.Selected
}

// Values returns what the entry contributes to a joined list. Custom
// entries contribute their non-blank values, never their key.
func (s Selection) Values() []string {
	if s.IsCustom() {
		return s.customValues()
	}
	if s.Selected {
		return []string{s.Key}
	}
	return nil
}

func (s Selection) customValues() []string {
	var out []string
	for _, v := range s.CustomValues {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SelectionSet keeps entries in the order they were declared.
type SelectionSet []Selection

// Join flattens the selected entries into a comma-space separated list.
func (ss SelectionSet) Join() string {
	var parts []string
	for _, s := range ss {
		parts = append(parts, s.Values()...)
	}
	return strings.Join(parts, ", ")
}

// Keys returns the keys of the selected entries.
func (ss SelectionSet) Keys() []string {
	var keys []string
	for _, s := range ss {
		if s.IsSelected() {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

func (ss SelectionSet) AnySelected() bool {
	for _, s := range ss {
		if s.IsSelected() {
			return true
		}
	}
	return false
}

// Set replaces or appends an entry.
func (ss *SelectionSet) Set(sel Selection) {
	for i := range *ss {
		if (*ss)[i].Key == sel.Key {
			(*ss)[i] = sel
			return
		}
	}
	*ss = append(*ss, sel)
}

// UnmarshalJSON accepts either an object keyed by entry (values true/false,
// an array of custom strings, or {"selected":..,"customValues":[..]}),
// keeping key order, or an array of Selection objects.
func (ss *SelectionSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*ss = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []Selection
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("selection list: %w", err)
		}
		*ss = list
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("selection set must be an object or array")
	}

	var out SelectionSet
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected selection key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("selection %q: %w", key, err)
		}
		sel, err := decodeSelection(key, raw)
		if err != nil {
			return err
		}
		out = append(out, sel)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*ss = out
	return nil
}

func decodeSelection(key string, raw json.RawMessage) (Selection, error) {
	var flag bool
	if err := json.Unmarshal(raw, &flag); err == nil {
		return Selection{Key: key, Selected: flag}, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err == nil {
		if values == nil {
			values = []string{}
		}
		sel := Selection{Key: key, CustomValues: values}
		sel.Selected = len(sel.customValues()) > 0
		return sel, nil
	}
	var obj struct {
		Selected     bool     `json:"selected"`
		CustomValues []string `json:"customValues"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		sel := Selection{Key: key, Selected: obj.Selected, CustomValues: obj.CustomValues}
		if sel.IsCustom() {
			sel.Selected = len(sel.customValues()) > 0
		}
		return sel, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Selection{Key: key}, nil
	}
	return Selection{}, fmt.Errorf("selection %q: unsupported value %s", key, string(raw))
}

// MarshalJSON writes the object form back out in entry order.
func (ss SelectionSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range ss {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		var value []byte
		if s.IsCustom() {
			value, err = json.Marshal(s.CustomValues)
		} else {
			value, err = json.Marshal(s.Selected)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
