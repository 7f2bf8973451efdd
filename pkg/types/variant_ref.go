package types

import (
	"encoding/json"
	"strings"
)

// VariantRefKind discriminates the two shapes a stored variant reference
// can take.
type VariantRefKind int

const (
	// VariantRefNone means no reference is stored at all.
	VariantRefNone VariantRefKind = iota
	// VariantRefSimple is a bare external variant id.
	VariantRefSimple
	// VariantRefOptionMap maps "<size>_<color>" option keys to variant ids,
	// with an optional "default" fallback key.
	VariantRefOptionMap
)

// VariantRef is the parsed form of a reward's external variant reference.
// The raw column is free text that is sometimes a plain id and sometimes a
// JSON object; parsing happens once, here, instead of ad hoc at call sites.
type VariantRef struct {
	kind    VariantRefKind
	id      string
	options map[string]string
}

// ParseVariantRef interprets the raw stored value. A value that looks like a
// JSON object but fails to parse degrades to a simple reference, matching
// how the field has historically been treated.
func ParseVariantRef(raw string) VariantRef {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return VariantRef{kind: VariantRefNone}
	}
	if strings.HasPrefix(trimmed, "{") {
		var options map[string]string
		if err := json.Unmarshal([]byte(trimmed), &options); err == nil {
			return VariantRef{kind: VariantRefOptionMap, options: options}
		}
	}
	return VariantRef{kind: VariantRefSimple, id: trimmed}
}

// Kind returns the parsed shape.
func (v VariantRef) Kind() VariantRefKind {
	return v.kind
}

// Matches reports whether the given external variant id resolves to this
// reference: equality for simple references, membership among the map's
// values (the "default" entry included) for option maps.
func (v VariantRef) Matches(variantID string) bool {
	if variantID == "" {
		return false
	}
	switch v.kind {
	case VariantRefSimple:
		return v.id == variantID
	case VariantRefOptionMap:
		for _, id := range v.options {
			if id == variantID {
				return true
			}
		}
	}
	return false
}

// Resolve returns the variant id for an option key, falling back to the
// "default" entry, then to the simple id.
func (v VariantRef) Resolve(optionKey string) (string, bool) {
	switch v.kind {
	case VariantRefSimple:
		return v.id, true
	case VariantRefOptionMap:
		if id, ok := v.options[optionKey]; ok && id != "" {
			return id, true
		}
		if id, ok := v.options["default"]; ok && id != "" {
			return id, true
		}
	}
	return "", false
}
