// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Meta keys shared between providers and weight calculators. The meta
// bag is internal signal passing, not part of the public API response.
const (
	MetaCreation      = "creation"
	MetaLastUpdate    = "lastUpdate"
	MetaOwner         = "owner"
	MetaKeywords      = "keywords"
	MetaLinkCreation  = "linkCreation"
	MetaLinkCreator   = "linkCreator"
	MetaLinkRecipient = "linkRecipient"
)

// MetaKind discriminates the variants a MetaValue can hold.
type MetaKind int

const (
	MetaKindString MetaKind = iota
	MetaKindInt
	MetaKindList
)

// MetaValue is a small tagged union over the value types providers may
// stash in a resource's meta bag: string, int64, or string list. It
// serializes as the natural JSON value (string, number, array) so the
// cache wire format stays a flat object.
type MetaValue struct {
	kind MetaKind
	str  string
	num  int64
	list []string
}

// MetaString wraps a string value.
func MetaString(s string) MetaValue { return MetaValue{kind: MetaKindString, str: s} }

// MetaInt wraps an integer value (timestamps, counters).
func MetaInt(i int64) MetaValue { return MetaValue{kind: MetaKindInt, num: i} }

// MetaList wraps a list of strings (keyword lists).
func MetaList(vs ...string) MetaValue { return MetaValue{kind: MetaKindList, list: vs} }

// Kind returns the variant stored in the value.
func (v MetaValue) Kind() MetaKind { return v.kind }

// String returns the string form of the value. Non-string variants
// return the empty string.
func (v MetaValue) String() string {
	if v.kind != MetaKindString {
		return ""
	}
	return v.str
}

// Int returns the integer form of the value, or zero for non-integer
// variants.
func (v MetaValue) Int() int64 {
	if v.kind != MetaKindInt {
		return 0
	}
	return v.num
}

// List returns the string-list form of the value, or nil for other
// variants.
func (v MetaValue) List() []string {
	if v.kind != MetaKindList {
		return nil
	}
	return v.list
}

// Equal reports deep equality between two values.
func (v MetaValue) Equal(o MetaValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case MetaKindString:
		return v.str == o.str
	case MetaKindInt:
		return v.num == o.num
	case MetaKindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON writes the underlying value without a wrapper object.
func (v MetaValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case MetaKindString:
		return json.Marshal(v.str)
	case MetaKindInt:
		return json.Marshal(v.num)
	case MetaKindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return nil, fmt.Errorf("unknown meta kind %d", v.kind)
}

// UnmarshalJSON restores the variant from the JSON value shape.
func (v *MetaValue) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty meta value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = MetaString(s)
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = MetaList(list...)
		return nil
	default:
		var i int64
		if err := json.Unmarshal(data, &i); err != nil {
			return fmt.Errorf("unsupported meta value %s: %w", string(data), err)
		}
		*v = MetaInt(i)
		return nil
	}
}
