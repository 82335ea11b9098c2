package options

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Source records where a resolved value came from.
type Source int

const (
	FromDefault Source = iota
	FromOverride
	FromDerivation
)

func (s Source) String() string {
	switch s {
	case FromOverride:
		return "override"
	case FromDerivation:
		return "derived"
	default:
		return "default"
	}
}

type value struct {
	text   string
	flag   bool
	isFlag bool
	source Source
}

// Context is the resolved option values of one generation run.
// It is immutable once Resolve returns it.
type Context struct {
	values map[string]value
}

// Get returns the string form of key.
func (c *Context) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v.text, ok
}

// Lookup is Get; it lets a Context serve as a predicate environment.
func (c *Context) Lookup(key string) (string, bool) {
	return c.Get(key)
}

// Flag returns the typed value of a yes/no option.
func (c *Context) Flag(key string) (enabled bool, isFlag bool) {
	v, ok := c.values[key]
	if !ok || !v.isFlag {
		return false, false
	}
	return v.flag, true
}

// Bool returns the value of a flag, false for anything else.
func (c *Context) Bool(key string) bool {
	v, _ := c.Flag(key)
	return v
}

// Source reports how key got its value.
func (c *Context) Source(key string) Source {
	return c.values[key].source
}

// Keys returns every key, sorted.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of resolved keys.
func (c *Context) Len() int {
	return len(c.values)
}

// Data returns template data: flags as bool, everything else as string.
// The map is a fresh copy.
func (c *Context) Data() map[string]any {
	data := make(map[string]any, len(c.values))
	for k, v := range c.values {
		if v.isFlag {
			data[k] = v.flag
		} else {
			data[k] = v.text
		}
	}
	return data
}

// Strings returns every key with its string form.
func (c *Context) Strings() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v.text
	}
	return out
}

// Digest returns a stable encoding of the context. Two contexts with equal
// digests render identical trees.
func (c *Context) Digest() []byte {
	type entry struct {
		Key   string `json:"k"`
		Value string `json:"v"`
		Flag  string `json:"f,omitempty"`
	}
	entries := make([]entry, 0, len(c.values))
	for _, k := range c.Keys() {
		v := c.values[k]
		e := entry{Key: k, Value: v.text}
		if v.isFlag {
			e.Flag = strconv.FormatBool(v.flag)
		}
		entries = append(entries, e)
	}
	// Marshalling strings cannot fail
	b, _ := json.Marshal(entries)
	return b
}
