package meta

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// TagKey is the struct tag key read by this package.
const TagKey = "reflcache"

// Tag is one key:"value" pair of a struct tag, with the value split on commas.
//
//	`json:"name,omitempty"` -> Tag{Key: "json", Name: "name", Options: ["omitempty"]}
type Tag struct {
	Key     string
	Value   string   // raw, unsplit value
	Name    string   // first comma-separated element
	Options []string // remaining elements
}

// HasOption reports whether opt is one of the tag's options. The name element counts,
// so `reflcache:"readonly"` has option readonly.
func (t Tag) HasOption(opt string) bool {
	return t.Name == opt || slices.Contains(t.Options, opt)
}

// TagParser splits struct tags into Tags and caches the result per raw tag string.
type TagParser struct {
	cache   map[reflect.StructTag][]Tag
	cacheMu sync.RWMutex
}

// NewTagParser returns an empty parser.
func NewTagParser() *TagParser {
	return &TagParser{
		cache: make(map[reflect.StructTag][]Tag, 128),
	}
}

var defaultTagParser = NewTagParser()

// Parse splits tag into its key:"value" pairs in declaration order.
// Results are cached per raw tag string, so repeated fields parse once.
//
// Supported tag syntax:
//
//	`json:"id"`                        // Name "id"
//	`json:"id,omitempty"`              // Name "id", Options ["omitempty"]
//	`reflcache:"readonly"`             // marks a field read-only
//	`json:"-" yaml:"name"`             // several keys, kept in order
//	`doc:"say \"hi\""`                 // quoted values are unquoted
//
// Parameters:
//   - tag: the complete struct tag of a field
//
// Returns: the parsed tags, or the pairs preceding a syntax error together with an
// ErrArgument error. Only well-formed tags are cached.
func (p *TagParser) Parse(tag reflect.StructTag) ([]Tag, error) {
	if tag == "" {
		return nil, nil
	}

	p.cacheMu.RLock()
	if cached, ok := p.cache[tag]; ok {
		p.cacheMu.RUnlock()
		return cached, nil
	}
	p.cacheMu.RUnlock()

	tags, err := parseTag(string(tag))
	if err != nil {
		return tags, err
	}

	p.cacheMu.Lock()
	p.cache[tag] = tags
	p.cacheMu.Unlock()

	return tags, nil
}

// ClearCache drops every parsed tag.
func (p *TagParser) ClearCache() {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	clear(p.cache)
}

// CacheSize returns the number of distinct tags parsed so far.
func (p *TagParser) CacheSize() int {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	return len(p.cache)
}

// parseTag follows the conventional struct tag grammar used by reflect.StructTag.Lookup.
func parseTag(tag string) ([]Tag, error) {
	var tags []Tag

	for tag != "" {
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}

		// Key runs up to the colon; control characters, spaces and quotes end it early.
		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			return tags, fmt.Errorf("%w: malformed struct tag near %q", ErrArgument, tag)
		}
		key := tag[:i]
		tag = tag[i+1:]

		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			return tags, fmt.Errorf("%w: unterminated value for struct tag key %q", ErrArgument, key)
		}
		quoted := tag[:i+1]
		tag = tag[i+1:]

		value, err := strconv.Unquote(quoted)
		if err != nil {
			return tags, fmt.Errorf("%w: struct tag key %q: %v", ErrArgument, key, err)
		}

		tags = append(tags, newTag(key, value))
	}

	return tags, nil
}

func newTag(key, value string) Tag {
	t := Tag{Key: key, Value: value}

	parts := strings.Split(value, ",")
	t.Name = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		if opt = strings.TrimSpace(opt); opt != "" {
			t.Options = append(t.Options, opt)
		}
	}
	return t
}
