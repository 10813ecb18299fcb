package ml_parser

import (
	"sort"
	"strings"
	"sync"
)

// TagContentType represents the content type of a tag
type TagContentType int

const (
	TagContentTypeRAW_TEXT TagContentType = iota
	TagContentTypeESCAPABLE_RAW_TEXT
	TagContentTypePARSABLE_DATA
)

// TagModel is the knowledge base the tree builder consults about tags. Names
// are compared case-insensitively.
type TagModel interface {
	// IsEmptyContent reports whether the element can never have a body
	IsEmptyContent(name string) bool
	// HasOptionalEndTag reports whether the element may be closed implicitly
	// without an error
	HasOptionalEndTag(name string) bool
}

// HtmlTagDefinition describes the behavior of an HTML tag
type HtmlTagDefinition struct {
	closedByParent bool
	isVoid         bool
	contentType    TagContentType
}

// HtmlTagDefinitionOptions are options for creating an HtmlTagDefinition
type HtmlTagDefinitionOptions struct {
	ClosedByParent bool
	IsVoid         bool
	ContentType    *TagContentType
}

// NewHtmlTagDefinition creates a new HtmlTagDefinition
func NewHtmlTagDefinition(opts HtmlTagDefinitionOptions) *HtmlTagDefinition {
	contentType := TagContentTypePARSABLE_DATA
	if opts.ContentType != nil {
		contentType = *opts.ContentType
	}
	return &HtmlTagDefinition{
		closedByParent: opts.ClosedByParent || opts.IsVoid,
		isVoid:         opts.IsVoid,
		contentType:    contentType,
	}
}

// ClosedByParent returns whether the end tag of this tag may be omitted
func (h *HtmlTagDefinition) ClosedByParent() bool {
	return h.closedByParent
}

// IsVoid returns whether this tag is void
func (h *HtmlTagDefinition) IsVoid() bool {
	return h.isVoid
}

// ContentType returns the content type of this tag
func (h *HtmlTagDefinition) ContentType() TagContentType {
	return h.contentType
}

var (
	tagDefinitionsOnce   sync.Once
	defaultTagDefinition *HtmlTagDefinition
	tagDefinitions       map[string]*HtmlTagDefinition
)

// GetHtmlTagDefinition returns the HTML tag definition for a tag name
func GetHtmlTagDefinition(tagName string) *HtmlTagDefinition {
	tagDefinitionsOnce.Do(initHtmlTagDefinitions)
	if def, exists := tagDefinitions[tagName]; exists {
		return def
	}
	if def, exists := tagDefinitions[strings.ToLower(tagName)]; exists {
		return def
	}
	return defaultTagDefinition
}

func initHtmlTagDefinitions() {
	defaultTagDefinition = NewHtmlTagDefinition(HtmlTagDefinitionOptions{})
	tagDefinitions = make(map[string]*HtmlTagDefinition)

	voidTags := []string{"base", "meta", "area", "embed", "link", "img", "input", "param", "hr", "br",
		"source", "track", "wbr", "col", "keygen"}
	for _, tag := range voidTags {
		tagDefinitions[tag] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{IsVoid: true})
	}

	// Elements whose end tag may be omitted
	optionalEndTags := []string{"p", "li", "dt", "dd", "rb", "rt", "rtc", "rp", "optgroup", "option",
		"thead", "tbody", "tfoot", "tr", "td", "th", "colgroup", "caption", "html", "head", "body"}
	for _, tag := range optionalEndTags {
		tagDefinitions[tag] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ClosedByParent: true})
	}

	rawText := TagContentTypeRAW_TEXT
	escapableRawText := TagContentTypeESCAPABLE_RAW_TEXT
	tagDefinitions["script"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ContentType: &rawText})
	tagDefinitions["style"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ContentType: &rawText})
	tagDefinitions["textarea"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ContentType: &escapableRawText})
	tagDefinitions["title"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ContentType: &escapableRawText})
}

// HtmlTagModel is the TagModel of the HTML tag definitions
type HtmlTagModel struct{}

func (HtmlTagModel) IsEmptyContent(name string) bool {
	return GetHtmlTagDefinition(name).IsVoid()
}

func (HtmlTagModel) HasOptionalEndTag(name string) bool {
	return GetHtmlTagDefinition(name).ClosedByParent()
}

// RawTextElements returns the names of the HTML elements whose body is raw
// text, for LexerOptions.RawTextElements
func (HtmlTagModel) RawTextElements() []string {
	tagDefinitionsOnce.Do(initHtmlTagDefinitions)
	var names []string
	for name, def := range tagDefinitions {
		if def.ContentType() == TagContentTypeRAW_TEXT {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
