package ml_parser

import (
	"fmt"

	"golang.org/x/net/html/atom"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeTEXT TokenType = iota
	TokenTypeWS
	TokenTypeERROR
	TokenTypeTAG_OPEN_SYMBOL
	TokenTypeTAG_OPEN
	TokenTypeTAG_CLOSE
	TokenTypeTAG_CLOSE_SYMBOL
	TokenTypeATTR_NAME
	TokenTypeOPERATOR
	TokenTypeATTR_VALUE
	TokenTypeATTR_VALUE_JAVASCRIPT
	TokenTypeATTR_VALUE_CSS
	TokenTypeCOMMENT
	TokenTypeDECLARATION
	TokenTypeSGML_COMMENT
	TokenTypeCDATA
	TokenTypeCHARACTER
	TokenTypeSCRIPT
	TokenTypeSTYLE
	TokenTypeEL_OPEN_DELIMITER
	TokenTypeEL_CONTENT
	TokenTypeEL_CLOSE_DELIMITER
)

var tokenTypeNames = [...]string{
	TokenTypeTEXT:                  "TEXT",
	TokenTypeWS:                    "WS",
	TokenTypeERROR:                 "ERROR",
	TokenTypeTAG_OPEN_SYMBOL:       "TAG_OPEN_SYMBOL",
	TokenTypeTAG_OPEN:              "TAG_OPEN",
	TokenTypeTAG_CLOSE:             "TAG_CLOSE",
	TokenTypeTAG_CLOSE_SYMBOL:      "TAG_CLOSE_SYMBOL",
	TokenTypeATTR_NAME:             "ATTR_NAME",
	TokenTypeOPERATOR:              "OPERATOR",
	TokenTypeATTR_VALUE:            "ATTR_VALUE",
	TokenTypeATTR_VALUE_JAVASCRIPT: "ATTR_VALUE_JAVASCRIPT",
	TokenTypeATTR_VALUE_CSS:        "ATTR_VALUE_CSS",
	TokenTypeCOMMENT:               "COMMENT",
	TokenTypeDECLARATION:           "DECLARATION",
	TokenTypeSGML_COMMENT:          "SGML_COMMENT",
	TokenTypeCDATA:                 "CDATA",
	TokenTypeCHARACTER:             "CHARACTER",
	TokenTypeSCRIPT:                "SCRIPT",
	TokenTypeSTYLE:                 "STYLE",
	TokenTypeEL_OPEN_DELIMITER:     "EL_OPEN_DELIMITER",
	TokenTypeEL_CONTENT:            "EL_CONTENT",
	TokenTypeEL_CLOSE_DELIMITER:    "EL_CLOSE_DELIMITER",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsAttributeValue reports whether t is one of the attribute value types
func (t TokenType) IsAttributeValue() bool {
	return t == TokenTypeATTR_VALUE || t == TokenTypeATTR_VALUE_JAVASCRIPT || t == TokenTypeATTR_VALUE_CSS
}

// IsExpression reports whether t belongs to an expression-language region
func (t TokenType) IsExpression() bool {
	return t == TokenTypeEL_OPEN_DELIMITER || t == TokenTypeEL_CONTENT || t == TokenTypeEL_CLOSE_DELIMITER
}

// Token property keys
const (
	// PropertyELMimeType is the content type of an expression-language region
	PropertyELMimeType = "el-mimetype"
	// PropertyEmbeddingMimeType is the embedded language of an attribute value
	PropertyEmbeddingMimeType = "embedding-mimetype"
	// PropertyCSSSelectorKind is "class" or "id" on class/id attribute values
	PropertyCSSSelectorKind = "css-selector-kind"
	// PropertyRawTextTag is the tag name, as written, of a raw-text body
	PropertyRawTextTag = "raw-text-tag"
	// PropertyDoctypePart identifies the role of a doctype declaration token
	PropertyDoctypePart = "doctype-part"
)

// Doctype part values
const (
	DoctypePartKeyword  = "keyword"
	DoctypePartRoot     = "root"
	DoctypePartPublic   = "public"
	DoctypePartSystem   = "system"
	DoctypePartPublicID = "public-id"
	DoctypePartSystemID = "system-id"
	// DoctypePartOther marks any other word, literal or internal subset
	DoctypePartOther = "other"
)

// Token is a typed span of the input. Tokens of one input are contiguous and
// cover it exactly once.
type Token struct {
	Type       TokenType
	Offset     int
	Text       string
	Properties map[string]string
}

// NewToken creates a new Token. Short texts that repeat across documents are
// replaced by shared instances.
func NewToken(tokenType TokenType, offset int, text string) *Token {
	return &Token{
		Type:   tokenType,
		Offset: offset,
		Text:   internTokenText(tokenType, text),
	}
}

// Length returns the length of the token in bytes
func (t *Token) Length() int {
	return len(t.Text)
}

// End returns the offset just past the token
func (t *Token) End() int {
	return t.Offset + len(t.Text)
}

// Property returns the named property of the token
func (t *Token) Property(key string) (string, bool) {
	if t.Properties == nil {
		return "", false
	}
	value, ok := t.Properties[key]
	return value, ok
}

func (t *Token) setProperty(key, value string) {
	if t.Properties == nil {
		t.Properties = make(map[string]string, 1)
	}
	t.Properties[key] = value
}

// shifted returns a copy of the token moved by delta bytes
func (t Token) shifted(delta int) Token {
	t.Offset += delta
	return t
}

func (t *Token) String() string {
	return fmt.Sprintf("%s(%d,%q)", t.Type, t.Offset, t.Text)
}

var punctuation = map[string]string{}

func init() {
	for _, s := range []string{"<", "</", ">", "/>", "=", " ", "\n", "\t", "\r\n", "  ", "{{", "}}", "${", "#{", "}"} {
		punctuation[s] = s
	}
}

// internTokenText returns the flyweight instance of text when one exists.
// Known HTML tag and attribute names come from the atom table.
func internTokenText(tokenType TokenType, text string) string {
	switch tokenType {
	case TokenTypeTAG_OPEN, TokenTypeTAG_CLOSE, TokenTypeATTR_NAME:
		if a := atom.Lookup([]byte(text)); a != 0 {
			return a.String()
		}
	case TokenTypeTAG_OPEN_SYMBOL, TokenTypeTAG_CLOSE_SYMBOL, TokenTypeOPERATOR, TokenTypeWS,
		TokenTypeEL_OPEN_DELIMITER, TokenTypeEL_CLOSE_DELIMITER:
		if shared, ok := punctuation[text]; ok {
			return shared
		}
	}
	return text
}
