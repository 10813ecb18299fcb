package ml_parser

// XmlTagModel is the TagModel of XML: every element may have a body and
// every end tag is required
type XmlTagModel struct{}

func (XmlTagModel) IsEmptyContent(name string) bool {
	return false
}

func (XmlTagModel) HasOptionalEndTag(name string) bool {
	return false
}

// NewXmlParser creates a Parser for XML documents. XML has no raw-text
// elements, so script and style bodies are lexed as markup.
func NewXmlParser(options *ParserOptions) *Parser {
	xmlOptions := ParserOptions{}
	if options != nil {
		xmlOptions = *options
	}
	xmlOptions.TagModel = XmlTagModel{}
	xmlOptions.Lexer.RawTextElements = []string{}
	return NewParser(&xmlOptions)
}
