package core

// Character code constants
const (
	CharEOF = -1

	CharTAB       = 9
	CharLF        = 10
	CharFF        = 12
	CharCR        = 13
	CharSPACE     = 32
	CharBANG      = 33
	CharDQ        = 34
	CharHASH      = 35
	CharDollar    = 36
	CharAMPERSAND = 38
	CharSQ        = 39
	CharLPAREN    = 40
	CharRPAREN    = 41
	CharSTAR      = 42
	CharMINUS     = 45
	CharPERIOD    = 46
	CharSLASH     = 47
	CharCOLON     = 58
	CharSEMICOLON = 59
	CharLT        = 60
	CharEQ        = 61
	CharGT        = 62
	CharQUESTION  = 63
	CharAT        = 64

	Char0 = 48
	Char9 = 57

	CharA = 65
	CharF = 70
	CharX = 88
	CharZ = 90

	CharLBRACKET   = 91
	CharRBRACKET   = 93
	CharUnderscore = 95

	CharLowerA = 97
	CharLowerF = 102
	CharLowerX = 120
	CharLowerZ = 122
)

// IsWhitespace reports whether ch is markup whitespace
func IsWhitespace(ch int) bool {
	return ch == CharSPACE || ch == CharTAB || ch == CharLF || ch == CharCR || ch == CharFF
}

// IsDigit reports whether ch is an ASCII decimal digit
func IsDigit(ch int) bool {
	return ch >= Char0 && ch <= Char9
}

// IsAsciiLetter reports whether ch is an ASCII letter
func IsAsciiLetter(ch int) bool {
	return (ch >= CharLowerA && ch <= CharLowerZ) || (ch >= CharA && ch <= CharZ)
}

// IsAsciiHexDigit reports whether ch is an ASCII hexadecimal digit
func IsAsciiHexDigit(ch int) bool {
	return (ch >= CharLowerA && ch <= CharLowerF) || (ch >= CharA && ch <= CharF) || IsDigit(ch)
}

// IsQuote reports whether ch opens a quoted attribute value
func IsQuote(ch int) bool {
	return ch == CharSQ || ch == CharDQ
}

// IsNameStart reports whether ch can start a tag name
func IsNameStart(ch int) bool {
	return IsAsciiLetter(ch) || ch == CharUnderscore || ch == CharCOLON || ch > 0x7f
}

// IsNameChar reports whether ch can continue a tag or attribute name
func IsNameChar(ch int) bool {
	if IsAsciiLetter(ch) || IsDigit(ch) || ch > 0x7f {
		return true
	}
	switch ch {
	case CharMINUS, CharUnderscore, CharCOLON, CharPERIOD:
		return true
	}
	return false
}

// IsAttributeNameChar reports whether ch can appear in an attribute name.
// Binding syntaxes of template languages ([x], (y), @z, #ref, *dir) are allowed.
func IsAttributeNameChar(ch int) bool {
	if IsNameChar(ch) {
		return true
	}
	switch ch {
	case CharLBRACKET, CharRBRACKET, CharLPAREN, CharRPAREN, CharAT, CharHASH, CharSTAR, CharDollar:
		return true
	}
	return false
}

// ToLower lowercases an ASCII letter and leaves every other char untouched
func ToLower(ch int) int {
	if ch >= CharA && ch <= CharZ {
		return ch + 32
	}
	return ch
}
