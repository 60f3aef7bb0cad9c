package parser

import (
	"strings"

	"github.com/jtwatson/htmldom/parser/dom"
)

//go:generate stringer -type=tokenType
type tokenType uint

const (
	characterToken tokenType = iota
	startTagToken
	endTagToken
	endOfFileToken
	commentToken
	docTypeToken
)

type tagType uint

const (
	startTag tagType = iota
	endTag
)

// Token is a concrete token that is ready to be emitted.
type Token struct {
	TokenType   tokenType
	TagName     string
	Attributes  []dom.Attribute
	SelfClosing bool
	ForceQuirks bool
	Data        string
}

// TokenBuilder accumulates the pieces of the token currently being
// tokenized. One builder is reused for the whole input; Reset clears it
// at each token boundary.
type TokenBuilder struct {
	attributes             []dom.Attribute
	attributeName          strings.Builder
	attributeValue         strings.Builder
	name                   strings.Builder
	data                   strings.Builder
	tempBuffer             strings.Builder
	selfClosing            bool
	forceQuirks            bool
	curTagType             tagType
	characterReferenceCode int
}

func newTokenBuilder() *TokenBuilder {
	return &TokenBuilder{}
}

// Reset clears every accumulator except the temp buffer and the numeric
// reference accumulator, which are owned by the character-reference
// states.
func (t *TokenBuilder) Reset() {
	t.attributes = nil
	t.attributeName.Reset()
	t.attributeValue.Reset()
	t.name.Reset()
	t.data.Reset()
	t.selfClosing = false
	t.forceQuirks = false
}

// EnableSelfClosing sets the self-closing flag on the current tag.
func (t *TokenBuilder) EnableSelfClosing() {
	t.selfClosing = true
}

// EnableForceQuirks sets the force-quirks flag on the current doctype.
func (t *TokenBuilder) EnableForceQuirks() {
	t.forceQuirks = true
}

// WriteName appends a character to the current tag or doctype name.
func (t *TokenBuilder) WriteName(r rune) {
	t.name.WriteRune(r)
}

// WriteData appends a character to the current comment or doctype data.
func (t *TokenBuilder) WriteData(r rune) {
	t.data.WriteRune(r)
}

// DataLen reports how much comment or doctype data has accumulated.
func (t *TokenBuilder) DataLen() int {
	return t.data.Len()
}

// WriteAttributeName appends a character to the pending attribute's name.
func (t *TokenBuilder) WriteAttributeName(r rune) {
	t.attributeName.WriteRune(r)
}

// WriteAttributeValue appends a character to the pending attribute's value.
func (t *TokenBuilder) WriteAttributeValue(r rune) {
	t.attributeValue.WriteRune(r)
}

// CommitAttribute moves the pending name/value pair onto the attribute
// list and clears both accumulators. Called at every new-attribute or
// tag-completion boundary. Attributes keep source order and duplicates
// are kept.
func (t *TokenBuilder) CommitAttribute() {
	name := t.attributeName.String()
	if name != "" {
		t.attributes = append(t.attributes, dom.Attribute{Name: name, Value: t.attributeValue.String()})
	}
	t.attributeName.Reset()
	t.attributeValue.Reset()
}

// WriteTempBuffer appends a character to the temporary buffer used by
// the character-reference states.
func (t *TokenBuilder) WriteTempBuffer(r rune) {
	t.tempBuffer.WriteRune(r)
}

// ResetTempBuffer clears the temporary buffer for the next reference.
func (t *TokenBuilder) ResetTempBuffer() {
	t.tempBuffer.Reset()
}

// TempBuffer returns the current temporary buffer contents.
func (t *TokenBuilder) TempBuffer() string {
	return t.tempBuffer.String()
}

// TempBufferCharTokens returns the temp buffer as one Character token
// per codepoint, for flushing a failed reference back into the stream.
func (t *TokenBuilder) TempBufferCharTokens() []Token {
	var tokens []Token
	for _, r := range t.tempBuffer.String() {
		tokens = append(tokens, t.CharacterToken(r))
	}
	return tokens
}

// SetCharRef sets the numeric character reference accumulator.
func (t *TokenBuilder) SetCharRef(i int) {
	t.characterReferenceCode = i
}

// GetCharRef returns the numeric character reference accumulator.
func (t *TokenBuilder) GetCharRef() int {
	return t.characterReferenceCode
}

// AddToCharRef adds a digit value to the accumulator.
func (t *TokenBuilder) AddToCharRef(i int) {
	t.characterReferenceCode += i
	// clamp keeps arbitrarily long digit runs from wrapping; anything
	// past the Unicode range collapses to U+FFFD at the end state anyway
	if t.characterReferenceCode > 0x110000 {
		t.characterReferenceCode = 0x110000
	}
}

// MultByCharRef scales the accumulator by the reference base.
func (t *TokenBuilder) MultByCharRef(i int) {
	t.characterReferenceCode *= i
	if t.characterReferenceCode > 0x110000 {
		t.characterReferenceCode = 0x110000
	}
}

// StartTagToken builds a start tag token from the builder contents.
func (t *TokenBuilder) StartTagToken() Token {
	return Token{
		TokenType:   startTagToken,
		TagName:     t.name.String(),
		Attributes:  t.attributes,
		SelfClosing: t.selfClosing,
	}
}

// EndTagToken builds an end tag token from the builder contents. End
// tags carry no attributes or self-closing flag.
func (t *TokenBuilder) EndTagToken() Token {
	return Token{
		TokenType: endTagToken,
		TagName:   t.name.String(),
	}
}

// CharacterToken builds a character token holding a single codepoint.
func (t *TokenBuilder) CharacterToken(r rune) Token {
	return Token{
		TokenType: characterToken,
		Data:      string(r),
	}
}

// EndOfFileToken builds an end of file token.
func (t *TokenBuilder) EndOfFileToken() Token {
	return Token{
		TokenType: endOfFileToken,
	}
}

// CommentToken builds a comment token from the builder contents.
func (t *TokenBuilder) CommentToken() Token {
	return Token{
		TokenType: commentToken,
		Data:      t.data.String(),
	}
}

// DocTypeToken builds a doctype token from the builder contents. Data
// holds everything that followed the name in the source.
func (t *TokenBuilder) DocTypeToken() Token {
	return Token{
		TokenType:   docTypeToken,
		TagName:     t.name.String(),
		Data:        t.data.String(),
		ForceQuirks: t.forceQuirks,
	}
}
