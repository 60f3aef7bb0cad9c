package parser

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// HTMLTokenizer holds state for the various states of the tokenizer.
type HTMLTokenizer struct {
	done                      bool
	returnState, currentState tokenizerState
	inputStream               *bufio.Reader
	emittedTokens             []Token
	tokenBuilder              *TokenBuilder
	lastEmittedStartTagName   string
}

// NewHTMLTokenizer creates a tokenizer that consumes the given HTML
// input stream.
func NewHTMLTokenizer(in io.Reader) *HTMLTokenizer {
	return &HTMLTokenizer{
		emittedTokens: []Token{},
		inputStream:   bufio.NewReader(in),
		tokenBuilder:  newTokenBuilder(),
	}
}

func (p *HTMLTokenizer) stateToParser(state tokenizerState) parserStateHandler {
	switch state {
	case dataState:
		return p.dataStateParser
	case rcDataState:
		return p.rcDataStateParser
	case tagOpenState:
		return p.tagOpenStateParser
	case endTagOpenState:
		return p.endTagOpenStateParser
	case tagNameState:
		return p.tagNameStateParser
	case rcDataLessThanSignState:
		return p.rcDataLessThanSignStateParser
	case rcDataEndTagOpenState:
		return p.rcDataEndTagOpenStateParser
	case rcDataEndTagNameState:
		return p.rcDataEndTagNameStateParser
	case beforeAttributeNameState:
		return p.beforeAttributeNameStateParser
	case attributeNameState:
		return p.attributeNameStateParser
	case afterAttributeNameState:
		return p.afterAttributeNameStateParser
	case beforeAttributeValueState:
		return p.beforeAttributeValueStateParser
	case attributeValueDoubleQuotedState:
		return p.attributeValueDoubleQuotedStateParser
	case attributeValueSingleQuotedState:
		return p.attributeValueSingleQuotedStateParser
	case attributeValueUnquotedState:
		return p.attributeValueUnquotedStateParser
	case afterAttributeValueQuotedState:
		return p.afterAttributeValueQuotedStateParser
	case selfClosingStartTagState:
		return p.selfClosingStartTagStateParser
	case bogusCommentState:
		return p.bogusCommentStateParser
	case markupDeclarationOpenState:
		return p.markupDeclarationOpenStateParser
	case commentStartState:
		return p.commentStartStateParser
	case commentStartDashState:
		return p.commentStartDashStateParser
	case commentState:
		return p.commentStateParser
	case commentLessThanSignState:
		return p.commentLessThanSignStateParser
	case commentLessThanSignBangState:
		return p.commentLessThanSignBangStateParser
	case commentLessThanSignBangDashState:
		return p.commentLessThanSignBangDashStateParser
	case commentLessThanSignBangDashDashState:
		return p.commentLessThanSignBangDashDashStateParser
	case commentEndDashState:
		return p.commentEndDashStateParser
	case commentEndState:
		return p.commentEndStateParser
	case commentEndBangState:
		return p.commentEndBangStateParser
	case doctypeState:
		return p.doctypeStateParser
	case beforeDoctypeNameState:
		return p.beforeDoctypeNameStateParser
	case doctypeNameState:
		return p.doctypeNameStateParser
	case afterDoctypeNameState:
		return p.afterDoctypeNameStateParser
	case characterReferenceState:
		return p.characterReferenceStateParser
	case namedCharacterReferenceState:
		return p.namedCharacterReferenceStateParser
	case numericCharacterReferenceState:
		return p.numericCharacterReferenceStateParser
	case hexadecimalCharacterReferenceStartState:
		return p.hexadecimalCharacterReferenceStartStateParser
	case decimalCharacterReferenceStartState:
		return p.decimalCharacterReferenceStartStateParser
	case hexadecimalCharacterReferenceState:
		return p.hexadecimalCharacterReferenceStateParser
	case decimalCharacterReferenceState:
		return p.decimalCharacterReferenceStateParser
	}

	return nil
}

func isSurrogate(code int) bool {
	return code >= 0xD800 && code <= 0xDFFF
}

func isASCIIAlphanumeric(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func wasConsumedByAttribute(returnState tokenizerState) bool {
	switch returnState {
	case attributeValueDoubleQuotedState, attributeValueSingleQuotedState, attributeValueUnquotedState:
		return true
	}
	return false
}

// flushCodePointsAsCharacterReference empties the temp buffer into the
// pending attribute value or the character stream, depending on where
// the reference started.
func (p *HTMLTokenizer) flushCodePointsAsCharacterReference() {
	if wasConsumedByAttribute(p.returnState) {
		for _, r := range p.tokenBuilder.TempBuffer() {
			p.tokenBuilder.WriteAttributeValue(r)
		}
	} else {
		p.emit(p.tokenBuilder.TempBufferCharTokens()...)
	}
	p.tokenBuilder.ResetTempBuffer()
}

// addEntity hands a resolved reference's replacement text to the
// pending attribute value or the character stream, then clears the
// temp buffer.
func (p *HTMLTokenizer) addEntity(replacement string) {
	if wasConsumedByAttribute(p.returnState) {
		for _, r := range replacement {
			p.tokenBuilder.WriteAttributeValue(r)
		}
	} else {
		for _, r := range replacement {
			p.emit(p.tokenBuilder.CharacterToken(r))
		}
	}
	p.tokenBuilder.ResetTempBuffer()
}

func (p *HTMLTokenizer) isApprEndTagToken() bool {
	return p.lastEmittedStartTagName == p.tokenBuilder.name.String()
}

func (p *HTMLTokenizer) emit(tokens ...Token) {
	for _, token := range tokens {
		if token.TokenType == startTagToken {
			p.lastEmittedStartTagName = token.TagName
		}
		p.emittedTokens = append(p.emittedTokens, token)
	}
}

func (p *HTMLTokenizer) dataStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '&':
		p.returnState = dataState
		return false, characterReferenceState
	case '<':
		return false, tagOpenState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, dataState
	}
}

func (p *HTMLTokenizer) rcDataStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '&':
		p.returnState = rcDataState
		return false, characterReferenceState
	case '<':
		return false, rcDataLessThanSignState
	case '\u0000':
		p.emit(p.tokenBuilder.CharacterToken('\uFFFD'))
		return false, rcDataState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, rcDataState
	}
}

func (p *HTMLTokenizer) tagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '!':
		return false, markupDeclarationOpenState
	case '/':
		return false, endTagOpenState
	case '?':
		p.tokenBuilder.Reset()
		return true, bogusCommentState
	default:
		if isASCIIAlpha(r) {
			p.tokenBuilder.Reset()
			p.tokenBuilder.curTagType = startTag
			return true, tagNameState
		}
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, dataState
	}
}

func (p *HTMLTokenizer) endTagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isASCIIAlpha(r):
		p.tokenBuilder.Reset()
		p.tokenBuilder.curTagType = endTag
		return true, tagNameState
	case r == '>':
		return false, dataState
	default:
		p.tokenBuilder.Reset()
		return true, bogusCommentState
	}
}

func (p *HTMLTokenizer) tagNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitPartialTagAtEOF()
	}
	switch {
	case isTokenizerWhitespace(r):
		return false, beforeAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '>':
		return false, p.emitCurrentTag()
	case isASCIIUpper(r):
		p.tokenBuilder.WriteName(r + 0x20)
		return false, tagNameState
	default:
		p.tokenBuilder.WriteName(r)
		return false, tagNameState
	}
}

func (p *HTMLTokenizer) rcDataLessThanSignStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, rcDataState
	}
	switch r {
	case '/':
		p.tokenBuilder.ResetTempBuffer()
		return false, rcDataEndTagOpenState
	default:
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, rcDataState
	}
}

func (p *HTMLTokenizer) defaultRcDataEndTagOpenStateParser() (bool, tokenizerState) {
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	return true, rcDataState
}

func (p *HTMLTokenizer) rcDataEndTagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.defaultRcDataEndTagOpenStateParser()
	}
	if isASCIIAlpha(r) {
		p.tokenBuilder.Reset()
		p.tokenBuilder.curTagType = endTag
		return true, rcDataEndTagNameState
	}
	return p.defaultRcDataEndTagOpenStateParser()
}

// defaultRcDataEndTagNameStateCase gives the consumed `</name` prefix
// back to the character stream when the collected name does not match
// the open element.
func (p *HTMLTokenizer) defaultRcDataEndTagNameStateCase() (bool, tokenizerState) {
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	p.emit(p.tokenBuilder.TempBufferCharTokens()...)
	p.tokenBuilder.ResetTempBuffer()
	return true, rcDataState
}

func (p *HTMLTokenizer) rcDataEndTagNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.defaultRcDataEndTagNameStateCase()
	}
	switch {
	case isTokenizerWhitespace(r):
		if p.isApprEndTagToken() {
			return false, beforeAttributeNameState
		}
		return p.defaultRcDataEndTagNameStateCase()
	case r == '/':
		if p.isApprEndTagToken() {
			return false, selfClosingStartTagState
		}
		return p.defaultRcDataEndTagNameStateCase()
	case r == '>':
		if p.isApprEndTagToken() {
			return false, p.emitCurrentTag()
		}
		return p.defaultRcDataEndTagNameStateCase()
	case isASCIIUpper(r):
		p.tokenBuilder.WriteTempBuffer(r)
		p.tokenBuilder.WriteName(r + 0x20)
		return false, rcDataEndTagNameState
	case isASCIILower(r):
		p.tokenBuilder.WriteTempBuffer(r)
		p.tokenBuilder.WriteName(r)
		return false, rcDataEndTagNameState
	default:
		return p.defaultRcDataEndTagNameStateCase()
	}
}

func (p *HTMLTokenizer) beforeAttributeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, afterAttributeNameState
	}
	switch {
	case isTokenizerWhitespace(r):
		return false, beforeAttributeNameState
	case r == '/', r == '>':
		return true, afterAttributeNameState
	case r == '=':
		// recoverable: the attribute's name starts with the stray =
		p.tokenBuilder.CommitAttribute()
		p.tokenBuilder.WriteAttributeName(r)
		return false, attributeNameState
	default:
		p.tokenBuilder.CommitAttribute()
		return true, attributeNameState
	}
}

func (p *HTMLTokenizer) attributeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, afterAttributeNameState
	}
	switch {
	case isTokenizerWhitespace(r), r == '/', r == '>':
		return true, afterAttributeNameState
	case r == '=':
		return false, beforeAttributeValueState
	case isASCIIUpper(r):
		p.tokenBuilder.WriteAttributeName(r + 0x20)
		return false, attributeNameState
	default:
		p.tokenBuilder.WriteAttributeName(r)
		return false, attributeNameState
	}
}

func (p *HTMLTokenizer) afterAttributeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitPartialTagAtEOF()
	}
	switch {
	case isTokenizerWhitespace(r):
		return false, afterAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '=':
		return false, beforeAttributeValueState
	case r == '>':
		return false, p.emitCurrentTag()
	default:
		p.tokenBuilder.CommitAttribute()
		return true, attributeNameState
	}
}

func (p *HTMLTokenizer) beforeAttributeValueStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, attributeValueUnquotedState
	}
	switch {
	case isTokenizerWhitespace(r):
		return false, beforeAttributeValueState
	case r == '"':
		return false, attributeValueDoubleQuotedState
	case r == '\'':
		return false, attributeValueSingleQuotedState
	case r == '>':
		return false, p.emitCurrentTag()
	default:
		return true, attributeValueUnquotedState
	}
}

func (p *HTMLTokenizer) attributeValueDoubleQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitPartialTagAtEOF()
	}
	switch r {
	case '"':
		return false, afterAttributeValueQuotedState
	case '&':
		p.returnState = attributeValueDoubleQuotedState
		return false, characterReferenceState
	default:
		p.tokenBuilder.WriteAttributeValue(r)
		return false, attributeValueDoubleQuotedState
	}
}

func (p *HTMLTokenizer) attributeValueSingleQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitPartialTagAtEOF()
	}
	switch r {
	case '\'':
		return false, afterAttributeValueQuotedState
	case '&':
		p.returnState = attributeValueSingleQuotedState
		return false, characterReferenceState
	default:
		p.tokenBuilder.WriteAttributeValue(r)
		return false, attributeValueSingleQuotedState
	}
}

func (p *HTMLTokenizer) attributeValueUnquotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitPartialTagAtEOF()
	}
	switch {
	case isTokenizerWhitespace(r):
		return false, beforeAttributeNameState
	case r == '&':
		p.returnState = attributeValueUnquotedState
		return false, characterReferenceState
	case r == '>':
		return false, p.emitCurrentTag()
	default:
		p.tokenBuilder.WriteAttributeValue(r)
		return false, attributeValueUnquotedState
	}
}

func (p *HTMLTokenizer) afterAttributeValueQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitPartialTagAtEOF()
	}
	switch {
	case isTokenizerWhitespace(r):
		return false, beforeAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '>':
		return false, p.emitCurrentTag()
	default:
		return true, beforeAttributeNameState
	}
}

func (p *HTMLTokenizer) selfClosingStartTagStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitPartialTagAtEOF()
	}
	switch r {
	case '>':
		p.tokenBuilder.EnableSelfClosing()
		return false, p.emitCurrentTag()
	default:
		return true, beforeAttributeNameState
	}
}

func (p *HTMLTokenizer) bogusCommentStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	case '\u0000':
		p.tokenBuilder.WriteData('\uFFFD')
		return false, bogusCommentState
	default:
		p.tokenBuilder.WriteData(r)
		return false, bogusCommentState
	}
}

// used below to peek at multi-character introducers
var doctypeKeyword = []byte("octype")
var cdataKeyword = []byte("CDATA[")
var peekDist = 6

func (p *HTMLTokenizer) defaultMarkupDeclarationOpenStateParser() (bool, tokenizerState) {
	p.tokenBuilder.Reset()
	return true, bogusCommentState
}

func (p *HTMLTokenizer) markupDeclarationOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.Reset()
		return true, bogusCommentState
	}

	switch r {
	case '-':
		peeked, _ := p.inputStream.Peek(1)
		if len(peeked) == 1 && peeked[0] == '-' {
			p.inputStream.Discard(1)
			p.tokenBuilder.Reset()
			return false, commentStartState
		}
		return p.defaultMarkupDeclarationOpenStateParser()
	case 'D', 'd':
		peeked, _ := p.inputStream.Peek(peekDist)
		if bytes.EqualFold(peeked, doctypeKeyword) {
			p.inputStream.Discard(peekDist)
			p.tokenBuilder.Reset()
			return false, doctypeState
		}
		return p.defaultMarkupDeclarationOpenStateParser()
	case '[':
		peeked, _ := p.inputStream.Peek(peekDist)
		if bytes.Equal(peeked, cdataKeyword) {
			p.inputStream.Discard(peekDist)
			p.tokenBuilder.Reset()
			for _, c := range "[CDATA[" {
				p.tokenBuilder.WriteData(c)
			}
			return false, bogusCommentState
		}
		return p.defaultMarkupDeclarationOpenStateParser()
	default:
		return p.defaultMarkupDeclarationOpenStateParser()
	}
}

func (p *HTMLTokenizer) commentStartStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, commentState
	}
	switch r {
	case '-':
		return false, commentStartDashState
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	default:
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentStartDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		return false, commentEndState
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	default:
		p.tokenBuilder.WriteData('-')
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '<':
		p.tokenBuilder.WriteData(r)
		return false, commentLessThanSignState
	case '-':
		return false, commentEndDashState
	case '\u0000':
		p.tokenBuilder.WriteData('\uFFFD')
		return false, commentState
	default:
		p.tokenBuilder.WriteData(r)
		return false, commentState
	}
}

func (p *HTMLTokenizer) commentLessThanSignStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, commentState
	}
	switch r {
	case '!':
		p.tokenBuilder.WriteData(r)
		return false, commentLessThanSignBangState
	case '<':
		p.tokenBuilder.WriteData(r)
		return false, commentLessThanSignState
	default:
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentLessThanSignBangStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, commentState
	}
	switch r {
	case '-':
		return false, commentLessThanSignBangDashState
	default:
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentLessThanSignBangDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, commentEndDashState
	}
	switch r {
	case '-':
		return false, commentLessThanSignBangDashDashState
	default:
		return true, commentEndDashState
	}
}

func (p *HTMLTokenizer) commentLessThanSignBangDashDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	return true, commentEndState
}

func (p *HTMLTokenizer) commentEndDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		return false, commentEndState
	default:
		p.tokenBuilder.WriteData('-')
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentEndStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	case '!':
		return false, commentEndBangState
	case '-':
		p.tokenBuilder.WriteData('-')
		return false, commentEndState
	default:
		p.tokenBuilder.WriteData('-')
		p.tokenBuilder.WriteData('-')
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentEndBangStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.tokenBuilder.WriteData('-')
		p.tokenBuilder.WriteData('-')
		p.tokenBuilder.WriteData('!')
		return false, commentEndDashState
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	default:
		p.tokenBuilder.WriteData('-')
		p.tokenBuilder.WriteData('-')
		p.tokenBuilder.WriteData('!')
		return true, commentState
	}
}

func (p *HTMLTokenizer) doctypeStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isTokenizerWhitespace(r):
		return false, beforeDoctypeNameState
	default:
		return true, beforeDoctypeNameState
	}
}

func (p *HTMLTokenizer) beforeDoctypeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isTokenizerWhitespace(r):
		return false, beforeDoctypeNameState
	case isASCIIUpper(r):
		p.tokenBuilder.WriteName(r + 0x20)
		return false, doctypeNameState
	case r == '\u0000':
		p.tokenBuilder.WriteName('\uFFFD')
		return false, doctypeNameState
	case r == '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.WriteName(r)
		return false, doctypeNameState
	}
}

func (p *HTMLTokenizer) doctypeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isTokenizerWhitespace(r):
		return false, afterDoctypeNameState
	case r == '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	case isASCIIUpper(r):
		p.tokenBuilder.WriteName(r + 0x20)
		return false, doctypeNameState
	case r == '\u0000':
		p.tokenBuilder.WriteName('\uFFFD')
		return false, doctypeNameState
	default:
		p.tokenBuilder.WriteName(r)
		return false, doctypeNameState
	}
}

// afterDoctypeNameStateParser collects everything between the doctype
// name and the closing > verbatim into the token's data. PUBLIC and
// SYSTEM identifiers are not given structure of their own.
func (p *HTMLTokenizer) afterDoctypeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isTokenizerWhitespace(r) && p.tokenBuilder.DataLen() == 0:
		return false, afterDoctypeNameState
	case r == '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	case r == '\u0000':
		p.tokenBuilder.WriteData('\uFFFD')
		return false, afterDoctypeNameState
	default:
		p.tokenBuilder.WriteData(r)
		return false, afterDoctypeNameState
	}
}

func (p *HTMLTokenizer) characterReferenceStateParser(r rune, eof bool) (bool, tokenizerState) {
	p.tokenBuilder.ResetTempBuffer()
	p.tokenBuilder.WriteTempBuffer('&')

	if eof {
		p.flushCodePointsAsCharacterReference()
		return true, p.returnState
	}
	switch {
	case isASCIIAlphanumeric(r):
		return true, namedCharacterReferenceState
	case r == '#':
		p.tokenBuilder.WriteTempBuffer(r)
		return false, numericCharacterReferenceState
	default:
		p.flushCodePointsAsCharacterReference()
		return true, p.returnState
	}
}

// namedCharacterReferenceStateParser walks the entity trie one
// codepoint at a time, keeping the consumed characters in the temp
// buffer so a failed reference can be flushed back verbatim. When the
// walk dead-ends, the longest terminal prefix wins and everything past
// it is carried forward as literal text.
func (p *HTMLTokenizer) namedCharacterReferenceStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		if !p.resolveNamedReferencePrefix([]rune(p.tokenBuilder.TempBuffer())[1:]) {
			p.flushCodePointsAsCharacterReference()
		}
		return true, p.returnState
	}

	searchList := []rune(p.tokenBuilder.TempBuffer())[1:]

	if r == ';' {
		if node := entities.lookup(append(searchList, ';')); node != nil && node.terminal {
			p.addEntity(node.replacement)
			return false, p.returnState
		}
		p.flushCodePointsAsCharacterReference()
		return true, p.returnState
	}

	extended := append(searchList[:len(searchList):len(searchList)], r)
	if entities.lookup(extended) != nil {
		p.tokenBuilder.WriteTempBuffer(r)
		return false, namedCharacterReferenceState
	}

	// Inside an attribute value, a reference not terminated by ; must
	// not swallow characters when more name characters follow: &notx
	// in href="&notx" stays literal.
	if wasConsumedByAttribute(p.returnState) && (r == '=' || isASCIIAlphanumeric(r)) {
		p.flushCodePointsAsCharacterReference()
		return true, p.returnState
	}

	if !p.resolveNamedReferencePrefix(searchList) {
		p.flushCodePointsAsCharacterReference()
	}
	return true, p.returnState
}

// resolveNamedReferencePrefix resolves the longest terminal prefix of
// the consumed reference name, carrying the characters past it forward
// as literal text. It reports whether any prefix resolved.
func (p *HTMLTokenizer) resolveNamedReferencePrefix(searchList []rune) bool {
	for i := len(searchList); i > 0; i-- {
		node := entities.lookup(searchList[:i])
		if node == nil || !node.terminal {
			continue
		}
		p.addEntity(node.replacement)
		for _, c := range searchList[i:] {
			p.tokenBuilder.WriteTempBuffer(c)
		}
		p.flushCodePointsAsCharacterReference()
		return true
	}
	return false
}

func (p *HTMLTokenizer) numericCharacterReferenceStateParser(r rune, eof bool) (bool, tokenizerState) {
	p.tokenBuilder.SetCharRef(0)
	if eof {
		return true, decimalCharacterReferenceStartState
	}
	switch r {
	case 'x', 'X':
		p.tokenBuilder.WriteTempBuffer(r)
		return false, hexadecimalCharacterReferenceStartState
	default:
		return true, decimalCharacterReferenceStartState
	}
}

func (p *HTMLTokenizer) hexadecimalCharacterReferenceStartStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.flushCodePointsAsCharacterReference()
		return true, p.returnState
	}
	if isASCIIHexDigit(r) {
		return true, hexadecimalCharacterReferenceState
	}
	p.flushCodePointsAsCharacterReference()
	return true, p.returnState
}

func (p *HTMLTokenizer) decimalCharacterReferenceStartStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.flushCodePointsAsCharacterReference()
		return true, p.returnState
	}
	if isASCIIDigit(r) {
		return true, decimalCharacterReferenceState
	}
	p.flushCodePointsAsCharacterReference()
	return true, p.returnState
}

func (p *HTMLTokenizer) hexadecimalCharacterReferenceStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.numericCharacterReferenceEnd()
		return true, p.returnState
	}
	switch {
	case isASCIIDigit(r):
		p.tokenBuilder.MultByCharRef(16)
		p.tokenBuilder.AddToCharRef(int(r - 0x30))
		return false, hexadecimalCharacterReferenceState
	case r >= 'A' && r <= 'F':
		p.tokenBuilder.MultByCharRef(16)
		p.tokenBuilder.AddToCharRef(int(r - 0x37))
		return false, hexadecimalCharacterReferenceState
	case r >= 'a' && r <= 'f':
		p.tokenBuilder.MultByCharRef(16)
		p.tokenBuilder.AddToCharRef(int(r - 0x57))
		return false, hexadecimalCharacterReferenceState
	case r == ';':
		p.numericCharacterReferenceEnd()
		return false, p.returnState
	default:
		p.numericCharacterReferenceEnd()
		return true, p.returnState
	}
}

func (p *HTMLTokenizer) decimalCharacterReferenceStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.numericCharacterReferenceEnd()
		return true, p.returnState
	}
	switch {
	case isASCIIDigit(r):
		p.tokenBuilder.MultByCharRef(10)
		p.tokenBuilder.AddToCharRef(int(r - 0x30))
		return false, decimalCharacterReferenceState
	case r == ';':
		p.numericCharacterReferenceEnd()
		return false, p.returnState
	default:
		p.numericCharacterReferenceEnd()
		return true, p.returnState
	}
}

// Windows-1252 patch-up codes: numeric references into the C1 range
// are interpreted as their historical single-byte encoding.
var win1252ReplacementTable = map[int]rune{
	0x80: 0x20AC,
	0x82: 0x201A,
	0x83: 0x0192,
	0x84: 0x201E,
	0x85: 0x2026,
	0x86: 0x2020,
	0x87: 0x2021,
	0x88: 0x02C6,
	0x89: 0x2030,
	0x8A: 0x0160,
	0x8B: 0x2039,
	0x8C: 0x0152,
	0x8E: 0x017D,
	0x91: 0x2018,
	0x92: 0x2019,
	0x93: 0x201C,
	0x94: 0x201D,
	0x95: 0x2022,
	0x96: 0x2013,
	0x97: 0x2014,
	0x98: 0x02DC,
	0x99: 0x2122,
	0x9A: 0x0161,
	0x9B: 0x203A,
	0x9C: 0x0153,
	0x9E: 0x017E,
	0x9F: 0x0178,
}

// numericCharacterReferenceEnd sanitizes the accumulated code and
// hands the resulting scalar to the current attribute value or the
// character stream. Noncharacters pass through untouched.
func (p *HTMLTokenizer) numericCharacterReferenceEnd() {
	code := p.tokenBuilder.GetCharRef()
	switch {
	case code == 0, code > 0x10FFFF, isSurrogate(code):
		code = 0xFFFD
	default:
		if replacement, ok := win1252ReplacementTable[code]; ok {
			code = int(replacement)
		}
	}
	p.addEntity(string(rune(code)))
}

// emitCurrentTag commits the pending attribute, emits the tag under
// construction, and hands control back to the data state.
func (p *HTMLTokenizer) emitCurrentTag() tokenizerState {
	p.tokenBuilder.CommitAttribute()
	switch p.tokenBuilder.curTagType {
	case startTag:
		p.emit(p.tokenBuilder.StartTagToken())
	case endTag:
		p.emit(p.tokenBuilder.EndTagToken())
	}

	return dataState
}

// emitPartialTagAtEOF emits whatever tag was under construction when
// the input ran out, then the end of file token.
func (p *HTMLTokenizer) emitPartialTagAtEOF() (bool, tokenizerState) {
	p.emitCurrentTag()
	p.emit(p.tokenBuilder.EndOfFileToken())
	return false, dataState
}

// a parserStateHandler takes in a rune and a bool representing end of file
// and returns whether to reconsume plus the next state to transition to.
type parserStateHandler func(in rune, eof bool) (bool, tokenizerState)

//go:generate stringer -type=tokenizerState
type tokenizerState uint

const (
	dataState tokenizerState = iota
	rcDataState
	tagOpenState
	endTagOpenState
	tagNameState
	rcDataLessThanSignState
	rcDataEndTagOpenState
	rcDataEndTagNameState
	beforeAttributeNameState
	attributeNameState
	afterAttributeNameState
	beforeAttributeValueState
	attributeValueDoubleQuotedState
	attributeValueSingleQuotedState
	attributeValueUnquotedState
	afterAttributeValueQuotedState
	selfClosingStartTagState
	bogusCommentState
	markupDeclarationOpenState
	commentStartState
	commentStartDashState
	commentState
	commentLessThanSignState
	commentLessThanSignBangState
	commentLessThanSignBangDashState
	commentLessThanSignBangDashDashState
	commentEndDashState
	commentEndState
	commentEndBangState
	doctypeState
	beforeDoctypeNameState
	doctypeNameState
	afterDoctypeNameState
	characterReferenceState
	namedCharacterReferenceState
	numericCharacterReferenceState
	hexadecimalCharacterReferenceStartState
	decimalCharacterReferenceStartState
	hexadecimalCharacterReferenceState
	decimalCharacterReferenceState
)

func isTokenizerWhitespace(r rune) bool {
	switch r {
	case '\u0009', '\u000A', '\u000C', '\u0020':
		return true
	default:
		return false
	}
}

func isASCIIUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isASCIILower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isASCIIAlpha(r rune) bool {
	return isASCIIUpper(r) || isASCIILower(r)
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIIHexDigit(r rune) bool {
	return isASCIIDigit(r) || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')
}

// normalizeNewlines collapses \r\n pairs and lone \r into \n before
// the state machine sees them.
func (p *HTMLTokenizer) normalizeNewlines(r rune) rune {
	if r == '\u000D' {
		b, err := p.inputStream.Peek(1)
		if err == nil && len(b) > 0 && b[0] == '\u000A' {
			p.inputStream.Discard(1)
		}
		return '\u000A'
	}

	return r
}

func (p *HTMLTokenizer) takeEmittedToken() *Token {
	if len(p.emittedTokens) > 0 {
		ret := p.emittedTokens[0]
		p.emittedTokens = p.emittedTokens[1:]
		if ret.TokenType == endOfFileToken {
			p.done = true
		}
		return &ret
	}
	return nil
}

// Next reports whether more tokens remain. It returns false once the
// end of file token has been taken.
func (p *HTMLTokenizer) Next() bool {
	return !p.done
}

// Token returns the next token. The tree constructor hands back a
// Progress so it can redirect the tokenizer, which it does when a
// start tag switches the following content to rcdata.
func (p *HTMLTokenizer) Token(progress *Progress) (*Token, error) {
	if progress != nil && progress.TokenizerState != nil {
		p.currentState = *progress.TokenizerState
	}

	// some states emit more than one token at a time and some emit
	// none; dispatch runes until at least one is available
	for {
		token := p.takeEmittedToken()
		if token != nil {
			return token, nil
		}

		r, _, err := p.inputStream.ReadRune()
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "reading input stream")
		}

		p.processRune(p.normalizeNewlines(r), err == io.EOF)
	}
}

// processRune dispatches one codepoint, looping while handlers ask to
// reconsume it in their successor state.
func (p *HTMLTokenizer) processRune(r rune, eof bool) {
	reconsume := true
	for reconsume {
		prev := p.currentState
		reconsume, p.currentState = p.stateToParser(prev)(r, eof)
		if logrus.IsLevelEnabled(logrus.TraceLevel) {
			logrus.WithFields(logrus.Fields{
				"rune": string(r),
				"from": prev.String(),
				"to":   p.currentState.String(),
			}).Trace("tokenizer step")
		}
	}
}
