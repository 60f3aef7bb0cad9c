package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtwatson/htmldom/parser/dom"
)

// collectTokens drives the tokenizer over the whole input without a
// tree constructor attached.
func collectTokens(t *testing.T, in string) []Token {
	t.Helper()
	p := NewHTMLTokenizer(strings.NewReader(in))
	progress := &Progress{}
	var tokens []Token
	for p.Next() {
		token, err := p.Token(progress)
		require.NoError(t, err)
		tokens = append(tokens, *token)
	}
	return tokens
}

// characterData concatenates the data of every character token.
func characterData(tokens []Token) string {
	var b strings.Builder
	for _, token := range tokens {
		if token.TokenType == characterToken {
			b.WriteString(token.Data)
		}
	}
	return b.String()
}

func firstTokenOfType(tokens []Token, tt tokenType) *Token {
	for i := range tokens {
		if tokens[i].TokenType == tt {
			return &tokens[i]
		}
	}
	return nil
}

type tokenizerAttributeAccuracyTestcase struct {
	inHTML string          // snippet of HTML to tokenize (should only be one element)
	attrs  []dom.Attribute // expected attributes on the first start tag token, in source order
}

var tokenizerAttributeAccuracyTests = []tokenizerAttributeAccuracyTestcase{
	{"<head></head>", nil},
	{"<script src='123' onload='test'></script>", []dom.Attribute{
		{Name: "src", Value: "123"},
		{Name: "onload", Value: "test"},
	}},
	{"<a href='https://google.com' onclick='alert(1)'>Click this</a>", []dom.Attribute{
		{Name: "href", Value: "https://google.com"},
		{Name: "onclick", Value: "alert(1)"},
	}},
	// duplicates are kept, in source order
	{"<script src='123' src='456'></script>", []dom.Attribute{
		{Name: "src", Value: "123"},
		{Name: "src", Value: "456"},
	}},
	{"<script src=123 onload=test></script>", []dom.Attribute{
		{Name: "src", Value: "123"},
		{Name: "onload", Value: "test"},
	}},
	{"<script src='123' onload='test' ></script>", []dom.Attribute{
		{Name: "src", Value: "123"},
		{Name: "onload", Value: "test"},
	}},
	{"<script =src='123'onload='test' ></script>", []dom.Attribute{
		{Name: "=src", Value: "123"},
		{Name: "onload", Value: "test"},
	}},
	{"<script src></script>", []dom.Attribute{
		{Name: "src", Value: ""},
	}},
	{"<script src test></script>", []dom.Attribute{
		{Name: "src", Value: ""},
		{Name: "test", Value: ""},
	}},
	{"<script 'asd></script>", []dom.Attribute{
		{Name: "'asd", Value: ""},
	}},
	{"<script <asd></script>", []dom.Attribute{
		{Name: "<asd", Value: ""},
	}},
	{"<script ABC=123></script>", []dom.Attribute{
		{Name: "abc", Value: "123"},
	}},
	{"<script abc=></script>", []dom.Attribute{
		{Name: "abc", Value: ""},
	}},
	{"<script\tabc=123></script>", []dom.Attribute{
		{Name: "abc", Value: "123"},
	}},
	{"<script foo = 'bar'></script>", []dom.Attribute{
		{Name: "foo", Value: "bar"},
	}},
}

func TestTokenizerAttributeAccuracy(t *testing.T) {
	for _, tt := range tokenizerAttributeAccuracyTests {
		tt := tt
		t.Run(tt.inHTML, func(t *testing.T) {
			t.Parallel()
			tokens := collectTokens(t, tt.inHTML)
			start := firstTokenOfType(tokens, startTagToken)
			require.NotNil(t, start, "expected a start tag token")
			if diff := cmp.Diff(tt.attrs, start.Attributes); diff != "" {
				t.Errorf("attribute mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type stateMachineTestCase struct {
	inRune            rune           // the rune to pass to the startingState
	startingState     tokenizerState // the state to start from
	shouldReconsume   bool           // the expectation if the next state should reconsume
	nextExpectedState tokenizerState // the next state
}

// TestStateParsers checks the basic transitions of each state handler.
// Flows that depend on accumulated state are covered by the scenario
// tests instead.
func TestStateParsers(t *testing.T) {
	stateParserTests := []stateMachineTestCase{
		{'&', dataState, false, characterReferenceState},
		{'<', dataState, false, tagOpenState},
		{'a', dataState, false, dataState},
		{'&', rcDataState, false, characterReferenceState},
		{'<', rcDataState, false, rcDataLessThanSignState},
		{'x', rcDataState, false, rcDataState},
		{'!', tagOpenState, false, markupDeclarationOpenState},
		{'/', tagOpenState, false, endTagOpenState},
		{'a', tagOpenState, true, tagNameState},
		{'?', tagOpenState, true, bogusCommentState},
		{'1', tagOpenState, true, dataState},
		{'d', endTagOpenState, true, tagNameState},
		{'>', endTagOpenState, false, dataState},
		{'\t', tagNameState, false, beforeAttributeNameState},
		{'/', tagNameState, false, selfClosingStartTagState},
		{'>', tagNameState, false, dataState},
		{'x', tagNameState, false, tagNameState},
		{'/', rcDataLessThanSignState, false, rcDataEndTagOpenState},
		{'s', rcDataLessThanSignState, true, rcDataState},
		{' ', beforeAttributeNameState, false, beforeAttributeNameState},
		{'/', beforeAttributeNameState, true, afterAttributeNameState},
		{'>', beforeAttributeNameState, true, afterAttributeNameState},
		{'i', beforeAttributeNameState, true, attributeNameState},
		{'=', attributeNameState, false, beforeAttributeValueState},
		{' ', attributeNameState, true, afterAttributeNameState},
		{'/', afterAttributeNameState, false, selfClosingStartTagState},
		{'=', afterAttributeNameState, false, beforeAttributeValueState},
		{'>', afterAttributeNameState, false, dataState},
		{'"', beforeAttributeValueState, false, attributeValueDoubleQuotedState},
		{'\'', beforeAttributeValueState, false, attributeValueSingleQuotedState},
		{'x', beforeAttributeValueState, true, attributeValueUnquotedState},
		{'"', attributeValueDoubleQuotedState, false, afterAttributeValueQuotedState},
		{'&', attributeValueDoubleQuotedState, false, characterReferenceState},
		{'\'', attributeValueSingleQuotedState, false, afterAttributeValueQuotedState},
		{' ', attributeValueUnquotedState, false, beforeAttributeNameState},
		{'>', attributeValueUnquotedState, false, dataState},
		{' ', afterAttributeValueQuotedState, false, beforeAttributeNameState},
		{'/', afterAttributeValueQuotedState, false, selfClosingStartTagState},
		{'x', afterAttributeValueQuotedState, true, beforeAttributeNameState},
		{'>', selfClosingStartTagState, false, dataState},
		{'x', selfClosingStartTagState, true, beforeAttributeNameState},
		{'-', commentStartState, false, commentStartDashState},
		{'>', commentStartState, false, dataState},
		{'x', commentStartState, true, commentState},
		{'-', commentStartDashState, false, commentEndState},
		{'>', commentStartDashState, false, dataState},
		{'<', commentState, false, commentLessThanSignState},
		{'-', commentState, false, commentEndDashState},
		{'!', commentLessThanSignState, false, commentLessThanSignBangState},
		{'-', commentLessThanSignBangState, false, commentLessThanSignBangDashState},
		{'x', commentLessThanSignBangState, true, commentState},
		{'-', commentLessThanSignBangDashState, false, commentLessThanSignBangDashDashState},
		{'x', commentLessThanSignBangDashState, true, commentEndDashState},
		{'>', commentLessThanSignBangDashDashState, true, commentEndState},
		{'-', commentEndDashState, false, commentEndState},
		{'>', commentEndState, false, dataState},
		{'!', commentEndState, false, commentEndBangState},
		{'-', commentEndState, false, commentEndState},
		{'-', commentEndBangState, false, commentEndDashState},
		{'>', commentEndBangState, false, dataState},
		{' ', doctypeState, false, beforeDoctypeNameState},
		{'h', doctypeState, true, beforeDoctypeNameState},
		{' ', beforeDoctypeNameState, false, beforeDoctypeNameState},
		{'h', beforeDoctypeNameState, false, doctypeNameState},
		{' ', doctypeNameState, false, afterDoctypeNameState},
		{'>', doctypeNameState, false, dataState},
		{'a', characterReferenceState, true, namedCharacterReferenceState},
		{'#', characterReferenceState, false, numericCharacterReferenceState},
		{'x', numericCharacterReferenceState, false, hexadecimalCharacterReferenceStartState},
		{'5', numericCharacterReferenceState, true, decimalCharacterReferenceStartState},
		{'f', hexadecimalCharacterReferenceStartState, true, hexadecimalCharacterReferenceState},
		{'5', decimalCharacterReferenceStartState, true, decimalCharacterReferenceState},
		{'5', decimalCharacterReferenceState, false, decimalCharacterReferenceState},
		{'f', hexadecimalCharacterReferenceState, false, hexadecimalCharacterReferenceState},
	}

	for _, tt := range stateParserTests {
		tt := tt
		t.Run(tt.startingState.String()+"/"+string(tt.inRune), func(t *testing.T) {
			p := NewHTMLTokenizer(strings.NewReader(""))
			reconsume, next := p.stateToParser(tt.startingState)(tt.inRune, false)
			assert.Equal(t, tt.shouldReconsume, reconsume, "reconsume")
			assert.Equal(t, tt.nextExpectedState, next, "next state")
		})
	}
}

func TestTokenizerCharacterReferences(t *testing.T) {
	tests := []struct {
		in   string
		text string
	}{
		{"&amp;", "&"},
		{"&amp", "&"},
		{"&AMP;", "&"},
		{"&#65;", "A"},
		{"&#x42;", "B"},
		{"&#X42;", "B"},
		{"&notin;", "∉"},
		// longest terminal prefix wins, the tail is carried forward
		{"&notit;", "¬it;"},
		{"&notx", "¬x"},
		{"&noti!", "¬i!"},
		{"&notreal;", "¬real;"},
		// unresolvable references flush verbatim
		{"&;", "&;"},
		{"&", "&"},
		{"&#", "&#"},
		{"&#x", "&#x"},
		{"&#z", "&#z"},
		{"&#xg", "&#xg"},
		// numeric sanitation
		{"&#0;", "\uFFFD"},
		{"&#x110000;", "\uFFFD"},
		{"&#xD800;", "\uFFFD"},
		{"&#55296;", "\uFFFD"},
		{"&#x80;", "€"},
		{"&#x97;", "—"},
		{"&#xFDD0;", "\uFDD0"},
		// unterminated numeric reference, terminator reconsumed
		{"&#65 ", "A "},
		{"&#x42z", "Bz"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			tokens := collectTokens(t, tt.in)
			assert.Equal(t, tt.text, characterData(tokens))
		})
	}
}

func TestTokenizerCharacterReferencesInAttributes(t *testing.T) {
	tests := []struct {
		in    string
		value string
	}{
		{`<a href="&amp;">`, "&"},
		{`<a href="&#38;">`, "&"},
		{`<a href="&notin;">`, "∉"},
		// a reference not ended by ; must not swallow name characters
		{`<a href="&notx">`, "&notx"},
		{`<a href="&amp=1">`, "&amp=1"},
		// but resolves when followed by a non-name character
		{`<a href="&not ">`, "¬ "},
		{`<a href="&notreal;">`, "&notreal;"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			tokens := collectTokens(t, tt.in)
			start := firstTokenOfType(tokens, startTagToken)
			require.NotNil(t, start)
			require.Len(t, start.Attributes, 1)
			assert.Equal(t, tt.value, start.Attributes[0].Value)
		})
	}
}

func TestTokenizerComments(t *testing.T) {
	tests := []struct {
		in   string
		data []string
	}{
		{"<!-- hi -->", []string{" hi "}},
		{"<!--x--!>", []string{"x"}},
		{"<!---->", []string{""}},
		{"<!--a--b-->", []string{"a--b"}},
		{"<!--a-b-->", []string{"a-b"}},
		{"<!--<!-->", []string{"<!"}},
		{"<!--x--", []string{"x"}},
		{"<!--", []string{""}},
		{"<!doc>", []string{"doc"}},
		{"<?pi?>", []string{"?pi?"}},
		{"</%>", []string{"%"}},
		{"<![CDATA[x]]>", []string{"[CDATA[x]]"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			tokens := collectTokens(t, tt.in)
			var data []string
			for _, token := range tokens {
				if token.TokenType == commentToken {
					data = append(data, token.Data)
				}
			}
			assert.Equal(t, tt.data, data)
		})
	}
}

func TestTokenizerDoctype(t *testing.T) {
	tests := []struct {
		in          string
		name        string
		data        string
		forceQuirks bool
	}{
		{"<!DOCTYPE html>", "html", "", false},
		{"<!doctype HTML>", "html", "", false},
		{"<!DOCTYPE html PUBLIC \"-//W3C//DTD HTML 4.01//EN\">", "html", "PUBLIC \"-//W3C//DTD HTML 4.01//EN\"", false},
		{"<!DOCTYPE html SYSTEM 'about:legacy-compat'>", "html", "SYSTEM 'about:legacy-compat'", false},
		{"<!DOCTYPE>", "", "", true},
		{"<!DOCTYPE ht", "ht", "", true},
		{"<!DOCTYPE", "", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			tokens := collectTokens(t, tt.in)
			doctype := firstTokenOfType(tokens, docTypeToken)
			require.NotNil(t, doctype, "expected a doctype token")
			assert.Equal(t, tt.name, doctype.TagName)
			assert.Equal(t, tt.data, doctype.Data)
			assert.Equal(t, tt.forceQuirks, doctype.ForceQuirks)
		})
	}
}

func TestTokenizerTagNameLowercasing(t *testing.T) {
	tokens := collectTokens(t, "<DiV CLASS=a></DIV>")
	start := firstTokenOfType(tokens, startTagToken)
	require.NotNil(t, start)
	assert.Equal(t, "div", start.TagName)
	require.Len(t, start.Attributes, 1)
	assert.Equal(t, "class", start.Attributes[0].Name)
	end := firstTokenOfType(tokens, endTagToken)
	require.NotNil(t, end)
	assert.Equal(t, "div", end.TagName)
}

func TestTokenizerSelfClosingFlag(t *testing.T) {
	tokens := collectTokens(t, "<br/><input />")
	var selfClosing []bool
	for _, token := range tokens {
		if token.TokenType == startTagToken {
			selfClosing = append(selfClosing, token.SelfClosing)
		}
	}
	assert.Equal(t, []bool{true, true}, selfClosing)
}

func TestTokenizerPartialTagAtEOF(t *testing.T) {
	tests := []struct {
		in      string
		tagName string
		attrs   []dom.Attribute
	}{
		{"<p", "p", nil},
		{"<p class", "p", []dom.Attribute{{Name: "class", Value: ""}}},
		{"<p class=\"x", "p", []dom.Attribute{{Name: "class", Value: "x"}}},
		{"<p class=x", "p", []dom.Attribute{{Name: "class", Value: "x"}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			tokens := collectTokens(t, tt.in)
			require.GreaterOrEqual(t, len(tokens), 2)
			start := firstTokenOfType(tokens, startTagToken)
			require.NotNil(t, start, "partial tag should be emitted at EOF")
			assert.Equal(t, tt.tagName, start.TagName)
			if diff := cmp.Diff(tt.attrs, start.Attributes); diff != "" {
				t.Errorf("attribute mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, endOfFileToken, tokens[len(tokens)-1].TokenType)
		})
	}
}

func TestTokenizerBogusLessThanSign(t *testing.T) {
	tests := []struct {
		in   string
		text string
	}{
		{"<1>", "<1>"},
		{"1 < 2", "1 < 2"},
		{"a<", "a<"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.text, characterData(collectTokens(t, tt.in)))
		})
	}
}

func TestTokenizerNewlineNormalization(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n", characterData(collectTokens(t, "a\r\nb\rc\r\n")))
}

func TestTokenizerEndTagAttributesDropped(t *testing.T) {
	tokens := collectTokens(t, "</div class=x>")
	end := firstTokenOfType(tokens, endTagToken)
	require.NotNil(t, end)
	assert.Equal(t, "div", end.TagName)
	assert.Empty(t, end.Attributes)
	assert.False(t, end.SelfClosing)
}
