package parser

import (
	"io"
	"strings"

	"github.com/jtwatson/htmldom/parser/dom"
)

// Parser couples a tokenizer with the tree constructor consuming its
// tokens.
type Parser struct {
	Tokenizer       *HTMLTokenizer
	TreeConstructor *HTMLTreeConstructor
}

// NewParser creates a parser reading HTML from htmlIn.
func NewParser(htmlIn io.Reader) *Parser {
	return &Parser{
		Tokenizer:       NewHTMLTokenizer(htmlIn),
		TreeConstructor: NewHTMLTreeConstructor(),
	}
}

// Progress is handed back by the tree constructor after each token.
// A non-nil TokenizerState redirects the tokenizer before the next
// token is produced.
type Progress struct {
	TokenizerState *tokenizerState
}

// Run drives the tokenizer to end of input and returns the root of the
// constructed tree.
func (p *Parser) Run() (*dom.Node, error) {
	progress := &Progress{}
	for p.Tokenizer.Next() {
		t, err := p.Tokenizer.Token(progress)
		if err != nil {
			return nil, err
		}
		progress = p.TreeConstructor.ProcessToken(t)
	}

	return p.TreeConstructor.Root(), nil
}

// ParseReader parses HTML from r and returns the root of the document
// tree. The only possible errors are read failures from r.
func ParseReader(r io.Reader) (*dom.Node, error) {
	return NewParser(r).Run()
}

// Parse parses body and returns the root of the document tree. Parsing
// is fully recoverable, so Parse always returns a usable tree.
func Parse(body string) *dom.Node {
	root, _ := ParseReader(strings.NewReader(body))
	return root
}
