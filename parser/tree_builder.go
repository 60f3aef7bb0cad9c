package parser

import (
	"strings"

	"github.com/jtwatson/htmldom/parser/dom"
)

// voidElements have no end tag and therefore never take children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// rcDataElements switch the tokenizer to rcdata for their content, so
// markup inside them stays literal until the matching end tag.
var rcDataElements = map[string]bool{
	"style": true,
}

// HTMLTreeConstructor consumes the token stream and builds the
// document tree. Elements are pushed onto the unfinished stack on
// their start tag and attached to their parent when popped.
type HTMLTreeConstructor struct {
	root        *dom.Node
	unfinished  []*dom.Node
	pendingText strings.Builder
}

// NewHTMLTreeConstructor creates a tree constructor holding a fresh
// document root.
func NewHTMLTreeConstructor() *HTMLTreeConstructor {
	root := dom.NewRoot()
	return &HTMLTreeConstructor{
		root:       root,
		unfinished: []*dom.Node{root},
	}
}

// Root returns the document root owning the constructed tree.
func (c *HTMLTreeConstructor) Root() *dom.Node {
	return c.root
}

func (c *HTMLTreeConstructor) currentParent() *dom.Node {
	return c.unfinished[len(c.unfinished)-1]
}

// flushText turns the accumulated character run into a single text
// node under the current parent. Empty runs produce no node.
func (c *HTMLTreeConstructor) flushText() {
	if c.pendingText.Len() == 0 {
		return
	}
	c.currentParent().AppendChild(dom.NewText(c.pendingText.String()))
	c.pendingText.Reset()
}

// popCurrent closes the innermost open element, attaching it to the
// element below it on the stack. An end tag with only the root open is
// ignored.
func (c *HTMLTreeConstructor) popCurrent() {
	if len(c.unfinished) <= 1 {
		return
	}
	top := c.unfinished[len(c.unfinished)-1]
	c.unfinished = c.unfinished[:len(c.unfinished)-1]
	c.currentParent().AppendChild(top)
}

// ProcessToken applies one token to the tree. The returned Progress
// carries a tokenizer state override when the token demands one.
func (c *HTMLTreeConstructor) ProcessToken(t *Token) *Progress {
	switch t.TokenType {
	case characterToken:
		c.pendingText.WriteString(t.Data)
	case startTagToken:
		c.flushText()
		element := dom.NewElement(t.TagName, t.Attributes, t.SelfClosing)
		if t.SelfClosing || voidElements[t.TagName] {
			c.currentParent().AppendChild(element)
			break
		}
		c.unfinished = append(c.unfinished, element)
		if rcDataElements[t.TagName] {
			rcData := rcDataState
			return &Progress{TokenizerState: &rcData}
		}
	case endTagToken:
		c.flushText()
		c.popCurrent()
	case commentToken:
		c.flushText()
		c.currentParent().AppendChild(dom.NewComment(t.Data))
	case docTypeToken:
		c.flushText()
		c.currentParent().AppendChild(dom.NewDoctype(t.TagName, t.Data, t.ForceQuirks))
	case endOfFileToken:
		c.finish()
	}

	return &Progress{}
}

// finish closes every element still open, in order, leaving only the
// root on the stack.
func (c *HTMLTreeConstructor) finish() {
	c.flushText()
	for len(c.unfinished) > 1 {
		c.popCurrent()
	}
}
