package token

// CommentKind distinguishes the three comment forms of the language.
type CommentKind int

// Comment kinds.
const (
	BraceComment CommentKind = iota // { comment }
	QuoteComment                    // "comment"
	LineComment                     // // comment
)

// Comment represents a source comment with position.
//
// Unit annotations may hide inside comments (`T := 20 "[C]"`), so comments
// are retained alongside the hidden token channel rather than discarded.
type Comment struct {
	Kind CommentKind
	Text string // includes delimiters
	Span Span
}

// IsLine returns true if this is a // comment.
func (c *Comment) IsLine() bool {
	return c.Kind == LineComment
}

// Body returns the comment text with its delimiters stripped.
func (c *Comment) Body() string {
	switch c.Kind {
	case BraceComment:
		if len(c.Text) >= 2 {
			return c.Text[1 : len(c.Text)-1]
		}
	case QuoteComment:
		if len(c.Text) >= 2 {
			return c.Text[1 : len(c.Text)-1]
		}
	case LineComment:
		if len(c.Text) >= 2 {
			return c.Text[2:]
		}
	}
	return c.Text
}
