package doctree

// Node is a generic markup tree node produced by a parser.
type Node struct {
	Kind     string            // Element tag (empty for the document root)
	Key      string            // Field name this node was reached under from its parent
	Attrs    map[string]string // Element attributes, "class" included
	Children []*Node           // Element children in document order
	Text     string            // Raw text; inner markup for flat blocks
	Lines    []string          // Pre-split text lines (nested shape only)
}

// Attr returns the named attribute or "" when absent.
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// LastChild returns the final child or nil.
func (n *Node) LastChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// MinBlockLines is the shortest TextBlock that can be a candidate.
const MinBlockLines = 5

// TextBlock is the ordered line list of one disclosure message.
//
// Line 0 is the disclosure date, line 1 the company annotation, line 2 the
// report-type title, lines 3..n-3 the free-form body, line n-2 the trailing
// link fragment and line n-1 the raw link text.
type TextBlock struct {
	Lines []string
}

// Valid reports whether the block is long enough to address every field.
func (b TextBlock) Valid() bool { return len(b.Lines) >= MinBlockLines }

func (b TextBlock) Date() string       { return b.line(0) }
func (b TextBlock) Company() string    { return b.line(1) }
func (b TextBlock) ReportType() string { return b.line(2) }

// Body returns the lines between the three header lines and the two trailing lines.
func (b TextBlock) Body() []string {
	if !b.Valid() {
		return nil
	}
	return b.Lines[3 : len(b.Lines)-2]
}

func (b TextBlock) TrailingLink() string { return b.line(len(b.Lines) - 2) }
func (b TextBlock) LinkText() string     { return b.line(len(b.Lines) - 1) }

func (b TextBlock) line(i int) string {
	if i < 0 || i >= len(b.Lines) {
		return ""
	}
	return b.Lines[i]
}

// OutputRow is one qualifying disclosure ready for rendering.
type OutputRow struct {
	Seq          int // 1-based, encounter order among passing blocks
	Date         string
	Company      string
	ReportType   string
	Body         string // Body lines joined with "\n"
	TrailingLink string // Raw markup fragment
	LinkText     string
	StockCode    string // Code or the "none" sentinel
}
