// Package clipboard implements the importer/exporter strategies the
// document treats as opaque: importing pasted HTML into a node fragment,
// and exporting a fragment back to HTML for copy.
package clipboard

import (
	stdhtml "html"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/microcosm-cc/bluemonday"

	"github.com/substancehq/substance/internal/idgen"
	"github.com/substancehq/substance/internal/schema"
	"github.com/substancehq/substance/internal/store"
)

// Fragment is a flat, ready-to-create node list: text nodes and the
// annotations anchored to them.
type Fragment struct {
	Nodes []*store.Node
}

// Importer turns external HTML into a Fragment.
type Importer interface {
	ImportHTML(htmlStr string) (*Fragment, error)
}

// Exporter turns a Fragment back into an HTML string.
type Exporter interface {
	ExportHTML(frag *Fragment) (string, error)
}

// HTMLImporter is the default Importer: it sanitizes untrusted HTML with
// bluemonday, then walks the cleaned tree splitting it into paragraphs and
// inline annotation spans. tagTypes maps recognized inline tags ("strong",
// "em", ...) to the schema annotation type they should produce; tags with
// no entry are dropped but their text content is kept.
type HTMLImporter struct {
	sch      *schema.Schema
	gen      idgen.Generator
	policy   *bluemonday.Policy
	tagTypes map[string]string
}

func NewHTMLImporter(sch *schema.Schema, gen idgen.Generator, tagTypes map[string]string) *HTMLImporter {
	return &HTMLImporter{sch: sch, gen: gen, policy: bluemonday.UGCPolicy(), tagTypes: tagTypes}
}

var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

func (imp *HTMLImporter) ImportHTML(htmlStr string) (*Fragment, error) {
	clean := imp.policy.Sanitize(htmlStr)
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(clean), ctx)
	if err != nil {
		return nil, err
	}
	frag := &Fragment{}
	for _, top := range nodes {
		imp.importBlock(top, frag)
	}
	return frag, nil
}

func (imp *HTMLImporter) importBlock(n *html.Node, frag *Fragment) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			imp.addParagraph(n, frag)
		}
	case html.ElementNode:
		if blockTags[n.Data] {
			imp.addParagraph(n, frag)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			imp.importBlock(c, frag)
		}
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			imp.importBlock(c, frag)
		}
	}
}

type inlineSpan struct {
	tag        string
	start, end int
}

func (imp *HTMLImporter) addParagraph(n *html.Node, frag *Fragment) {
	textType := imp.sch.GetDefaultTextType()
	if textType == "" {
		return
	}
	var sb strings.Builder
	var spans []inlineSpan
	collectText(n, &sb, &spans)

	id := imp.gen.NewID(textType)
	tn := store.NewNode(id, textType)
	tn.Properties["content"] = sb.String()
	frag.Nodes = append(frag.Nodes, tn)

	for _, sp := range spans {
		annType, ok := imp.tagTypes[sp.tag]
		if !ok || !imp.sch.IsAnnotationType(annType) {
			continue
		}
		an := store.NewNode(imp.gen.NewID(annType), annType)
		an.Properties["path"] = store.Path{NodeID: id, Property: "content"}
		an.Properties["startOffset"] = sp.start
		an.Properties["endOffset"] = sp.end
		frag.Nodes = append(frag.Nodes, an)
	}
}

// collectText accumulates n's plain text content into sb and records, for
// every element encountered, the [start,end) run of that text it wraps,
// counted in runes.
func collectText(n *html.Node, sb *strings.Builder, spans *[]inlineSpan) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	if n.Type != html.ElementNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collectText(c, sb, spans)
		}
		return
	}
	start := utf8.RuneCountInString(sb.String())
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb, spans)
	}
	if end := utf8.RuneCountInString(sb.String()); end > start {
		*spans = append(*spans, inlineSpan{tag: n.Data, start: start, end: end})
	}
}

// HTMLExporter is the default Exporter, the inverse mapping of
// HTMLImporter: schema annotation type name -> the inline tag it renders
// as.
type HTMLExporter struct {
	sch      *schema.Schema
	tagNames map[string]string
}

func NewHTMLExporter(sch *schema.Schema, tagNames map[string]string) *HTMLExporter {
	return &HTMLExporter{sch: sch, tagNames: tagNames}
}

type annSpan struct {
	tag        string
	start, end int
}

func (exp *HTMLExporter) annotationsFor(frag *Fragment, textID string) []annSpan {
	var out []annSpan
	for _, n := range frag.Nodes {
		if !exp.sch.IsAnnotationType(n.Type) {
			continue
		}
		p, ok := n.Properties["path"].(store.Path)
		if !ok || p.NodeID != textID {
			continue
		}
		tag, ok := exp.tagNames[n.Type]
		if !ok {
			continue
		}
		start, _ := n.Int("startOffset")
		end, _ := n.Int("endOffset")
		out = append(out, annSpan{tag: tag, start: start, end: end})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func (exp *HTMLExporter) ExportHTML(frag *Fragment) (string, error) {
	var sb strings.Builder
	for _, n := range frag.Nodes {
		if !exp.sch.IsTextType(n.Type) {
			continue
		}
		content, _ := n.Str("content")
		spans := exp.annotationsFor(frag, n.ID)
		sb.WriteString("<p>")
		sb.WriteString(renderInline(content, spans))
		sb.WriteString("</p>")
	}
	return sb.String(), nil
}

// renderInline walks content rune-by-rune, opening and closing tags at
// each span's boundary. Overlapping annotations are not re-nested into
// well-formed HTML; inputs from the document's own annotation indices
// are assumed well-nested for the tags this exporter knows about.
func renderInline(content string, spans []annSpan) string {
	runes := []rune(content)
	opens := map[int][]string{}
	closes := map[int][]string{}
	for _, sp := range spans {
		opens[sp.start] = append(opens[sp.start], sp.tag)
		closes[sp.end] = append(closes[sp.end], sp.tag)
	}
	var sb strings.Builder
	for i := 0; i <= len(runes); i++ {
		for _, tag := range closes[i] {
			sb.WriteString("</" + tag + ">")
		}
		for _, tag := range opens[i] {
			sb.WriteString("<" + tag + ">")
		}
		if i < len(runes) {
			sb.WriteString(stdhtml.EscapeString(string(runes[i])))
		}
	}
	return sb.String()
}
