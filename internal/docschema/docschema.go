// Package docschema registers the default rich-text node schema docctl
// bootstraps a new document with: paragraph and heading text nodes inside a
// body container, strong/emphasis property-scoped annotations, and a
// comment container-annotation with a due date and a resolved flag.
package docschema

import "github.com/substancehq/substance/internal/schema"

// Default builds and freezes the default "document" schema.
func Default() *schema.Schema {
	sch := schema.New("document", "1.0")

	must(sch.AddNodeClass(schema.NodeClass{Name: "paragraph", Role: schema.RoleText}))
	must(sch.AddNodeClass(schema.NodeClass{Name: "heading", Role: schema.RoleText, Properties: map[string]schema.PropertySpec{
		"level": {Name: "level", Kind: schema.KindInteger, Default: 1},
	}}))
	must(sch.AddNodeClass(schema.NodeClass{Name: "body", Role: schema.RoleContainer}))

	must(sch.AddNodeClass(schema.NodeClass{Name: "strong", Role: schema.RoleAnnotation}))
	must(sch.AddNodeClass(schema.NodeClass{Name: "emphasis", Role: schema.RoleAnnotation}))

	must(sch.AddNodeClass(schema.NodeClass{Name: "comment", Role: schema.RoleContainerAnnotation, Properties: map[string]schema.PropertySpec{
		"author":   {Name: "author", Kind: schema.KindString},
		"body":     {Name: "body", Kind: schema.KindString},
		"due":      {Name: "due", Kind: schema.KindDate},
		"resolved": {Name: "resolved", Kind: schema.KindBoolean, Default: false},
	}}))

	must(sch.SetDefaultTextType("paragraph"))
	sch.Freeze()
	return sch
}

func must(err error) {
	if err != nil {
		panic("docschema: " + err.Error())
	}
}
