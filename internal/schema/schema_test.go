package schema

import "testing"

func buildTestSchema(t *testing.T) *Schema {
	t.Helper()
	s := New("notes", "1.0")
	if err := s.AddNodeClass(NodeClass{Name: "paragraph", Role: RoleText}); err != nil {
		t.Fatalf("AddNodeClass(paragraph): %v", err)
	}
	if err := s.AddNodeClass(NodeClass{Name: "strong", Role: RoleAnnotation}); err != nil {
		t.Fatalf("AddNodeClass(strong): %v", err)
	}
	if err := s.AddNodeClass(NodeClass{Name: "body", Role: RoleContainer}); err != nil {
		t.Fatalf("AddNodeClass(body): %v", err)
	}
	if err := s.SetDefaultTextType("paragraph"); err != nil {
		t.Fatalf("SetDefaultTextType: %v", err)
	}
	s.Freeze()
	return s
}

func TestAddNodeClassDuplicateConflict(t *testing.T) {
	s := New("notes", "1.0")
	if err := s.AddNodeClass(NodeClass{Name: "paragraph", Role: RoleText}); err != nil {
		t.Fatalf("first AddNodeClass: %v", err)
	}
	err := s.AddNodeClass(NodeClass{Name: "paragraph", Role: RoleText})
	if err == nil {
		t.Fatal("expected SchemaConflict on duplicate registration")
	}
}

func TestAddNodeClassAfterFreezeConflict(t *testing.T) {
	s := buildTestSchema(t)
	err := s.AddNodeClass(NodeClass{Name: "emphasis", Role: RoleAnnotation})
	if err == nil {
		t.Fatal("expected SchemaConflict after freeze")
	}
}

func TestAddNodeClassUnknownParent(t *testing.T) {
	s := New("notes", "1.0")
	err := s.AddNodeClass(NodeClass{Name: "heading", Parent: "paragraph", Role: RoleText})
	if err == nil {
		t.Fatal("expected UnknownNodeType for unregistered parent")
	}
}

func TestGetNodeClassUnknownType(t *testing.T) {
	s := buildTestSchema(t)
	if _, err := s.GetNodeClass("bogus"); err == nil {
		t.Fatal("expected UnknownNodeType error")
	}
}

func TestRoleQueries(t *testing.T) {
	s := buildTestSchema(t)

	if !s.IsTextType("paragraph") {
		t.Error("expected paragraph to be a text type")
	}
	if !s.IsAnnotationType("strong") {
		t.Error("expected strong to be an annotation type")
	}
	if !s.IsContainerType("body") {
		t.Error("expected body to be a container type")
	}
	if s.IsAnnotationType("paragraph") {
		t.Error("paragraph must not be an annotation type")
	}
	if s.GetDefaultTextType() != "paragraph" {
		t.Errorf("GetDefaultTextType() = %q, want paragraph", s.GetDefaultTextType())
	}
}

func TestImplicitPropertiesInjected(t *testing.T) {
	s := buildTestSchema(t)

	para, err := s.GetNodeClass("paragraph")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := para.Properties["content"]; !ok {
		t.Error("expected paragraph to have an implicit content property")
	}

	body, err := s.GetNodeClass("body")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := body.Properties["nodes"]; !ok {
		t.Error("expected body to have an implicit nodes property")
	}

	strong, err := s.GetNodeClass("strong")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"path", "startOffset", "endOffset"} {
		if _, ok := strong.Properties[name]; !ok {
			t.Errorf("expected strong to have implicit property %q", name)
		}
	}
}

func TestRoleInheritance(t *testing.T) {
	s := New("notes", "1.0")
	if err := s.AddNodeClass(NodeClass{Name: "text-base", Role: RoleText}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNodeClass(NodeClass{Name: "heading", Parent: "text-base"}); err != nil {
		t.Fatal(err)
	}
	if !s.IsTextType("heading") {
		t.Error("expected heading to inherit the text role from its parent")
	}
	if !s.IsSubtype("heading", "text-base") {
		t.Error("expected heading to be a subtype of text-base")
	}
}

func TestPropertyInheritance(t *testing.T) {
	s := New("notes", "1.0")
	if err := s.AddNodeClass(NodeClass{
		Name: "base",
		Properties: map[string]PropertySpec{
			"lang": {Name: "lang", Kind: KindString, Default: "en"},
		},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNodeClass(NodeClass{Name: "child", Parent: "base"}); err != nil {
		t.Fatal(err)
	}
	spec, ok := s.Property("child", "lang")
	if !ok {
		t.Fatal("expected child to inherit lang property from base")
	}
	if spec.Kind != KindString {
		t.Errorf("spec.Kind = %v, want KindString", spec.Kind)
	}
}

func TestLoadYAML(t *testing.T) {
	data := []byte(`
name: notes
version: "1.0"
defaultTextType: paragraph
nodeTypes:
  - name: paragraph
    role: text
  - name: strong
    role: annotation
  - name: body
    role: container
`)
	s, err := LoadYAML(data)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if !s.Frozen() {
		t.Error("expected LoadYAML to return a frozen schema")
	}
	if s.GetDefaultTextType() != "paragraph" {
		t.Errorf("GetDefaultTextType() = %q, want paragraph", s.GetDefaultTextType())
	}
	if !s.IsContainerType("body") {
		t.Error("expected body to be a container type")
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	if _, err := LoadYAML([]byte("not: [valid")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
