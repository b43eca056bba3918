// Package schema implements the declarative node-type registry: node
// types, their property maps, parent relations and the default text type,
// immutable once frozen.
package schema

import (
	"fmt"

	"github.com/substancehq/substance/internal/docerr"
)

// PropertyKind is the primitive, reference, or opaque type of a property
// value.
type PropertyKind int

const (
	KindString PropertyKind = iota
	KindInteger
	KindBoolean
	KindDate
	KindReferenceOne  // single node id
	KindReferenceMany // ordered list of node ids
	KindJSON          // opaque JSON value
)

func (k PropertyKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindReferenceOne:
		return "reference"
	case KindReferenceMany:
		return "reference-list"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Role marks a node type as playing one of the built-in structural roles.
// A role is either declared directly on a NodeClass or inherited from its
// Parent (prototype-style extension, re-modeled here as a tagged variant
// rather than a class hierarchy).
type Role int

const (
	RoleNone Role = iota
	RoleText
	RoleContainer
	RoleAnnotation
	RoleContainerAnnotation
)

// PropertySpec declares one property of a node type.
type PropertySpec struct {
	Name    string
	Kind    PropertyKind
	Default any
	// TargetTypes restricts which node types a reference property may
	// point at. Empty means any registered type is permitted.
	TargetTypes []string
}

// NodeClass is the registered description of one node type.
type NodeClass struct {
	Name       string
	Parent     string
	Role       Role
	Properties map[string]PropertySpec
}

// hasOwnProperty looks up a property spec declared directly on nc;
// inherited properties are resolved by Schema.Property.
func (nc *NodeClass) hasOwnProperty(name string) (PropertySpec, bool) {
	p, ok := nc.Properties[name]
	return p, ok
}

// Schema is a frozen-after-setup registry of node classes.
type Schema struct {
	Name    string
	Version string

	classes         map[string]*NodeClass
	order           []string
	defaultTextType string
	frozen          bool
}

// New creates an empty, unfrozen schema.
func New(name, version string) *Schema {
	return &Schema{
		Name:    name,
		Version: version,
		classes: make(map[string]*NodeClass),
	}
}

// AddNodeClass registers a node type. It fails with ErrSchemaConflict if the
// schema is frozen or the type is already registered, and with
// ErrUnknownNodeType if Parent names a type that has not been registered
// yet (registration order therefore follows the type hierarchy, parents
// first).
func (s *Schema) AddNodeClass(nc NodeClass) error {
	if s.frozen {
		return fmt.Errorf("%w: schema %q is frozen", docerr.ErrSchemaConflict, s.Name)
	}
	if nc.Name == "" {
		return fmt.Errorf("%w: node class must have a name", docerr.ErrSchemaConflict)
	}
	if _, exists := s.classes[nc.Name]; exists {
		return fmt.Errorf("%w: node type %q already registered", docerr.ErrSchemaConflict, nc.Name)
	}
	if nc.Parent != "" {
		if _, ok := s.classes[nc.Parent]; !ok {
			return fmt.Errorf("%w: parent type %q", docerr.ErrUnknownNodeType, nc.Parent)
		}
	}

	props := make(map[string]PropertySpec, len(nc.Properties)+1)
	for k, v := range nc.Properties {
		props[k] = v
	}
	nc.Properties = props

	switch s.resolveRole(nc) {
	case RoleText:
		if _, ok := props["content"]; !ok {
			props["content"] = PropertySpec{Name: "content", Kind: KindString, Default: ""}
		}
	case RoleContainer:
		if _, ok := props["nodes"]; !ok {
			props["nodes"] = PropertySpec{Name: "nodes", Kind: KindReferenceMany}
		}
	case RoleAnnotation:
		for _, name := range []string{"path", "startOffset", "endOffset"} {
			if _, ok := props[name]; !ok {
				switch name {
				case "path":
					props[name] = PropertySpec{Name: name, Kind: KindJSON}
				default:
					props[name] = PropertySpec{Name: name, Kind: KindInteger}
				}
			}
		}
	case RoleContainerAnnotation:
		for _, name := range []string{"startPath", "startOffset", "endPath", "endOffset", "container"} {
			if _, ok := props[name]; !ok {
				switch name {
				case "startOffset", "endOffset":
					props[name] = PropertySpec{Name: name, Kind: KindInteger}
				case "container":
					props[name] = PropertySpec{Name: name, Kind: KindReferenceOne}
				default:
					props[name] = PropertySpec{Name: name, Kind: KindJSON}
				}
			}
		}
	}

	cp := nc
	s.classes[nc.Name] = &cp
	s.order = append(s.order, nc.Name)
	return nil
}

// resolveRole returns the effective role of nc, inheriting from its parent
// chain when nc itself declares RoleNone.
func (s *Schema) resolveRole(nc NodeClass) Role {
	if nc.Role != RoleNone {
		return nc.Role
	}
	parent := nc.Parent
	for parent != "" {
		pc, ok := s.classes[parent]
		if !ok {
			return RoleNone
		}
		if pc.Role != RoleNone {
			return pc.Role
		}
		parent = pc.Parent
	}
	return RoleNone
}

// SetDefaultTextType marks typeName (which must already be a registered
// text-role type) as the schema's default text node type.
func (s *Schema) SetDefaultTextType(typeName string) error {
	if s.frozen {
		return fmt.Errorf("%w: schema %q is frozen", docerr.ErrSchemaConflict, s.Name)
	}
	nc, err := s.GetNodeClass(typeName)
	if err != nil {
		return err
	}
	if s.resolveRole(*nc) != RoleText {
		return fmt.Errorf("%w: %q is not a text node type", docerr.ErrSchemaConflict, typeName)
	}
	s.defaultTextType = typeName
	return nil
}

// Freeze makes the schema immutable. Subsequent AddNodeClass calls fail.
func (s *Schema) Freeze() { s.frozen = true }

// Frozen reports whether the schema has been frozen.
func (s *Schema) Frozen() bool { return s.frozen }

// GetNodeClass returns the registered class for typeName.
func (s *Schema) GetNodeClass(typeName string) (*NodeClass, error) {
	nc, ok := s.classes[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", docerr.ErrUnknownNodeType, typeName)
	}
	return nc, nil
}

// GetDefaultTextType returns the configured default text node type, or ""
// if none was set.
func (s *Schema) GetDefaultTextType() string { return s.defaultTextType }

// IsAnnotationType reports whether typeName plays the Annotation role.
func (s *Schema) IsAnnotationType(typeName string) bool {
	return s.roleOf(typeName) == RoleAnnotation
}

// IsContainerAnnotationType reports whether typeName plays the
// ContainerAnnotation role.
func (s *Schema) IsContainerAnnotationType(typeName string) bool {
	return s.roleOf(typeName) == RoleContainerAnnotation
}

// IsContainerType reports whether typeName plays the Container role.
func (s *Schema) IsContainerType(typeName string) bool {
	return s.roleOf(typeName) == RoleContainer
}

// IsTextType reports whether typeName plays the TextNode role.
func (s *Schema) IsTextType(typeName string) bool {
	return s.roleOf(typeName) == RoleText
}

func (s *Schema) roleOf(typeName string) Role {
	nc, ok := s.classes[typeName]
	if !ok {
		return RoleNone
	}
	return s.resolveRole(*nc)
}

// Property resolves a property spec for typeName by name, walking the
// parent chain so subtypes inherit their ancestors' properties.
func (s *Schema) Property(typeName, propName string) (PropertySpec, bool) {
	t := typeName
	for t != "" {
		nc, ok := s.classes[t]
		if !ok {
			return PropertySpec{}, false
		}
		if p, ok := nc.hasOwnProperty(propName); ok {
			return p, true
		}
		t = nc.Parent
	}
	return PropertySpec{}, false
}

// IsSubtype reports whether typeName is ancestor itself or a descendant of
// ancestor in the parent chain.
func (s *Schema) IsSubtype(typeName, ancestor string) bool {
	t := typeName
	for t != "" {
		if t == ancestor {
			return true
		}
		nc, ok := s.classes[t]
		if !ok {
			return false
		}
		t = nc.Parent
	}
	return false
}

// NodeClasses returns all registered classes in registration order.
func (s *Schema) NodeClasses() []*NodeClass {
	out := make([]*NodeClass, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.classes[name])
	}
	return out
}
