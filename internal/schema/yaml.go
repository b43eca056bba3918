package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// fileSchema mirrors the on-disk shape of a schema declaration file. It is
// kept separate from Schema itself so the wire/file shape and the in-memory
// type are free to diverge over time.
type fileSchema struct {
	Name            string          `yaml:"name"`
	Version         string          `yaml:"version"`
	DefaultTextType string          `yaml:"defaultTextType"`
	NodeTypes       []fileNodeClass `yaml:"nodeTypes"`
}

type fileNodeClass struct {
	Name       string                  `yaml:"name"`
	Parent     string                  `yaml:"parent"`
	Role       string                  `yaml:"role"`
	Properties map[string]fileProperty `yaml:"properties"`
}

type fileProperty struct {
	Kind    string `yaml:"kind"`
	Default any    `yaml:"default"`
}

// LoadYAML parses a schema declaration and returns a frozen Schema.
//
//	name: notes
//	version: "1.0"
//	defaultTextType: paragraph
//	nodeTypes:
//	  - name: paragraph
//	    role: text
//	  - name: strong
//	    role: annotation
//	  - name: body
//	    role: container
func LoadYAML(data []byte) (*Schema, error) {
	var fs fileSchema
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("schema: parse yaml: %w", err)
	}

	s := New(fs.Name, fs.Version)
	for _, fnc := range fs.NodeTypes {
		nc := NodeClass{
			Name:       fnc.Name,
			Parent:     fnc.Parent,
			Role:       roleFromString(fnc.Role),
			Properties: make(map[string]PropertySpec, len(fnc.Properties)),
		}
		for name, fp := range fnc.Properties {
			nc.Properties[name] = PropertySpec{
				Name:    name,
				Kind:    kindFromString(fp.Kind),
				Default: fp.Default,
			}
		}
		if err := s.AddNodeClass(nc); err != nil {
			return nil, fmt.Errorf("schema: node type %q: %w", fnc.Name, err)
		}
	}

	if fs.DefaultTextType != "" {
		if err := s.SetDefaultTextType(fs.DefaultTextType); err != nil {
			return nil, err
		}
	}

	s.Freeze()
	return s, nil
}

func roleFromString(s string) Role {
	switch s {
	case "text":
		return RoleText
	case "container":
		return RoleContainer
	case "annotation":
		return RoleAnnotation
	case "container-annotation":
		return RoleContainerAnnotation
	default:
		return RoleNone
	}
}

func kindFromString(s string) PropertyKind {
	switch s {
	case "integer":
		return KindInteger
	case "boolean":
		return KindBoolean
	case "date":
		return KindDate
	case "reference":
		return KindReferenceOne
	case "reference-list":
		return KindReferenceMany
	case "json":
		return KindJSON
	default:
		return KindString
	}
}
