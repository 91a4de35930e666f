package project

import (
	"encoding/json"
	"fmt"

	"github.com/ivlev/choreo/internal/formation"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// required snapshot lists
var listFields = []string{"performers", "frames"}

func decodeJSON(data []byte) (*formation.Project, error) {
	if !gjson.ValidBytes(data) {
		return nil, &formation.SchemaError{Field: "document", Reason: "is not valid JSON"}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, &formation.SchemaError{Field: "document", Reason: "is not an object"}
	}
	for _, field := range listFields {
		v := doc.Get(field)
		if !v.Exists() {
			return nil, &formation.SchemaError{Field: field, Reason: "is missing"}
		}
		if !v.IsArray() {
			return nil, &formation.SchemaError{Field: field, Reason: "is not a list"}
		}
	}

	var p formation.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	return &p, nil
}

func decodeYAML(data []byte) (*formation.Project, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &formation.SchemaError{Field: "document", Reason: "is not valid YAML"}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, &formation.SchemaError{Field: "document", Reason: "is not a mapping"}
	}
	root := doc.Content[0]
	for _, field := range listFields {
		v := mappingValue(root, field)
		if v == nil {
			return nil, &formation.SchemaError{Field: field, Reason: "is missing"}
		}
		if v.Kind != yaml.SequenceNode {
			return nil, &formation.SchemaError{Field: field, Reason: "is not a list"}
		}
	}

	var p formation.Project
	if err := root.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	return &p, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
