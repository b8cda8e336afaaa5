package ai

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Type is a JSON schema primitive.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeBoolean Type = "boolean"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
)

// Schema is the subset of JSON schema the providers understand.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Nullable    bool               `json:"nullable,omitempty"`
	// NonEmpty rejects strings that are blank after trimming.
	NonEmpty bool `json:"-"`
}

// OrderedProperties returns property names sorted, required ones first.
func (s *Schema) OrderedProperties() []string {
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if required[names[i]] != required[names[j]] {
			return required[names[i]]
		}
		return names[i] < names[j]
	})
	return names
}

// Validate checks a decoded JSON value against the schema.
func (s *Schema) Validate(v any) error {
	if s == nil {
		return nil
	}
	return s.validate("$", v)
}

func (s *Schema) validate(path string, v any) error {
	if v == nil {
		if s.Nullable {
			return nil
		}
		return violation(path, "must not be null")
	}

	switch s.Type {
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return violation(path, "must be an object")
		}
		for _, name := range s.Required {
			if _, ok := obj[name]; !ok {
				return violation(path+"."+name, "is required")
			}
		}
		for _, name := range s.OrderedProperties() {
			val, ok := obj[name]
			if !ok {
				continue
			}
			if err := s.Properties[name].validate(path+"."+name, val); err != nil {
				return err
			}
		}
	case TypeArray:
		items, ok := v.([]any)
		if !ok {
			return violation(path, "must be an array")
		}
		if s.Items == nil {
			return nil
		}
		for i, item := range items {
			if err := s.Items.validate(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
	case TypeString:
		str, ok := v.(string)
		if !ok {
			return violation(path, "must be a string")
		}
		if s.NonEmpty && strings.TrimSpace(str) == "" {
			return violation(path, "must not be empty")
		}
	case TypeBoolean:
		switch val := v.(type) {
		case bool:
		case string:
			if _, err := strconv.ParseBool(strings.TrimSpace(val)); err != nil {
				return violation(path, "must be a boolean")
			}
		default:
			return violation(path, "must be a boolean")
		}
	case TypeInteger, TypeNumber:
		switch val := v.(type) {
		case float64, json.Number:
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err != nil {
				return violation(path, "must be a number")
			}
		default:
			return violation(path, "must be a number")
		}
	}

	return nil
}

func violation(path, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrSchemaViolation, path, reason)
}
