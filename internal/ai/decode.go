package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// GenerateInto runs req through gen, validates the reply against req.Schema
// and decodes it into out.
func GenerateInto(ctx context.Context, gen StructuredGenerator, req Request, out any) error {
	raw, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}
	return Decode(raw, req.Schema, out)
}

// Decode parses raw model text, validates it and decodes it into out.
func Decode(raw string, schema *Schema, out any) error {
	cleaned := ExtractJSON(raw)

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if err := schema.Validate(data); err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	return nil
}

// ExtractJSON strips markdown fences and surrounding prose from a reply.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.TrimSpace(strings.Trim(raw, "`"))

	if raw == "" || raw[0] == '{' || raw[0] == '[' {
		return raw
	}

	start := strings.IndexAny(raw, "{[")
	if start == -1 {
		return raw
	}
	closer := "}"
	if raw[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(raw, closer)
	if end < start {
		return raw
	}
	return raw[start : end+1]
}
