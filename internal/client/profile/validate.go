package profile

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"
)

//go:embed profile.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(schemaJSON, rs); err != nil {
			schemaErr = fmt.Errorf("compile profile schema: %w", err)
			return
		}
		schema = rs
	})
	return schema, schemaErr
}

// Validate checks the canonical form of p against the version 2 schema.
func Validate(ctx context.Context, p Profile) error {
	rs, err := compiledSchema()
	if err != nil {
		return err
	}
	b, err := json.Marshal(Canonical(p))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	keyErrs, err := rs.ValidateBytes(ctx, b)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(keyErrs) > 0 {
		msgs := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			msgs = append(msgs, ke.PropertyPath+": "+ke.Message)
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	return nil
}
