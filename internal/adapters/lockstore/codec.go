package lockstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/zerr"
)

const lockSchemaURL = "https://policy.trai.ch/schemas/lock.schema.json"

//go:embed lock.schema.json
var lockSchemaJSON []byte

var lockSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(lockSchemaURL, bytes.NewReader(lockSchemaJSON)); err != nil {
		return nil, zerr.Wrap(err, "lock schema load failed")
	}
	return c.Compile(lockSchemaURL)
})

// Decode parses a lock document. The document must match the lock schema and
// every run list item must reference a locked cookbook.
func Decode(data []byte) (*domain.PolicyLock, error) {
	schema, err := lockSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLockUnmarshalFailed.Error())
	}
	if err := schema.Validate(doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLockSchemaViolation.Error())
	}

	var lock domain.PolicyLock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLockUnmarshalFailed.Error())
	}
	if err := lock.Validate(); err != nil {
		return nil, zerr.With(err, "policy", lock.Name)
	}

	return &lock, nil
}
