//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Mutation edits a request body after it has been flattened to JSON fields.
type Mutation func(map[string]any)

// JSONBody flattens a request DTO into its wire fields so tests can send
// payloads the typed struct cannot express (missing keys, wrong types).
func JSONBody(t *testing.T, v any, muts ...Mutation) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	for _, mutate := range muts {
		mutate(body)
	}
	return body
}

func Set(key string, value any) Mutation {
	return func(m map[string]any) { m[key] = value }
}

func Drop(key string) Mutation {
	return func(m map[string]any) { delete(m, key) }
}
