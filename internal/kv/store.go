// Package kv is the persistence port: every ledger is stored wholesale as
// one JSON blob under one key. Implementations only need Get/Set/Remove,
// which keeps the business rules free of any storage detail.
package kv

import "encoding/json"

// CurrentSchema is stamped into every envelope written by Set.
const CurrentSchema = 1

// Store is the key-value port the ledgers persist through.
type Store interface {
	// Get decodes the blob at key into out. Returns false if the key is absent.
	Get(key string, out any) (bool, error)
	// Set overwrites the blob at key.
	Set(key string, v any) error
	// Remove deletes the key. Removing an absent key is a no-op.
	Remove(key string) error
}

// envelope wraps each stored blob with an explicit schema number so shapes
// can be migrated at load instead of guessed at in read paths.
type envelope struct {
	Schema int             `json:"schema"`
	Data   json.RawMessage `json:"data"`
}

// encode wraps v in a versioned envelope.
func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Schema: CurrentSchema, Data: data})
}

// decode unwraps a stored blob into out. Blobs written before envelopes
// existed (a bare array or object) are treated as schema 0 and decoded
// directly — that is the migration path for legacy data.
func decode(raw []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(raw, out)
}
