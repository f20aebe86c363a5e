package model

import "encoding/json"

// Metadata is a key to scalar mapping attached to most entity kinds.
// It is always encoded/decoded explicitly through EncodeMetadata and
// DecodeMetadata — the store never auto-decodes it on read.
type Metadata map[string]any

// EncodeMetadata serializes m to its persisted JSON blob form. A nil or
// empty map encodes to an empty string, meaning "no metadata row".
func EncodeMetadata(m Metadata) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeMetadata deserializes a persisted JSON blob back into a Metadata
// value. An empty string decodes to a nil map.
func DecodeMetadata(blob string) (Metadata, error) {
	if blob == "" {
		return nil, nil
	}
	var m Metadata
	if err := json.Unmarshal([]byte(blob), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// DCTypeKey is the metadata key carrying the dc:type discriminator used
// when a relation's type is "other".
const DCTypeKey = "dc:type"
