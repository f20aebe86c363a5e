package engine

import "encoding/json"

// toJSON serializes v for a history record's prior/new value column. History
// values are always raw JSON of the domain record, never surrogate keys.
func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
