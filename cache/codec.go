package cache

import "encoding/json"

// marshal encodes a cache value as JSON. Values round-trip under JSON
// equivalence, not object identity.
func marshal(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshal decodes a cached JSON string into dest.
func unmarshal(raw string, dest any) error {
	return json.Unmarshal([]byte(raw), dest)
}
