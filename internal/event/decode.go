package event

import "encoding/json"

// DecodePayload decodes an event payload into T. Raw JSON payloads from the
// outbox are unmarshaled directly; in-process structs are returned as is and
// anything else goes through a JSON round-trip.
func DecodePayload[T any](input interface{}) (T, error) {
	var result T
	switch v := input.(type) {
	case T:
		return v, nil
	case json.RawMessage:
		return result, json.Unmarshal(v, &result)
	case []byte:
		return result, json.Unmarshal(v, &result)
	}
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}
