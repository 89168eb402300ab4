package services

import (
	"encoding/json"
	"fmt"
)

// MergeJobOrder combines the system-supplied parameter set with the
// user-supplied parameter set into one effective input document. The result
// starts from a copy of the system order; every key present in the user order
// is overlaid, overwriting on conflict. Both inputs must be non-nil, even if
// empty. Neither input map is mutated.
func MergeJobOrder(systemOrder, userOrder map[string]interface{}) (map[string]interface{}, error) {
	if systemOrder == nil || userOrder == nil {
		return nil, ErrMissingJobOrder
	}

	merged := make(map[string]interface{}, len(systemOrder)+len(userOrder))
	for k, v := range systemOrder {
		merged[k] = v
	}
	for k, v := range userOrder {
		merged[k] = v
	}
	return merged, nil
}

// parseJobOrder decodes a serialized job order. An empty document is treated
// as absent so that a job can never be built from an undefined order half.
func parseJobOrder(document string) (map[string]interface{}, error) {
	if document == "" {
		return nil, nil
	}
	var order map[string]interface{}
	if err := json.Unmarshal([]byte(document), &order); err != nil {
		return nil, fmt.Errorf("malformed job order: %w", err)
	}
	return order, nil
}

// serializeJobOrder encodes a merged order for storage. encoding/json sorts
// map keys, so identical inputs always produce identical output.
func serializeJobOrder(order map[string]interface{}) (string, error) {
	data, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("failed to serialize job order: %w", err)
	}
	return string(data), nil
}
