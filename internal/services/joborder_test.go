package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeJobOrder(t *testing.T) {
	t.Run("user values win on conflict", func(t *testing.T) {
		system := map[string]interface{}{"a": 1, "b": 2}
		user := map[string]interface{}{"b": 3, "c": 4}

		merged, err := MergeJobOrder(system, user)
		assert.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"a": 1, "b": 3, "c": 4}, merged)
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		system := map[string]interface{}{"a": 1}
		user := map[string]interface{}{"a": 2}

		_, err := MergeJobOrder(system, user)
		assert.NoError(t, err)
		assert.Equal(t, 1, system["a"])
		assert.Equal(t, 2, user["a"])
	})

	t.Run("empty maps merge to empty", func(t *testing.T) {
		merged, err := MergeJobOrder(map[string]interface{}{}, map[string]interface{}{})
		assert.NoError(t, err)
		assert.Empty(t, merged)
	})

	t.Run("missing halves are rejected", func(t *testing.T) {
		_, err := MergeJobOrder(nil, map[string]interface{}{})
		assert.ErrorIs(t, err, ErrMissingJobOrder)

		_, err = MergeJobOrder(map[string]interface{}{}, nil)
		assert.ErrorIs(t, err, ErrMissingJobOrder)
	})
}

func TestParseJobOrder(t *testing.T) {
	t.Run("empty document is absent", func(t *testing.T) {
		order, err := parseJobOrder("")
		assert.NoError(t, err)
		assert.Nil(t, order)
	})

	t.Run("malformed document fails", func(t *testing.T) {
		_, err := parseJobOrder("{not json")
		assert.Error(t, err)
	})

	t.Run("valid document decodes", func(t *testing.T) {
		order, err := parseJobOrder(`{"threads":4}`)
		assert.NoError(t, err)
		assert.Equal(t, float64(4), order["threads"])
	})
}

func TestSerializeJobOrderDeterministic(t *testing.T) {
	order := map[string]interface{}{"zeta": 1, "alpha": 2, "mid": 3}

	first, err := serializeJobOrder(order)
	assert.NoError(t, err)
	second, err := serializeJobOrder(order)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, `{"alpha":2,"mid":3,"zeta":1}`, first)
}
