package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1}
	b := map[string]int{"b": 2, "c": 3}

	merged := maps.Collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, merged)

	// Early exit stops all sequences.
	count := 0
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestIterSeq2Sorted(t *testing.T) {
	assert := assert.New(t)

	seq := IterSeq2Concat(
		maps.All(map[string]int{"z": 1, "m": 2}),
		maps.All(map[string]int{"a": 3, "m": 4}),
	)

	var keys []string
	var values []int
	for key, value := range IterSeq2Sorted(seq) {
		keys = append(keys, key)
		values = append(values, value)
	}

	assert.Equal([]string{"a", "m", "z"}, keys)
	assert.Equal([]int{3, 4, 1}, values)
	assert.True(slices.IsSorted(keys))
}
