package drains

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupMapLastWriteWins(t *testing.T) {
	d := newDedupMap[string]()
	d.put("a", "first")
	d.put("b", "second")
	d.put("a", "third")

	assert.Equal(t, []string{"third", "second"}, d.values())
}

func TestDedupMapEmpty(t *testing.T) {
	d := newDedupMap[int]()
	assert.Nil(t, d.values())
}
