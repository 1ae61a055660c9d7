package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditBuffer(t *testing.T) {
	b := newEditBuffer([]byte("hello brave new world"))
	b.Replace(12, 15, "old")
	b.Replace(0, 5, "goodbye")
	b.Replace(21, 21, "!")

	assert.Equal(t, "goodbye brave old world!", string(b.Bytes()))
}

func TestEditBuffer_OverlapKeepsFirst(t *testing.T) {
	b := newEditBuffer([]byte("abcdef"))
	b.Replace(1, 4, "X")
	b.Replace(2, 3, "Y")

	assert.Equal(t, "aXef", string(b.Bytes()))
}
