package gen

import (
	"sort"
	"strings"
)

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

// editBuffer applies non-overlapping byte-range edits to a source buffer.
type editBuffer struct {
	src   []byte
	edits []edit
}

func newEditBuffer(src []byte) *editBuffer {
	return &editBuffer{src: src}
}

func (b *editBuffer) Replace(start, end int, text string) {
	b.edits = append(b.edits, edit{start: start, end: end, text: text})
}

// Bytes returns the edited source. Edits are applied in offset order.
func (b *editBuffer) Bytes() []byte {
	sort.SliceStable(b.edits, func(i, j int) bool {
		return b.edits[i].start < b.edits[j].start
	})

	var sb strings.Builder

	pos := 0
	for _, e := range b.edits {
		if e.start < pos {
			// overlapping; the earlier edit wins
			continue
		}

		sb.Write(b.src[pos:e.start])
		sb.WriteString(e.text)
		pos = e.end
	}

	sb.Write(b.src[pos:])

	return []byte(sb.String())
}
