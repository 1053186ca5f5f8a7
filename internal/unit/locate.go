package unit

import (
	"bytes"
)

// locator finds decoded strings in the raw bytes of a unit file. Matches
// must sit between matching quotes (or form a whole plain YAML scalar) and
// never overlap an earlier match.
type locator struct {
	content []byte
	claimed [][2]int
	floor   int // matches for later items start after this offset
}

func newLocator(content []byte) *locator {
	return &locator{content: content}
}

func (l *locator) find(text string) (start, end int, ok bool) {
	if text == "" {
		return 0, 0, false
	}
	needle := []byte(text)
	pos := l.floor
	for pos <= len(l.content) {
		idx := bytes.Index(l.content[pos:], needle)
		if idx < 0 {
			return 0, 0, false
		}
		start = pos + idx
		end = start + len(needle)
		pos = start + 1
		if l.delimited(start, end) && !l.overlaps(start, end) {
			l.claimed = append(l.claimed, [2]int{start, end})
			return start, end, true
		}
	}
	return 0, 0, false
}

func (l *locator) delimited(start, end int) bool {
	if start == 0 {
		return false
	}
	before := l.content[start-1]
	var after byte = '\n'
	if end < len(l.content) {
		after = l.content[end]
	}
	switch before {
	case '"', '\'':
		return after == before
	case ' ', '\t':
		if after == '\n' {
			return true
		}
		return after == ' ' && end+1 < len(l.content) && l.content[end+1] == '#'
	default:
		return false
	}
}

func (l *locator) overlaps(start, end int) bool {
	for _, c := range l.claimed {
		if start < c[1] && c[0] < end {
			return true
		}
	}
	return false
}

// advance moves the floor past every match made so far.
func (l *locator) advance() {
	for _, c := range l.claimed {
		l.floor = max(l.floor, c[1])
	}
}
