package process

import "regexp"

// expectBuffer accumulates session output until a pattern consumes a prefix.
type expectBuffer struct {
	data []byte
}

func (b *expectBuffer) write(p []byte) {
	b.data = append(b.data, p...)
}

// consume returns everything up to and including the first match of re and
// keeps the remainder for the next call.
func (b *expectBuffer) consume(re *regexp.Regexp) (string, bool) {
	loc := re.FindIndex(b.data)
	if loc == nil {
		return "", false
	}
	out := string(b.data[:loc[1]])
	rest := make([]byte, len(b.data)-loc[1])
	copy(rest, b.data[loc[1]:])
	b.data = rest
	return out, true
}

func (b *expectBuffer) String() string {
	return string(b.data)
}

func (b *expectBuffer) Len() int {
	return len(b.data)
}
