package parser

import "github.com/dhamidi/pyparse/python/token"

// indentFilter keeps INDENT and DEDENT balanced across error recovery. When
// recovery discards an INDENT it records the depth at which that happened;
// the DEDENT that closes this depth is then swallowed.
type indentFilter struct {
	src     token.Stream
	counter int
	omit    []int
}

func newIndentFilter(src token.Stream) *indentFilter {
	return &indentFilter{src: src}
}

func (f *indentFilter) Next() (token.Token, bool) {
	for {
		tok, ok := f.src.Next()
		if !ok {
			return tok, false
		}
		switch tok.Type {
		case token.DEDENT:
			if n := len(f.omit); n > 0 && f.omit[n-1] == f.counter {
				f.omit = f.omit[:n-1]
				f.counter--
				continue
			}
			f.counter--
		case token.INDENT:
			f.counter++
		}
		return tok, true
	}
}

// omitNextDedent is called for an INDENT that recovery could not place.
func (f *indentFilter) omitNextDedent() {
	f.omit = append(f.omit, f.counter)
}

// balanced reports whether every INDENT seen so far has been closed.
func (f *indentFilter) balanced() bool {
	return f.counter == 0 && len(f.omit) == 0
}
