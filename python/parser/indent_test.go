package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/pyparse/python/token"
)

func TestIndentFilter(t *testing.T) {
	tok := func(typ token.Type) token.Token { return token.Token{Type: typ} }

	tests := []struct {
		name  string
		input []token.Type
		at    []int // yielded tokens after which recovery omits a dedent
		want  []token.Type
	}{
		{
			name:  "pass through",
			input: []token.Type{token.INDENT, token.NAME, token.DEDENT, token.ENDMARKER},
			want:  []token.Type{token.INDENT, token.NAME, token.DEDENT, token.ENDMARKER},
		},
		{
			name:  "omitted indent drops its dedent",
			input: []token.Type{token.INDENT, token.NAME, token.DEDENT, token.ENDMARKER},
			at:    []int{0},
			want:  []token.Type{token.INDENT, token.NAME, token.ENDMARKER},
		},
		{
			name: "inner block keeps its dedent",
			input: []token.Type{
				token.INDENT, token.INDENT, token.NAME, token.DEDENT, token.DEDENT, token.ENDMARKER,
			},
			at:   []int{0},
			want: []token.Type{token.INDENT, token.INDENT, token.NAME, token.DEDENT, token.ENDMARKER},
		},
		{
			name: "nested omissions unwind in order",
			input: []token.Type{
				token.INDENT, token.INDENT, token.NAME, token.DEDENT, token.DEDENT, token.ENDMARKER,
			},
			at:   []int{0, 1},
			want: []token.Type{token.INDENT, token.INDENT, token.NAME, token.ENDMARKER},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var input []token.Token
			for _, typ := range tt.input {
				input = append(input, tok(typ))
			}
			f := newIndentFilter(token.NewSliceStream(input))
			omitAt := map[int]bool{}
			for _, i := range tt.at {
				omitAt[i] = true
			}

			var got []token.Type
			for {
				next, ok := f.Next()
				if !ok {
					break
				}
				got = append(got, next.Type)
				if omitAt[len(got)-1] {
					f.omitNextDedent()
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
			if !f.balanced() {
				t.Errorf("filter not balanced: counter %d, omit %v", f.counter, f.omit)
			}
		})
	}
}
