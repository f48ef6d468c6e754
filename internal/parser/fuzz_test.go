package parser_test

import (
	"testing"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		"@memo function f(a: number): number { return a }",
		"const x = (a) => ({ a })",
		"class C<T> extends B<T> { get x(): T { return this.y } }",
		"type T = ((x: number) => void) | undefined",
		"for (const x of xs) { if (x < 1) continue }",
		"f<",
		"(((",
		"@",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		ctx := parse(input)
		if ctx.AstRoot == nil {
			t.Fatalf("nil program for %q", input)
		}
	})
}
