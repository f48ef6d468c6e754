package session_test

import (
	"testing"

	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/session"
)

// FuzzTransform checks that arbitrary input never crashes a session and that
// stable output does not depend on the run.
func FuzzTransform(f *testing.F) {
	seeds := []string{
		"@memo function f(a: number): number { return a }",
		"@memo function g(@memo c: () => void): void { c() }\n@memo function h(): void { g(() => { f(1) }) }",
		"class C { @memo m(x: number): number { return this.y + x } }",
		"@memo_intrinsic function i(k: string): number { return 0 }",
		"function plain() { @memo const l = (): void => {} }",
		"@memo function s(o: any): any { return { o } }",
		"@memo",
		"function (",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	opts := config.DefaultOptions()
	opts.StableForTest = true

	f.Fuzz(func(t *testing.T, input string) {
		first, err := session.New(opts).Transform("fuzz.ts", input)
		if err != nil {
			t.Fatal(err)
		}
		second, err := session.New(opts).Transform("fuzz.ts", input)
		if err != nil {
			t.Fatal(err)
		}
		if first.Failed() != second.Failed() || first.Output != second.Output {
			t.Fatalf("unstable output for %q", input)
		}
		if !first.Failed() && first.Program == nil {
			t.Fatalf("no program for %q", input)
		}
	})
}
