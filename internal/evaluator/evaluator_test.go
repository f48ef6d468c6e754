package evaluator_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/memoc/internal/evaluator"
	"github.com/funvibe/memoc/internal/memotest"
)

func run(t *testing.T, src string) (*evaluator.Environment, string) {
	t.Helper()
	var out bytes.Buffer
	e := evaluator.New()
	e.Out = &out
	env, err := e.Run(memotest.PrepareOne(t, src).AstRoot)
	require.NoError(t, err)
	return env, strings.TrimSuffix(out.String(), "\n")
}

func runError(t *testing.T, src string) error {
	t.Helper()
	e := evaluator.New()
	e.Out = &bytes.Buffer{}
	_, err := e.Run(memotest.PrepareOne(t, src).AstRoot)
	require.Error(t, err)
	return err
}

func TestOperators(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{`1 + 2 * 3`, "7"},
		{`(1 + 2) * 3`, "9"},
		{`7 / 2`, "3.5"},
		{`2 ** 3 ** 2`, "512"},
		{`7 % 3`, "1"},
		{`"a" + 1`, "a1"},
		{`1 + "a"`, "1a"},
		{`-(3)`, "-3"},
		{`!0`, "true"},
		{`1 === 1`, "true"},
		{`"1" === 1`, "false"},
		{`"1" == 1`, "true"},
		{`null == undefined`, "true"},
		{`null === undefined`, "false"},
		{`"b" > "a"`, "true"},
		{`2 <= 1`, "false"},
		{`0 || "x"`, "x"},
		{`1 && 2`, "2"},
		{`null ?? 5`, "5"},
		{`0 ?? 5`, "0"},
		{`true ? 1 : 2`, "1"},
		{`typeof "s"`, "string"},
		{`typeof missing`, "undefined"},
		{`typeof log`, "function"},
		{`5 & 3`, "1"},
		{`5 | 3`, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, out := run(t, "log("+tt.expr+");\n")
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestVariablesAndLoops(t *testing.T) {
	_, out := run(t, `
let total = 0;
for (let i = 0; i < 5; i++) {
    if (i === 3) {
        continue;
    }
    total += i;
}
let n = 0;
while (true) {
    n++;
    if (n > 2)
        break;
}
const parts: string[] = [];
for (const p of ["a", "b"]) {
    parts.push(p);
}
log(total, n, parts.join("-"), parts.length);
`)
	assert.Equal(t, "7 3 a-b 2", out)
}

func TestClosures(t *testing.T) {
	env, out := run(t, `
function counter() {
    let n = 0;
    return () => {
        n++;
        return n;
    };
}
const c = counter();
c();
log(c());
const double = function twice(x: number): number {
    return x * 2;
};
`)
	assert.Equal(t, "2", out)

	res, err := evaluator.New().Call(env, "double", &evaluator.Number{Value: 4})
	require.NoError(t, err)
	assert.Equal(t, "8", res.Inspect())
}

func TestHoisting(t *testing.T) {
	_, out := run(t, `
log(later(2));
function later(x: number): number {
    return x + 1;
}
`)
	assert.Equal(t, "3", out)
}

func TestDefaultAndRestParameters(t *testing.T) {
	_, out := run(t, `
function f(a: number, b: number = 10, ...rest: number[]): string {
    return a + b + ":" + rest.length;
}
log(f(1), f(1, 2, 3, 4));
`)
	assert.Equal(t, "11:0 3:2", out)
}

func TestObjects(t *testing.T) {
	_, out := run(t, `
const x = 1;
const o = { a: 1, "b": "two", x };
o.c = [1, 2];
const copy = { ...o, a: 5 };
log(o.a, o.b, o.x, o["c"][1], copy.a, o.missing, o?.a);
log(copy);
`)
	assert.Equal(t, "1 two 1 2 5 undefined 1\n{ a: 5, b: \"two\", x: 1, c: [1, 2] }", out)
}

func TestClasses(t *testing.T) {
	_, out := run(t, `
class Animal {
    sound: string = "...";
    constructor(name: string) {
        this.name = name;
    }
    speak(): string {
        return this.name + " says " + this.sound;
    }
}
class Dog extends Animal {
    sound: string = "woof";
    static count: number = 0;
    constructor(name: string) {
        super(name);
        Dog.count++;
    }
    speak(): string {
        return super.speak() + "!";
    }
    get upper(): string {
        return this.name.toUpperCase();
    }
    set nick(v: string) {
        this.name = v;
    }
}
const d = new Dog("rex");
log(d.speak(), d.upper, d instanceof Animal, Dog.count);
d.nick = "max";
log(d.name);
`)
	assert.Equal(t, "rex says woof! REX true 1\nmax", out)
}

func TestArrowKeepsThis(t *testing.T) {
	_, out := run(t, `
class Box {
    items: number[] = [1, 2, 3];
    factor: number = 10;
    scaled(): number[] {
        return this.items.map((x: number) => x * this.factor);
    }
}
log(new Box().scaled());
`)
	assert.Equal(t, "[10, 20, 30]", out)
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"undefined name", "log(nope);\n", "nope is not defined"},
		{"const assignment", "const a = 1;\na = 2;\n", "assignment to constant variable a"},
		{"not a function", "const a = 1;\na();\n", "1 is not a function"},
		{"property of undefined", "let u;\nu.x;\n", "cannot read properties of undefined (reading 'x')"},
		{"throw", "throw new Error(\"bad\");\n", "uncaught bad"},
		{"class without new", "class C {}\nC();\n", "cannot be invoked without 'new'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runError(t, tt.src)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), memotest.File)
		})
	}
}

func TestErrorPosition(t *testing.T) {
	err := runError(t, "let a = 1;\nlog(a, nope);\n")
	var rt *evaluator.Error
	require.ErrorAs(t, err, &rt)
	assert.Equal(t, 2, rt.Line)
	assert.Equal(t, 8, rt.Column)
}

func TestRecursionLimit(t *testing.T) {
	err := runError(t, "function f(): number {\n    return f();\n}\nf();\n")
	assert.Contains(t, err.Error(), "maximum recursion depth exceeded")
}

func TestModules(t *testing.T) {
	files := memotest.Prepare(t, map[string]string{
		"app.ts": `import { greet as hello } from "./lib/greet";
import { log } from "log-lib";
log(hello("bob"));
`,
		"lib/greet.ts": `const prefix = "hi ";
export function greet(name: string): string {
    return prefix + name;
}
`,
	})
	var out bytes.Buffer
	e := evaluator.New()
	e.Out = &out
	e.AddModule(files["lib/greet.ts"].AstRoot)
	_, err := e.Run(files["app.ts"].AstRoot)
	require.NoError(t, err)
	assert.Equal(t, "hi bob\n", out.String())
}
