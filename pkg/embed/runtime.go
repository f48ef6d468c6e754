package memoc

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/funvibe/memoc/internal/evaluator"
	"github.com/funvibe/memoc/internal/runtime"
)

// Runtime executes transformed programs. Memo state persists across calls,
// so calling an entry function twice with the same arguments reuses cached
// results.
type Runtime struct {
	eval       *evaluator.Evaluator
	marshaller *Marshaller
	env        *evaluator.Environment
}

func NewRuntime() *Runtime {
	return &Runtime{eval: evaluator.New(), marshaller: NewMarshaller()}
}

// SetOutput redirects log and print.
func (r *Runtime) SetOutput(w io.Writer) { r.eval.Out = w }

func (r *Runtime) SetLogger(l *zap.Logger) { r.eval.Logger = l }

// Bind makes a Go value or function available as a global.
func (r *Runtime) Bind(name string, val interface{}) error {
	obj, err := r.marshaller.ToValue(val)
	if err != nil {
		return fmt.Errorf("binding %s: %w", name, err)
	}
	if b, ok := obj.(*evaluator.Builtin); ok {
		b.Name = name
	}
	r.eval.Globals.Set(name, obj)
	return nil
}

// Load registers the outputs as modules and runs the one at entry. Later
// calls resolve names in the entry module.
func (r *Runtime) Load(entry string, outputs ...*Output) error {
	found := false
	for _, o := range outputs {
		if !o.OK() {
			return fmt.Errorf("%s was not transformed", o.Path)
		}
		r.eval.AddModule(o.program)
		found = found || o.Path == entry
	}
	if !found {
		return fmt.Errorf("entry %s not among outputs", entry)
	}
	for _, o := range outputs {
		if o.Path != entry {
			continue
		}
		env, err := r.eval.Run(o.program)
		if err != nil {
			return err
		}
		r.env = env
	}
	return nil
}

// Call calls a function of the entry module by name.
func (r *Runtime) Call(name string, args ...interface{}) (interface{}, error) {
	return r.call(name, false, args)
}

// CallEntry calls a function that takes the hidden memo parameters
// explicitly, such as a @memo_entry function, supplying them from the
// runtime.
func (r *Runtime) CallEntry(name string, args ...interface{}) (interface{}, error) {
	return r.call(name, true, args)
}

func (r *Runtime) call(name string, entry bool, args []interface{}) (interface{}, error) {
	if r.env == nil {
		return nil, fmt.Errorf("no program loaded")
	}
	objs := make([]evaluator.Object, len(args))
	for i, a := range args {
		obj, err := r.marshaller.ToValue(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		objs[i] = obj
	}

	var res evaluator.Object
	var err error
	if entry {
		res, err = r.eval.CallMemo(r.env, name, objs...)
	} else {
		res, err = r.eval.Call(r.env, name, objs...)
	}
	if err != nil {
		return nil, err
	}
	return r.marshaller.FromValue(res, nil)
}

// Stats reports memo runtime activity so far.
func (r *Runtime) Stats() runtime.Stats {
	return r.eval.Memo.Stats
}
