package memo

import (
	"github.com/funvibe/memoc/internal/ast"
	"github.com/funvibe/memoc/internal/config"
	"github.com/funvibe/memoc/internal/identity"
	"github.com/funvibe/memoc/internal/symbols"
)

// FunctionInfo describes a function body produced by the function rewriter.
// The reference, this and return rewriters read it instead of recomputing.
type FunctionInfo struct {
	Kind Kind
	// Tracked maps each tracked parameter declaration to its wrapper binding.
	Tracked map[ast.NodeID]string
	// TrackThis is set for instance methods of non-stable classes.
	TrackThis bool
	// Void functions have no declared return type or return void.
	Void bool
	// ReturnsThis marks stable-class methods declared to return this.
	ReturnsThis bool
}

// Context is the rewrite state of one file.
type Context struct {
	File     string
	Tables   *Tables
	Resolver symbols.Resolver
	IDs      *identity.Generator
	Options  *config.Options

	// NeedsTypeImport is set once any hidden parameter or hidden parameter
	// type was introduced.
	NeedsTypeImport bool

	Functions map[ast.NodeID]*FunctionInfo
}

func NewContext(file string, r symbols.Resolver, ids *identity.Generator, opts *config.Options) *Context {
	if opts == nil {
		opts = config.DefaultOptions()
	}
	if ids == nil {
		ids = identity.NewGenerator(nil, file, opts.StableForTest)
	}
	return &Context{
		File:      file,
		Tables:    NewTables(),
		Resolver:  r,
		IDs:       ids,
		Options:   opts,
		Functions: make(map[ast.NodeID]*FunctionInfo),
	}
}

// Function returns the rewrite info recorded for fn, or nil.
func (c *Context) Function(fn ast.Node) *FunctionInfo {
	if fn == nil || !fn.NodeID().IsValid() {
		return nil
	}
	return c.Functions[fn.NodeID()]
}

func (c *Context) SetFunction(fn ast.Node, info *FunctionInfo) {
	if fn == nil || !fn.NodeID().IsValid() {
		Failf(fn, "rewritten function has no node id")
	}
	c.Functions[fn.NodeID()] = info
}
