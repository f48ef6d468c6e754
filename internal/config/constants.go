package config

// SourceFileExt is the default extension of input and unmemoized output files.
const SourceFileExt = ".ts"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".ts", ".mts"}

// DefaultContextImport is the runtime module that declares the hidden
// parameter types.
const DefaultContextImport = "@koalaui/runtime"

// Annotation names, written as decorators: @memo function f() {}
const (
	MemoAnnotation          = "memo"
	MemoIntrinsicAnnotation = "memo_intrinsic"
	MemoEntryAnnotation     = "memo_entry"
	MemoStableAnnotation    = "memo_stable"
	MemoSkipAnnotation      = "memo_skip"
	MemoStateAnnotation     = "memo_state"
)

// Hidden identifiers introduced by the rewriter.
const (
	ContextParamName  = "__memo_context"
	IDParamName       = "__memo_id"
	ScopeName         = "__memo_scope"
	ParamPrefix       = "__memo_parameter_"
	ThisParamName     = ParamPrefix + "this"
	ContextTypeName   = "__memo_context_type"
	IDTypeName        = "__memo_id_type"
	ScopeMethod       = "scope"
	ParamMethod       = "param"
	UnchangedProperty = "unchanged"
	CachedProperty    = "cached"
	RecacheMethod     = "recache"
	ValueProperty     = "value"
)

// StateTypeNames are the runtime interfaces that carry State capability when
// imported from Options.RuntimeModule.
var StateTypeNames = []string{"State", "MutableState", "ArrayState"}

