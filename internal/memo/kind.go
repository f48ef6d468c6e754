// Package memo holds the classification tables and the per-file rewrite
// context shared by the transform stages.
package memo

// Kind classifies a declaration or a call site.
type Kind int

const (
	Regular Kind = iota
	Memo
	MemoIntrinsic
)

func (k Kind) String() string {
	switch k {
	case Memo:
		return "memo"
	case MemoIntrinsic:
		return "memo_intrinsic"
	default:
		return "regular"
	}
}

// IsMemo reports whether k receives the hidden parameters.
func (k Kind) IsMemo() bool {
	return k == Memo || k == MemoIntrinsic
}
