package tree

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

// ErrorKind is the container's stable diagnostic enumeration. The most
// recent kind is cached per tree and read back through LastError or the
// render-and-clear FlushLastError.
type ErrorKind uint8

const (
	ErrKindNone ErrorKind = iota
	// ErrKindOutOfMemory is reserved for enumeration stability. The Go
	// runtime aborts on allocation failure instead of reporting it, so no
	// operation produces this kind.
	ErrKindOutOfMemory
	ErrKindDuplicateKey
	ErrKindInvalidArgument
	ErrKindNodeNotFound
)

func (kind ErrorKind) String() string {
	switch kind {
	case ErrKindNone:
		return "none"
	case ErrKindOutOfMemory:
		return "out of memory"
	case ErrKindDuplicateKey:
		return "duplicate key"
	case ErrKindInvalidArgument:
		return "invalid argument"
	case ErrKindNodeNotFound:
		return "node not found"
	default:
	}
	return "unknown"
}

var (
	ErrXTreeDupKey     = errors.New("[x-rbtree] duplicate key")
	ErrXTreeNotFound   = errors.New("[x-rbtree] key not found")
	ErrXTreeInvalidArg = errors.New("[x-rbtree] invalid argument")
	ErrXTreeIsEmpty    = errors.New("[x-rbtree] there is no element")
	ErrXTreeReleased   = errors.New("[x-rbtree] tree has been released")
)

// RBNode is the read-only vertex view handed to external walkers. It never
// permits mutation; link accessors are only there so a collaborator can run
// its own depth- or breadth-first visit.
type RBNode[K any, V any] interface {
	Key() K
	Val() V
	HasKeyVal() bool
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

// RBTree is an ordered associative container balanced by the red-black
// discipline. The ordering rule and the optional value destructor are fixed
// at construction. Single writer only; concurrent mutation is the caller's
// problem to serialize.
type RBTree[K any, V any] interface {
	Len() int64
	Root() RBNode[K, V]
	Insert(key K, val V) error
	Remove(key K) error
	RemoveMin() error
	Search(key K) (V, bool)
	LastError() ErrorKind
	FlushLastError() string
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Release()
}

type RBTreeOpt[K any, V any] func(*xTree[K, V])

// WithRBTreeValDestructor registers the capability invoked on a stored value
// when its node is removed or the whole tree is torn down. Invoked exactly
// once per stored value, never for a key.
func WithRBTreeValDestructor[K any, V any](destruct func(val V)) RBTreeOpt[K, V] {
	return func(tree *xTree[K, V]) {
		tree.valDestruct = destruct
	}
}

// New builds an empty tree around the mandatory ordering rule.
func New[K any, V any](cmp infra.Comparator[K], opts ...RBTreeOpt[K, V]) (RBTree[K, V], error) {
	if cmp == nil {
		return nil, ErrXTreeInvalidArg
	}

	tree := &xTree[K, V]{
		cmp:       cmp,
		lastError: ErrKindNone,
	}
	for _, o := range opts {
		o(tree)
	}
	return tree, nil
}
