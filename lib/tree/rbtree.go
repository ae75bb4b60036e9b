package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type rbNode[K any, V any] struct {
	parent *rbNode[K, V]
	left   *rbNode[K, V]
	right  *rbNode[K, V]
	key    K
	val    V
	color  RBColor
	hasKV  bool
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) HasKeyVal() bool {
	if node == nil {
		return false
	}
	return node.hasKV
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbNode[K, V]) isNilLeaf() bool {
	return isNilLeaf[K, V](node)
}

func (node *rbNode[K, V]) isRed() bool {
	return isRed[K, V](node)
}

func (node *rbNode[K, V]) isBlack() bool {
	return isBlack[K, V](node)
}

func (node *rbNode[K, V]) isRoot() bool {
	return isRoot[K, V](node)
}

func (node *rbNode[K, V]) isLeaf() bool {
	return node != nil && node.parent != nil && node.left.isNilLeaf() && node.right.isNilLeaf()
}

func (node *rbNode[K, V]) Direction() RBDirection {
	if node.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K, V]) sibling() *rbNode[K, V] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode[K, V]) hasSibling() bool {
	return !node.isRoot() && node.sibling() != nil
}

func (node *rbNode[K, V]) uncle() *rbNode[K, V] {
	return node.parent.sibling()
}

func (node *rbNode[K, V]) hasUncle() bool {
	return !node.isRoot() && node.parent.hasSibling()
}

func (node *rbNode[K, V]) grandpa() *rbNode[K, V] {
	return node.parent.parent
}

// fixLink restores the children's parent back-references after a rotation
// swapped subtrees around.
func (node *rbNode[K, V]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[K, V]) minimum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

// succ is the node owning the smallest key greater than the current one,
// i.e. the next node in sorted order. For a node with a right subtree that
// is the right subtree's minimum.
func (node *rbNode[K, V]) succ() *rbNode[K, V] {
	x := node
	if x == nil {
		return nil
	}

	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

// xTree is the container manager: it owns every node reachable from root,
// holds the ordering rule and the optional value destructor fixed at
// construction, and caches the most recent diagnostic condition.
//
// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. (Optional) The root is black.
// (Conclusion) If a node X has exactly one child, the child must be red,
//   otherwise the NIL descendants below the child would sit at a different
//   black depth than X's NIL child, violating p4.
type xTree[K any, V any] struct {
	root        *rbNode[K, V]
	cmp         infra.Comparator[K]
	valDestruct func(val V)
	count       int64
	lastError   ErrorKind
	released    bool
}

func (tree *xTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *xTree[K, V]) Root() RBNode[K, V] {
	return tree.root
}

// LastError reads the cached diagnostic of the most recent operation
// without clearing it.
func (tree *xTree[K, V]) LastError() ErrorKind {
	return tree.lastError
}

// FlushLastError renders the cached diagnostic as text. Rendering clears
// the cache, so a second flush reports no error.
func (tree *xTree[K, V]) FlushLastError() string {
	kind := tree.lastError
	tree.lastError = ErrKindNone
	return kind.String()
}

/*
	 |                         |
	 X                         S
	/ \     leftRotate(X)     / \
   L   S    ============>    X   Sd
	  / \                   / \
	Sc   Sd                L   Sc
*/
func (tree *xTree[K, V]) leftRotate(x *rbNode[K, V]) {
	if x == nil || x.right.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.parent = p
}

/*
	 |                          |
	 X                          S
	/ \                        / \
   L   S    <============    X   Sd
	  / \   rightRotate(S)  / \
	Sc   Sd                L   Sc
*/
func (tree *xTree[K, V]) rightRotate(x *rbNode[K, V]) {
	if x == nil || x.left.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.parent = p
}

// Insert places a new red node at the leaf position the ordering rule picks
// for the key, then rebalances. An equal key is a duplicate-key condition and
// leaves the tree untouched.
// i1: Empty rbtree, insert directly as the black root.
func (tree *xTree[K, V]) Insert(key K, val V) error {
	if tree.released {
		tree.lastError = ErrKindInvalidArgument
		return ErrXTreeReleased
	}

	if /* i1 */ tree.root.isNilLeaf() {
		tree.root = &rbNode[K, V]{
			key:   key,
			val:   val,
			hasKV: true,
		}
		tree.count++
		tree.lastError = ErrKindNone
		return nil
	}

	var x, y *rbNode[K, V] = tree.root, nil
	for !x.isNilLeaf() {
		y = x
		res := tree.cmp(key, x.key)
		if /* equal */ res == 0 {
			break
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	if y.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] insert a new value into nil node")
	}

	res := tree.cmp(key, y.key)
	if /* equal */ res == 0 {
		tree.lastError = ErrKindDuplicateKey
		return ErrXTreeDupKey
	}

	z := &rbNode[K, V]{
		key:    key,
		val:    val,
		color:  Red,
		parent: y,
		hasKV:  true,
	}
	if /* less */ res < 0 {
		y.left = z
	} else /* greater */ {
		y.right = z
	}

	tree.count++
	tree.insertRebalance(z)
	tree.lastError = ErrKindNone
	return nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: X's parent P is black. Nothing to fix, p3 and p4 hold as-is.

im2: P is red and P is the root. Repaint P black.

im3: Both P and the uncle U are red, so grandpa G is black. Pull the black
level of G down one step; G may now clash with its own parent, so recurse
upward from G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: P is red, U is black, and X sits on the opposite side of P than P sits
under G (the "triangle"). One rotation of P straightens it into the line
shape, then im5 finishes.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: The line shape. Rotate G toward the uncle's side and swap the colors of
P and G. All invariants hold afterwards, terminate.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *xTree[K, V]) insertRebalance(x *rbNode[K, V]) {
	for !x.isNilLeaf() {
		if x.isRoot() {
			if x.isRed() {
				x.color = Black
			}
			return
		}

		if /* im1 */ x.parent.isBlack() {
			return
		}

		if x.parent.isRoot() {
			/* im2 */
			x.parent.color = Black
			return
		}

		if /* im3 */ x.hasUncle() && x.uncle().isRed() {
			x.parent.color = Black
			x.uncle().color = Black
			gp := x.grandpa()
			gp.color = Red
			x = gp
			continue
		}

		if !x.hasUncle() || x.uncle().isBlack() {
			dir := x.Direction()
			if /* im4 */ dir != x.parent.Direction() {
				p := x.parent
				switch dir {
				case Left:
					tree.rightRotate(p)
				case Right:
					tree.leftRotate(p)
				default:
					// impossible run to here
					panic( /* debug assertion */ "[rbtree] insert rebalance violate (im4)")
				}
				x = p // enter im5 to fix
			}

			switch /* im5 */ x.parent.Direction() {
			case Left:
				tree.rightRotate(x.grandpa())
			case Right:
				tree.leftRotate(x.grandpa())
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] insert rebalance violate (im5)")
			}

			x.parent.color = Black
			x.sibling().color = Red
			return
		}
	}
}

// Search descends from the root by the ordering rule. Read-only, no side
// effect on the structure; the outcome is recorded as the diagnostic
// condition.
func (tree *xTree[K, V]) Search(key K) (V, bool) {
	var zero V
	if tree.released {
		tree.lastError = ErrKindInvalidArgument
		return zero, false
	}

	for aux := tree.root; !aux.isNilLeaf(); {
		res := tree.cmp(key, aux.key)
		if res == 0 {
			tree.lastError = ErrKindNone
			return aux.val, true
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	tree.lastError = ErrKindNodeNotFound
	return zero, false
}

func (tree *xTree[K, V]) search(key K) *rbNode[K, V] {
	for aux := tree.root; !aux.isNilLeaf(); {
		res := tree.cmp(key, aux.key)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

/*
r1: Only a root node, unlink it and the tree is empty.

r2: X owns both children. Find X's succ (the right subtree's minimum), swap
the key and value fields between the two nodes and re-target the removal at
the succ node. Node identities never move; the node physically removed is
degree <= 1.

	  |                    |
	  X                    S
	 / \                  / \
	L  ..   swap(X, S)   L  ..
	    |   =========>       |
	    P                    P
	   / \                  / \
	  S  ..                X  ..

r3: (1) X is a red leaf: unlink it, p3 and p4 cannot break.

r3: (2) X is a black leaf: unlink it and rebalance, one path just lost a
black node. (black-violation)

r4: X has exactly one child. The child must be red (see the conclusion on
p4), so splicing it into X's place and repainting it black restores every
invariant in one step.
*/
func (tree *xTree[K, V]) removeNode(z *rbNode[K, V]) {
	if /* r1 */ tree.count == 1 && z.isRoot() {
		tree.root = nil
		z.left = nil
		z.right = nil
		z.hasKV = false
		return
	}

	y := z
	if /* r2 */ !y.left.isNilLeaf() && !y.right.isNilLeaf() {
		y = z.succ() // enter r3-r4
		z.key, z.val, y.key, y.val = y.key, y.val, z.key, z.val
	}

	if /* r3 */ y.isLeaf() {
		if /* r3 (1) */ y.isRed() {
			switch y.Direction() {
			case Left:
				y.parent.left = nil
			case Right:
				y.parent.right = nil
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] y should be a leaf node, violate (r3-1)")
			}
			y.parent = nil
			y.hasKV = false
			return
		}
		/* r3 (2) */
		tree.removeRebalance(y)
	} else /* r4 */ {
		var replace *rbNode[K, V]
		if !y.right.isNilLeaf() {
			replace = y.right
		} else if !y.left.isNilLeaf() {
			replace = y.left
		}

		if replace == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove a leaf node without child, violate (r4)")
		}

		switch y.Direction() {
		case Root:
			tree.root = replace
			tree.root.parent = nil
		case Left:
			y.parent.left = replace
			replace.parent = y.parent
		case Right:
			y.parent.right = replace
			replace.parent = y.parent
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (r4)")
		}

		if y.isBlack() {
			if replace.isRed() {
				replace.color = Black
			} else {
				tree.removeRebalance(replace)
			}
		}
	}

	// Unlink node.
	if !y.isRoot() && y == y.parent.left {
		y.parent.left = nil
	} else if !y.isRoot() && y == y.parent.right {
		y.parent.right = nil
	}
	y.parent = nil
	y.left = nil
	y.right = nil
	y.hasKV = false
}

// Remove deletes the node owning an equal key and hands the stored value to
// the destructor, if one was registered. An absent key is a not-found
// condition and leaves the tree untouched.
func (tree *xTree[K, V]) Remove(key K) error {
	if tree.released {
		tree.lastError = ErrKindInvalidArgument
		return ErrXTreeReleased
	}
	if tree.count <= 0 {
		tree.lastError = ErrKindNodeNotFound
		return ErrXTreeIsEmpty
	}
	z := tree.search(key)
	if z == nil {
		tree.lastError = ErrKindNodeNotFound
		return ErrXTreeNotFound
	}

	val := z.val
	tree.removeNode(z)
	tree.count--
	tree.lastError = ErrKindNone
	if tree.valDestruct != nil {
		tree.valDestruct(val)
	}
	return nil
}

// RemoveMin deletes the node owning the smallest key by the ordering rule.
func (tree *xTree[K, V]) RemoveMin() error {
	if tree.released {
		tree.lastError = ErrKindInvalidArgument
		return ErrXTreeReleased
	}
	if tree.count <= 0 {
		tree.lastError = ErrKindNodeNotFound
		return ErrXTreeIsEmpty
	}
	_min := tree.root.minimum()
	if _min.isNilLeaf() {
		tree.lastError = ErrKindNodeNotFound
		return ErrXTreeNotFound
	}

	val := _min.val
	tree.removeNode(_min)
	tree.count--
	tree.lastError = ErrKindNone
	if tree.valDestruct != nil {
		tree.valDestruct(val)
	}
	return nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

X is the root of the subtree missing one black node on every path. S is its
sibling; Sc is S's child on the same side as X, Sd the child on the far side.

rm1: S is red, so P, Sc and Sd must be black. Rotate P toward X's side and
swap the colors of P and S. The deficit is not resolved yet, but X's new
sibling is the black Sc, so the same iteration falls through to the
black-sibling cases. (The "rotate twice and stop" shortcut only works while
Sc's own children are nil leaves; after a deficit has propagated upward that
no longer holds, so the general re-descent form is used here.)

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======> <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: P is red, S, Sc and Sd are black. Swap the colors of P and S: the
deficient side gains a black from P, the other side trades P's red for S's.
Terminate.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: P, S, Sc and Sd are all black. Repaint S red, which fixes p4 locally by
making both of P's sides equally deficient, then retry one level up with P
as the deficient subtree root.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: S is black, the near nephew Sc is red, the far nephew Sd is black (P is
either color). Rotate S away from X and swap the colors of S and Sc: the red
moves to the far side, converting the shape into rm5.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm5: S is black, the far nephew Sd is red. Rotate P toward X's side, give S
P's old color, paint P and Sd black. The deficient side gains P as a new
black node, the far side trades Sd's red for black. Terminate.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *xTree[K, V]) removeRebalance(x *rbNode[K, V]) {
	for {
		if x.isRoot() {
			return
		}

		sibling := x.sibling()
		dir := x.Direction()
		if /* rm1 */ sibling.isRed() {
			switch dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove rebalance violate (rm1)")
			}
			sibling.color = Black
			x.parent.color = Red
			sibling = x.sibling()
		}

		var sc, sd *rbNode[K, V]
		switch dir {
		case Left:
			sc, sd = sibling.left, sibling.right
		case Right:
			sc, sd = sibling.right, sibling.left
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove rebalance violate (rm2)")
		}

		if sc.isBlack() && sd.isBlack() {
			if /* rm2 */ x.parent.isRed() {
				sibling.color = Red
				x.parent.color = Black
				break
			} else /* rm3 */ {
				sibling.color = Red
				x = x.parent
				continue
			}
		} else {
			if /* rm4 */ !sc.isNilLeaf() && sc.isRed() {
				switch dir {
				case Left:
					tree.rightRotate(sibling)
				case Right:
					tree.leftRotate(sibling)
				default:
					// impossible run to here
					panic( /* debug assertion */ "[rbtree] remove rebalance violate (rm4)")
				}
				sc.color = Black
				sibling.color = Red
				sibling = x.sibling()
				switch dir {
				case Left:
					sd = sibling.right
				case Right:
					sd = sibling.left
				default:
					// impossible run to here
					panic( /* debug assertion */ "[rbtree] remove rebalance violate (rm4)")
				}
			}

			switch /* rm5 */ dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove rebalance violate (rm5)")
			}
			sibling.color = x.parent.color
			x.parent.color = Black
			if !sd.isNilLeaf() {
				sd.color = Black
			}
			break
		}
	}
}

// Foreach is the read-only in-order walk handed to external collaborators,
// yielding (key, value, color) per node without exposing mutable links.
// Returning false from the action stops the walk.
func (tree *xTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	size := tree.count
	aux := tree.root
	if size < 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

// Release tears the whole tree down with a full visiting walk, not by
// dropping the root reference: every node is unlinked and its value handed
// to the destructor exactly once. The tree is unusable afterwards.
func (tree *xTree[K, V]) Release() {
	if tree.released {
		return
	}
	size := tree.count
	aux := tree.root
	tree.root = nil
	tree.released = true
	tree.lastError = ErrKindNone
	if size < 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		aux = stack[size-1]
		r := aux.right
		aux.left, aux.right, aux.parent = nil, nil, nil
		aux.hasKV = false
		if tree.valDestruct != nil {
			tree.valDestruct(aux.val)
		}
		tree.count--
		stack = stack[:size-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}
