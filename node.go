package pipegraph

// node is the generic tree-node substrate shared by the pipeline tree
// and the layer tree: a single generic type parameterized by the
// payload variant rather than two structurally-duplicated trees or a
// runtime-polymorphic base type. T is the concrete handle embedding a
// node (*Pipeline or *Layer); the two trees are never mixed under one
// instantiation.
//
// The child list is intrusive — sibling links live on the node itself,
// adapted from the head/tail/prev/next shape of an LRU eviction list
// repurposed for parent/child structure instead of recency order — so
// the copy-on-write reparenting step can move an entire child chain in
// O(1) per child.
type node[T any] struct {
	parent      T
	firstChild  T
	lastChild   T
	prevSibling T
	nextSibling T

	refCount int

	// hasParentReference is true when the edge to parent is strong
	// (counts toward the parent's refCount); false for a weak edge.
	hasParentReference bool

	// destroyCallback is invoked, for a weak node only, when the core
	// decides to destroy it.
	destroyCallback func(T)
}

// nodeHandle is implemented by the concrete node types (*Pipeline,
// *Layer) so the generic tree operations below can reach each one's
// embedded node without runtime type switches.
type nodeHandle[T any] interface {
	comparable
	treeNode() *node[T]
}

func isNilHandle[T nodeHandle[T]](h T) bool {
	var zero T
	return h == zero
}

// ref increments h's reference count. A nil handle is a no-op.
func ref[T nodeHandle[T]](h T) {
	if isNilHandle(h) {
		return
	}
	h.treeNode().refCount++
}

// unref decrements h's reference count, destroying it once the count
// reaches zero. A nil handle is a no-op.
func unref[T nodeHandle[T]](h T) {
	if isNilHandle(h) {
		return
	}
	n := h.treeNode()
	n.refCount--
	if n.refCount <= 0 {
		destroyNode(h)
	}
}

// onDestroy lets a concrete node type release its own payload (big
// state, layer differences, texture reference, ...) before the generic
// machinery detaches it from the tree.
type onDestroy interface {
	onDestroy()
}

func destroyNode[T nodeHandle[T]](h T) {
	destroyWeakChildren(h)
	if d, ok := any(h).(onDestroy); ok {
		d.onDestroy()
	}
	n := h.treeNode()
	if !isNilHandle(n.parent) {
		unparentNode(h)
	}
}

// setParentNode implements the set-parent protocol of spec §4.1:
//  1. acquire a reference on the new parent unconditionally — the old
//     parent may be the only thing indirectly keeping the new parent
//     alive;
//  2. if the node already has a parent, unparent it first;
//  3. insert into the new parent's child list;
//  4. record the new parent and the edge's strength;
//  5. if the edge is weak, release the reference taken in step 1.
//
// This ordering is load-bearing: reversing steps 1 and 2 can drop the
// new parent's last reference while the old parent is being detached.
func setParentNode[T nodeHandle[T]](child, parent T, weak bool) {
	ref(parent)

	cn := child.treeNode()
	if !isNilHandle(cn.parent) {
		unparentNode(child)
	}

	pn := parent.treeNode()
	var zero T
	cn.prevSibling = pn.lastChild
	cn.nextSibling = zero
	if !isNilHandle(pn.lastChild) {
		pn.lastChild.treeNode().nextSibling = child
	} else {
		pn.firstChild = child
	}
	pn.lastChild = child

	cn.parent = parent
	cn.hasParentReference = !weak

	if weak {
		unref(parent)
	}
}

// unparentNode detaches child from its current parent's child list and
// releases the strong reference the edge held, if any.
func unparentNode[T nodeHandle[T]](child T) {
	cn := child.treeNode()
	parent := cn.parent
	if isNilHandle(parent) {
		return
	}
	pn := parent.treeNode()

	if !isNilHandle(cn.prevSibling) {
		cn.prevSibling.treeNode().nextSibling = cn.nextSibling
	} else {
		pn.firstChild = cn.nextSibling
	}
	if !isNilHandle(cn.nextSibling) {
		cn.nextSibling.treeNode().prevSibling = cn.prevSibling
	} else {
		pn.lastChild = cn.prevSibling
	}

	var zero T
	cn.prevSibling = zero
	cn.nextSibling = zero
	cn.parent = zero

	if cn.hasParentReference {
		unref(parent)
	}
}

// foreachChildNode invokes fn once per current child of parent, in
// child-list order. Safe against fn removing the child it was just
// called with (the next pointer is captured before the call), matching
// spec §4.1's "foreach-child (safe against removal during traversal)".
func foreachChildNode[T nodeHandle[T]](parent T, fn func(T)) {
	child := parent.treeNode().firstChild
	for !isNilHandle(child) {
		next := child.treeNode().nextSibling
		fn(child)
		child = next
	}
}

// destroyWeakChildren walks parent's children and destroys every weak
// one: invokes its destroyCallback (if any), then detaches it. Strong
// children are left alone. Spec §4.1: "a parent must, before freeing
// itself, iterate its children and for each weak child invoke that
// child's destroy_callback and detach it from the tree" — also reused
// by the copy-on-write protocol's step 3, which runs this on a pipeline
// that isn't (yet) being freed.
func destroyWeakChildren[T nodeHandle[T]](parent T) {
	child := parent.treeNode().firstChild
	for !isNilHandle(child) {
		cn := child.treeNode()
		next := cn.nextSibling
		if !cn.hasParentReference {
			if cn.destroyCallback != nil {
				cn.destroyCallback(child)
			}
			unparentNode(child)
		}
		child = next
	}
}

// hasStrongChildren reports whether parent has any child whose edge is
// strong. Spec invariant 7: such a node is immutable; mutation requires
// copy-on-write.
func hasStrongChildren[T nodeHandle[T]](parent T) bool {
	child := parent.treeNode().firstChild
	for !isNilHandle(child) {
		cn := child.treeNode()
		if cn.hasParentReference {
			return true
		}
		child = cn.nextSibling
	}
	return false
}

// promoteWeakAncestors implements weak-ancestor promotion (spec §4.3):
// walk upward through a contiguous chain of weak ancestors starting at
// h's parent, and acquire one extra strong reference on each ancestor
// of a weak node, so a strong copy descending through weak nodes can't
// be cut loose when those weak nodes are destroyed. demoteWeakAncestors
// performs the symmetric release.
func promoteWeakAncestors[T nodeHandle[T]](h T) {
	n := h.treeNode()
	cur := n.parent
	for !isNilHandle(cur) {
		cn := cur.treeNode()
		if cn.hasParentReference {
			break
		}
		ref(cn.parent)
		cur = cn.parent
	}
}

func demoteWeakAncestors[T nodeHandle[T]](h T) {
	n := h.treeNode()
	cur := n.parent
	for !isNilHandle(cur) {
		cn := cur.treeNode()
		if cn.hasParentReference {
			break
		}
		unref(cn.parent)
		cur = cn.parent
	}
}
