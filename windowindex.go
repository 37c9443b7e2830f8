// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

// unusedNode marks an empty parent/child slot, mirroring the original
// program's UNUSED sentinel ((uint16_t)-1) in tree.c.
const unusedNode uint16 = 0xFFFF

// treeNode is one slot of the binary search tree built on top of the
// sliding window. Index windowMaxSize is reserved for the sentinel
// root; its larger child is the true root of the tree.
type treeNode struct {
	parent, smaller, larger uint16
}

// windowIndex is the match finder: a binary search tree over window
// positions, keyed by the bytes that follow each position. One tree node
// exists per byte of window capacity, reused cyclically as the window
// slides (the node at array index p represents whichever window position is
// currently congruent to p modulo windowMaxSize).
//
// Ported from tree.c (lz77_find_and_add and friends).
type windowIndex struct {
	tree          []treeNode
	windowMaxSize int
}

// newWindowIndex allocates a windowIndex for a window of the given maximum
// size. The arena holds windowMaxSize+1 nodes; the extra slot is the
// sentinel root.
func newWindowIndex(windowMaxSize int) *windowIndex {
	tree := make([]treeNode, windowMaxSize+1)
	for i := range tree {
		tree[i] = treeNode{parent: unusedNode, smaller: unusedNode, larger: unusedNode}
	}
	return &windowIndex{tree: tree, windowMaxSize: windowMaxSize}
}

// insertFirst seeds the tree with the very first window position (node 0)
// as the sole child of the sentinel root. Called once, when the first byte
// of input is about to be indexed.
func (idx *windowIndex) insertFirst() {
	idx.tree[idx.windowMaxSize].larger = 0
	idx.tree[0] = treeNode{parent: uint16(idx.windowMaxSize), smaller: unusedNode, larger: unusedNode}
	for i := 1; i < idx.windowMaxSize; i++ {
		idx.tree[i] = treeNode{parent: unusedNode, smaller: unusedNode, larger: unusedNode}
	}
}

// findAndInsert searches the tree for the longest match between lookahead
// and any previously indexed window position, then inserts (or relocates)
// node curr into the tree so that future searches can find it.
//
//   - data is the stream's backing buffer.
//   - windowStart is the absolute offset (into data) of the window's first
//     byte.
//   - lookaheadStart/lookaheadLen delimit the bytes being matched; by
//     construction lookaheadStart == windowStart + current window length,
//     so a match is free to run past the window boundary and overrun into
//     the look-ahead itself (self-referencing runs).
//
// Returns the length of the longest match found (0 if none) and, when
// longest > 0, the window-relative offset at which it starts.
func (idx *windowIndex) findAndInsert(curr int, data []byte, windowStart, lookaheadStart, lookaheadLen int) (longest uint16, offset uint16) {
	tree := idx.tree
	windowMaxSize := idx.windowMaxSize

	test := int(tree[windowMaxSize].larger)
	begin := windowStart % windowMaxSize

	lookahead := data[lookaheadStart : lookaheadStart+lookaheadLen]

	for {
		k := test - begin
		if k < 0 {
			k += windowMaxSize
		}

		var i int
		var delta int
		for i = 0; i < len(lookahead); i++ {
			delta = int(lookahead[i]) - int(data[windowStart+k+i])
			if delta != 0 {
				break
			}
		}

		if uint16(i) > longest {
			offset = uint16(k)
			longest = uint16(i)
			if int(longest) == len(lookahead) {
				// Matched the whole look-ahead buffer. Duplicate nodes are
				// not permitted in the tree, so fold test and curr into one.
				if test != curr {
					idx.deleteNode(curr)
					idx.replaceNode(test, curr)
				}
				return longest, offset
			}
		}

		var child *uint16
		if delta > 0 {
			child = &tree[test].larger
		} else {
			child = &tree[test].smaller
		}

		if *child == unusedNode {
			if test == curr {
				return longest, offset
			}
			if tree[curr].parent != unusedNode {
				idx.deleteNode(curr)
			}
			if *child == unusedNode {
				// deleteNode may have altered *child if curr itself was on
				// this very path; only place the new node if the slot is
				// still free.
				*child = uint16(curr)
				tree[curr] = treeNode{parent: uint16(test), smaller: unusedNode, larger: unusedNode}
				return longest, offset
			}
		}
		test = int(*child)
	}
}

// contractNode removes old from the tree, replacing it with one of its own
// children (new), which may itself be unusedNode.
func (idx *windowIndex) contractNode(old, new int) {
	tree := idx.tree
	parent := int(tree[old].parent)

	if new != int(unusedNode) {
		tree[new].parent = uint16(parent)
	}
	if int(tree[parent].larger) == old {
		tree[parent].larger = uint16(new)
	} else {
		tree[parent].smaller = uint16(new)
	}
	tree[old].parent = unusedNode
}

// replaceNode substitutes new for old at old's position in the tree,
// copying old's links onto new and re-parenting old's former children.
func (idx *windowIndex) replaceNode(old, new int) {
	tree := idx.tree

	parent := int(tree[old].parent)
	if parent != int(unusedNode) {
		if int(tree[parent].smaller) == old {
			tree[parent].smaller = uint16(new)
		} else {
			tree[parent].larger = uint16(new)
		}
	}

	tree[new] = tree[old]
	if tree[new].smaller != unusedNode {
		tree[tree[new].smaller].parent = uint16(new)
	}
	if tree[new].larger != unusedNode {
		tree[tree[new].larger].parent = uint16(new)
	}
	tree[old].parent = unusedNode
}

// findNextNode returns the in-order predecessor of index: the rightmost
// node of its left subtree.
func (idx *windowIndex) findNextNode(index int) int {
	tree := idx.tree
	next := int(tree[index].smaller)
	for tree[next].larger != unusedNode {
		next = int(tree[next].larger)
	}
	return next
}

// deleteNode removes index from the tree. A no-op if index is not
// currently linked in (parent == unusedNode).
func (idx *windowIndex) deleteNode(index int) {
	tree := idx.tree
	if tree[index].parent == unusedNode {
		return
	}
	if tree[index].smaller != unusedNode && tree[index].larger != unusedNode {
		replacement := idx.findNextNode(index)
		idx.deleteNode(replacement)
		idx.replaceNode(index, replacement)
	} else if tree[index].smaller != unusedNode {
		idx.contractNode(index, int(tree[index].smaller))
	} else {
		idx.contractNode(index, int(tree[index].larger))
	}
}

// rotate left-rotates the arena's first windowMaxSize entries by shift
// positions, via the juggling/GCD-cycle algorithm, then re-points every
// parent/smaller/larger index to account for the rotation. Used when a
// descriptor-backed stream compacts its buffer back to the start, which
// changes which array slot each window position lives in.
//
// Ported from ustream.c's rotate_tree_array and shift_tree_indices.
func (idx *windowIndex) rotate(shift int) {
	rotateTreeArray(idx.tree, idx.windowMaxSize, shift)
	shiftTreeIndices(idx.tree, idx.windowMaxSize, shift)
}

func rotateTreeArray(v []treeNode, size, shift int) {
	if size <= 1 || shift%size == 0 {
		return
	}
	for offset := 0; offset < shift; offset++ {
		a := v[offset]
		i := offset
		for i+shift < size {
			v[i] = v[i+shift]
			i += shift
		}
		v[i] = a
	}
	rotateTreeArray(v[size-shift:], shift, shift-size%shift)
}

func shiftTreeIndices(v []treeNode, size, shift int) {
	adjust := func(x uint16) uint16 {
		if x == unusedNode {
			return unusedNode
		}
		xi := int(x) - shift
		if xi < 0 {
			return uint16(size + xi)
		}
		return uint16(xi)
	}
	for i := 0; i <= size; i++ {
		if v[i].parent != unusedNode && int(v[i].parent) != size {
			v[i].parent = adjust(v[i].parent)
		}
		v[i].smaller = adjust(v[i].smaller)
		v[i].larger = adjust(v[i].larger)
	}
}

// computeMinMatchLength derives the shortest match length worth encoding as
// a phrase token: the smallest count of literal bytes (each costing
// symbolTokenBits) that a phrase token (typeBits + windowNBits bits of
// header, plus the length code) could possibly beat. Ported from
// ustream_open's inline computation in ustream.c.
func computeMinMatchLength(windowNBits uint8) uint16 {
	v := int(typeBits) + int(windowNBits) + int(minCodeBits)
	return uint16(v/symbolTokenBits + 1)
}
