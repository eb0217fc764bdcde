// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "sort"

// Options is a compiled prefix trie over a fixed set of ByteString
// alternatives, used by Buffer.Select to match and consume the longest
// alternative at the front of a Buffer in a single pass (§4.5).
//
// The trie is flattened into a single []int32 so matching never chases
// pointers: each node occupies a contiguous run
//
//	[terminal, childCount, byte0, child0, byte1, child1, ...]
//
// terminal is the index into Alternatives of the option ending at this
// node, or -1 if no option ends here. Children are stored sorted by byte
// value, located at nodeIndex+2. A node with one child behaves as a scan
// step; a node with several is a branch (SELECT) step. This is one flat
// array rather than Okio's two-array SELECT/SCAN split, trading a little
// density for a format simple enough to build and walk in a handful of
// lines.
type Options struct {
	trie         []int32
	alternatives []ByteString
}

// NewOptions compiles alternatives into an Options trie. Returns
// ErrInvalidOptions if alternatives is empty or contains a duplicate.
func NewOptions(alternatives ...ByteString) (*Options, error) {
	if len(alternatives) == 0 {
		return nil, ErrInvalidOptions
	}
	root := newTrieNode()
	for idx, alt := range alternatives {
		n := root
		for i := 0; i < alt.Len(); i++ {
			c := alt.At(i)
			child := n.children[c]
			if child == nil {
				child = newTrieNode()
				n.children[c] = child
			}
			n = child
		}
		if n.terminal != -1 {
			return nil, ErrInvalidOptions
		}
		n.terminal = int32(idx)
	}
	var trie []int32
	flattenTrieNode(root, &trie)
	return &Options{trie: trie, alternatives: alternatives}, nil
}

// Len returns the number of compiled alternatives.
func (o *Options) Len() int { return len(o.alternatives) }

// Get returns the alternative at index i.
func (o *Options) Get(i int) ByteString { return o.alternatives[i] }

type trieNode struct {
	terminal int32
	children map[byte]*trieNode
}

func newTrieNode() *trieNode {
	return &trieNode{terminal: -1, children: make(map[byte]*trieNode)}
}

// flattenTrieNode appends n's subtree to trie and returns n's node index.
func flattenTrieNode(n *trieNode, trie *[]int32) int32 {
	start := int32(len(*trie))
	*trie = append(*trie, n.terminal, int32(len(n.children)))

	keys := make([]byte, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	pairsStart := len(*trie)
	for range keys {
		*trie = append(*trie, 0, 0)
	}
	for i, k := range keys {
		childIdx := flattenTrieNode(n.children[k], trie)
		(*trie)[pairsStart+2*i] = int32(k)
		(*trie)[pairsStart+2*i+1] = childIdx
	}
	return start
}

// Select matches the longest alternative of opts occurring at the front of
// b, consumes it, and returns its index. It returns -1 without consuming
// any bytes if no alternative matches.
func (b *Buffer) Select(opts *Options) (int, error) {
	nodeIdx := int32(0)
	var consumed int64
	lastMatch := int32(-1)
	var lastMatchLen int64

	for {
		if terminal := opts.trie[nodeIdx]; terminal != -1 {
			lastMatch = terminal
			lastMatchLen = consumed
		}
		childCount := opts.trie[nodeIdx+1]
		if childCount == 0 {
			break
		}
		c, err := b.GetByte(consumed)
		if err != nil {
			break
		}
		base := nodeIdx + 2
		next := int32(-1)
		for i := int32(0); i < childCount; i++ {
			if byte(opts.trie[base+2*i]) == c {
				next = opts.trie[base+2*i+1]
				break
			}
		}
		if next == -1 {
			break
		}
		nodeIdx = next
		consumed++
	}

	if lastMatch == -1 {
		return -1, nil
	}
	if err := b.Skip(lastMatchLen); err != nil {
		return -1, err
	}
	return int(lastMatch), nil
}
