package raster

import "math/bits"

type nodeState uint8

const (
	nodeAvailable nodeState = iota
	nodeDivided
	nodeOccupied
)

// RTreeNode is one rectangular region of the atlas. An available node is
// free space, a divided node has been split into up to four children, and an
// occupied node holds an allocation.
type RTreeNode struct {
	children [4]*RTreeNode
	parent   *RTreeNode

	state  nodeState
	pinned bool

	X, Y          int
	Width, Height int

	link listLink
}

// Parent returns the node's parent, or nil for the root.
func (n *RTreeNode) Parent() *RTreeNode {
	return n.parent
}

// IsPinned is true when the node is protected from eviction.
func (n *RTreeNode) IsPinned() bool {
	return n.pinned
}

// RTree packs rectangles of varying sizes into a fixed area, splitting free
// space into at most four children per node and coalescing it again on
// removal. When the area is exhausted, a random unpinned allocation can be
// evicted to make room.
type RTree struct {
	root RTreeNode

	minSize int
	destroy func(*RTreeNode)

	available nodeList
	evictable nodeList
	pinned    nodeList

	freeNodes *RTreeNode

	seed uint32
}

// NewRTree returns a packer for a width x height area. Free space is not
// split below minSize on either axis. The destroy callback, if not nil, is
// invoked whenever an occupied node is removed or evicted.
func NewRTree(width, height, minSize int, destroy func(*RTreeNode)) *RTree {
	t := &RTree{
		minSize: minSize,
		destroy: destroy,
	}
	t.available.init()
	t.evictable.init()
	t.pinned.init()

	t.root.Width = width
	t.root.Height = height
	t.root.link.node = &t.root
	t.available.pushFront(&t.root.link)
	return t
}

// Seed sets the state of the eviction chooser, making eviction order
// reproducible.
func (t *RTree) Seed(seed uint32) {
	t.seed = seed
}

// random steps a hars-petruska-f54-1 generator. The quality is unimportant,
// the eviction victim only needs to be spread over the candidates.
func (t *RTree) random() uint32 {
	x := t.seed
	x = (x ^ bits.RotateLeft32(x, 5) ^ bits.RotateLeft32(x, 24)) + 0x37798849
	t.seed = x
	return x
}

func (t *RTree) newNode(parent *RTreeNode, x, y, width, height int) *RTreeNode {
	node := t.freeNodes
	if node != nil {
		t.freeNodes = node.parent
		*node = RTreeNode{}
	} else {
		node = &RTreeNode{}
	}

	node.parent = parent
	node.X = x
	node.Y = y
	node.Width = width
	node.Height = height
	node.link.node = node

	t.available.pushFront(&node.link)
	return node
}

// freeNode recycles a node through the free list, chained on the parent
// pointer.
func (t *RTree) freeNode(node *RTreeNode) {
	node.parent = t.freeNodes
	t.freeNodes = node
}

func (t *RTree) destroyNode(node *RTreeNode) {
	node.link.unlink()

	if node.state == nodeOccupied {
		if t.destroy != nil {
			t.destroy(node)
		}
	} else {
		for i := 0; i < 4 && node.children[i] != nil; i++ {
			t.destroyNode(node.children[i])
		}
	}

	t.freeNode(node)
}

// collapse merges fully available children back into their parent, walking
// up as long as the merge frees the next level too.
func (t *RTree) collapse(node *RTreeNode) {
	for ; node != nil; node = node.parent {
		for i := 0; i < 4 && node.children[i] != nil; i++ {
			if node.children[i].state != nodeAvailable {
				return
			}
		}

		for i := 0; i < 4 && node.children[i] != nil; i++ {
			t.destroyNode(node.children[i])
		}
		node.children[0] = nil
		node.state = nodeAvailable
		t.available.moveTo(&node.link)
	}
}

func (t *RTree) insertInto(node *RTreeNode, width, height int) *RTreeNode {
	if t.minSize < node.Width-width || t.minSize < node.Height-height {
		w := node.Width - width
		h := node.Height - height

		i := 0
		node.children[i] = t.newNode(node, node.X, node.Y, width, height)
		i++

		if t.minSize < w {
			node.children[i] = t.newNode(node, node.X+width, node.Y, w, height)
			i++
		}
		if t.minSize < h {
			node.children[i] = t.newNode(node, node.X, node.Y+height, width, h)
			i++
			if t.minSize < w {
				node.children[i] = t.newNode(node, node.X+width, node.Y+height, w, h)
				i++
			}
		}
		if i < 4 {
			node.children[i] = nil
		}

		node.state = nodeDivided
		t.evictable.moveTo(&node.link)
		node = node.children[0]
	}

	node.state = nodeOccupied
	t.evictable.moveTo(&node.link)
	return node
}

// Insert finds available space for a width x height rectangle and occupies
// it, splitting a larger free node when the leftovers are worth keeping. It
// returns false when no free node is large enough; see EvictRandom.
func (t *RTree) Insert(width, height int) (*RTreeNode, bool) {
	for link := t.available.first(); link != nil; link = t.available.next(link) {
		node := link.node
		if width <= node.Width && height <= node.Height {
			return t.insertInto(node, width, height), true
		}
	}
	return nil, false
}

// Remove releases an occupied, unpinned node and coalesces the freed space.
func (t *RTree) Remove(node *RTreeNode) {
	if node.state != nodeOccupied {
		panic("raster: removing a node that is not occupied")
	}
	if node.pinned {
		panic("raster: removing a pinned node")
	}

	if t.destroy != nil {
		t.destroy(node)
	}

	node.state = nodeAvailable
	t.available.moveTo(&node.link)

	t.collapse(node.parent)
}

// EvictRandom frees a random unpinned node at least width x height in size,
// destroying whatever it held, and returns it as available space. It returns
// false when every large-enough node is pinned.
func (t *RTree) EvictRandom(width, height int) (*RTreeNode, bool) {
	// ancestors of pinned nodes must survive too; pin them for the duration
	var tmpPinned nodeList
	tmpPinned.init()
	for link := t.pinned.first(); link != nil; link = t.pinned.next(link) {
		node := link.node.parent
		for node != nil && !node.pinned {
			node.pinned = true
			tmpPinned.moveTo(&node.link)
			node = node.parent
		}
	}

	var out *RTreeNode
	cnt := 0
	for link := t.evictable.first(); link != nil; link = t.evictable.next(link) {
		node := link.node
		if width <= node.Width && height <= node.Height {
			cnt++
		}
	}

	if 0 < cnt {
		cnt = int(t.random() % uint32(cnt))
		for link := t.evictable.first(); link != nil; link = t.evictable.next(link) {
			node := link.node
			if width <= node.Width && height <= node.Height {
				if cnt != 0 {
					cnt--
					continue
				}

				if node.state == nodeOccupied {
					if t.destroy != nil {
						t.destroy(node)
					}
				} else {
					for i := 0; i < 4 && node.children[i] != nil; i++ {
						t.destroyNode(node.children[i])
					}
					node.children[0] = nil
				}

				node.state = nodeAvailable
				t.available.moveTo(&node.link)
				out = node
				logger().Debug("atlas eviction",
					"x", node.X, "y", node.Y,
					"width", node.Width, "height", node.Height)
				break
			}
		}
	}

	for link := tmpPinned.first(); link != nil; link = tmpPinned.first() {
		link.node.pinned = false
		t.evictable.moveTo(link)
	}
	return out, out != nil
}

// Pin protects an occupied node from eviction until the next Unpin.
func (t *RTree) Pin(node *RTreeNode) {
	if node.state != nodeOccupied {
		panic("raster: pinning a node that is not occupied")
	}
	if !node.pinned {
		node.pinned = true
		t.pinned.moveTo(&node.link)
	}
}

// Unpin releases all pinned nodes back to the evictable pool.
func (t *RTree) Unpin() {
	for link := t.pinned.first(); link != nil; link = t.pinned.first() {
		link.node.pinned = false
		t.evictable.moveTo(link)
	}
}

// Reset frees the entire tree, leaving the root as one available node.
func (t *RTree) Reset() {
	if t.root.state == nodeOccupied {
		if t.destroy != nil {
			t.destroy(&t.root)
		}
	} else {
		for i := 0; i < 4 && t.root.children[i] != nil; i++ {
			t.destroyNode(t.root.children[i])
		}
		t.root.children[0] = nil
	}

	t.available.init()
	t.evictable.init()
	t.pinned.init()

	t.root.state = nodeAvailable
	t.root.pinned = false
	t.available.pushFront(&t.root.link)
}

func (n *RTreeNode) foreach(f func(*RTreeNode)) {
	for i := 0; i < 4 && n.children[i] != nil; i++ {
		n.children[i].foreach(f)
	}
	f(n)
}

// ForEach visits every node below the root, children before parents, plus
// the root itself when it is occupied.
func (t *RTree) ForEach(f func(*RTreeNode)) {
	if t.root.state == nodeOccupied {
		f(&t.root)
	} else {
		for i := 0; i < 4 && t.root.children[i] != nil; i++ {
			t.root.children[i].foreach(f)
		}
	}
}
