package raster

// node lists in the atlas are intrusive: every rtree node embeds a listLink
// and lives on exactly one of the available, evictable, or pinned lists. The
// list root is a sentinel, so insertion and removal never branch.
type listLink struct {
	next, prev *listLink
	node       *RTreeNode
}

type nodeList struct {
	root listLink
}

func (l *nodeList) init() {
	l.root.next = &l.root
	l.root.prev = &l.root
}

func (l *nodeList) isEmpty() bool {
	return l.root.next == &l.root
}

// pushFront links e as the first element of the list. The link must be
// unlinked or freshly initialized.
func (l *nodeList) pushFront(e *listLink) {
	e.prev = &l.root
	e.next = l.root.next
	l.root.next.prev = e
	l.root.next = e
}

func (e *listLink) unlink() {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
}

// moveTo unlinks e from its current list and prepends it to l.
func (l *nodeList) moveTo(e *listLink) {
	e.prev.next = e.next
	e.next.prev = e.prev
	l.pushFront(e)
}

func (l *nodeList) first() *listLink {
	if l.isEmpty() {
		return nil
	}
	return l.root.next
}

// next returns the link after e, or nil when e is the last element.
func (l *nodeList) next(e *listLink) *listLink {
	if e.next == &l.root {
		return nil
	}
	return e.next
}
