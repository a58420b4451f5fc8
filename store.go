package exptree

// store is the node-storage surface nodes are allocated and freed
// through: a size-class cache consulted first, falling back to the arena.
// It exists once per Tree and is never shared across trees.
type store[K Ordered, V any] struct {
	cache *sizeClassCache[K, V]
	arena *arena
}

func newStore[K Ordered, V any]() *store[K, V] {
	return &store[K, V]{
		cache: newSizeClassCache[K, V](),
		arena: &arena{},
	}
}

// allocLeaf returns a leaf node with an entries slice of exactly `length`,
// its contents uninitialized (callers fill every slot before the node
// becomes reachable).
func (s *store[K, V]) allocLeaf(length int) (*node[K, V], error) {
	size := nodeByteSize[K, V](leafKind, length)
	if n := s.cache.pop(leafKind, size); n != nil {
		return n, nil
	}
	if err := s.arena.allocate(); err != nil {
		return nil, err
	}
	return &node[K, V]{
		kind:    leafKind,
		height:  1,
		entries: make([]leafEntry[K, V], length),
	}, nil
}

// allocInternal returns an internal node at the given height with keys and
// children slices of exactly `length`, uninitialized.
func (s *store[K, V]) allocInternal(height, length int) (*node[K, V], error) {
	size := nodeByteSize[K, V](internalKind, length)
	if n := s.cache.pop(internalKind, size); n != nil {
		n.height = height
		return n, nil
	}
	if err := s.arena.allocate(); err != nil {
		return nil, err
	}
	return &node[K, V]{
		kind:     internalKind,
		height:   height,
		keys:     make([]K, length),
		children: make([]*node[K, V], length),
	}, nil
}

// free returns n to the size-class cache.
func (s *store[K, V]) free(n *node[K, V]) {
	if n == nil {
		return
	}
	s.cache.push(n)
}

// freeAll frees every node in nodes; used both to release an old
// root-to-leaf path after a successful put, and to unwind newly allocated
// nodes on a failed one.
func (s *store[K, V]) freeAll(nodes []*node[K, V]) {
	for _, n := range nodes {
		s.free(n)
	}
}

func (s *store[K, V]) bytesInCache() int {
	return s.cache.bytesInCache
}

// reset bulk-releases everything the store holds.
func (s *store[K, V]) reset() {
	s.cache.reset()
	s.arena.reset()
}
