package topic

import (
	"slices"
	"sync"
)

// Matcher maps topic patterns to values using a trie of pattern segments.
// Several values may be registered under the same pattern; each registration
// gets its own id. It is safe for concurrent use.
type Matcher[V any] struct {
	mu     sync.RWMutex
	root   *trieNode[V]
	nextID uint64
	where  map[uint64]Topic
}

// trieNode represents a node in the pattern trie.
type trieNode[V any] struct {
	children map[string]*trieNode[V]
	entries  []entry[V] // Registrations whose pattern terminates at this node
}

type entry[V any] struct {
	id    uint64
	value V
}

func newTrieNode[V any]() *trieNode[V] {
	return &trieNode[V]{
		children: make(map[string]*trieNode[V]),
	}
}

// NewMatcher creates an empty matcher.
func NewMatcher[V any]() *Matcher[V] {
	return &Matcher[V]{
		root:  newTrieNode[V](),
		where: make(map[uint64]Topic),
	}
}

// Add registers value under pattern and returns the registration id.
// It panics on an invalid pattern.
func (m *Matcher[V]) Add(pattern Topic, value V) uint64 {
	if !pattern.IsValid() {
		panic("topic: invalid pattern " + string(pattern))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	node := m.root
	for _, seg := range pattern.Segments() {
		if node.children[seg] == nil {
			node.children[seg] = newTrieNode[V]()
		}
		node = node.children[seg]
	}

	m.nextID++
	node.entries = append(node.entries, entry[V]{id: m.nextID, value: value})
	m.where[m.nextID] = pattern
	return m.nextID
}

// Remove deletes the registration with id. It returns false if the id is
// unknown. Empty branches are pruned.
func (m *Matcher[V]) Remove(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	pattern, ok := m.where[id]
	if !ok {
		return false
	}
	delete(m.where, id)

	path := []*trieNode[V]{m.root}
	segments := pattern.Segments()
	for _, seg := range segments {
		path = append(path, path[len(path)-1].children[seg])
	}

	leaf := path[len(path)-1]
	leaf.entries = slices.DeleteFunc(leaf.entries, func(e entry[V]) bool { return e.id == id })

	for i := len(segments) - 1; i >= 0; i-- {
		n := path[i+1]
		if len(n.entries) > 0 || len(n.children) > 0 {
			break
		}
		delete(path[i].children, segments[i])
	}
	return true
}

// Match returns the values of every registration whose pattern matches the
// concrete topic, in registration order. The topic must not contain
// wildcards.
func (m *Matcher[V]) Match(eventTopic Topic) []V {
	if eventTopic == "" {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make(map[uint64]V)
	m.matchRecursive(m.root, eventTopic.Segments(), 0, found)
	if len(found) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]V, len(ids))
	for i, id := range ids {
		out[i] = found[id]
	}
	return out
}

// matchRecursive collects entries reachable for segments[depth:]. A "**"
// branch can be reached along several paths, so results are keyed by id.
func (m *Matcher[V]) matchRecursive(node *trieNode[V], segments []string, depth int, found map[uint64]V) {
	if depth == len(segments) {
		for _, e := range node.entries {
			found[e.id] = e.value
		}
		// ** at the end can match zero segments
		if child := node.children[WildcardMulti]; child != nil {
			m.matchRecursive(child, segments, depth, found)
		}
		return
	}

	if child := node.children[segments[depth]]; child != nil {
		m.matchRecursive(child, segments, depth+1, found)
	}
	if child := node.children[WildcardSingle]; child != nil {
		m.matchRecursive(child, segments, depth+1, found)
	}
	if child := node.children[WildcardMulti]; child != nil {
		for i := depth; i <= len(segments); i++ {
			m.matchRecursive(child, segments, i, found)
		}
	}
}
