package zoomtree

import (
	"errors"
	"fmt"
	"sort"
)

// Structural violations. Returned wrapped; test with errors.Is.
var (
	ErrHasParent  = errors.New("node already has a parent")
	ErrCycle      = errors.New("adding child would create a cycle")
	ErrNotChild   = errors.New("node is not a direct child")
	ErrIndexRange = errors.New("child index out of range")
	ErrStaleNode  = errors.New("stale or zero node handle")
)

// NodeID is a stable handle to a node in a Scene's arena. The zero value
// refers to no node. Handles of disposed nodes never alias new nodes.
type NodeID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id refers to no node.
func (id NodeID) IsZero() bool {
	return id.gen == 0
}

// String returns a debug representation.
func (id NodeID) String() string {
	if id.IsZero() {
		return "node(none)"
	}
	return fmt.Sprintf("node(%d.%d)", id.index, id.gen)
}

// node is an arena slot. Children are owned by ID list; parent is a
// non-owning back-reference.
type node struct {
	gen   uint32
	alive bool

	name     string
	parent   NodeID
	children []NodeID

	transform Transform
	shape     Shape
	style     Style
	semantic  *SemanticZoom

	visible  bool
	pickable bool
	findable bool
	volatile bool

	props    map[string]any
	entityID uint32
	userData any

	// Cached geometry. localDirty propagates upward, xformDirty downward;
	// both imply gbDirty.
	local      Bounds
	global     Transform
	globalB    Bounds
	localDirty bool
	xformDirty bool
	gbDirty    bool

	// changed is set while the node is queued for damage reporting; prevB is
	// its global bounds before the first mutation of the tick.
	changed bool
	prevB   Bounds
}

// --- Arena ---

func (s *Scene) alloc(name string) NodeID {
	var idx uint32
	if k := len(s.free); k > 0 {
		idx = s.free[k-1]
		s.free = s.free[:k-1]
	} else {
		s.nodes = append(s.nodes, node{})
		idx = uint32(len(s.nodes) - 1)
	}
	n := &s.nodes[idx]
	gen := n.gen + 1
	*n = node{
		gen:        gen,
		alive:      true,
		name:       name,
		transform:  Identity(),
		global:     Identity(),
		visible:    true,
		pickable:   true,
		findable:   true,
		localDirty: true,
		xformDirty: true,
		gbDirty:    true,
	}
	return NodeID{index: idx, gen: gen}
}

// get returns the live node for id, or nil for zero or stale handles.
func (s *Scene) get(id NodeID) *node {
	if id.gen == 0 || int(id.index) >= len(s.nodes) {
		return nil
	}
	n := &s.nodes[id.index]
	if !n.alive || n.gen != id.gen {
		return nil
	}
	return n
}

// mustGet is get for setters, where a stale handle is a programming error.
func (s *Scene) mustGet(id NodeID, op string) *node {
	n := s.get(id)
	if n == nil {
		panic(fmt.Sprintf("zoomtree: %s on %v: %v", op, id, ErrStaleNode))
	}
	return n
}

// Valid reports whether id refers to a live node.
func (s *Scene) Valid(id NodeID) bool {
	return s.get(id) != nil
}

// NumNodes returns the number of live nodes.
func (s *Scene) NumNodes() int {
	return len(s.nodes) - len(s.free)
}

// --- Constructors ---

// NewGroup creates a detached node with no geometry of its own.
func (s *Scene) NewGroup(name string) NodeID {
	s.checkMutable("NewGroup")
	return s.alloc(name)
}

// NewShape creates a detached leaf node drawing shape with style.
func (s *Scene) NewShape(name string, shape Shape, style Style) NodeID {
	s.checkMutable("NewShape")
	id := s.alloc(name)
	n := s.get(id)
	n.shape = shape.clone()
	n.style = style
	return id
}

// NewSemanticGroup creates a detached group that renders a placeholder in
// place of its children below the zoom cutoff.
func (s *Scene) NewSemanticGroup(name string, sz SemanticZoom) NodeID {
	s.checkMutable("NewSemanticGroup")
	id := s.alloc(name)
	sz = sz.sanitized()
	s.get(id).semantic = &sz
	return id
}

// --- Tree manipulation ---

// AddChild appends child to parent's children.
//
// Fails with ErrHasParent if child is already attached (detach it first) and
// with ErrCycle if child is parent or one of parent's ancestors. The tree is
// unchanged on failure.
func (s *Scene) AddChild(parent, child NodeID) error {
	p := s.get(parent)
	if p == nil {
		return fmt.Errorf("zoomtree: add child to %v: %w", parent, ErrStaleNode)
	}
	return s.AddChildAt(parent, child, len(p.children))
}

// AddChildAt inserts child at index among parent's children. Same checks as
// AddChild, plus ErrIndexRange.
func (s *Scene) AddChildAt(parent, child NodeID, index int) error {
	s.checkMutable("AddChildAt")
	p := s.get(parent)
	c := s.get(child)
	if p == nil || c == nil {
		return fmt.Errorf("zoomtree: add %v to %v: %w", child, parent, ErrStaleNode)
	}
	if s.IsAncestor(child, parent) {
		return fmt.Errorf("zoomtree: add %q to %q: %w", c.name, p.name, ErrCycle)
	}
	if !c.parent.IsZero() {
		return fmt.Errorf("zoomtree: add %q to %q: %w", c.name, p.name, ErrHasParent)
	}
	if index < 0 || index > len(p.children) {
		return fmt.Errorf("zoomtree: add %q to %q at %d: %w", c.name, p.name, index, ErrIndexRange)
	}

	s.touch(child)
	p = s.get(parent)
	c = s.get(child)
	c.parent = parent
	p.children = append(p.children, NodeID{})
	copy(p.children[index+1:], p.children[index:])
	p.children[index] = child

	s.invalidateTransform(child)
	s.invalidateLocal(parent)
	s.enqueue(SceneEvent{Type: EventChildAdded, Node: child, Parent: parent})
	return nil
}

// RemoveChild detaches child from parent. Fails with ErrNotChild if child is
// not a direct child of parent. The detached subtree stays alive and may be
// attached elsewhere or disposed.
func (s *Scene) RemoveChild(parent, child NodeID) error {
	s.checkMutable("RemoveChild")
	p := s.get(parent)
	c := s.get(child)
	if p == nil || c == nil {
		return fmt.Errorf("zoomtree: remove %v from %v: %w", child, parent, ErrStaleNode)
	}
	if c.parent != parent {
		return fmt.Errorf("zoomtree: remove %q from %q: %w", c.name, p.name, ErrNotChild)
	}

	// Report the pre-removal region while the child is still observed.
	s.touch(child)
	p = s.get(parent)
	c = s.get(child)
	for i, id := range p.children {
		if id == child {
			copy(p.children[i:], p.children[i+1:])
			p.children[len(p.children)-1] = NodeID{}
			p.children = p.children[:len(p.children)-1]
			break
		}
	}
	c.parent = NodeID{}

	s.invalidateTransform(child)
	s.invalidateLocal(parent)
	s.enqueue(SceneEvent{Type: EventChildRemoved, Node: child, Parent: parent})
	return nil
}

// RemoveFromParent detaches id from its parent. No-op if id has no parent.
func (s *Scene) RemoveFromParent(id NodeID) error {
	n := s.get(id)
	if n == nil {
		return fmt.Errorf("zoomtree: remove %v from parent: %w", id, ErrStaleNode)
	}
	if n.parent.IsZero() {
		return nil
	}
	return s.RemoveChild(n.parent, id)
}

// SetChildIndex moves child to a new index among its siblings, changing its
// paint and pick order.
func (s *Scene) SetChildIndex(parent, child NodeID, index int) error {
	s.checkMutable("SetChildIndex")
	p := s.get(parent)
	c := s.get(child)
	if p == nil || c == nil {
		return fmt.Errorf("zoomtree: reorder %v in %v: %w", child, parent, ErrStaleNode)
	}
	if c.parent != parent {
		return fmt.Errorf("zoomtree: reorder %q in %q: %w", c.name, p.name, ErrNotChild)
	}
	if index < 0 || index >= len(p.children) {
		return fmt.Errorf("zoomtree: reorder %q to %d: %w", c.name, index, ErrIndexRange)
	}
	old := -1
	for i, id := range p.children {
		if id == child {
			old = i
			break
		}
	}
	if old == index {
		return nil
	}
	if old < index {
		copy(p.children[old:], p.children[old+1:index+1])
	} else {
		copy(p.children[index+1:], p.children[index:old])
	}
	p.children[index] = child
	s.touch(child)
	return nil
}

// Dispose detaches id from its parent, removes it from any camera layer
// lists and frees it and all descendants. Handles to freed nodes become
// stale.
func (s *Scene) Dispose(id NodeID) error {
	s.checkMutable("Dispose")
	n := s.get(id)
	if n == nil {
		return fmt.Errorf("zoomtree: dispose %v: %w", id, ErrStaleNode)
	}
	if !n.parent.IsZero() {
		if err := s.RemoveChild(n.parent, id); err != nil {
			return err
		}
	} else {
		s.touch(id)
	}
	s.dispose(id)
	return nil
}

func (s *Scene) dispose(id NodeID) {
	n := s.get(id)
	for _, c := range n.children {
		s.dispose(c)
	}
	cams := append([]*Camera(nil), s.layerCams[id]...)
	for _, cam := range cams {
		cam.dropLayer(id)
	}
	delete(s.layerCams, id)
	if n.volatile {
		s.dropVolatile(id)
	}
	entity := n.entityID
	gen := n.gen
	s.nodes[id.index] = node{gen: gen}
	s.free = append(s.free, id.index)
	s.enqueue(SceneEvent{Type: EventNodeDisposed, Node: id, EntityID: entity})
}

// --- Queries ---

// Parent returns id's parent, or the zero NodeID.
func (s *Scene) Parent(id NodeID) NodeID {
	if n := s.get(id); n != nil {
		return n.parent
	}
	return NodeID{}
}

// Children returns the child list. The returned slice MUST NOT be mutated by
// the caller.
func (s *Scene) Children(id NodeID) []NodeID {
	if n := s.get(id); n != nil {
		return n.children
	}
	return nil
}

// NumChildren returns the number of children.
func (s *Scene) NumChildren(id NodeID) int {
	return len(s.Children(id))
}

// ChildAt returns the child at the given index, or the zero NodeID.
func (s *Scene) ChildAt(id NodeID, index int) NodeID {
	ch := s.Children(id)
	if index < 0 || index >= len(ch) {
		return NodeID{}
	}
	return ch[index]
}

// IsAncestor reports whether candidate is id or one of id's ancestors.
func (s *Scene) IsAncestor(candidate, id NodeID) bool {
	for p := id; !p.IsZero(); {
		if p == candidate {
			return true
		}
		n := s.get(p)
		if n == nil {
			return false
		}
		p = n.parent
	}
	return false
}

// Root returns the topmost ancestor of id (id itself if detached).
func (s *Scene) Root(id NodeID) NodeID {
	n := s.get(id)
	for n != nil && !n.parent.IsZero() {
		id = n.parent
		n = s.get(id)
	}
	return id
}

// Depth returns the number of ancestors of id.
func (s *Scene) Depth(id NodeID) int {
	d := 0
	for n := s.get(id); n != nil && !n.parent.IsZero(); n = s.get(n.parent) {
		d++
	}
	return d
}

// --- Properties ---

// Name returns the node's name.
func (s *Scene) Name(id NodeID) string {
	if n := s.get(id); n != nil {
		return n.name
	}
	return ""
}

// SetName renames the node.
func (s *Scene) SetName(id NodeID, name string) {
	s.mustGet(id, "SetName").name = name
}

// Transform returns the node's local transform.
func (s *Scene) Transform(id NodeID) Transform {
	if n := s.get(id); n != nil {
		return n.transform
	}
	return Identity()
}

// SetTransform replaces the node's local transform, which applies to the
// node's own shape and its whole subtree. Non-finite components are replaced
// by identity components.
func (s *Scene) SetTransform(id NodeID, t Transform) {
	s.checkMutable("SetTransform")
	n := s.mustGet(id, "SetTransform")
	t = t.sanitized()
	if n.transform == t {
		return
	}
	s.touch(id)
	n = s.get(id)
	n.transform = t
	s.invalidateTransform(id)
	if !n.parent.IsZero() {
		s.invalidateLocal(n.parent)
	}
	s.enqueue(SceneEvent{Type: EventTransformChanged, Node: id, Parent: n.parent, EntityID: n.entityID})
}

// ConcatTransform sets the local transform to transform * t, applying t
// before the existing transform.
func (s *Scene) ConcatTransform(id NodeID, t Transform) {
	s.SetTransform(id, s.Transform(id).Multiply(t))
}

// SetPosition replaces the translation of the local transform.
func (s *Scene) SetPosition(id NodeID, x, y float64) {
	t := s.Transform(id)
	t.Tx, t.Ty = x, y
	s.SetTransform(id, t)
}

// Shape returns a copy of the node's shape. Edit it and hand it back with
// SetShape.
func (s *Scene) Shape(id NodeID) Shape {
	if n := s.get(id); n != nil {
		return n.shape.clone()
	}
	return Shape{}
}

// SetShape replaces the node's geometry.
func (s *Scene) SetShape(id NodeID, shape Shape) {
	s.checkMutable("SetShape")
	s.mustGet(id, "SetShape")
	s.touch(id)
	s.get(id).shape = shape.clone()
	s.invalidateLocal(id)
}

// Style returns the node's paint style.
func (s *Scene) Style(id NodeID) Style {
	if n := s.get(id); n != nil {
		return n.style
	}
	return Style{}
}

// SetStyle replaces the node's paint style. The pen width participates in
// bounds, so bounds are invalidated too.
func (s *Scene) SetStyle(id NodeID, st Style) {
	s.checkMutable("SetStyle")
	n := s.mustGet(id, "SetStyle")
	if n.style == st {
		return
	}
	s.touch(id)
	s.get(id).style = st
	s.invalidateLocal(id)
}

// Semantic returns the node's semantic-zoom parameters, or nil.
func (s *Scene) Semantic(id NodeID) *SemanticZoom {
	if n := s.get(id); n != nil && n.semantic != nil {
		sz := *n.semantic
		sz.Placeholder = sz.Placeholder.clone()
		return &sz
	}
	return nil
}

// SetSemantic sets or clears (nil) the node's semantic-zoom parameters.
func (s *Scene) SetSemantic(id NodeID, sz *SemanticZoom) {
	s.checkMutable("SetSemantic")
	s.mustGet(id, "SetSemantic")
	s.touch(id)
	n := s.get(id)
	if sz == nil {
		n.semantic = nil
	} else {
		v := sz.sanitized()
		n.semantic = &v
	}
	s.invalidateLocal(id)
}

// Visible reports whether the node and its subtree are painted.
func (s *Scene) Visible(id NodeID) bool {
	n := s.get(id)
	return n != nil && n.visible
}

// SetVisible shows or hides the node and its subtree. Invisible subtrees are
// neither painted nor picked.
func (s *Scene) SetVisible(id NodeID, v bool) {
	s.checkMutable("SetVisible")
	n := s.mustGet(id, "SetVisible")
	if n.visible == v {
		return
	}
	s.touch(id)
	s.get(id).visible = v
}

// Pickable reports whether the node can be returned by Pick.
func (s *Scene) Pickable(id NodeID) bool {
	n := s.get(id)
	return n != nil && n.pickable
}

// SetPickable sets whether the node can be returned by Pick. Descendants are
// still considered.
func (s *Scene) SetPickable(id NodeID, v bool) {
	s.checkMutable("SetPickable")
	s.mustGet(id, "SetPickable").pickable = v
}

// Findable reports whether DefaultFindFilter accepts the node.
func (s *Scene) Findable(id NodeID) bool {
	n := s.get(id)
	return n != nil && n.findable
}

// SetFindable sets whether DefaultFindFilter accepts the node.
func (s *Scene) SetFindable(id NodeID, v bool) {
	s.checkMutable("SetFindable")
	s.mustGet(id, "SetFindable").findable = v
}

// Volatile reports whether the node's bounds are recomputed every update.
func (s *Scene) Volatile(id NodeID) bool {
	n := s.get(id)
	return n != nil && n.volatile
}

// SetVolatile marks the node as changing outside the normal mutation path
// (for example content animated by an external source). Volatile nodes are
// invalidated and repainted on every Update instead of being cached.
func (s *Scene) SetVolatile(id NodeID, v bool) {
	s.checkMutable("SetVolatile")
	n := s.mustGet(id, "SetVolatile")
	if n.volatile == v {
		return
	}
	n.volatile = v
	if v {
		s.volatile = append(s.volatile, id)
	} else {
		s.dropVolatile(id)
	}
}

func (s *Scene) dropVolatile(id NodeID) {
	for i, v := range s.volatile {
		if v == id {
			copy(s.volatile[i:], s.volatile[i+1:])
			s.volatile = s.volatile[:len(s.volatile)-1]
			return
		}
	}
}

// EntityID returns the ECS entity associated with the node.
func (s *Scene) EntityID(id NodeID) uint32 {
	if n := s.get(id); n != nil {
		return n.entityID
	}
	return 0
}

// SetEntityID associates an ECS entity with the node. It is carried on every
// SceneEvent about the node.
func (s *Scene) SetEntityID(id NodeID, entity uint32) {
	s.checkMutable("SetEntityID")
	s.mustGet(id, "SetEntityID").entityID = entity
}

// UserData returns arbitrary data attached to the node.
func (s *Scene) UserData(id NodeID) any {
	if n := s.get(id); n != nil {
		return n.userData
	}
	return nil
}

// SetUserData attaches arbitrary data to the node.
func (s *Scene) SetUserData(id NodeID, v any) {
	s.mustGet(id, "SetUserData").userData = v
}

// Property returns the value stored under key.
func (s *Scene) Property(id NodeID, key string) (any, bool) {
	n := s.get(id)
	if n == nil || n.props == nil {
		return nil, false
	}
	v, ok := n.props[key]
	return v, ok
}

// SetProperty stores a key-value property on the node.
func (s *Scene) SetProperty(id NodeID, key string, v any) {
	n := s.mustGet(id, "SetProperty")
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[key] = v
}

// DeleteProperty removes key from the node's properties.
func (s *Scene) DeleteProperty(id NodeID, key string) {
	if n := s.get(id); n != nil {
		delete(n.props, key)
	}
}

// PropertyKeys returns the node's property keys in sorted order.
func (s *Scene) PropertyKeys(id NodeID) []string {
	n := s.get(id)
	if n == nil || len(n.props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.props))
	for k := range n.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
