package store

// Slot is a typed view over one key of a Store.
type Slot[T any] struct {
	s   *Store
	key Key
}

func NewSlot[T any](s *Store, key Key) Slot[T] {
	return Slot[T]{s: s, key: key}
}

func (sl Slot[T]) Key() Key { return sl.key }

// Get returns the current value and whether the key is present.
func (sl Slot[T]) Get() (T, bool) {
	v, ok := sl.s.get(sl.key)
	t, _ := v.(T)
	return t, ok
}

func (sl Slot[T]) Set(v T) {
	sl.s.update(sl.key, func(any, bool) (any, bool) { return v, true })
}

// Update replaces the value with fn(current) atomically and returns it.
// When the key is absent fn receives the zero value.
func (sl Slot[T]) Update(fn func(cur T) T) T {
	var next T
	sl.s.update(sl.key, func(cur any, ok bool) (any, bool) {
		c, _ := cur.(T)
		next = fn(c)
		return next, true
	})
	return next
}

func (sl Slot[T]) Delete() {
	sl.s.update(sl.key, func(any, bool) (any, bool) { return nil, false })
}

// Subscribe registers fn to run after every change of the key. ok is false
// when the key was deleted. The returned func cancels the subscription and
// is safe to call more than once.
func (sl Slot[T]) Subscribe(fn func(v T, ok bool)) (cancel func()) {
	return sl.s.subscribe(sl.key, func(v any, ok bool) {
		t, _ := v.(T)
		fn(t, ok)
	})
}
