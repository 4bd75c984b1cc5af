package histories

// Ring keeps the last n pushed items.
type Ring[T comparable] struct {
	items []T
	next  int
	full  bool
}

func NewRing[T comparable](n int) *Ring[T] {
	return &Ring[T]{
		items: make([]T, max(n, 0)),
	}
}

func (r *Ring[T]) Push(item T) {
	if len(r.items) == 0 {
		return
	}
	r.items[r.next] = item
	r.next = (r.next + 1) % len(r.items)
	if r.next == 0 {
		r.full = true
	}
}

func (r *Ring[T]) Len() int {
	if r.full {
		return len(r.items)
	}
	return r.next
}

// Items returns retained items, oldest first.
func (r *Ring[T]) Items() []T {
	if !r.full {
		ret := make([]T, r.next)
		copy(ret, r.items[:r.next])
		return ret
	}
	ret := make([]T, 0, len(r.items))
	ret = append(ret, r.items[r.next:]...)
	ret = append(ret, r.items[:r.next]...)
	return ret
}

func (r *Ring[T]) Contains(item T) bool {
	for i := range r.Len() {
		if r.items[i] == item {
			return true
		}
	}
	return false
}
