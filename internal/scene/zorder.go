package scene

// Z-order reordering with local stacking semantics: "to front" means above
// everything the object visually touches, not necessarily the global top.
// Overlap is tested on the rotated boxes' axis-aligned envelopes, which is
// conservative: a false positive only reorders slightly further than
// strictly needed, a false negative would hide a real overlap.

// Overlaps reports whether two objects' rotated envelopes intersect.
func (s *Scene) Overlaps(idA, idB string) bool {
	a, b := s.objects[idA], s.objects[idB]
	if a == nil || b == nil {
		return false
	}
	return a.AABB().Intersects(b.AABB())
}

// indexOf returns the draw-order index of id, or -1.
func (s *Scene) indexOf(id string) int {
	for i, oid := range s.order {
		if oid == id {
			return i
		}
	}
	return -1
}

// moveTo removes id from its slot and reinserts it at index to.
func (s *Scene) moveTo(from, to int) {
	id := s.order[from]
	s.order = append(s.order[:from], s.order[from+1:]...)
	if to > len(s.order) {
		to = len(s.order)
	}
	s.order = append(s.order[:to], append([]string{id}, s.order[to:]...)...)
}

// BringToFront raises the object above every overlapping sibling: to the
// absolute top when nothing overlaps, otherwise immediately above the
// highest overlapping sibling.
func (s *Scene) BringToFront(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	highest := -1
	for i := len(s.order) - 1; i >= 0; i-- {
		if i == idx {
			continue
		}
		if s.Overlaps(id, s.order[i]) {
			highest = i
			break
		}
	}

	if highest < 0 {
		if idx == len(s.order)-1 {
			return false
		}
		s.moveTo(idx, len(s.order)-1)
		return true
	}
	if idx > highest {
		return false // already above everything it touches
	}
	// Removing id first shifts the target left by one, landing just above it.
	s.moveTo(idx, highest)
	return true
}

// SendToBack lowers the object below every overlapping sibling: to the
// absolute bottom when nothing overlaps, otherwise immediately below the
// lowest overlapping sibling.
func (s *Scene) SendToBack(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	lowest := -1
	for i := 0; i < len(s.order); i++ {
		if i == idx {
			continue
		}
		if s.Overlaps(id, s.order[i]) {
			lowest = i
			break
		}
	}

	if lowest < 0 {
		if idx == 0 {
			return false
		}
		s.moveTo(idx, 0)
		return true
	}
	if idx < lowest {
		return false // already below everything it touches
	}
	s.moveTo(idx, lowest)
	return true
}

// MoveUp swaps the object past the next overlapping sibling above it, or
// past the immediate neighbor when nothing above overlaps.
func (s *Scene) MoveUp(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 || idx == len(s.order)-1 {
		return false
	}

	target := idx + 1
	for i := idx + 1; i < len(s.order); i++ {
		if s.Overlaps(id, s.order[i]) {
			target = i
			break
		}
	}
	s.moveTo(idx, target)
	return true
}

// MoveDown swaps the object past the next overlapping sibling below it, or
// past the immediate neighbor when nothing below overlaps.
func (s *Scene) MoveDown(id string) bool {
	idx := s.indexOf(id)
	if idx <= 0 {
		return false
	}

	target := idx - 1
	for i := idx - 1; i >= 0; i-- {
		if s.Overlaps(id, s.order[i]) {
			target = i
			break
		}
	}
	s.moveTo(idx, target)
	return true
}

// ObjectsAbove returns the ids drawn above the given object, bottom-up.
func (s *Scene) ObjectsAbove(id string) []string {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	return s.order[idx+1:]
}

// SetOrder replaces the draw order; ids not present in the scene are
// dropped and scene objects missing from the list are appended on top in
// their previous relative order. Every object keeps exactly one slot.
func (s *Scene) SetOrder(ids []string) {
	seen := make(map[string]bool, len(ids))
	var next []string
	for _, id := range ids {
		if _, exists := s.objects[id]; exists && !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	for _, id := range s.order {
		if !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	s.order = next
}
