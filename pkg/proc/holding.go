package proc

import "github.com/MacroPower/kwait/pkg/umem"

// HoldingSlots is the capacity of a process's contention table.
const HoldingSlots = 16

// Holding is a fixed-capacity table of weak references to mutexes a process
// is contending for. Empty slots hold [umem.Nil].
type Holding [HoldingSlots]umem.Addr

func newHolding() Holding {
	var h Holding
	for i := range h {
		h[i] = umem.Nil
	}

	return h
}

// Record writes ref into every empty slot.
func (h *Holding) Record(ref umem.Addr) {
	for i := range h {
		if h[i] == umem.Nil {
			h[i] = ref
		}
	}
}

// Clear empties every slot referencing ref.
func (h *Holding) Clear(ref umem.Addr) {
	for i := range h {
		if h[i] == ref {
			h[i] = umem.Nil
		}
	}
}

// Contains reports whether any slot references ref.
func (h *Holding) Contains(ref umem.Addr) bool {
	for _, a := range h {
		if a == ref {
			return true
		}
	}

	return false
}

// Len returns the number of occupied slots.
func (h *Holding) Len() int {
	n := 0

	for _, a := range h {
		if a != umem.Nil {
			n++
		}
	}

	return n
}
