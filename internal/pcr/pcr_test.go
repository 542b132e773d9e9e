package pcr

import "testing"

func TestRegistryPerCPUIsolation(t *testing.T) {
	sel := Selectors{KernelCode: 0x08, KernelData: 0x10, UserCode: 0x1b, UserData: 0x23}
	r := NewRegistry(2, sel)

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	r.Get(0).Enqueue(1)
	r.Get(0).Enqueue(2)
	r.Get(1).Enqueue(3)

	if got := r.Get(0).ReadyLen(); got != 2 {
		t.Fatalf("cpu0 ReadyLen() = %d, want 2", got)
	}
	if got := r.Get(1).ReadyLen(); got != 1 {
		t.Fatalf("cpu1 ReadyLen() = %d, want 1", got)
	}

	if r.Get(5) != nil {
		t.Fatalf("Get(5) on a 2-CPU registry should return nil")
	}
}

func TestEnqueueDequeueOrder(t *testing.T) {
	p := NewPCR(0, 0, Selectors{})
	p.Enqueue(1)
	p.Enqueue(2)
	p.Enqueue(3)

	for _, want := range []uint64{1, 2, 3} {
		got, ok := p.Dequeue()
		if !ok || uint64(got) != want {
			t.Fatalf("Dequeue() = %v, %v; want %d, true", got, ok, want)
		}
	}
	if _, ok := p.Dequeue(); ok {
		t.Fatalf("Dequeue() on an empty queue should report ok=false")
	}
}

func TestRemoveDropsFromReadyQueue(t *testing.T) {
	p := NewPCR(0, 0, Selectors{})
	p.Enqueue(1)
	p.Enqueue(2)
	p.Enqueue(3)
	p.Remove(2)

	if p.ReadyLen() != 2 {
		t.Fatalf("ReadyLen() = %d, want 2 after Remove", p.ReadyLen())
	}
	first, _ := p.Dequeue()
	second, _ := p.Dequeue()
	if first != 1 || second != 3 {
		t.Fatalf("queue after Remove(2) = [%d %d], want [1 3]", first, second)
	}
}

func TestCurrentAndIdlePID(t *testing.T) {
	p := NewPCR(0, 0, Selectors{})
	p.SetIdlePID(42)
	p.SetCurrentPID(7)

	if p.IdlePID() != 42 {
		t.Fatalf("IdlePID() = %d, want 42", p.IdlePID())
	}
	if p.CurrentPID() != 7 {
		t.Fatalf("CurrentPID() = %d, want 7", p.CurrentPID())
	}
}
