package connection

import "testing"

func TestListenerSet_AddAndNotify(t *testing.T) {
	set := NewListenerSet[int]()

	var got []int
	set.Add(func(v int) { got = append(got, v) })
	set.Add(func(v int) { got = append(got, v*10) })

	set.Notify(3)

	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	sum := got[0] + got[1]
	if sum != 33 {
		t.Errorf("notification values sum = %d, want 33", sum)
	}
}

func TestListenerSet_RemoveIsIdempotent(t *testing.T) {
	set := NewListenerSet[string]()

	calls := 0
	remove := set.Add(func(string) { calls++ })
	other := set.Add(func(string) {})

	remove()
	remove() // second call must not disturb other listeners

	if set.Len() != 1 {
		t.Fatalf("Len() = %d after double remove, want 1", set.Len())
	}

	set.Notify("x")
	if calls != 0 {
		t.Errorf("removed listener fired %d times", calls)
	}

	other()
	if set.Len() != 0 {
		t.Errorf("Len() = %d, want 0", set.Len())
	}
}

func TestListenerSet_UnsubscribeDuringNotify(t *testing.T) {
	set := NewListenerSet[int]()

	fired := 0
	var remove func()
	remove = set.Add(func(int) {
		fired++
		remove() // unsubscribing mid-dispatch must not deadlock
	})

	set.Notify(1)
	set.Notify(2)

	if fired != 1 {
		t.Errorf("listener fired %d times, want 1", fired)
	}
}
