package sample

import "testing"

func TestHub_DropPolicyDiscardsWhenFull(t *testing.T) {
	h := NewHub()
	h.OutBufSize = 1
	h.Policy = PolicyDrop
	sub := h.Subscribe()

	h.Publish(Sample{Attention: 1})
	h.Publish(Sample{Attention: 2}) // buffer full, should be dropped silently

	select {
	case <-sub.Closed:
		t.Fatalf("drop policy should not close the subscriber")
	default:
	}
	if len(sub.Out) != 1 {
		t.Fatalf("buffered channel len = %d, want 1", len(sub.Out))
	}
}

func TestHub_KickPolicyClosesSlowSubscriber(t *testing.T) {
	h := NewHub()
	h.OutBufSize = 1
	h.Policy = PolicyKick
	sub := h.Subscribe()

	h.Publish(Sample{Attention: 1})
	h.Publish(Sample{Attention: 2}) // buffer full, should kick

	select {
	case <-sub.Closed:
	default:
		t.Fatalf("kick policy should have closed the subscriber")
	}
}

func TestHub_UnsubscribeIsIdempotent(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()
	h.Unsubscribe(sub)
	h.Unsubscribe(sub) // must not panic
}
