// ABOUTME: Tests for the broadcast channel
// ABOUTME: Verifies multicast delivery and unsubscribe behavior

package broadcast

import "testing"

func TestEverySubscriberReceivesEveryValue(t *testing.T) {
	b := New[int]()

	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	b.Publish(1)
	b.Publish(2)

	for _, ch := range []<-chan int{ch1, ch2} {
		if got := <-ch; got != 1 {
			t.Errorf("expected 1, got %d", got)
		}
		if got := <-ch; got != 2 {
			t.Errorf("expected 2, got %d", got)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New[string]()

	ch, cancel := b.Subscribe()
	cancel()

	b.Publish("late")

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed after cancel")
	}
	if b.Len() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.Len())
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	b := New[int]()
	_, cancel := b.Subscribe()
	cancel()
	cancel() // must not panic or double-close
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := New[int]()
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer*3; i++ {
		b.Publish(i)
	}

	// The newest value must still be pending even though older ones dropped.
	var last int
	for {
		select {
		case v := <-ch:
			last = v
			continue
		default:
		}
		break
	}
	if last != subscriberBuffer*3-1 {
		t.Errorf("expected newest value %d to survive, got %d", subscriberBuffer*3-1, last)
	}
}
