package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFeedDeliversToOwnUserOnly(t *testing.T) {
	feed := NewFeed()
	alice := uuid.New()
	bob := uuid.New()

	aliceCh, cancelAlice := feed.Subscribe(alice)
	defer cancelAlice()
	bobCh, cancelBob := feed.Subscribe(bob)
	defer cancelBob()

	ev := Event{Type: EventInsert, RecipeID: uuid.New(), UserID: alice}
	feed.Publish(ev)

	select {
	case got := <-aliceCh:
		if got != ev {
			t.Errorf("expected %+v, got %+v", ev, got)
		}
	case <-time.After(time.Second):
		t.Fatal("alice never received her event")
	}

	select {
	case got := <-bobCh:
		t.Fatalf("bob received alice's event: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFeedCancelClosesChannel(t *testing.T) {
	feed := NewFeed()
	user := uuid.New()

	ch, cancel := feed.Subscribe(user)
	cancel()

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after cancel")
	}

	// Publishing after cancel must not panic or deliver.
	feed.Publish(Event{Type: EventDelete, RecipeID: uuid.New(), UserID: user})
}

func TestFeedDoubleCancelIsSafe(t *testing.T) {
	feed := NewFeed()
	_, cancel := feed.Subscribe(uuid.New())
	cancel()
	cancel()
}

func TestFeedSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	feed := NewFeed()
	user := uuid.New()
	_, cancel := feed.Subscribe(user)
	defer cancel()

	done := make(chan struct{})
	go func() {
		// More events than the channel buffer holds.
		for i := 0; i < 100; i++ {
			feed.Publish(Event{Type: EventInsert, RecipeID: uuid.New(), UserID: user})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
