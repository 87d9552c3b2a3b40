package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func TestNotifier(t *testing.T) {
	Convey("Given a notifier", t, func() {
		n := New()
		defer n.Close()

		Convey("When one subscriber receives a publish", func() {
			var calls atomic.Int32
			unsubscribe := n.Subscribe(func(context.Context) { calls.Add(1) })
			n.Publish()

			Convey("Then the handler should run once", func() {
				So(eventually(func() bool { return calls.Load() == 1 }), ShouldBeTrue)
				So(n.Subscribers(), ShouldEqual, 1)
			})

			Convey("Then unsubscribing should stop further deliveries", func() {
				So(eventually(func() bool { return calls.Load() == 1 }), ShouldBeTrue)
				unsubscribe()
				unsubscribe()
				n.Publish()
				time.Sleep(20 * time.Millisecond)
				So(calls.Load(), ShouldEqual, 1)
				So(n.Subscribers(), ShouldEqual, 0)
			})
		})

		Convey("When publishes arrive while the handler is busy", func() {
			release := make(chan struct{})
			var calls, running, overlapped atomic.Int32
			n.Subscribe(func(context.Context) {
				if running.Add(1) > 1 {
					overlapped.Add(1)
				}
				defer running.Add(-1)
				if calls.Add(1) == 1 {
					<-release
				}
			})

			n.Publish()
			So(eventually(func() bool { return calls.Load() == 1 }), ShouldBeTrue)
			for i := 0; i < 10; i++ {
				n.Publish()
			}
			close(release)

			Convey("Then the burst should collapse into one trailing run", func() {
				So(eventually(func() bool { return calls.Load() == 2 }), ShouldBeTrue)
				time.Sleep(20 * time.Millisecond)
				So(calls.Load(), ShouldEqual, 2)
				So(overlapped.Load(), ShouldEqual, 0)
			})
		})

		Convey("When a handler panics", func() {
			var after atomic.Int32
			var once sync.Once
			n.Subscribe(func(context.Context) {
				fired := false
				once.Do(func() { fired = true })
				if fired {
					panic("boom")
				}
				after.Add(1)
			})
			n.Publish()
			time.Sleep(20 * time.Millisecond)
			n.Publish()

			Convey("Then the subscriber should keep receiving signals", func() {
				So(eventually(func() bool { return after.Load() == 1 }), ShouldBeTrue)
			})
		})

		Convey("When there are several subscribers", func() {
			var a, b atomic.Int32
			n.Subscribe(func(context.Context) { a.Add(1) })
			n.Subscribe(func(context.Context) { b.Add(1) })
			n.Publish()

			Convey("Then each should be notified", func() {
				So(eventually(func() bool { return a.Load() == 1 && b.Load() == 1 }), ShouldBeTrue)
			})
		})
	})
}

func TestNotifierClose(t *testing.T) {
	n := New()
	started := make(chan struct{})
	var finished atomic.Bool
	n.Subscribe(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		finished.Store(true)
	})
	n.Publish()
	<-started

	n.Close()
	if !finished.Load() {
		t.Fatal("Close returned before the running handler observed cancellation")
	}
	n.Close()

	if unsub := n.Subscribe(func(context.Context) {}); unsub == nil {
		t.Fatal("Subscribe after Close must return a usable func")
	}
	n.Publish()
	if got := n.Subscribers(); got != 0 {
		t.Fatalf("subscribers after close = %d, want 0", got)
	}
}
