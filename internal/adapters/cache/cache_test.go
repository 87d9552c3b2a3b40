package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/jury/internal/domain/model"
)

type countingLoader struct {
	calls atomic.Int32
	mu    sync.Mutex
	snap  model.Snapshot
	gate  chan struct{}
}

func (l *countingLoader) Load(context.Context) model.Snapshot {
	l.calls.Add(1)
	if l.gate != nil {
		<-l.gate
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

func (l *countingLoader) set(s model.Snapshot) {
	l.mu.Lock()
	l.snap = s
	l.mu.Unlock()
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func withProject(id string) model.Snapshot {
	s := model.EmptySnapshot()
	s.Projects = append(s.Projects, model.Project{ID: id, Name: id})
	return s
}

func TestSnapshotCache(t *testing.T) {
	Convey("Given a cache with a 30 second TTL", t, func() {
		ctx := context.Background()
		clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		loader := &countingLoader{snap: withProject("p1")}
		c := New(loader, WithTTL(30*time.Second), WithClock(clock.Now))

		Convey("When read twice within the TTL", func() {
			first := c.Get(ctx)
			clock.Advance(29 * time.Second)
			second := c.Get(ctx)

			Convey("Then the store should be read once", func() {
				So(loader.calls.Load(), ShouldEqual, 1)
				So(second, ShouldResemble, first)
			})
		})

		Convey("When the entry ages past the TTL", func() {
			c.Get(ctx)
			loader.set(withProject("p2"))
			clock.Advance(30 * time.Second)
			got := c.Get(ctx)

			Convey("Then the store should be read again", func() {
				So(loader.calls.Load(), ShouldEqual, 2)
				So(got.Projects[0].ID, ShouldEqual, "p2")
			})
		})

		Convey("When a write invalidates the cache", func() {
			c.Get(ctx)
			written := withProject("p3")
			c.Invalidate(written)
			got := c.Get(ctx)

			Convey("Then the next read should see the written state without a load", func() {
				So(got, ShouldResemble, written)
				So(loader.calls.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the cache is reset", func() {
			c.Get(ctx)
			c.Reset()
			c.Get(ctx)

			Convey("Then the next read should go to the store", func() {
				So(loader.calls.Load(), ShouldEqual, 2)
			})
		})

		Convey("When many readers miss at once", func() {
			loader.gate = make(chan struct{})
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					c.Get(ctx)
				}()
			}
			time.Sleep(20 * time.Millisecond)
			close(loader.gate)
			wg.Wait()

			Convey("Then they should share a single load", func() {
				So(loader.calls.Load(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a cache with caching disabled", t, func() {
		loader := &countingLoader{snap: withProject("p1")}
		c := New(loader, WithTTL(0))

		Convey("When read repeatedly", func() {
			c.Get(context.Background())
			c.Get(context.Background())

			Convey("Then every read should go to the store", func() {
				So(loader.calls.Load(), ShouldEqual, 2)
				So(c.TTL(), ShouldEqual, time.Duration(0))
			})
		})
	})
}

func TestInvalidateDuringLoadKeepsNewerState(t *testing.T) {
	loader := &countingLoader{snap: withProject("stale"), gate: make(chan struct{})}
	c := New(loader)

	done := make(chan model.Snapshot)
	go func() { done <- c.Get(context.Background()) }()

	for loader.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	c.Invalidate(withProject("fresh"))
	close(loader.gate)

	if got := <-done; got.Projects[0].ID != "fresh" {
		t.Fatalf("in-flight load returned %q, want the newer written state", got.Projects[0].ID)
	}
	if got := c.Get(context.Background()); got.Projects[0].ID != "fresh" {
		t.Fatalf("cache holds %q after invalidate, want fresh", got.Projects[0].ID)
	}
}
