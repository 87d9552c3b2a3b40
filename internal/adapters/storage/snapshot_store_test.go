package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/pkg/logger"
)

var errInjected = errors.New("injected")

// brokenBackend fails reads and/or writes on demand.
type brokenBackend struct {
	MemoryBackend
	failRead  bool
	failWrite bool
}

func (b *brokenBackend) Read(ctx context.Context) ([]byte, error) {
	if b.failRead {
		return nil, errInjected
	}
	return b.MemoryBackend.Read(ctx)
}

func (b *brokenBackend) Write(ctx context.Context, data []byte) error {
	if b.failWrite {
		return errInjected
	}
	return b.MemoryBackend.Write(ctx, data)
}

func TestSnapshotStore(t *testing.T) {
	Convey("Given a snapshot store", t, func() {
		ctx := context.Background()
		var logs bytes.Buffer
		backend := &brokenBackend{}
		store := NewSnapshotStore(backend, logger.New(&logs))

		Convey("When nothing has been written", func() {
			snap := store.Load(ctx)

			Convey("Then an empty snapshot should be returned", func() {
				So(snap, ShouldResemble, model.EmptySnapshot())
				So(logs.String(), ShouldBeEmpty)
			})
		})

		Convey("When a snapshot is saved", func() {
			in := model.EmptySnapshot()
			in.Projects = append(in.Projects, model.Project{ID: "p1", Name: "Alpha"})
			So(store.Save(ctx, in), ShouldBeNil)

			Convey("Then Load should return it", func() {
				So(store.Load(ctx).Projects, ShouldResemble, in.Projects)
			})
		})

		Convey("When the stored document is corrupt", func() {
			So(backend.MemoryBackend.Write(ctx, []byte(`{"projects":"oops"}`)), ShouldBeNil)
			snap := store.Load(ctx)

			Convey("Then Load should heal to an empty snapshot and warn", func() {
				So(snap, ShouldResemble, model.EmptySnapshot())
				So(logs.String(), ShouldContainSubstring, "snapshot is corrupt")
			})

			Convey("Then the damaged document should be left until the next save", func() {
				raw, err := backend.MemoryBackend.Read(ctx)
				So(err, ShouldBeNil)
				So(string(raw), ShouldEqual, `{"projects":"oops"}`)
			})
		})

		Convey("When the medium cannot be read", func() {
			backend.failRead = true
			snap := store.Load(ctx)

			Convey("Then Load should heal to an empty snapshot and warn", func() {
				So(snap, ShouldResemble, model.EmptySnapshot())
				So(logs.String(), ShouldContainSubstring, "snapshot read failed")
			})
		})

		Convey("When the medium rejects a write", func() {
			backend.failWrite = true
			err := store.Save(ctx, model.EmptySnapshot())

			Convey("Then Save should return a storage error", func() {
				var se *model.StorageError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Op, ShouldEqual, OpSave)
				So(se.Driver, ShouldEqual, string(DriverMemory))
				So(errors.Is(err, model.ErrStorage), ShouldBeTrue)
				So(errors.Is(err, errInjected), ShouldBeTrue)
			})
		})

		So(store.Driver(), ShouldEqual, DriverMemory)
		So(store.Close(), ShouldBeNil)
	})
}
