package storage

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/jury/internal/domain/model"
)

func TestCodec(t *testing.T) {
	Convey("Given the snapshot codec", t, func() {
		Convey("When encoding an empty snapshot", func() {
			data, err := Encode(model.Snapshot{})

			Convey("Then every collection should be an empty array", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{"projects":[],"judges":[],"criteria":[],"scores":[]}`)
			})
		})

		Convey("When a populated snapshot is encoded and decoded", func() {
			now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			in := model.Snapshot{
				Projects: []model.Project{{ID: "p1", Name: "Alpha", TeamName: "A", Track: model.TrackFintech, Status: model.StatusSubmitted, CreatedAt: now, UpdatedAt: now}},
				Judges:   []model.Judge{{ID: "j1", Name: "Jo", Email: "jo@example.com", Tracks: []model.Track{model.TrackFintech}, CreatedAt: now, UpdatedAt: now}},
				Criteria: []model.Criterion{{ID: "c1", Label: "Impact", Weight: 2, Tracks: []model.Track{model.TrackAll}, CreatedAt: now, UpdatedAt: now}},
				Scores:   []model.Score{{ID: "s1", ProjectID: "p1", JudgeID: "j1", CriterionID: "c1", Value: 8.5, CreatedAt: now, UpdatedAt: now}},
			}
			data, err := Encode(in)
			So(err, ShouldBeNil)
			out, err := Decode(data)

			Convey("Then the same records should come back", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, in)
			})
		})

		Convey("When decoding malformed documents", func() {
			cases := []struct{ name, doc string }{
				{"invalid json", `{"projects":[`},
				{"not an object", `[]`},
				{"null document", `null`},
				{"missing key", `{"projects":[],"judges":[],"criteria":[]}`},
				{"null collection", `{"projects":null,"judges":[],"criteria":[],"scores":[]}`},
				{"object not array", `{"projects":{},"judges":[],"criteria":[],"scores":[]}`},
				{"string not array", `{"projects":"x","judges":[],"criteria":[],"scores":[]}`},
				{"extra key", `{"projects":[],"judges":[],"criteria":[],"scores":[],"extra":[]}`},
				{"bad element", `{"projects":[1],"judges":[],"criteria":[],"scores":[]}`},
				{"null element", `{"projects":[null],"judges":[],"criteria":[],"scores":[]}`},
				{"null score", `{"projects":[],"judges":[],"criteria":[],"scores":[{"id":"s1"},null]}`},
				{"element without id", `{"projects":[],"judges":[{"name":"Ada"}],"criteria":[],"scores":[]}`},
			}

			for _, tc := range cases {
				Convey("Then "+tc.name+" should be reported as corrupt", func() {
					_, err := Decode([]byte(tc.doc))
					So(errors.Is(err, ErrCorrupt), ShouldBeTrue)
				})
			}
		})

		Convey("When decoding a document with empty arrays", func() {
			out, err := Decode([]byte(`{"scores":[],"criteria":[],"judges":[],"projects":[]}`))

			Convey("Then the collections should be empty and non-nil", func() {
				So(err, ShouldBeNil)
				So(out.Projects, ShouldNotBeNil)
				So(out.Judges, ShouldNotBeNil)
				So(out.Criteria, ShouldNotBeNil)
				So(out.Scores, ShouldNotBeNil)
				So(out.Projects, ShouldBeEmpty)
			})
		})
	})
}
