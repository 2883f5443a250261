package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/eventbuddy/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Runs against a real database when EVENTBUDDY_TEST_POSTGRES_DSN is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("EVENTBUDDY_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("EVENTBUDDY_TEST_POSTGRES_DSN not set")
	}

	Convey("Given a Postgres store with a fresh schema", t, func() {
		ctx := context.Background()
		pool, err := OpenPostgres(ctx, dsn)
		So(err, ShouldBeNil)
		defer pool.Close()

		_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS users, events`)
		So(err, ShouldBeNil)

		store := NewPostgresStore(pool)
		So(store.EnsureSchema(ctx), ShouldBeNil)

		So(store.PutUser(ctx, model.UserProfile{ID: "u1", Interests: []string{"music"}}), ShouldBeNil)
		So(store.PutEvent(ctx, model.EventRecord{ID: "z", Topics: []string{"music"}, Attributes: map[string]any{"city": "Rome"}}), ShouldBeNil)
		So(store.PutEvent(ctx, model.EventRecord{ID: "a", Title: "Later"}), ShouldBeNil)

		Convey("When fetching a user", func() {
			u, err := store.FetchUser(ctx, "u1")

			Convey("Then nil slices come back empty", func() {
				So(err, ShouldBeNil)
				So(u.Interests, ShouldResemble, []string{"music"})
				So(u.Goals, ShouldBeEmpty)
			})
		})

		Convey("When fetching an unknown user", func() {
			_, err := store.FetchUser(ctx, "nobody")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When fetching events", func() {
			events, err := store.FetchAllEvents(ctx)

			Convey("Then insertion order and attributes are kept", func() {
				So(err, ShouldBeNil)
				So(eventIDs(events), ShouldResemble, []string{"z", "a"})
				So(events[0].Attributes["city"], ShouldEqual, "Rome")
				So(events[1].Attributes, ShouldBeNil)
			})
		})

		Convey("When an event is upserted", func() {
			So(store.PutEvent(ctx, model.EventRecord{ID: "z", Title: "Renamed"}), ShouldBeNil)
			events, _ := store.FetchAllEvents(ctx)

			Convey("Then it keeps its position", func() {
				So(eventIDs(events), ShouldResemble, []string{"z", "a"})
				So(events[0].Title, ShouldEqual, "Renamed")
			})
		})
	})
}
