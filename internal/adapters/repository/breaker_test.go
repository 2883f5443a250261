package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/okian/eventbuddy/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var errBackend = errors.New("backend down")

type flakyStore struct {
	userErr  error
	eventErr error
	calls    int
}

func (f *flakyStore) FetchUser(_ context.Context, id string) (model.UserProfile, error) {
	f.calls++
	if f.userErr != nil {
		return model.UserProfile{}, f.userErr
	}
	return model.UserProfile{ID: id}, nil
}

func (f *flakyStore) FetchAllEvents(context.Context) ([]model.EventRecord, error) {
	f.calls++
	if f.eventErr != nil {
		return nil, f.eventErr
	}
	return []model.EventRecord{{ID: "e1"}}, nil
}

func TestBreakerStore(t *testing.T) {
	Convey("Given a breaker that trips after two failures", t, func() {
		ctx := context.Background()
		next := &flakyStore{}
		store := NewBreakerStore(next, "test", WithFailureThreshold(2), WithOpenTimeout(time.Hour))

		Convey("When the backend is healthy", func() {
			u, err := store.FetchUser(ctx, "u1")

			Convey("Then calls pass through", func() {
				So(err, ShouldBeNil)
				So(u.ID, ShouldEqual, "u1")
			})
		})

		Convey("When the backend keeps failing", func() {
			next.eventErr = errBackend
			_, err1 := store.FetchAllEvents(ctx)
			_, err2 := store.FetchAllEvents(ctx)
			_, err3 := store.FetchAllEvents(ctx)

			Convey("Then the breaker opens and rejects without calling the backend", func() {
				So(errors.Is(err1, errBackend), ShouldBeTrue)
				So(errors.Is(err2, errBackend), ShouldBeTrue)
				So(errors.Is(err3, ErrUnavailable), ShouldBeTrue)
				So(errors.Is(err3, gobreaker.ErrOpenState), ShouldBeTrue)
				So(next.calls, ShouldEqual, 2)
			})

			Convey("Then the user breaker is unaffected", func() {
				users, events := store.State()
				So(users, ShouldEqual, gobreaker.StateClosed)
				So(events, ShouldEqual, gobreaker.StateOpen)
			})
		})

		Convey("When users are simply missing", func() {
			next.userErr = ErrNotFound
			for i := 0; i < 5; i++ {
				_, _ = store.FetchUser(ctx, "ghost")
			}

			Convey("Then the breaker stays closed", func() {
				users, _ := store.State()
				So(users, ShouldEqual, gobreaker.StateClosed)
				_, err := store.FetchUser(ctx, "ghost")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestInstrumentedStore(t *testing.T) {
	Convey("Given an instrumented store", t, func() {
		ctx := context.Background()
		next := &flakyStore{}
		store := Instrument("memory", next)

		Convey("Then results and errors pass through unchanged", func() {
			events, err := store.FetchAllEvents(ctx)
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 1)

			next.userErr = errBackend
			_, err = store.FetchUser(ctx, "u1")
			So(errors.Is(err, errBackend), ShouldBeTrue)
		})
	})
}
