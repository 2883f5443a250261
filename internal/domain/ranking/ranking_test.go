package ranking_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/eventbuddy/internal/domain/model"
	"github.com/okian/eventbuddy/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

type fixedVectorizer struct {
	vectors [][]float64
	corpus  []string
}

func (f *fixedVectorizer) FitTransform(docs []string) [][]float64 {
	f.corpus = docs
	return f.vectors
}

func ids(events []model.ScoredEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Event.ID
	}
	return out
}

func catalog(n int) []model.EventRecord {
	topics := []string{"music", "art", "sports", "cooking", "hiking", "coding", "dance", "film", "poetry", "chess"}
	events := make([]model.EventRecord, n)
	for i := range events {
		events[i] = model.EventRecord{
			ID:     fmt.Sprintf("evt-%d", i),
			Topics: []string{topics[i%len(topics)], "meetup"},
			Title:  fmt.Sprintf("%s night", topics[i%len(topics)]),
		}
	}
	return events
}

func TestTextRanker_Rank(t *testing.T) {
	Convey("Given a default ranker", t, func() {
		r := ranking.New()
		ctx := context.Background()

		Convey("When the user likes music and art", func() {
			user := model.UserProfile{ID: "u1", Interests: []string{"music", "art"}}
			events := []model.EventRecord{
				{ID: "1", Topics: []string{"music", "festival"}, Title: "Jazz Night"},
				{ID: "2", Topics: []string{"sports"}, Title: "Marathon"},
			}

			res, err := r.Rank(ctx, user, events)

			Convey("Then the music event ranks first and both are returned", func() {
				So(err, ShouldBeNil)
				So(ids(res.Events), ShouldResemble, []string{"1", "2"})
				So(res.Events[0].Score, ShouldBeGreaterThan, 0)
				So(res.Events[1].Score, ShouldEqual, 0)
				So(res.DegenerateProfile, ShouldBeFalse)
				So(res.VocabularySize, ShouldEqual, 7)
			})

			Convey("Then events pass through untouched", func() {
				So(res.Events[0].Event, ShouldResemble, events[0])
			})
		})

		Convey("When the documents are identical", func() {
			user := model.UserProfile{ID: "u1", Interests: []string{"hiking", "mountains"}}
			events := []model.EventRecord{{ID: "e", Topics: []string{"hiking", "mountains"}}}

			res, err := r.Rank(ctx, user, events)

			Convey("Then the score is 1", func() {
				So(err, ShouldBeNil)
				So(res.Events[0].Score, ShouldAlmostEqual, 1.0, 1e-9)
				So(res.Events[0].Score, ShouldBeLessThanOrEqualTo, 1.0)
			})
		})

		Convey("When the vocabularies are disjoint", func() {
			user := model.UserProfile{ID: "u1", Interests: []string{"cooking"}}
			events := []model.EventRecord{{ID: "e", Topics: []string{"skydiving"}}}

			res, err := r.Rank(ctx, user, events)

			Convey("Then the score is 0", func() {
				So(err, ShouldBeNil)
				So(res.Events[0].Score, ShouldEqual, 0)
			})
		})

		Convey("When the catalog is larger than K", func() {
			user := model.UserProfile{ID: "u1", Interests: []string{"music", "dance"}, Bio: "I love film and chess"}
			res, err := r.Rank(ctx, user, catalog(10))

			Convey("Then six events come back in non-increasing order", func() {
				So(err, ShouldBeNil)
				So(res.Events, ShouldHaveLength, ranking.DefaultTopK)
				for i := 1; i < len(res.Events); i++ {
					So(res.Events[i-1].Score, ShouldBeGreaterThanOrEqualTo, res.Events[i].Score)
				}
				for _, e := range res.Events {
					So(e.Score, ShouldBeBetweenOrEqual, 0.0, 1.0)
				}
			})

			Convey("Then repeated calls give the same ranking", func() {
				again, err := r.Rank(ctx, user, catalog(10))
				So(err, ShouldBeNil)
				So(again, ShouldResemble, res)
			})
		})

		Convey("When the catalog is smaller than K", func() {
			res, err := r.Rank(ctx, model.UserProfile{ID: "u1", Interests: []string{"art"}}, catalog(3))

			Convey("Then every event is returned", func() {
				So(err, ShouldBeNil)
				So(res.Events, ShouldHaveLength, 3)
			})
		})

		Convey("When the user profile has no usable terms", func() {
			user := model.UserProfile{ID: "u1", Bio: "the and of"}
			res, err := r.Rank(ctx, user, catalog(4))

			Convey("Then every score is 0, order is kept and the profile is flagged", func() {
				So(err, ShouldBeNil)
				So(res.DegenerateProfile, ShouldBeTrue)
				So(ids(res.Events), ShouldResemble, []string{"evt-0", "evt-1", "evt-2", "evt-3"})
				for _, e := range res.Events {
					So(e.Score, ShouldEqual, 0)
				}
			})
		})

		Convey("When two events tie", func() {
			user := model.UserProfile{ID: "u1", Interests: []string{"poetry"}}
			events := []model.EventRecord{
				{ID: "b", Topics: []string{"poetry"}, Title: "Open mic"},
				{ID: "z", Topics: []string{"chess"}},
				{ID: "a", Topics: []string{"poetry"}, Title: "Open mic"},
			}
			res, err := r.Rank(ctx, user, events)

			Convey("Then they keep their input order", func() {
				So(err, ShouldBeNil)
				So(ids(res.Events), ShouldResemble, []string{"b", "a", "z"})
			})
		})

		Convey("When there are no events", func() {
			_, err := r.Rank(ctx, model.UserProfile{ID: "u1", Interests: []string{"art"}}, nil)

			Convey("Then ErrNoEventsAvailable is returned", func() {
				So(errors.Is(err, ranking.ErrNoEventsAvailable), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := r.Rank(cctx, model.UserProfile{ID: "u1"}, catalog(2))

			Convey("Then the cancellation is reported", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestTextRanker_Options(t *testing.T) {
	Convey("Given a ranker with an injected vectorizer and similarity", t, func() {
		vec := &fixedVectorizer{vectors: [][]float64{{1}, {2}, {3}, {4}}}
		r := ranking.New(
			ranking.WithVectorizer(vec),
			ranking.WithSimilarity(func(_, b []float64) float64 { return b[0] / 10 }),
			ranking.WithTopK(2),
		)
		events := []model.EventRecord{
			{ID: "low", Title: "x"},
			{ID: "mid", Title: "y"},
			{ID: "high", Title: "z"},
		}

		res, err := r.Rank(context.Background(), model.UserProfile{ID: "u", Bio: "bio"}, events)

		Convey("Then the user document is first in the corpus", func() {
			So(err, ShouldBeNil)
			So(vec.corpus, ShouldHaveLength, 4)
			So(vec.corpus[0], ShouldEqual, "  bio")
		})

		Convey("Then the injected scores drive the order and K truncates", func() {
			So(ids(res.Events), ShouldResemble, []string{"high", "mid"})
			So(res.Events[0].Score, ShouldAlmostEqual, 0.4, 1e-12)
			So(r.TopK(), ShouldEqual, 2)
		})
	})

	Convey("Given a similarity that overshoots", t, func() {
		r := ranking.New(
			ranking.WithVectorizer(&fixedVectorizer{vectors: [][]float64{{1}, {1}, {1}}}),
			ranking.WithSimilarity(func(_, _ []float64) float64 { return 1.0000000002 }),
		)
		res, err := r.Rank(context.Background(), model.UserProfile{ID: "u"}, catalog(2))

		Convey("Then scores are clamped to 1", func() {
			So(err, ShouldBeNil)
			for _, e := range res.Events {
				So(e.Score, ShouldEqual, 1.0)
			}
		})
	})

	Convey("Given invalid options", t, func() {
		r := ranking.New(ranking.WithTopK(0), ranking.WithVectorizer(nil), ranking.WithSimilarity(nil))

		Convey("Then defaults are kept", func() {
			So(r.TopK(), ShouldEqual, ranking.DefaultTopK)
		})
	})
}

func TestTextRanker_Score(t *testing.T) {
	Convey("Given raw documents", t, func() {
		r := ranking.New()
		scores, degenerate, vocab := r.Score("music art", []string{"music festival", "", "sports"})

		Convey("Then scores follow input order and empty documents score 0", func() {
			So(scores, ShouldHaveLength, 3)
			So(scores[0], ShouldBeGreaterThan, 0)
			So(scores[1], ShouldEqual, 0)
			So(scores[2], ShouldEqual, 0)
			So(degenerate, ShouldBeFalse)
			So(vocab, ShouldEqual, 4)
		})
	})
}
