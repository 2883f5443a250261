// Package ranking scores events against a user profile by textual similarity
// and returns the best matches.
package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/okian/eventbuddy/internal/domain/document"
	"github.com/okian/eventbuddy/internal/domain/model"
	"github.com/okian/eventbuddy/internal/domain/textvec"
)

// DefaultTopK is the number of suggestions returned when not configured.
const DefaultTopK = 6

// Option applies a configuration option to the TextRanker.
type Option func(*TextRanker)

// WithVectorizer replaces the TF-IDF vectorizer.
func WithVectorizer(v textvec.Vectorizer) Option {
	return func(r *TextRanker) {
		if v != nil {
			r.vectorizer = v
		}
	}
}

// WithSimilarity replaces cosine similarity.
func WithSimilarity(fn textvec.SimilarityFunc) Option {
	return func(r *TextRanker) {
		if fn != nil {
			r.similarity = fn
		}
	}
}

// WithTopK sets how many events Rank returns. Non-positive values are ignored.
func WithTopK(k int) Option {
	return func(r *TextRanker) {
		if k > 0 {
			r.topK = k
		}
	}
}

// Result is the outcome of ranking one user against the catalog.
type Result struct {
	// Events holds at most K events, best first.
	Events []model.ScoredEvent
	// DegenerateProfile is set when the user document had no usable terms,
	// so every score is 0.
	DegenerateProfile bool
	// VocabularySize is the number of distinct terms in the fitted corpus.
	VocabularySize int
}

// Ranker orders events by relevance to a user.
type Ranker interface {
	// Rank scores events for user, honoring ctx for cancellation.
	Rank(ctx context.Context, user model.UserProfile, events []model.EventRecord) (Result, error)
}

// TextRanker implements Ranker over TF-IDF vectors. It holds only
// configuration and is safe for concurrent use; every call fits a fresh
// vocabulary.
type TextRanker struct {
	vectorizer textvec.Vectorizer
	similarity textvec.SimilarityFunc
	topK       int
}

// New creates a TextRanker with TF-IDF, cosine similarity and K=6.
func New(opts ...Option) *TextRanker {
	r := &TextRanker{
		vectorizer: textvec.NewTFIDF(),
		similarity: textvec.Cosine,
		topK:       DefaultTopK,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TopK returns the configured result size.
func (r *TextRanker) TopK() int {
	return r.topK
}

// Rank implements Ranker.
func (r *TextRanker) Rank(ctx context.Context, user model.UserProfile, events []model.EventRecord) (Result, error) {
	if len(events) == 0 {
		return Result{}, ErrNoEventsAvailable
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("rank: %w", err)
	}

	scores, degenerate, vocab := r.Score(document.User(user), document.Events(events))

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("rank: %w", err)
	}

	scored := make([]model.ScoredEvent, len(events))
	for i, e := range events {
		scored[i] = model.ScoredEvent{Event: e, Score: scores[i]}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > r.topK {
		scored = scored[:r.topK]
	}

	return Result{
		Events:            scored,
		DegenerateProfile: degenerate,
		VocabularySize:    vocab,
	}, nil
}

// Score vectorizes userDoc together with eventDocs and returns one score per
// event document in input order. It also reports whether the user vector
// was all zeros and how many terms the shared vocabulary has.
func (r *TextRanker) Score(userDoc string, eventDocs []string) (scores []float64, degenerate bool, vocabulary int) {
	corpus := make([]string, 0, len(eventDocs)+1)
	corpus = append(corpus, userDoc)
	corpus = append(corpus, eventDocs...)

	vectors := r.vectorizer.FitTransform(corpus)
	if len(vectors) == 0 {
		return make([]float64, len(eventDocs)), true, 0
	}

	userVec := vectors[0]
	vocabulary = len(userVec)
	degenerate = textvec.Norm(userVec) == 0

	scores = make([]float64, len(eventDocs))
	for i := range eventDocs {
		if i+1 >= len(vectors) {
			break
		}
		scores[i] = clamp(r.similarity(userVec, vectors[i+1]))
	}
	return scores, degenerate, vocabulary
}

// clamp keeps s in [0,1]; NaN becomes 0.
func clamp(s float64) float64 {
	if math.IsNaN(s) {
		return 0
	}
	return math.Max(0, math.Min(1, s))
}
