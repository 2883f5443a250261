package textvec

import (
	"math"
	"sort"
)

// Vectorizer fits a vocabulary over a corpus and returns one vector per
// document, all of the same length.
type Vectorizer interface {
	FitTransform(docs []string) [][]float64
}

// Option applies a configuration option to the TFIDF vectorizer.
type Option func(*TFIDF)

// WithStopWords replaces the stop word list. Nil or empty disables filtering.
func WithStopWords(words []string) Option {
	return func(v *TFIDF) {
		v.stopWords = stopWordSet(words)
	}
}

// WithSmoothIDF toggles the +1 smoothing of document frequencies.
func WithSmoothIDF(smooth bool) Option {
	return func(v *TFIDF) {
		v.smoothIDF = smooth
	}
}

// WithSublinearTF replaces raw counts with 1 + ln(count).
func WithSublinearTF(sublinear bool) Option {
	return func(v *TFIDF) {
		v.sublinearTF = sublinear
	}
}

// TFIDF is a stateless vectorizer: every FitTransform builds a fresh vocabulary.
//
// Weight of term t in document d:
//
//	tf(t,d) * (ln((1+n)/(1+df(t))) + 1)
//
// with each row then L2-normalized. Vocabulary columns are sorted by term.
type TFIDF struct {
	stopWords   map[string]struct{}
	smoothIDF   bool
	sublinearTF bool
}

// NewTFIDF creates a vectorizer with English stop words and smoothed idf.
func NewTFIDF(opts ...Option) *TFIDF {
	v := &TFIDF{
		stopWords: stopWordSet(englishStopWords),
		smoothIDF: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Model is the result of fitting a corpus.
type Model struct {
	Vocabulary []string
	Vectors    [][]float64
}

// FitTransform implements Vectorizer.
func (v *TFIDF) FitTransform(docs []string) [][]float64 {
	return v.Fit(docs).Vectors
}

// Fit builds the vocabulary and the weighted vectors for docs.
func (v *TFIDF) Fit(docs []string) Model {
	tok := newTokenizer(v.stopWords)

	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		c := make(map[string]int)
		for _, term := range tok.tokens(doc) {
			c[term]++
		}
		for term := range c {
			df[term]++
		}
		counts[i] = c
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for j, term := range vocab {
		d := float64(df[term])
		if v.smoothIDF {
			idf[j] = math.Log((1+n)/(1+d)) + 1
		} else {
			idf[j] = math.Log(n/d) + 1
		}
	}

	vectors := make([][]float64, len(docs))
	for i, c := range counts {
		vec := make([]float64, len(vocab))
		for j, term := range vocab {
			cnt, ok := c[term]
			if !ok {
				continue
			}
			tf := float64(cnt)
			if v.sublinearTF {
				tf = 1 + math.Log(tf)
			}
			vec[j] = tf * idf[j]
		}
		normalize(vec)
		vectors[i] = vec
	}

	return Model{Vocabulary: vocab, Vectors: vectors}
}

// normalize scales vec to unit length in place; zero vectors stay zero.
func normalize(vec []float64) {
	n := Norm(vec)
	if n == 0 {
		return
	}
	for i := range vec {
		vec[i] /= n
	}
}
