package textvec_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/eventbuddy/internal/domain/textvec"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTokenize(t *testing.T) {
	Convey("Given the English stop word list", t, func() {
		stop := textvec.EnglishStopWords()

		Convey("When tokenizing mixed text", func() {
			tokens := textvec.Tokenize("The JAZZ night, at 8pm: don't miss it! a_b x", stop)

			Convey("Then tokens are lower-cased, split on punctuation and filtered", func() {
				So(tokens, ShouldResemble, []string{"jazz", "night", "8pm", "don", "miss", "a_b"})
			})
		})

		Convey("When the text is only stop words and separators", func() {
			Convey("Then no tokens remain", func() {
				So(textvec.Tokenize("  the and of  ", stop), ShouldBeEmpty)
			})
		})
	})

	Convey("Given no stop words", t, func() {
		Convey("Then common words survive", func() {
			So(textvec.Tokenize("The Art", nil), ShouldResemble, []string{"the", "art"})
		})
	})
}

func TestStopWordsFor(t *testing.T) {
	Convey("Given stop word modes", t, func() {
		Convey("english includes the built-in list plus extras", func() {
			words, err := textvec.StopWordsFor("english", []string{"event"})
			So(err, ShouldBeNil)
			So(words, ShouldContain, "the")
			So(words, ShouldContain, "event")
		})

		Convey("none keeps only the extras", func() {
			words, err := textvec.StopWordsFor("none", []string{"event"})
			So(err, ShouldBeNil)
			So(words, ShouldResemble, []string{"event"})
		})

		Convey("an unknown mode is rejected", func() {
			_, err := textvec.StopWordsFor("klingon", nil)
			So(errors.Is(err, textvec.ErrUnknownStopWords), ShouldBeTrue)
		})
	})
}

func TestTFIDF(t *testing.T) {
	Convey("Given a TF-IDF vectorizer", t, func() {
		v := textvec.NewTFIDF()

		Convey("When fitting a small corpus", func() {
			m := v.Fit([]string{"music art", "music festival jazz", "sports marathon"})

			Convey("Then the vocabulary is sorted and shared", func() {
				So(m.Vocabulary, ShouldResemble, []string{"art", "festival", "jazz", "marathon", "music", "sports"})
				So(m.Vectors, ShouldHaveLength, 3)
				for _, vec := range m.Vectors {
					So(vec, ShouldHaveLength, len(m.Vocabulary))
					So(textvec.Norm(vec), ShouldAlmostEqual, 1.0, 1e-9)
				}
			})

			Convey("Then absent terms weigh zero", func() {
				So(m.Vectors[2][4], ShouldEqual, 0) // "music" not in doc 2
			})

			Convey("Then rarer terms outweigh shared ones", func() {
				// doc 0: "music" is in two docs, "art" only in one
				So(m.Vectors[0][0], ShouldBeGreaterThan, m.Vectors[0][4])
			})
		})

		Convey("When every document is empty", func() {
			vecs := v.FitTransform([]string{"", "  ", "the of"})

			Convey("Then vectors are empty rather than an error", func() {
				So(vecs, ShouldHaveLength, 3)
				for _, vec := range vecs {
					So(vec, ShouldBeEmpty)
				}
			})
		})

		Convey("When sublinear tf and unsmoothed idf are enabled", func() {
			v := textvec.NewTFIDF(textvec.WithSublinearTF(true), textvec.WithSmoothIDF(false), textvec.WithStopWords(nil))
			m := v.Fit([]string{"go go go", "go rust"})

			Convey("Then a term present everywhere gets idf 1", func() {
				So(m.Vocabulary, ShouldResemble, []string{"go", "rust"})
				So(m.Vectors[0][0], ShouldAlmostEqual, 1.0, 1e-9)
			})
		})
	})
}

func TestCosine(t *testing.T) {
	Convey("Given vectors", t, func() {
		So(textvec.Cosine([]float64{1, 2}, []float64{2, 4}), ShouldAlmostEqual, 1.0, 1e-12)
		So(textvec.Cosine([]float64{1, 0}, []float64{0, 1}), ShouldEqual, 0)
		So(textvec.Cosine([]float64{0, 0}, []float64{1, 1}), ShouldEqual, 0)
		So(textvec.Cosine(nil, nil), ShouldEqual, 0)
		So(textvec.Cosine([]float64{1}, []float64{1, 1}), ShouldEqual, 0)
		So(math.IsNaN(textvec.Cosine([]float64{0}, []float64{0})), ShouldBeFalse)
	})
}
