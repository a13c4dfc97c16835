package audioentity

import (
	"fmt"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

type Category string

const (
	Drums  Category = "drums"
	Bass   Category = "bass"
	Other  Category = "other"
	Vocals Category = "vocals"
)

// Categories is the fixed order stems are produced and summed in.
// Keeping it fixed keeps floating point rounding reproducible.
var Categories = []Category{Drums, Bass, Other, Vocals}

func (c Category) IsVocal() bool {
	return c == Vocals
}

func ParseCategory(name string) (Category, bool) {
	for _, category := range Categories {
		if string(category) == name {
			return category, true
		}
	}

	return "", false
}

// StemSet maps every category to its estimated source.
// All stems share one sample rate; shape alignment is checked by the consumers
// that depend on it so that a misaligned set can still be reported precisely.
type StemSet struct {
	stems map[Category]Buffer
}

func NewStemSet(stems map[Category]Buffer) (StemSet, error) {
	if len(stems) != len(Categories) {
		return StemSet{}, cerr.Field("stem_count", len(stems)).
			Error(fmt.Sprintf("Expected exactly %d stems", len(Categories)))
	}

	sampleRate := 0
	copied := make(map[Category]Buffer, len(stems))

	for _, category := range Categories {
		stem, ok := stems[category]
		if !ok {
			return StemSet{}, cerr.Field("category", category).Error("Stem is missing from the set")
		}

		if err := stem.Validate(); err != nil {
			return StemSet{}, cerr.Field("category", category).Wrap(err).Error("Stem is not a valid buffer")
		}

		if sampleRate == 0 {
			sampleRate = stem.SampleRate
		} else if stem.SampleRate != sampleRate {
			return StemSet{}, cerr.Fields(cerr.F{
				"category":    category,
				"sample_rate": stem.SampleRate,
				"expected":    sampleRate,
			}).Error("Stems do not share a sample rate")
		}

		copied[category] = stem
	}

	return StemSet{stems: copied}, nil
}

func (s StemSet) Get(category Category) (Buffer, bool) {
	stem, ok := s.stems[category]
	return stem, ok
}

func (s StemSet) SampleRate() int {
	for _, stem := range s.stems {
		return stem.SampleRate
	}

	return 0
}

// Each visits the stems in Categories order
func (s StemSet) Each(fn func(category Category, stem Buffer)) {
	for _, category := range Categories {
		stem, ok := s.stems[category]
		if ok {
			fn(category, stem)
		}
	}
}
