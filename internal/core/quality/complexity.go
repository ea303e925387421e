package quality

import "github.com/just-nibble/repo-quality/internal/core/domain/entities"

// Classify buckets a repository by language spread and team size. The top
// language is the first entry as ordered by the API, which is not always the
// largest one.
func Classify(languages []entities.LanguageShare, contributors int) entities.Complexity {
	top := 100
	if len(languages) > 0 {
		top = languages[0].Percentage
	}

	switch {
	case len(languages) > 5 || contributors > 10 || top < 60:
		return entities.ComplexityHigh
	case len(languages) > 2 || contributors > 3 || top < 80:
		return entities.ComplexityMedium
	default:
		return entities.ComplexityLow
	}
}
