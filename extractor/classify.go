package extractor

import "strings"

// Classification is the decision taken for one archive entry
type Classification int

const (
	// Process marks an entry that is relayed to the destination
	Process Classification = iota

	// SkipDirectory marks a directory marker
	SkipDirectory

	// SkipMedia marks an entry with a skipped media extension
	SkipMedia
)

func (c Classification) String() string {
	switch c {
	case Process:
		return "process"
	case SkipDirectory:
		return "skip-directory"
	case SkipMedia:
		return "skip-media"
	}
	return "unknown"
}

// Classifier decides which entries are relayed.
type Classifier struct {
	suffixes []string
}

// NewClassifier creates a classifier that skips entries ending with one of the
// given extensions. Extensions are expected lower case and without leading dot.
func NewClassifier(skipExtensions []string) *Classifier {
	suffixes := make([]string, 0, len(skipExtensions))
	for _, ext := range skipExtensions {
		suffixes = append(suffixes, "."+ext)
	}
	return &Classifier{suffixes: suffixes}
}

// Classify returns the classification of the entry called name.
func (c *Classifier) Classify(name string) Classification {
	if strings.HasSuffix(name, "/") {
		return SkipDirectory
	}
	lower := strings.ToLower(name)
	for _, suffix := range c.suffixes {
		if strings.HasSuffix(lower, suffix) {
			return SkipMedia
		}
	}
	return Process
}
