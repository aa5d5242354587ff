package quality

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"herelaw-backend/models"
)

const (
	// QualifyingRating is the lowest rating a complaint needs to count as a best practice
	QualifyingRating = 4.0
	// MaxSamples caps how many top-rated complaints are analyzed
	MaxSamples = 50
	// MinSamples is the number of qualifying complaints required before a bundle is produced
	MinSamples = 10

	maxCommonPhrases    = 10
	minPhraseTokens     = 3
	defaultStoreTimeout = 5 * time.Second
)

// FeedbackSource returns stored feedback records with rating >= minRating,
// ordered by rating descending, at most limit records.
type FeedbackSource interface {
	TopRated(ctx context.Context, minRating float64, limit int) ([]models.FeedbackRecord, error)
}

// TermAverage is the mean occurrence count of one legal term
type TermAverage struct {
	Term    string  `json:"term"`
	Average float64 `json:"average"`
}

// BestPracticeBundle summarizes historically well-rated complaints
type BestPracticeBundle struct {
	SampleSize        int           `json:"sample_size"`
	AverageLength     float64       `json:"average_length"`
	CommonPhrases     []string      `json:"common_phrases"`
	SectionOrder      []string      `json:"section_order"`
	LegalTermAverages []TermAverage `json:"legal_term_averages"`
	ExampleComplaint  string        `json:"example_complaint,omitempty"`
}

// Aggregator builds best-practice bundles from a feedback source.
// It keeps no state between calls; every call reads a fresh snapshot.
type Aggregator struct {
	source  FeedbackSource
	timeout time.Duration
}

// AggregatorOption is a functional option for Aggregator
type AggregatorOption func(*Aggregator)

// WithStoreTimeout bounds the feedback query. Zero disables the bound.
func WithStoreTimeout(d time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		a.timeout = d
	}
}

// NewAggregator creates a new best-practice aggregator
func NewAggregator(source FeedbackSource, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		source:  source,
		timeout: defaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BestPractices analyzes the top-rated complaints. When fewer than MinSamples
// qualify, or the store fails, it returns a nil bundle and an error wrapping
// ErrDataUnavailable; callers treat that as "no history" and use default guidance.
func (a *Aggregator) BestPractices(ctx context.Context) (*BestPracticeBundle, error) {
	if a.source == nil {
		return nil, fmt.Errorf("%w: no feedback source configured", ErrDataUnavailable)
	}

	queryCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	records, err := a.source.TopRated(queryCtx, QualifyingRating, MaxSamples)
	if err != nil {
		slog.WarnContext(ctx, "best practice query failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	qualifying := make([]models.FeedbackRecord, 0, len(records))
	for _, r := range records {
		if r.Rating >= QualifyingRating {
			qualifying = append(qualifying, r)
		}
	}

	if len(qualifying) < MinSamples {
		return nil, fmt.Errorf("%w: %d qualifying samples, need %d", ErrDataUnavailable, len(qualifying), MinSamples)
	}

	complaints := make([]string, len(qualifying))
	for i, r := range qualifying {
		complaints[i] = r.Complaint
	}

	bundle := &BestPracticeBundle{
		SampleSize:        len(complaints),
		AverageLength:     averageLength(complaints),
		CommonPhrases:     commonPhrases(complaints, maxCommonPhrases),
		SectionOrder:      dominantSectionOrder(complaints),
		LegalTermAverages: legalTermAverages(complaints),
		ExampleComplaint:  complaints[0],
	}

	slog.DebugContext(ctx, "best practices computed",
		"samples", bundle.SampleSize,
		"avg_length", bundle.AverageLength,
		"phrases", len(bundle.CommonPhrases))

	return bundle, nil
}

func averageLength(complaints []string) float64 {
	if len(complaints) == 0 {
		return 0
	}
	total := 0
	for _, c := range complaints {
		total += utf8.RuneCountInString(c)
	}
	return float64(total) / float64(len(complaints))
}

// rankedCounter counts keys and remembers first-seen order for tie breaking
type rankedCounter struct {
	counts map[string]int
	order  []string
}

func newRankedCounter() *rankedCounter {
	return &rankedCounter{counts: make(map[string]int)}
}

func (c *rankedCounter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// top returns up to n keys by descending count, ties in first-seen order
func (c *rankedCounter) top(n int) []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// commonPhrases counts sentence fragments of at least three words across all complaints
func commonPhrases(complaints []string, n int) []string {
	counter := newRankedCounter()
	for _, complaint := range complaints {
		for _, sentence := range splitSentences(complaint) {
			if len(strings.Fields(sentence)) >= minPhraseTokens {
				counter.add(sentence)
			}
		}
	}
	return counter.top(n)
}

// dominantSectionOrder returns the most frequent sequence of present section
// keywords. Complaints without any section keyword are not counted.
func dominantSectionOrder(complaints []string) []string {
	counter := newRankedCounter()
	orders := make(map[string][]string)
	for _, complaint := range complaints {
		found := presentSections(complaint)
		if len(found) == 0 {
			continue
		}
		key := strings.Join(found, "\x00")
		orders[key] = found
		counter.add(key)
	}
	top := counter.top(1)
	if len(top) == 0 {
		return []string{}
	}
	return orders[top[0]]
}

func legalTermAverages(complaints []string) []TermAverage {
	averages := make([]TermAverage, len(LegalTerms))
	for i, term := range LegalTerms {
		total := 0
		for _, c := range complaints {
			total += strings.Count(c, term)
		}
		avg := 0.0
		if len(complaints) > 0 {
			avg = float64(total) / float64(len(complaints))
		}
		averages[i] = TermAverage{Term: term, Average: avg}
	}
	return averages
}
