package quiz

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"quiz-intake-service/internal/domain"
)

// PlaceholderOption is served when a row somehow has no usable options,
// so the form never renders a question without choices.
const PlaceholderOption = "No options provided"

// Sampler selects a random subset of the question dataset for one quiz.
// Each call reshuffles independently; there is no repeat prevention
// across sessions.
type Sampler struct {
	max int

	// mu serializes access to rnd: one sampler is shared across
	// concurrent requests and *rand.Rand is not goroutine safe.
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSampler builds a sampler that serves at most max questions per call.
func NewSampler(max int) *Sampler {
	return &Sampler{
		max: max,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSamplerWithSource is test-only for deterministic shuffles.
func NewSamplerWithSource(max int, src rand.Source) *Sampler {
	return &Sampler{max: max, rnd: rand.New(src)}
}

// Sample filters valid rows, shuffles them uniformly, and shapes the
// first max rows for presentation.
func (s *Sampler) Sample(rows []domain.QuestionRow) []domain.PresentedQuestion {
	valid := make([]domain.QuestionRow, 0, len(rows))
	for _, row := range rows {
		if row.Valid() {
			valid = append(valid, row)
		}
	}

	s.mu.Lock()
	s.rnd.Shuffle(len(valid), func(i, j int) {
		valid[i], valid[j] = valid[j], valid[i]
	})
	s.mu.Unlock()
	if len(valid) > s.max {
		valid = valid[:s.max]
	}

	questions := make([]domain.PresentedQuestion, 0, len(valid))
	for _, row := range valid {
		questions = append(questions, shapeQuestion(row))
	}
	return questions
}

func shapeQuestion(row domain.QuestionRow) domain.PresentedQuestion {
	options := make([]string, 0, len(row.Options))
	for _, opt := range row.Options {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	if len(options) == 0 {
		options = []string{PlaceholderOption}
	}
	return domain.PresentedQuestion{
		Question: strings.TrimSpace(row.Text),
		Options:  options,
	}
}
