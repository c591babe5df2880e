package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"quiz-intake-service/internal/domain"
)

// QuestionStore loads the full question dataset (in-memory, Postgres,
// cached, etc).
type QuestionStore interface {
	LoadQuestions(ctx context.Context) ([]domain.QuestionRow, error)
}

// ResultStore persists graded submissions append-only.
type ResultStore interface {
	// EnsureReady initializes the store lazily before the first append.
	EnsureReady(ctx context.Context) error
	// FindByEmail returns the record for a normalized email, or nil.
	FindByEmail(ctx context.Context, email string) (*domain.ResultRecord, error)
	Append(ctx context.Context, rec domain.ResultRecord) error
}

// Locker serializes the duplicate-check-then-append critical section
// across all submissions. Acquire blocks up to timeout; the returned
// release func is safe to call more than once.
type Locker interface {
	Acquire(ctx context.Context, timeout time.Duration) (release func(), err error)
}

// Notifier delivers the result email for an accepted submission.
// Delivery is best-effort: the processor logs failures and never lets
// them affect the submission outcome.
type Notifier interface {
	Notify(ctx context.Context, rec domain.ResultRecord) error
}

// Options tune the grading and sampling rules.
type Options struct {
	EmailDomain      string
	QuestionsPerQuiz int
	PointsPerCorrect int
	PassScore        int
	LockTimeout      time.Duration
}

func (o Options) withDefaults() Options {
	if o.QuestionsPerQuiz <= 0 {
		o.QuestionsPerQuiz = 10
	}
	if o.PointsPerCorrect <= 0 {
		o.PointsPerCorrect = 2
	}
	if o.PassScore <= 0 {
		o.PassScore = 10
	}
	if o.LockTimeout <= 0 {
		o.LockTimeout = 10 * time.Second
	}
	return o
}

// Service contains the quiz-intake use cases: serving a sampled question
// set and processing submissions.
type Service struct {
	questions QuestionStore
	results   ResultStore
	lock      Locker
	notifier  Notifier
	validator *EmailValidator
	sampler   *Sampler
	opts      Options
	now       func() time.Time
}

func NewService(questions QuestionStore, results ResultStore, lock Locker, notifier Notifier, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		questions: questions,
		results:   results,
		lock:      lock,
		notifier:  notifier,
		validator: NewEmailValidator(opts.EmailDomain),
		sampler:   NewSampler(opts.QuestionsPerQuiz),
		opts:      opts,
		now:       time.Now,
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithSampler is test-only for deterministic shuffles.
func (s *Service) WithSampler(sampler *Sampler) *Service {
	s.sampler = sampler
	return s
}

// Questions samples a fresh question set for one quiz render. It never
// fails: any dataset problem is logged and degrades to an empty list so
// the caller decides how to present "no questions available".
func (s *Service) Questions(ctx context.Context) []domain.PresentedQuestion {
	rows, err := s.questions.LoadQuestions(ctx)
	if err != nil {
		log.Printf("load questions: %v", err)
		return []domain.PresentedQuestion{}
	}
	return s.sampler.Sample(rows)
}

// Submit validates, deduplicates, grades, and persists one submission.
// The whole duplicate-check-then-append sequence runs under the named
// lock so two concurrent submissions with the same email cannot both
// pass the check. Every failure mode returns a structured outcome.
func (s *Service) Submit(ctx context.Context, sub domain.Submission) domain.SubmitOutcome {
	if s.results == nil {
		return s.failure("prepare result store",
			domain.E(domain.KindConfiguration, genericSubmitError, domain.ErrStoreNotConfigured))
	}

	release, err := s.lock.Acquire(ctx, s.opts.LockTimeout)
	if err != nil {
		return s.failure("acquire submission lock",
			domain.E(domain.KindLockTimeout, "The system is busy processing submissions. Please try again.", err))
	}
	defer release()

	if err := s.results.EnsureReady(ctx); err != nil {
		return s.failure("prepare result store", domain.E(domain.KindPersistence, genericSubmitError, err))
	}

	email, err := s.validator.Validate(sub.Email)
	if err != nil {
		return outcomeFrom(err)
	}

	existing, err := s.results.FindByEmail(ctx, email)
	if err != nil {
		return s.failure("duplicate check for "+email, domain.E(domain.KindPersistence, genericSubmitError, err))
	}
	if existing != nil {
		return outcomeFrom(domain.E(domain.KindDuplicate,
			fmt.Sprintf("You already submitted the quiz on %s.", existing.SubmittedAt.Format("Jan 2, 2006 15:04:05")), nil))
	}

	rows, err := s.questions.LoadQuestions(ctx)
	if err != nil {
		return s.failure("load questions for grading", domain.E(domain.KindPersistence, genericSubmitError, err))
	}
	if len(rows) == 0 {
		log.Printf("grading aborted: %v", domain.ErrNoQuestions)
		return errorOutcome("No questions found in the database.")
	}

	if missing := MissingAnswers(sub.Answers); len(missing) > 0 {
		return errorOutcome(fmt.Sprintf("Please answer all questions. Missing answers for questions: %s", joinIndices(missing)))
	}

	key := BuildAnswerKey(rows)
	graded := make([]domain.GradedAnswer, 0, len(sub.Answers))
	score := 0
	for _, answer := range sub.Answers {
		question := Normalize(StripOrdinal(answer.Question))
		result := Grade(question, Normalize(answer.Answer), key, rows)
		graded = append(graded, result)
		if result.Correct {
			score += s.opts.PointsPerCorrect
		}
	}

	outcome := domain.OutcomeFail
	if score >= s.opts.PassScore {
		outcome = domain.OutcomePass
	}
	rec := domain.ResultRecord{
		ID:          uuid.NewString(),
		SubmittedAt: s.now(),
		Email:       email,
		Answers:     graded,
		Score:       score,
		Outcome:     outcome,
	}
	if err := s.results.Append(ctx, rec); err != nil {
		return s.failure("append result for "+email, domain.E(domain.KindPersistence, genericSubmitError, err))
	}

	// The record is durable at this point; notification cannot fail the
	// submission.
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, rec); err != nil {
			log.Printf("send result email to %s: %v", email, err)
		}
	} else {
		log.Printf("no notifier configured, skipping result email for %s", email)
	}

	return domain.SubmitOutcome{
		Status:      domain.StatusSuccess,
		Message:     "Your answers have been submitted successfully.",
		Score:       &rec.Score,
		Result:      rec.Outcome,
		SubmittedAt: rec.SubmittedAt.Format(time.RFC3339),
	}
}

const genericSubmitError = "An error occurred while processing your submission. Please try again."

func errorOutcome(message string) domain.SubmitOutcome {
	return domain.SubmitOutcome{Status: domain.StatusError, Message: message}
}

// failure logs the full tagged error (cause included) and returns its
// user-presentable outcome.
func (s *Service) failure(op string, err *domain.Error) domain.SubmitOutcome {
	log.Printf("%s: %v", op, err)
	return outcomeFrom(err)
}

// outcomeFrom maps a tagged error onto a structured outcome: duplicates
// keep their dedicated status, everything else is an error. Untagged
// errors degrade to the generic message so internals never leak.
func outcomeFrom(err error) domain.SubmitOutcome {
	status := domain.StatusError
	if domain.KindOf(err) == domain.KindDuplicate {
		status = domain.StatusDuplicate
	}
	return domain.SubmitOutcome{Status: status, Message: errMessage(err)}
}

func errMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return genericSubmitError
}

func joinIndices(indices []int) string {
	sort.Ints(indices)
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = fmt.Sprintf("%d", idx)
	}
	return strings.Join(parts, ", ")
}
