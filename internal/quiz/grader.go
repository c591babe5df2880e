package quiz

import (
	"strings"

	"quiz-intake-service/internal/domain"
)

// Grade compares a submitted answer letter against the dataset's correct
// option for the given question. Both inputs are expected normalized.
// The answer key provides a default, but the correct letter is re-derived
// from the dataset rows whenever the question is found there: duplicate
// questions that collided in the map cannot then skew the verdict.
// Comparison is case-insensitive trimmed equality; no partial credit.
func Grade(question, userAnswer string, key map[string]string, rows []domain.QuestionRow) domain.GradedAnswer {
	correct := key[question]
	for _, row := range rows {
		if Normalize(row.Text) == question {
			correct = strings.TrimSpace(row.Correct)
			break
		}
	}

	isCorrect := correct != "" && strings.EqualFold(strings.TrimSpace(userAnswer), correct)
	verdict := domain.VerdictIncorrect
	if isCorrect {
		verdict = domain.VerdictCorrect
	}
	return domain.GradedAnswer{
		Question:   question,
		UserAnswer: userAnswer,
		Verdict:    verdict,
		Correct:    isCorrect,
	}
}
