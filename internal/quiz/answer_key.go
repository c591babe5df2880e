package quiz

import "quiz-intake-service/internal/domain"

// BuildAnswerKey maps normalized question text to the normalized correct
// option letter. Rows missing either field are skipped. Two questions that
// normalize to the same text resolve last-write-wins; the grader rescans
// the dataset at comparison time, so the map is a lookup plan rather than
// the source of truth.
func BuildAnswerKey(rows []domain.QuestionRow) map[string]string {
	key := make(map[string]string, len(rows))
	for _, row := range rows {
		question := Normalize(row.Text)
		correct := Normalize(row.Correct)
		if question == "" || correct == "" {
			continue
		}
		key[question] = correct
	}
	return key
}
