package types

const (
	QuizTypeMCQ   = "mcq"
	QuizTypeSAQ   = "saq"
	QuizTypeMixed = "mixed"
)

// Question is a single generated quiz question. Options is only set for
// multiple-choice questions; for short-answer questions CorrectAnswer
// holds a sample answer.
type Question struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Topic         string   `json:"topic,omitempty"`
}

// QuizResult is an append-only record of a completed quiz attempt.
type QuizResult struct {
	ID             string            `bson:"_id" json:"id"`
	DocumentID     string            `bson:"document_id" json:"document_id"`
	DocumentName   string            `bson:"document_name" json:"document_name"`
	Score          int               `bson:"score" json:"score"`
	TotalQuestions int               `bson:"total_questions" json:"total_questions"`
	CorrectAnswers int               `bson:"correct_answers" json:"correct_answers"`
	Answers        map[string]string `bson:"answers,omitempty" json:"answers,omitempty"`
	TakenAt        int64             `bson:"taken_at" json:"taken_at"`
}
