package types

type GenerateQuizRequest struct {
	DocumentID string `json:"document_id"`
	Type       string `json:"type"`
}

type SaveQuizResultRequest struct {
	DocumentID     string            `json:"document_id"`
	DocumentName   string            `json:"document_name"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	CorrectAnswers int               `json:"correct_answers"`
	Answers        map[string]string `json:"answers,omitempty"`
}

type UploadRequest struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}
