package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type UploadResponse struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name,omitempty"`
}

type DocumentStatusResponse struct {
	ID         string `json:"id"`
	Processed  bool   `json:"processed"`
	PageCount  int    `json:"page_count"`
	ChunkCount int    `json:"chunk_count"`
}

type QuizResponse struct {
	Questions []Question `json:"questions"`
}

// ProgressResponse aggregates quiz-derived statistics.
type ProgressResponse struct {
	TotalQuizzes  int          `json:"total_quizzes"`
	AverageScore  int          `json:"average_score"`
	RecentQuizzes []RecentQuiz `json:"recent_quizzes"`
	WeakTopics    []WeakTopic  `json:"weak_topics"`
}

type RecentQuiz struct {
	DocumentName string `json:"document_name"`
	Score        int    `json:"score"`
	TakenAt      int64  `json:"taken_at"`
}

type WeakTopic struct {
	Name     string `json:"name"`
	Accuracy int    `json:"accuracy"`
}

// VideoResult is a single educational video lookup result.
type VideoResult struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channel_title"`
	URL          string `json:"url"`
}
