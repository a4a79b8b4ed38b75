package viva

import (
	"errors"

	"github.com/google/uuid"
)

const NoQuestionsMessage = "No questions could be generated."

var (
	// ErrNoQuestions means the model returned a well-formed but empty list.
	ErrNoQuestions = errors.New("model returned no questions")

	ErrInvalidEncoding = errors.New("file is not valid UTF-8 text")
)

// QuestionSet is the structured output requested from the model.
type QuestionSet struct {
	Questions []string `json:"questions" jsonschema:"description=Viva questions as plain strings covering easy then medium then hard difficulty"`
}

// Result is the outcome of one generation attempt. Err is nil exactly when
// Questions is non-empty.
type Result struct {
	ID        uuid.UUID
	Questions []string
	Err       error
}

func (r Result) OK() bool {
	return r.Err == nil && len(r.Questions) > 0
}

// Selection is what the service hands back to the handler.
type Selection struct {
	Question string
	Result   Result
}

func (s Selection) Found() bool {
	return s.Result.OK()
}

type AnswerResponse struct {
	SelectedQuestion string `json:"selected_question"`
}

type NoQuestionsResponse struct {
	Error string `json:"error"`
}
