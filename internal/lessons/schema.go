package lessons

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrMalformedQuiz is returned when a model answer holds no usable quiz.
var ErrMalformedQuiz = errors.New("malformed quiz")

// quizObject matches from the first '{' to the last '}' so that prose or
// code fences around the object are ignored.
var quizObject = regexp.MustCompile(`(?s)\{.*\}`)

const quizSchemaURL = "schema://quiz.json"

var quizSchemaDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"options": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string", "minLength": 1},
			"minItems": QuizOptions,
			"maxItems": QuizOptions,
		},
		"correctIndex": map[string]any{
			"type":    "integer",
			"minimum": 0,
			"maximum": QuizOptions - 1,
		},
	},
	"required": []any{"question", "options", "correctIndex"},
}

var (
	quizSchemaOnce sync.Once
	quizSchema     *jsonschema.Schema
	quizSchemaErr  error
)

// compiledQuizSchema compiles the quiz schema once.
func compiledQuizSchema() (*jsonschema.Schema, error) {
	quizSchemaOnce.Do(func() {
		// The compiler wants a decoded JSON value, not Go ints.
		raw, err := json.Marshal(quizSchemaDefinition)
		if err != nil {
			quizSchemaErr = err
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			quizSchemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(quizSchemaURL, doc); err != nil {
			quizSchemaErr = fmt.Errorf("add quiz schema: %w", err)
			return
		}
		quizSchema, quizSchemaErr = c.Compile(quizSchemaURL)
	})
	return quizSchema, quizSchemaErr
}

// ParseQuiz extracts the quiz object from a model answer and validates it.
// Every failure wraps ErrMalformedQuiz.
func ParseQuiz(text string) (*Quiz, error) {
	block := quizObject.FindString(text)
	if block == "" {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedQuiz)
	}

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(block))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedQuiz, err)
	}
	schema, err := compiledQuizSchema()
	if err != nil {
		return nil, fmt.Errorf("compile quiz schema: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedQuiz, err)
	}

	var q Quiz
	if err := json.Unmarshal([]byte(block), &q); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedQuiz, err)
	}
	return &q, nil
}
