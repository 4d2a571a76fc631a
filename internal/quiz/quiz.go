package quiz

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/jellydator/validation"
	"gopkg.in/yaml.v3"
)

// Question content is injected configuration, not core logic. The embedded
// set below is the fallback when no QUESTIONS_FILE is configured.
//
//go:embed questions.yaml
var defaultQuestionsYAML []byte

type Question struct {
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correctAnswer" yaml:"correctAnswer"`
}

func (q Question) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Question, validation.Required),
		validation.Field(&q.Options, validation.Required, validation.Length(4, 4)),
		validation.Field(&q.CorrectAnswer, validation.Required, validation.By(q.answerInOptions)),
	)
}

func (q Question) answerInOptions(value any) error {
	answer, _ := value.(string)
	for _, option := range q.Options {
		if option == answer {
			return nil
		}
	}
	return fmt.Errorf("correct answer %q is not one of the options", answer)
}

// Bank holds the validated question set served to clients.
type Bank struct {
	questions []Question
}

func NewBank(questions []Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("question set is empty")
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return &Bank{questions: questions}, nil
}

// LoadFile reads a YAML question set from disk.
func LoadFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	return parse(data)
}

// Default returns the embedded question set. The embedded data is static
// and covered by tests, so a parse failure here is a build defect.
func Default() []Question {
	questions, err := parse(defaultQuestionsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded question set is invalid: %v", err))
	}
	return questions
}

func parse(data []byte) ([]Question, error) {
	var questions []Question
	if err := yaml.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return questions, nil
}

// Questions returns a copy so callers cannot mutate the bank.
func (b *Bank) Questions() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// Score counts ordered exact matches against the correct answers.
func (b *Bank) Score(answers []string) int {
	score := 0
	for i, q := range b.questions {
		if i >= len(answers) {
			break
		}
		if answers[i] == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Len reports the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.questions)
}
