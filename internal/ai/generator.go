package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/quizhippo/quiz-service/internal/models"
)

// generatorSystemPrompt instructs the model to emit the template the parser
// understands. The format is a generation target, not a schema: the parser
// must tolerate drift from it.
const generatorSystemPrompt = `You are a helpful agent that creates quizzes.

Rules:
- Always include a **Category** line at the start that best describes the topic (e.g., Science, History, Geography, Sports, Literature, etc.).
- You generate quizzes when the user requests it (e.g., "make a quiz on history").
- You can create questions in the language the user specifies.
- You must generate **5 questions** unless the user specifies otherwise.
- Question types can be:
  - Short question & answer
  - True/False
  - Multiple choice questions
  - Fill in the blanks
- If the user requests a **mix**, you should include different types (some short questions, some fill-in-the-blanks, some true/false, some multiple choice questions).
- The user will specify a **difficulty level** from 1 to 5:
  - 1 = very easy
  - 2 = easy
  - 3 = medium
  - 4 = hard
  - 5 = very hard
- Adjust the complexity of the questions according to the given difficulty.
- At the end of the response, clearly list the **difficulty level of each question** (on the 1-5 scale).
- Always provide the **answers at the end** in a well-structured format.
- Do not write the whole response in one line; use proper formatting with line breaks.

Format:
Topic: <topic> (Difficulty <level>)
Category: <category>

Questions:
1. <Question>
2. <Question>
...

Answers:
1. <Answer>
2. <Answer>

Question Difficulty Levels:
1. Q1 → Difficulty: X
2. Q2 → Difficulty: X
...`

// GenerateParams describes one quiz-generation request to the model.
type GenerateParams struct {
	Topic        string
	Language     string
	Category     string
	NumQuestions int
	Difficulty   int
	QuestionType models.QuestionPreference
	// Content is the source material resolved by the content package: a
	// prompt, fetched page text, extracted document text, or empty to fall
	// back to the topic.
	Content string
}

// Generator produces the raw quiz text that the parser consumes.
type Generator struct {
	client Client
}

func NewGenerator(client Client) *Generator {
	return &Generator{client: client}
}

// GenerateQuizText returns one opaque text block. Callers must not assume
// it follows the template; that tolerance belongs to the parser.
func (g *Generator) GenerateQuizText(ctx context.Context, params GenerateParams) (string, error) {
	baseText := params.Content
	if baseText == "" {
		baseText = params.Topic
	}

	user := fmt.Sprintf(
		"Make a quiz based on the following content:\n\n%s\n\n"+
			"Language: %s\nCategory: %s\nNumber of questions: %d\nDifficulty level: %d\nQuestion type: %s\n",
		baseText, params.Language, params.Category, params.NumQuestions, params.Difficulty, params.QuestionType,
	)

	return g.client.Generate(ctx, generatorSystemPrompt+"\n\n"+user)
}

// judgeSystemPrompt asks for a bare boolean so the reply can be compared
// literally.
const judgeSystemPrompt = `You are a helpful assistant that checks short answers.
- Compare the user's answer with the correct answer.
- Be lenient with minor spelling mistakes or synonyms.
- Return True if the answer is correct, otherwise return False.`

// Judge performs the lenient short-answer comparison.
type Judge struct {
	client Client
}

func NewJudge(client Client) *Judge {
	return &Judge{client: client}
}

func (j *Judge) JudgeShortAnswer(ctx context.Context, submitted, canonical string) (bool, error) {
	user := fmt.Sprintf("User's answer: %s\nCorrect answer: %s\nIs the user's answer correct?", submitted, canonical)

	reply, err := j.client.Generate(ctx, judgeSystemPrompt+"\n\n"+user)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(reply), "true"), nil
}
