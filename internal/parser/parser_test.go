package parser

import (
	"testing"

	"github.com/quizhippo/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormedResponse = `Topic: Capitals (Difficulty 2)
Category: Geography

Questions:
1. What is the capital of France? (a) Paris (b) Lyon
2. The sky is blue. True or False?

Answers:
1. Paris
2. True

Question Difficulty Levels:
1. Q1 → Difficulty: 2
2. Q2 → Difficulty: 1
`

func TestParse_WellFormedResponse(t *testing.T) {
	quiz := Parse(wellFormedResponse)

	assert.Equal(t, "Capitals", quiz.Topic)
	assert.Equal(t, 2, quiz.Difficulty)
	assert.Equal(t, "Geography", quiz.Category)
	require.Len(t, quiz.Questions, 2)

	q1 := quiz.Questions[0]
	assert.Equal(t, models.MultipleChoice, q1.Type)
	assert.Equal(t, []string{"Paris", "Lyon"}, q1.Options)
	assert.Equal(t, "Paris", q1.Answer)
	assert.Equal(t, 2, q1.Difficulty)
	assert.NotEmpty(t, q1.Text)

	q2 := quiz.Questions[1]
	assert.Equal(t, models.TrueFalse, q2.Type)
	assert.Equal(t, "True", q2.Answer)
	assert.Equal(t, 1, q2.Difficulty)
	assert.Empty(t, q2.Options)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t\n"} {
		quiz := Parse(input)
		assert.Equal(t, DefaultTopic, quiz.Topic)
		assert.Equal(t, DefaultDifficulty, quiz.Difficulty)
		assert.Equal(t, DefaultCategory, quiz.Category)
		assert.Empty(t, quiz.Questions)
	}
}

func TestParse_Idempotent(t *testing.T) {
	first := Parse(wellFormedResponse)
	second := Parse(wellFormedResponse)
	assert.Equal(t, first, second)
}

func TestParse_MissingSectionMarkers(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "no answers marker",
			input: "Topic: Math (Difficulty 3)\n\nQuestions:\n1. What is 2+2?\n",
		},
		{
			name:  "no questions marker",
			input: "Topic: Math (Difficulty 3)\n\nAnswers:\n1. 4\n",
		},
		{
			name:  "markers in wrong order",
			input: "Topic: Math (Difficulty 3)\n\nAnswers:\n1. 4\n\nQuestions:\n1. What is 2+2?\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := Parse(tt.input)
			assert.Empty(t, quiz.Questions)
			assert.Equal(t, "Math", quiz.Topic)
			assert.Equal(t, 3, quiz.Difficulty)
		})
	}
}

func TestParse_HeaderDefaults(t *testing.T) {
	quiz := Parse("Questions:\n1. Name the largest ocean.\n\nAnswers:\n1. Pacific\n")

	assert.Equal(t, DefaultTopic, quiz.Topic)
	assert.Equal(t, DefaultDifficulty, quiz.Difficulty)
	assert.Equal(t, DefaultCategory, quiz.Category)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "Pacific", quiz.Questions[0].Answer)
}

func TestParse_Classification(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		expected models.QuestionType
	}{
		{
			name:     "true/false beats option markers",
			block:    "Is this True or False? (a) foo (b) bar",
			expected: models.TrueFalse,
		},
		{
			name:     "slash variant of true/false",
			block:    "The moon is made of cheese. True/False",
			expected: models.TrueFalse,
		},
		{
			name:     "option lines make an MCQ",
			block:    "Which city is a capital?\n(a) Paris\n(b) London",
			expected: models.MultipleChoice,
		},
		{
			name:     "underscores make a fill-in-the-blank",
			block:    "The capital of Italy is ____.",
			expected: models.FillInBlank,
		},
		{
			name:     "blank keyword makes a fill-in-the-blank",
			block:    "Fill in the blank: water boils at 100 degrees.",
			expected: models.FillInBlank,
		},
		{
			name:     "no markers means short answer",
			block:    "Explain photosynthesis in one sentence.",
			expected: models.ShortAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "Questions:\n1. " + tt.block + "\n\nAnswers:\n1. x\n"
			quiz := Parse(input)
			require.Len(t, quiz.Questions, 1)
			assert.Equal(t, tt.expected, quiz.Questions[0].Type)
		})
	}
}

func TestParse_MCQOptionExtraction(t *testing.T) {
	input := "Questions:\n1. Which city is a capital?\n(a) Paris\n(b) London\n\nAnswers:\n1. Paris\n"
	quiz := Parse(input)

	require.Len(t, quiz.Questions, 1)
	q := quiz.Questions[0]
	assert.Equal(t, models.MultipleChoice, q.Type)
	assert.Equal(t, []string{"Paris", "London"}, q.Options)
	assert.Equal(t, "Which city is a capital?", q.Text)
	assert.NotContains(t, q.Text, "Paris")
	assert.Contains(t, q.RawText, "(a) Paris")
}

func TestParse_MCQInlineOptions(t *testing.T) {
	quiz := Parse(wellFormedResponse)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, []string{"Paris", "Lyon"}, quiz.Questions[0].Options)
}

func TestParse_BareParenStyleOptions(t *testing.T) {
	input := "Questions:\n1. Pick one:\na) red\nb) blue\n\nAnswers:\n1. red\n"
	quiz := Parse(input)

	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, models.MultipleChoice, quiz.Questions[0].Type)
	assert.Equal(t, []string{"red", "blue"}, quiz.Questions[0].Options)
	assert.Equal(t, "Pick one:", quiz.Questions[0].Text)
}

func TestParse_PositionalAnswerMatching(t *testing.T) {
	input := "Questions:\n1. First question?\n2. Second question?\n3. Third question?\n\nAnswers:\n1. Paris\n2. True\n"
	quiz := Parse(input)

	require.Len(t, quiz.Questions, 3)
	assert.Equal(t, "Paris", quiz.Questions[0].Answer)
	assert.Equal(t, "True", quiz.Questions[1].Answer)
	// answer key ran out of entries
	assert.Equal(t, "", quiz.Questions[2].Answer)
}

func TestParse_AnswerFallbackToPlainLines(t *testing.T) {
	input := "Questions:\n1. First question?\n2. Second question?\n\nAnswers:\nParis\nTrue\n"
	quiz := Parse(input)

	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, "Paris", quiz.Questions[0].Answer)
	assert.Equal(t, "True", quiz.Questions[1].Answer)
}

func TestParse_PerQuestionDifficulties(t *testing.T) {
	input := `Topic: Rivers (Difficulty 4)

Questions:
1. First question?
2. Second question?
3. Third question?

Answers:
1. a
2. b
3. c

Question Difficulty Levels:
1. Q1 → Difficulty: 3
2. Q2 → Difficulty: 5
`
	quiz := Parse(input)

	require.Len(t, quiz.Questions, 3)
	assert.Equal(t, 3, quiz.Questions[0].Difficulty)
	assert.Equal(t, 5, quiz.Questions[1].Difficulty)
	// no table entry: falls back to the quiz-level difficulty
	assert.Equal(t, 4, quiz.Questions[2].Difficulty)
}

func TestParse_DifficultyPatternVariants(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"arrow form", "Q1 → Difficulty: 3"},
		{"numbered arrow form", "1. Q1 → Difficulty: 3"},
		{"terse colon form", "Q 1 : 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "Questions:\n1. A question?\n\nAnswers:\n1. yes\n\nQuestion Difficulty Levels:\n" + tt.line + "\n"
			quiz := Parse(input)
			require.Len(t, quiz.Questions, 1)
			assert.Equal(t, 3, quiz.Questions[0].Difficulty)
		})
	}
}

func TestParse_DuplicateDifficultyOrdinalLastWins(t *testing.T) {
	input := "Questions:\n1. A question?\n\nAnswers:\n1. yes\n\nQuestion Difficulty Levels:\nQ1 → Difficulty: 2\nQ1 → Difficulty: 5\n"
	quiz := Parse(input)

	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, 5, quiz.Questions[0].Difficulty)
}

func TestParse_BlankSegmentsDropped(t *testing.T) {
	input := "Questions:\n1. \n2. Real question?\n\nAnswers:\n1. yes\n"
	quiz := Parse(input)

	// the blank segment is not counted: the surviving question is ordinal 1
	// and picks up the first answer
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "Real question?", quiz.Questions[0].Text)
	assert.Equal(t, "yes", quiz.Questions[0].Answer)
}

func TestParse_CaseInsensitiveMarkers(t *testing.T) {
	input := "topic: Space (difficulty 3)\ncategory: Science\n\nQuestions:\n1. TRUE OR FALSE: Mars is a planet.\n\nAnswers:\n1. True\n"
	quiz := Parse(input)

	assert.Equal(t, "Space", quiz.Topic)
	assert.Equal(t, 3, quiz.Difficulty)
	assert.Equal(t, "Science", quiz.Category)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, models.TrueFalse, quiz.Questions[0].Type)
}

func TestParse_MultiLineQuestionBlock(t *testing.T) {
	input := "Questions:\n1. Read the passage below.\nWhat does it describe?\n\nAnswers:\n1. Rain\n"
	quiz := Parse(input)

	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, models.ShortAnswer, quiz.Questions[0].Type)
	assert.Contains(t, quiz.Questions[0].Text, "What does it describe?")
}

func TestParse_RecoversAllQuestionsInOrder(t *testing.T) {
	input := `Topic: Mixed Bag (Difficulty 1)
Category: Trivia

Questions:
1. Short one?
2. True or False: two is even.
3. Pick: (a) cat (b) dog
4. The answer is ____.
5. Another short one?

Answers:
1. one
2. True
3. cat
4. blankword
5. five
`
	quiz := Parse(input)

	require.Len(t, quiz.Questions, 5)
	types := []models.QuestionType{
		models.ShortAnswer,
		models.TrueFalse,
		models.MultipleChoice,
		models.FillInBlank,
		models.ShortAnswer,
	}
	answers := []string{"one", "True", "cat", "blankword", "five"}
	for i, q := range quiz.Questions {
		assert.Equal(t, types[i], q.Type, "question %d", i+1)
		assert.Equal(t, answers[i], q.Answer, "question %d", i+1)
		assert.NotEmpty(t, q.Text, "question %d", i+1)
		assert.Equal(t, 1, q.Difficulty, "question %d", i+1)
	}
}
