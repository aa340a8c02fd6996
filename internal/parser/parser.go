// Package parser turns the raw text block produced by the quiz generator
// into structured quiz data. The generator is instructed to follow a
// template (Topic/Category header, "Questions:", "Answers:", "Question
// Difficulty Levels:" sections) but nothing enforces it, so every step here
// degrades to a default instead of failing: Parse never returns an error.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/quizhippo/quiz-service/internal/models"
)

const (
	DefaultTopic      = "Untitled Quiz"
	DefaultCategory   = "General"
	DefaultDifficulty = 1
)

// ParsedQuiz is the transient result of parsing one generator response.
// It is consumed immediately to create persisted quiz records.
type ParsedQuiz struct {
	Topic      string
	Difficulty int
	Category   string
	Questions  []ParsedQuestion
}

type ParsedQuestion struct {
	// Text is the cleaned prompt; for MCQ questions the option lines are
	// stripped out of it.
	Text string
	// RawText keeps the original block as a fallback option source.
	RawText    string
	Type       models.QuestionType
	Answer     string
	Difficulty int
	// Options is populated only for MCQ questions, in source order.
	Options []string
}

var (
	topicRe    = regexp.MustCompile(`(?i)Topic:\s*(.+?)\s*\(Difficulty\s*(\d+)\)`)
	categoryRe = regexp.MustCompile(`(?i)Category:[ \t]*([^\n\r]+)`)

	questionDelimRe = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]*`)
	answerLineRe    = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]*(.+)$`)

	optionMarkerRe = regexp.MustCompile(`(?i)\([a-z]\)|[a-z]\)`)
	optionLineRe   = regexp.MustCompile(`(?i)^\s*(?:\([a-z]\)|[a-z]\))`)

	trueFalseRe = regexp.MustCompile(`(?i)True or False|True/False`)
	fillBlankRe = regexp.MustCompile(`(?i)_{3,}|blank`)

	// Three pattern families for per-question difficulty lines, tried in
	// order; they tolerate the drift seen in real generator output, e.g.
	// "Q1 → Difficulty: 3", "1. Q1 → Difficulty: 3" and "Q 1 : 3".
	difficultyRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Q\s*(\d+)\s*[^0-9]*:?(\d+)`),
		regexp.MustCompile(`(?i)(\d+)\.\s*Q\d+\s*→\s*Difficulty:\s*(\d+)`),
		regexp.MustCompile(`(?i)Q(\d+)\s*→\s*Difficulty:\s*(\d+)`),
	}
)

// sectionMarkers used to carve the response into blocks. These are the only
// parts of the template treated as required: if either "Questions:" or
// "Answers:" is missing the parse degrades to zero questions.
const (
	questionsMarker  = "Questions:"
	answersMarker    = "Answers:"
	difficultyMarker = "Question Difficulty Levels:"
)

// classifyRule maps a detector to a question type. Rules are evaluated in
// order and the first match wins, so TF beats MCQ even when a True/False
// block contains stray "(a)"-style text.
type classifyRule struct {
	qtype   models.QuestionType
	matches func(block string, options []string) bool
}

var classifyRules = []classifyRule{
	{models.TrueFalse, func(block string, _ []string) bool {
		return trueFalseRe.MatchString(block)
	}},
	{models.MultipleChoice, func(_ string, options []string) bool {
		return len(options) > 0
	}},
	{models.FillInBlank, func(block string, _ []string) bool {
		return fillBlankRe.MatchString(block)
	}},
}

// Parse converts a raw generator response into a ParsedQuiz. It is a pure
// function over its input with no I/O and no shared state, and it never
// fails. Malformed responses produce a quiz with defaults and possibly
// zero questions.
func Parse(responseText string) ParsedQuiz {
	text := strings.TrimSpace(responseText)

	quiz := ParsedQuiz{
		Topic:      DefaultTopic,
		Difficulty: DefaultDifficulty,
		Category:   DefaultCategory,
	}
	if text == "" {
		return quiz
	}

	if m := topicRe.FindStringSubmatch(text); m != nil {
		quiz.Topic = strings.TrimSpace(m[1])
		if d, err := strconv.Atoi(m[2]); err == nil {
			quiz.Difficulty = d
		}
	}
	if m := categoryRe.FindStringSubmatch(text); m != nil {
		quiz.Category = strings.TrimSpace(m[1])
	}

	questionsPart, answersPart, difficultyPart := splitSections(text)

	blocks := splitQuestionBlocks(questionsPart)
	answers := extractAnswers(answersPart)
	difficulties := extractDifficulties(difficultyPart)

	ordinal := 0
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			// blank segments are dropped, not counted: ordinals below are
			// the post-drop enumeration
			continue
		}
		ordinal++
		quiz.Questions = append(quiz.Questions, parseQuestion(block, ordinal, answers, difficulties, quiz.Difficulty))
	}

	return quiz
}

// splitSections carves the response into the questions block (strictly
// between "Questions:" and the first "Answers:"), the answers block and the
// optional per-question difficulty block. Both required markers must be
// present, in that order, otherwise all three come back empty.
func splitSections(text string) (questions, answers, difficulty string) {
	qIdx := strings.Index(text, questionsMarker)
	if qIdx < 0 {
		return "", "", ""
	}
	rest := text[qIdx+len(questionsMarker):]
	aIdx := strings.Index(rest, answersMarker)
	if aIdx < 0 {
		return "", "", ""
	}

	questions = strings.TrimSpace(rest[:aIdx])
	tail := rest[aIdx+len(answersMarker):]

	if dIdx := strings.Index(tail, difficultyMarker); dIdx >= 0 {
		difficulty = strings.TrimSpace(tail[dIdx+len(difficultyMarker):])
		tail = tail[:dIdx]
	}
	answers = strings.TrimSpace(tail)
	return questions, answers, difficulty
}

// splitQuestionBlocks splits the questions section on numbered-item lines
// ("1.", "2." ...). A delimiter at the very start produces a leading empty
// segment, which is discarded.
func splitQuestionBlocks(questionsPart string) []string {
	if questionsPart == "" {
		return nil
	}
	blocks := questionDelimRe.Split(questionsPart, -1)
	if len(blocks) > 0 && strings.TrimSpace(blocks[0]) == "" {
		blocks = blocks[1:]
	}
	return blocks
}

// extractAnswers pulls answer texts out of the answers block in the order
// found. Answers are later matched to questions purely by position (see
// answerForOrdinal). If no numbered lines are present the whole block falls
// back to one answer per non-blank line.
func extractAnswers(answersPart string) []string {
	if answersPart == "" {
		return nil
	}

	var answers []string
	for _, m := range answerLineRe.FindAllStringSubmatch(answersPart, -1) {
		answers = append(answers, strings.TrimSpace(m[1]))
	}
	if len(answers) > 0 {
		return answers
	}

	for _, line := range strings.Split(answersPart, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			answers = append(answers, line)
		}
	}
	return answers
}

// extractDifficulties builds the ordinal → difficulty table from the
// "Question Difficulty Levels:" block. Each line is tried against the
// pattern families in order; the first match wins for that line, and a
// repeated ordinal overwrites the earlier entry.
func extractDifficulties(difficultyPart string) map[int]int {
	difficulties := make(map[int]int)
	if difficultyPart == "" {
		return difficulties
	}

	for _, line := range strings.Split(difficultyPart, "\n") {
		for _, re := range difficultyRes {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			qOrd, err1 := strconv.Atoi(m[1])
			qDiff, err2 := strconv.Atoi(m[2])
			if err1 == nil && err2 == nil {
				difficulties[qOrd] = qDiff
			}
			break
		}
	}
	return difficulties
}

func parseQuestion(block string, ordinal int, answers []string, difficulties map[int]int, quizDifficulty int) ParsedQuestion {
	options := extractOptions(block)

	qtype := models.ShortAnswer
	for _, rule := range classifyRules {
		if rule.matches(block, options) {
			qtype = rule.qtype
			break
		}
	}

	q := ParsedQuestion{
		Text:       block,
		RawText:    block,
		Type:       qtype,
		Answer:     answerForOrdinal(answers, ordinal),
		Difficulty: quizDifficulty,
	}
	if qtype == models.MultipleChoice {
		q.Text = stripOptionLines(block)
		q.Options = options
	}
	if d, ok := difficulties[ordinal]; ok {
		q.Difficulty = d
	}
	return q
}

// extractOptions collects "(a) text" / "a) text" style candidates from a
// question block, in order. An option runs from its marker to the next
// marker on the same line, or to the end of the line.
func extractOptions(block string) []string {
	var options []string
	for _, line := range strings.Split(block, "\n") {
		markers := optionMarkerRe.FindAllStringIndex(line, -1)
		for i, loc := range markers {
			end := len(line)
			if i+1 < len(markers) {
				end = markers[i+1][0]
			}
			opt := strings.TrimSpace(line[loc[1]:end])
			if opt != "" {
				options = append(options, opt)
			}
		}
	}
	return options
}

// stripOptionLines removes every line that starts with an option marker and
// joins the rest with single spaces, yielding the cleaned MCQ prompt.
func stripOptionLines(block string) string {
	var kept []string
	for _, line := range strings.Split(block, "\n") {
		if optionLineRe.MatchString(line) {
			continue
		}
		kept = append(kept, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// answerForOrdinal is the positional answer join: answer i-1 belongs to
// question i. Kept as its own step so a marker-based matching strategy can
// replace it without touching the rest of the parse.
func answerForOrdinal(answers []string, ordinal int) string {
	if ordinal-1 < len(answers) {
		return strings.TrimSpace(answers[ordinal-1])
	}
	return ""
}
