package lessons

// Question types understood by the session controller.
const (
	TypeMultipleChoice = "multiple-choice"
	TypeFillInBlank    = "fill-in-the-blank"
)

// Answer is one candidate answer. Fill-in-the-blank questions may carry
// several correct answers (accepted spellings).
type Answer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question is a single quiz question within a part.
type Question struct {
	Type        string   `json:"type"`
	Text        string   `json:"questionText"`
	Answers     []Answer `json:"answers"`
	Explanation string   `json:"explanation"`
}

// CorrectIndex returns the index of the first correct answer, or -1 if
// none is marked correct.
func (q Question) CorrectIndex() int {
	for i, a := range q.Answers {
		if a.Correct {
			return i
		}
	}
	return -1
}

// Part is a titled group of questions. Lessons delivered as a flat
// question list are normalized into a single part at decode time.
type Part struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Lesson is a playable unit of cultural-learning content.
type Lesson struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Parts []Part `json:"parts"`
}

// QuestionCount returns the total number of questions across all parts.
func (l Lesson) QuestionCount() int {
	n := 0
	for _, p := range l.Parts {
		n += len(p.Questions)
	}
	return n
}
