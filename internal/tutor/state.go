package tutor

import "github.com/abhisek/readiz/internal/reading"

// State is the screen the application is on.
type State int

const (
	StateRoleSelection State = iota
	StateStudentDashboard
	StateInstructorDashboard
	StateLoading
	StateReadingSession
	StateResults
	StateError
)

func (s State) String() string {
	switch s {
	case StateRoleSelection:
		return "role-selection"
	case StateStudentDashboard:
		return "student-dashboard"
	case StateInstructorDashboard:
		return "instructor-dashboard"
	case StateLoading:
		return "loading"
	case StateReadingSession:
		return "reading-session"
	case StateResults:
		return "results"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Role is who is using the app.
type Role int

const (
	RoleNone Role = iota
	RoleStudent
	RoleInstructor
)

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleInstructor:
		return "instructor"
	default:
		return "none"
	}
}

// Stage describes what a Loading state is waiting on.
type Stage int

const (
	StageNone Stage = iota
	StageExtracting
	StageGenerating
	StageEvaluating
)

// Text is the line shown under the spinner.
func (s Stage) Text() string {
	switch s {
	case StageExtracting:
		return "Extracting text..."
	case StageEvaluating:
		return "Evaluating your answers..."
	default:
		return "AI is thinking..."
	}
}

// Topics are the built-in subjects a student can read about.
var Topics = []string{"Environment", "Technology", "History", "Science"}

// User-facing failure messages, one per error category.
const (
	MsgGenerationFailed = "Sorry, we couldn't generate a reading session. Please try again."
	MsgEvaluationFailed = "There was an issue evaluating your answers. Please try submitting again."
	MsgURLUnreadable    = "Could not extract readable text from the URL. Please check the link or try another article."
	MsgFileUnreadable   = "Could not read the file. It may be corrupted, image-only, or unreadable. Please try another file."
	MsgTextTooShort     = "The provided text is too short. Please provide at least 50 characters of reading material."
)

// Snapshot is a read-only copy of the machine for rendering.
type Snapshot struct {
	State         State
	Role          Role
	Stage         Stage
	Session       *reading.SessionData
	Answers       reading.UserAnswers
	QuestionIndex int
	Result        *reading.EvaluationResult
	Material      *reading.ReadingMaterial
	Topic         string
	ErrorMessage  string
}

// CurrentQuestion returns the question at QuestionIndex.
func (s Snapshot) CurrentQuestion() (reading.Question, bool) {
	if s.Session == nil || s.QuestionIndex < 0 || s.QuestionIndex >= len(s.Session.Questions) {
		return reading.Question{}, false
	}
	return s.Session.Questions[s.QuestionIndex], true
}

// IsLastQuestion reports whether QuestionIndex is the final question.
func (s Snapshot) IsLastQuestion() bool {
	return s.Session != nil && s.QuestionIndex == len(s.Session.Questions)-1
}

// CanSubmit reports whether every question has an answer.
func (s Snapshot) CanSubmit() bool {
	return s.Session != nil && s.Answers.Covers(s.Session.Questions)
}

// SessionTitle names what the student is reading: the material title or
// the topic.
func (s Snapshot) SessionTitle() string {
	if s.Material != nil {
		return s.Material.Title
	}
	return s.Topic
}
