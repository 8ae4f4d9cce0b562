package loading

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/readiz/internal/screen"
	"github.com/abhisek/readiz/internal/tutor"
)

func TestStageText(t *testing.T) {
	tests := []struct {
		stage tutor.Stage
		want  string
	}{
		{tutor.StageExtracting, "Extracting text..."},
		{tutor.StageGenerating, "AI is thinking..."},
		{tutor.StageEvaluating, "Evaluating your answers..."},
	}
	for _, tt := range tests {
		if view := New(tt.stage, "").View(80, 20); !strings.Contains(view, tt.want) {
			t.Errorf("stage %d: expected %q", tt.stage, tt.want)
		}
	}
}

func TestTickAdvancesSpinner(t *testing.T) {
	s := New(tutor.StageGenerating, "Science")
	_, cmd := s.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Error("expected the next tick")
	}
	if s.frame != 1 {
		t.Errorf("expected frame 1, got %d", s.frame)
	}
	if !strings.Contains(s.View(80, 20), "Science") {
		t.Error("expected the subject under the spinner")
	}
}

func TestEscCancels(t *testing.T) {
	_, cmd := New(tutor.StageGenerating, "").Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(screen.IntentMsg); !ok {
		t.Error("expected a cancel intent")
	}
}
