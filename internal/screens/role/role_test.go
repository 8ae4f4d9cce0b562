package role

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/readiz/internal/screen"
	"github.com/abhisek/readiz/internal/tutor"
)

func choose(t *testing.T, downs int) tea.Msg {
	t.Helper()
	s := New()
	for range downs {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestSelectRoles(t *testing.T) {
	tests := []struct {
		downs int
		want  tutor.State
	}{
		{0, tutor.StateStudentDashboard},
		{1, tutor.StateInstructorDashboard},
	}
	for _, tt := range tests {
		intent, ok := choose(t, tt.downs).(screen.IntentMsg)
		if !ok {
			t.Fatalf("expected an intent for item %d", tt.downs)
		}
		m := tutor.New(tutor.Deps{})
		if _, err := intent.Apply(m); err != nil {
			t.Fatal(err)
		}
		if m.State() != tt.want {
			t.Errorf("item %d: expected %s, got %s", tt.downs, tt.want, m.State())
		}
	}
}

func TestQuit(t *testing.T) {
	if _, ok := choose(t, 2).(tea.QuitMsg); !ok {
		t.Error("expected the last item to quit")
	}
}
