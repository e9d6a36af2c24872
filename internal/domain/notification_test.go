package domain_test

import (
	"testing"

	"github.com/dealsight/dealsight/internal/domain"
)

func TestParseLogStatus_ValidValues(t *testing.T) {
	valid := []string{"pending", "processing", "sent", "failed", "skipped"}
	for _, s := range valid {
		got, err := domain.ParseLogStatus(s)
		if err != nil {
			t.Errorf("ParseLogStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseLogStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseLogStatus_InvalidValue(t *testing.T) {
	if _, err := domain.ParseLogStatus("delivered"); err == nil {
		t.Error("ParseLogStatus(\"delivered\") expected error, got nil")
	}
	if _, err := domain.ParseLogStatus(""); err == nil {
		t.Error("ParseLogStatus(\"\") expected error, got nil")
	}
}

func TestCanTransition_ValidForward(t *testing.T) {
	cases := []struct {
		from domain.LogStatus
		to   domain.LogStatus
	}{
		{domain.StatusPending, domain.StatusProcessing},
		{domain.StatusProcessing, domain.StatusSent},
		{domain.StatusProcessing, domain.StatusFailed},
		{domain.StatusProcessing, domain.StatusSkipped},
	}
	for _, c := range cases {
		if !domain.CanTransition(c.from, c.to) {
			t.Errorf("CanTransition(%s → %s) should be true", c.from, c.to)
		}
	}
}

func TestCanTransition_PendingCannotFinalizeDirectly(t *testing.T) {
	for _, to := range []domain.LogStatus{domain.StatusSent, domain.StatusFailed, domain.StatusSkipped} {
		if domain.CanTransition(domain.StatusPending, to) {
			t.Errorf("CanTransition(pending → %s) should be false", to)
		}
	}
}

// Once a log reaches a terminal state it must never revisit pending or
// processing, or any other state.
func TestCanTransition_TerminalStatesHaveNoExits(t *testing.T) {
	terminals := []domain.LogStatus{domain.StatusSent, domain.StatusFailed, domain.StatusSkipped}
	all := []domain.LogStatus{
		domain.StatusPending,
		domain.StatusProcessing,
		domain.StatusSent,
		domain.StatusFailed,
		domain.StatusSkipped,
	}
	for _, from := range terminals {
		for _, to := range all {
			if domain.CanTransition(from, to) {
				t.Errorf("CanTransition(%s → %s) should be false", from, to)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	cases := map[domain.LogStatus]bool{
		domain.StatusPending:    false,
		domain.StatusProcessing: false,
		domain.StatusSent:       true,
		domain.StatusFailed:     true,
		domain.StatusSkipped:    true,
	}
	for status, want := range cases {
		if got := status.IsTerminal(); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", status, got, want)
		}
	}
}
