package pipeline

import (
	"testing"
	"time"
)

func TestOptionsIsStdin(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"-", true},
		{"flow.diag", false},
		{"./-", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := (Options{Input: tt.input}).IsStdin(); got != tt.want {
			t.Errorf("IsStdin(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestOptionsRenderOptions(t *testing.T) {
	ro := Options{Antialias: true, NoDoctype: true, Separate: true}.RenderOptions()
	if !ro.Antialias || !ro.NoDoctype {
		t.Errorf("RenderOptions() = %+v, want both switches set", ro)
	}
}

func TestStatsTotal(t *testing.T) {
	s := Stats{
		ParseTime:   time.Millisecond,
		FontMapTime: 2 * time.Millisecond,
		BuildTime:   3 * time.Millisecond,
		DrawTime:    4 * time.Millisecond,
		SaveTime:    5 * time.Millisecond,
	}
	if got := s.Total(); got != 15*time.Millisecond {
		t.Errorf("Total() = %v, want 15ms", got)
	}
}

func TestDefaultFormat(t *testing.T) {
	if DefaultFormat != FormatPNG {
		t.Errorf("DefaultFormat = %s, want PNG", DefaultFormat)
	}
}
