// options_test.go - Tests for command-line parsing

package main

import (
	"errors"
	"testing"
)

// TestOptions_Defaults checks the zero-argument baseline.
func TestOptions_Defaults(t *testing.T) {
	o := NewOptions()
	if err := o.Parse([]string{"hymn125"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if o.FileName() != "hymn125" {
		t.Errorf("expected filename hymn125, got %q", o.FileName())
	}
	if o.Verses() != 0 {
		t.Errorf("verses should stay unset, got %d", o.Verses())
	}
	if !o.IsPlayIntro() {
		t.Error("intro should default on")
	}
	if o.Speed() != 1.0 {
		t.Errorf("speed should default to 1.0, got %f", o.Speed())
	}
}

// TestOptions_VersesWithIntro checks -n keeps the introduction.
func TestOptions_VersesWithIntro(t *testing.T) {
	o := NewOptions()
	if err := o.Parse([]string{"-n", "3", "hymn125"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.Verses() != 3 || !o.IsPlayIntro() {
		t.Errorf("expected 3 verses with intro, got %d intro=%v", o.Verses(), o.IsPlayIntro())
	}
}

// TestOptions_VersesWithoutIntro checks -x suppresses the introduction.
func TestOptions_VersesWithoutIntro(t *testing.T) {
	o := NewOptions()
	if err := o.Parse([]string{"-x", "2", "hymn125"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.Verses() != 2 || o.IsPlayIntro() {
		t.Errorf("expected 2 verses without intro, got %d intro=%v", o.Verses(), o.IsPlayIntro())
	}
}

// TestOptions_Prelude checks prelude mode defaults and speed handling.
func TestOptions_Prelude(t *testing.T) {
	t.Run("bare flag", func(t *testing.T) {
		o := NewOptions()
		if err := o.Parse([]string{"--prelude", "hymn125"}); err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if !o.IsPrePost() || o.IsPlayIntro() {
			t.Error("prelude mode should set prePost and disable the intro")
		}
		if o.Verses() != 2 {
			t.Errorf("prelude plays 2 verses by default, got %d", o.Verses())
		}
		if o.Speed() != defaultPreludeSpeed {
			t.Errorf("expected default prelude speed %f, got %f", defaultPreludeSpeed, o.Speed())
		}
	})

	t.Run("explicit speed", func(t *testing.T) {
		o := NewOptions()
		if err := o.Parse([]string{"-prelude=12", "hymn125"}); err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if o.Speed() != 1.2 {
			t.Errorf("expected speed 1.2, got %f", o.Speed())
		}
	})

	t.Run("out of range speed", func(t *testing.T) {
		o := NewOptions()
		if err := o.Parse([]string{"-prelude=40", "hymn125"}); err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if o.Speed() != 1.0 {
			t.Errorf("out-of-range speed should fall back to 1.0, got %f", o.Speed())
		}
	})
}

// TestOptions_AttachedValues checks the getopt-style attached forms the
// usage text advertises: -n3, -x2, -t90, -p9.
func TestOptions_AttachedValues(t *testing.T) {
	t.Run("-n3", func(t *testing.T) {
		o := NewOptions()
		if err := o.Parse([]string{"-n3", "hymn125"}); err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if o.Verses() != 3 || !o.IsPlayIntro() {
			t.Errorf("expected 3 verses with intro, got %d intro=%v", o.Verses(), o.IsPlayIntro())
		}
	})

	t.Run("-x2", func(t *testing.T) {
		o := NewOptions()
		if err := o.Parse([]string{"-x2", "hymn125"}); err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if o.Verses() != 2 || o.IsPlayIntro() {
			t.Errorf("expected 2 verses without intro, got %d intro=%v", o.Verses(), o.IsPlayIntro())
		}
	})

	t.Run("-t90", func(t *testing.T) {
		o := NewOptions()
		if err := o.Parse([]string{"-t90", "hymn125"}); err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if o.BPM() != 90 {
			t.Errorf("expected bpm 90, got %d", o.BPM())
		}
	})

	t.Run("-p9", func(t *testing.T) {
		o := NewOptions()
		if err := o.Parse([]string{"-p9", "hymn125"}); err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if !o.IsPrePost() || o.Speed() != 0.9 {
			t.Errorf("expected prelude at speed 0.9, got prePost=%v speed=%f", o.IsPrePost(), o.Speed())
		}
	})

	t.Run("non-flag positional untouched", func(t *testing.T) {
		o := NewOptions()
		if err := o.Parse([]string{"-n2", "n3"}); err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if o.FileName() != "n3" {
			t.Errorf("positional argument should not be rewritten, got %q", o.FileName())
		}
	})
}

// TestOptions_Tempo checks the bpm to microseconds conversion.
func TestOptions_Tempo(t *testing.T) {
	o := NewOptions()
	if err := o.Parse([]string{"-tempo=90", "hymn125"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.BPM() != 90 {
		t.Errorf("expected bpm 90, got %d", o.BPM())
	}
	if o.UsecPerBeat() != microsecondsPerMinute/90 {
		t.Errorf("expected %d usec per beat, got %d", microsecondsPerMinute/90, o.UsecPerBeat())
	}
}

// TestOptions_InvalidTempo checks a non-numeric tempo is rejected.
func TestOptions_InvalidTempo(t *testing.T) {
	o := NewOptions()
	if err := o.Parse([]string{"-tempo=fast", "hymn125"}); err == nil {
		t.Error("non-numeric tempo should fail to parse")
	}
}

// TestOptions_MissingFilename checks the positional argument is required.
func TestOptions_MissingFilename(t *testing.T) {
	o := NewOptions()
	if err := o.Parse([]string{"-V"}); err == nil {
		t.Error("missing filename should be an error")
	}
}

// TestOptions_URLName checks the optional second positional argument.
func TestOptions_URLName(t *testing.T) {
	o := NewOptions()
	if err := o.Parse([]string{"hymn125", "https://hymnal.example/125"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.URLName() != "https://hymnal.example/125" {
		t.Errorf("unexpected url name %q", o.URLName())
	}
}

// TestOptions_Version checks -v short-circuits with the sentinel error.
func TestOptions_Version(t *testing.T) {
	o := NewOptions()
	err := o.Parse([]string{"-v"})
	if !errors.Is(err, errVersionRequested) {
		t.Errorf("expected errVersionRequested, got %v", err)
	}
}

// TestSemanticVersion checks version extraction from tag-like strings.
func TestSemanticVersion(t *testing.T) {
	if v := semanticVersion(); v != "1.1.3" {
		t.Errorf("expected 1.1.3, got %q", v)
	}
}
