package extract

import (
	"strings"
	"testing"
)

func TestKeywords(t *testing.T) {
	t.Run("lowercase and strip punctuation", func(t *testing.T) {
		got := Keywords("Energy, Momentum; FORCE!")
		want := []string{"energy", "momentum", "force"}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	})

	t.Run("drops short tokens and stopwords", func(t *testing.T) {
		got := Keywords("the id of an ox and the velocity")
		if len(got) != 1 || got[0] != "velocity" {
			t.Errorf("expected [velocity], got %v", got)
		}
	})

	t.Run("dedupes preserving first occurrence", func(t *testing.T) {
		got := Keywords("photon electron photon muon electron")
		want := []string{"photon", "electron", "muon"}
		if len(got) != 3 {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("expected %v, got %v", want, got)
			}
		}
	})

	t.Run("caps at thirty", func(t *testing.T) {
		var sb strings.Builder
		for i := 0; i < 50; i++ {
			sb.WriteString("token")
			sb.WriteByte(byte('a' + i%26))
			sb.WriteString("word ")
		}
		if got := Keywords(sb.String()); len(got) > KeywordCap {
			t.Errorf("expected at most %d keywords, got %d", KeywordCap, len(got))
		}
	})
}

func TestNumbers(t *testing.T) {
	got := Numbers("v = 42 m/s, a = -9.81, t = 3.5, again 42")
	want := []string{"42", "-9.81", "3.5"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestMacros(t *testing.T) {
	got := Macros(`\frac{1}{2} m v^2 + \frac{p^2}{2m} = \hbar \omega`)
	want := []string{`\frac`, `\hbar`, `\omega`}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestEnvironments(t *testing.T) {
	text := `\begin{equation}E = mc^2\end{equation}\begin{align}x\end{align}\begin{equation}y\end{equation}`
	got := Environments(text)
	if len(got) != 2 || got[0] != "equation" || got[1] != "align" {
		t.Errorf("expected [equation align], got %v", got)
	}
}

func TestSymbols(t *testing.T) {
	got := Symbols(`The sum ∑ and the integral ∫ relate to \alpha and \beta but not \frac`)
	want := map[string]bool{"∑": true, "∫": true, "alpha": true, "beta": true}
	if len(got) != len(want) {
		t.Fatalf("expected 4 symbols, got %v", got)
	}
	for _, s := range got {
		if !want[s] {
			t.Errorf("unexpected symbol %q", s)
		}
	}
}

func TestTags(t *testing.T) {
	t.Run("detectors match lowercased text", func(t *testing.T) {
		got := Tags("Newton's laws and the Lorentz transformation", "", nil)
		if len(got) != 2 || got[0] != "mechanics" || got[1] != "relativity" {
			t.Errorf("expected [mechanics relativity], got %v", got)
		}
	})

	t.Run("preset force-included without content", func(t *testing.T) {
		got := Tags("nothing thematic here at all", "modern", nil)
		if len(got) != 2 || got[0] != "quantum" || got[1] != "relativity" {
			t.Errorf("expected [quantum relativity], got %v", got)
		}
	})

	t.Run("extras unioned and capped", func(t *testing.T) {
		extra := []string{"Custom", "custom", "another"}
		got := Tags("entropy rises", "", extra)
		if len(got) != 3 {
			t.Fatalf("expected 3 tags, got %v", got)
		}
		if got[0] != "thermodynamics" || got[1] != "custom" || got[2] != "another" {
			t.Errorf("unexpected tag order: %v", got)
		}
	})

	t.Run("cap at twelve", func(t *testing.T) {
		extra := make([]string, 20)
		for i := range extra {
			extra[i] = strings.Repeat("x", i+1)
		}
		got := Tags("newton wave entropy maxwell quantum lorentz bayes tensor integral", "", extra)
		if len(got) > TagCap {
			t.Errorf("expected at most %d tags, got %d", TagCap, len(got))
		}
	})
}

func TestFeatures_OptionalFamilies(t *testing.T) {
	text := `Momentum p = mv with \gamma factor ∑`

	full := Features(text, Options{Math: true, Tags: true})
	if len(full.Macros) == 0 || len(full.Symbols) == 0 {
		t.Error("expected math features when enabled")
	}
	if len(full.Tags) == 0 {
		t.Error("expected tags when enabled")
	}

	bare := Features(text, Options{})
	if bare.Macros != nil || bare.Symbols != nil || bare.Tags != nil {
		t.Error("expected no optional families when disabled")
	}
	if len(bare.Keywords) == 0 {
		t.Error("keywords are always extracted")
	}
}
