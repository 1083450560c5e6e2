package steps

import (
	"testing"

	"github.com/yungbote/adforge-backend/internal/domain"
)

func TestMergeStylesIntentOverAudienceOverPlatform(t *testing.T) {
	strategy := &domain.PlatformStrategy{
		PreferredStyles:         []string{"visual", "fun", "casual"},
		AudiencePreferredStyles: []string{"energetic", "fun"},
		IntentRequiredStyles:    []string{"concise", "bold"},
	}
	got := MergeStyles(strategy)
	want := []string{"concise", "bold", "energetic", "fun", "visual", "casual"}
	if len(got) != len(want) {
		t.Fatalf("length: want=%d got=%d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("style[%d]: want=%q got=%q", i, want[i], got[i])
		}
	}
}

func TestMergeStylesCapsAtTen(t *testing.T) {
	strategy := &domain.PlatformStrategy{
		PreferredStyles: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
		AudiencePreferredStyles: []string{"i", "j", "k"},
		IntentRequiredStyles:    []string{"l", "m"},
	}
	got := MergeStyles(strategy)
	if len(got) != 10 {
		t.Fatalf("cap: want=10 got=%d (%v)", len(got), got)
	}
	if got[0] != "l" || got[1] != "m" || got[2] != "i" {
		t.Fatalf("intent and audience styles must lead: %v", got)
	}
}

func TestMergeStylesNilStrategy(t *testing.T) {
	if got := MergeStyles(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestMergeStylesPlatformOnly(t *testing.T) {
	strategy := &domain.PlatformStrategy{PreferredStyles: []string{"professional", "educational"}}
	got := MergeStyles(strategy)
	if len(got) != 2 || got[0] != "professional" {
		t.Fatalf("got %v", got)
	}
}
