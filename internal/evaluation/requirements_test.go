package evaluation

import (
	"reflect"
	"testing"
)

func TestDetermineRequired_Paradox(t *testing.T) {
	got := DetermineRequired("If a tree falls in a forest and no one hears it, does it make a sound?")
	for _, d := range got {
		if d == Definitive {
			t.Errorf("paradox question should not require Definitive, got %v", got)
		}
	}
}

func TestDetermineRequired_FreshnessTrendQuestion(t *testing.T) {
	got := DetermineRequired("What are the top AI trends in 2025?")
	want := map[DimensionType]bool{Definitive: false, Freshness: false, Plurality: false}
	for _, d := range got {
		want[d] = true
	}
	if !want[Definitive] {
		t.Errorf("expected Definitive required, got %v", got)
	}
	if !want[Freshness] {
		t.Errorf("expected Freshness required, got %v", got)
	}
	if !want[Plurality] {
		t.Errorf("expected Plurality required, got %v", got)
	}
}

func TestDetermineRequired_CompletenessBeatsPlurality(t *testing.T) {
	got := DetermineRequired("Compare the top 5 differences between Python and Go")
	hasCompleteness, hasPlurality := false, false
	for _, d := range got {
		if d == Completeness {
			hasCompleteness = true
		}
		if d == Plurality {
			hasPlurality = true
		}
	}
	if !hasCompleteness {
		t.Errorf("expected Completeness required, got %v", got)
	}
	if hasPlurality {
		t.Errorf("Completeness should take precedence over Plurality, got %v", got)
	}
}

func TestDetermineRequired_SimplePlainQuestion(t *testing.T) {
	got := DetermineRequired("What is the capital of France?")
	want := []DimensionType{Definitive}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetermineRequired = %v, want %v", got, want)
	}
}

func TestDetermineRequired_EmissionOrder(t *testing.T) {
	got := DetermineRequired("What are the current top 3 reasons for inflation in 2025?")
	order := map[DimensionType]int{}
	for i, d := range got {
		order[d] = i
	}
	if order[Definitive] > order[Freshness] {
		t.Errorf("Definitive must precede Freshness: %v", got)
	}
}

func TestIsParadox(t *testing.T) {
	cases := []struct {
		q    string
		want bool
	}{
		{"what happens before the big bang?", true},
		{"what is the sound of one hand clapping?", true},
		{"what is the population of Japan?", false},
	}
	for _, c := range cases {
		if got := IsParadox(c.q); got != c.want {
			t.Errorf("IsParadox(%q) = %v, want %v", c.q, got, c.want)
		}
	}
}

func TestRequiresCompleteness_ThreeCapitalizedEntities(t *testing.T) {
	if !RequiresCompleteness("How do Tokyo, Berlin, and Nairobi handle public transit?") {
		t.Error("expected Completeness for 3+ capitalized entities")
	}
	if RequiresCompleteness("how do cities handle public transit?") {
		t.Error("did not expect Completeness for a plain lowercase question")
	}
}
