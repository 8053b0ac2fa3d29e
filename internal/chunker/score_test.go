package chunker

import (
	"strings"
	"testing"
)

func TestScore_NoOverlapIsNA(t *testing.T) {
	score, tier := Score("콘크리트 압축강도 기준", "철골 용접")
	if score != 0 {
		t.Errorf("expected score 0, got %f", score)
	}
	if tier != TierNA {
		t.Errorf("expected tier %q, got %q", TierNA, tier)
	}
}

func TestScore_EmptyQueryIsNA(t *testing.T) {
	if _, tier := Score("anything", ""); tier != TierNA {
		t.Errorf("expected tier %q for empty query, got %q", TierNA, tier)
	}
}

func TestScore_SingleHitIsLow(t *testing.T) {
	score, tier := Score("균열 폭은 허용치를 넘지 않아야 한다", "균열")
	if score != 1.0 {
		t.Errorf("expected score 1.0, got %f", score)
	}
	if tier != TierLow {
		t.Errorf("expected tier %q, got %q", TierLow, tier)
	}
}

func TestScore_RepeatsDiminish(t *testing.T) {
	// One term repeated many times converges below 2.0, so repetition
	// alone can never reach the high tier.
	unit := strings.Repeat("균열 ", 50)
	score, tier := Score(unit, "균열")
	if score >= 2.0 {
		t.Errorf("expected diminishing score below 2.0, got %f", score)
	}
	if tier == TierHigh {
		t.Errorf("repetition alone must not reach %q, got %q", TierHigh, tier)
	}
}

func TestScore_PhraseBonusReachesHigh(t *testing.T) {
	unit := "이 절은 균열 제어 설계에 적용한다. 균열 제어의 목적은 내구성 확보이다."
	score, tier := Score(unit, "균열 제어")
	if tier != TierHigh {
		t.Errorf("expected tier %q, got %q (score %f)", TierHigh, tier, score)
	}
}

func TestScore_CaseAndWidthFolding(t *testing.T) {
	score, _ := Score("Crack width shall be limited", "CRACK")
	if score != 1.0 {
		t.Errorf("expected case-folded hit, got score %f", score)
	}

	// Full-width query against half-width text.
	score, _ = Score("KDS 14 20 52 standard", "ＫＤＳ")
	if score == 0 {
		t.Errorf("expected width-folded hit, got score 0")
	}
}

func TestScore_PunctuationInsensitiveQuery(t *testing.T) {
	a, _ := Score("concrete crack control", "crack, control")
	b, _ := Score("concrete crack control", "crack control")
	if a != b {
		t.Errorf("punctuation changed the score: %f vs %f", a, b)
	}
}

func TestTierFor_WaterMarks(t *testing.T) {
	cases := []struct {
		score float64
		want  Tier
	}{
		{0, TierNA},
		{0.5, TierLow},
		{1.0, TierLow},
		{1.5, TierMedium},
		{3.9, TierMedium},
		{4.0, TierHigh},
		{10, TierHigh},
	}
	for _, c := range cases {
		if got := tierFor(c.score); got != c.want {
			t.Errorf("tierFor(%f) = %q, want %q", c.score, got, c.want)
		}
	}
}
