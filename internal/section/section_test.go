package section

import (
	"strings"
	"testing"
)

func checkPartition(t *testing.T, content string, secs []Section) {
	t.Helper()
	if len(secs) == 0 {
		t.Fatal("document indexed to zero sections")
	}
	if secs[0].StartOffset != 0 {
		t.Errorf("first section starts at %d, want 0", secs[0].StartOffset)
	}
	if last := secs[len(secs)-1]; last.EndOffset != len(content) {
		t.Errorf("last section ends at %d, want %d", last.EndOffset, len(content))
	}
	for i, s := range secs {
		if s.Index != i {
			t.Errorf("section %d has index %d", i, s.Index)
		}
		if s.EndOffset < s.StartOffset {
			t.Errorf("section %d has inverted range [%d, %d)", i, s.StartOffset, s.EndOffset)
		}
		if i > 0 && s.StartOffset != secs[i-1].EndOffset {
			t.Errorf("gap before section %d: previous ends %d, this starts %d",
				i, secs[i-1].EndOffset, s.StartOffset)
		}
	}
}

func TestIndex_NumberedHeadings(t *testing.T) {
	content := "1. 일반사항\n본문입니다.\n1.1 적용 범위\n범위 본문.\n2. 재료\n재료 본문."
	secs := Index(content)
	checkPartition(t, content, secs)

	if len(secs) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(secs))
	}
	wantTitles := []string{"1 일반사항", "1.1 적용 범위", "2 재료"}
	wantLevels := []int{1, 2, 1}
	for i, s := range secs {
		if s.Title != wantTitles[i] {
			t.Errorf("section %d title = %q, want %q", i, s.Title, wantTitles[i])
		}
		if s.Level != wantLevels[i] {
			t.Errorf("section %d level = %d, want %d", i, s.Level, wantLevels[i])
		}
	}
}

func TestIndex_MarkdownHeadings(t *testing.T) {
	content := "# 제목\n\n본문.\n\n## 하위 제목\n\n하위 본문.\n"
	secs := Index(content)
	checkPartition(t, content, secs)

	if len(secs) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(secs))
	}
	if secs[0].Title != "제목" || secs[0].Level != 1 {
		t.Errorf("section 0 = %q level %d", secs[0].Title, secs[0].Level)
	}
	if secs[1].Title != "하위 제목" || secs[1].Level != 2 {
		t.Errorf("section 1 = %q level %d", secs[1].Title, secs[1].Level)
	}
}

func TestIndex_ChapterAndClause(t *testing.T) {
	content := "제1장 총칙\n총칙 본문.\n제 1 절 목적\n목적 본문.\n부록 A 참고자료\n부록 본문."
	secs := Index(content)
	checkPartition(t, content, secs)

	if len(secs) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(secs))
	}
	if secs[0].Level != 1 || !strings.HasPrefix(secs[0].Title, "제1장") {
		t.Errorf("chapter section = %+v", secs[0])
	}
	if secs[1].Level != 2 {
		t.Errorf("clause level = %d, want 2", secs[1].Level)
	}
	if secs[2].Level != 1 || !strings.HasPrefix(secs[2].Title, "부록") {
		t.Errorf("appendix section = %+v", secs[2])
	}
}

func TestIndex_FrontMatter(t *testing.T) {
	content := "표준 개요와 서문.\n\n1. 일반사항\n본문."
	secs := Index(content)
	checkPartition(t, content, secs)

	if len(secs) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(secs))
	}
	if secs[0].Title != FrontMatterTitle || secs[0].Level != 0 {
		t.Errorf("front matter section = %+v", secs[0])
	}
}

func TestIndex_NoHeadingsFallsBack(t *testing.T) {
	content := "구조만 없는 평문 문서입니다. 제목이 전혀 없습니다."
	secs := Index(content)
	checkPartition(t, content, secs)

	if len(secs) != 1 {
		t.Fatalf("expected single fallback section, got %d", len(secs))
	}
	if secs[0].Title != FrontMatterTitle {
		t.Errorf("fallback title = %q", secs[0].Title)
	}
}

func TestIndex_EmptyContent(t *testing.T) {
	secs := Index("")
	if len(secs) != 1 {
		t.Fatalf("expected single section for empty content, got %d", len(secs))
	}
	if secs[0].StartOffset != 0 || secs[0].EndOffset != 0 {
		t.Errorf("empty content range = [%d, %d)", secs[0].StartOffset, secs[0].EndOffset)
	}
}

func TestIndex_OutOfOrderNumbersKeepPosition(t *testing.T) {
	content := "3. 셋째\n본문.\n1. 첫째\n본문.\n1. 첫째 중복\n본문."
	secs := Index(content)
	checkPartition(t, content, secs)

	if len(secs) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(secs))
	}
	// Document order wins over heading numbers.
	if !strings.HasPrefix(secs[0].Title, "3") || !strings.HasPrefix(secs[2].Title, "1") {
		t.Errorf("sections reordered by number: %q, %q, %q",
			secs[0].Title, secs[1].Title, secs[2].Title)
	}
}

func TestIndex_RejectsTableRowsAndYears(t *testing.T) {
	content := "1. 배합\n21 | 24 | 27\n3.2 | 4.5 | 6.1\n2016 개정판 기준\n1.2.3.4.5 깊은 번호"
	secs := Index(content)
	checkPartition(t, content, secs)

	if len(secs) != 1 {
		t.Fatalf("data lines were indexed as headings: %d sections", len(secs))
	}
}

func TestIndex_RejectsOverlongLines(t *testing.T) {
	content := "1. " + strings.Repeat("가", 300) + "\n본문."
	secs := Index(content)
	if len(secs) != 1 || secs[0].Title != FrontMatterTitle {
		t.Errorf("overlong line treated as heading: %+v", secs)
	}
}

func TestIndex_FlagsFormulaAndTable(t *testing.T) {
	content := "1. 산정식\nfck = 21 + 1.34 s\n2. 배합표\n구분 | 값 | 단위\n3. 본문\n평범한 문장."
	secs := Index(content)
	checkPartition(t, content, secs)

	if len(secs) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(secs))
	}
	if !secs[0].HasFormula {
		t.Error("formula section not flagged")
	}
	if !secs[1].HasTable {
		t.Error("table section not flagged")
	}
	if secs[2].HasFormula || secs[2].HasTable {
		t.Error("plain section wrongly flagged")
	}
}

func TestContainsFormula(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"fck = 21 MPa", true},
		{"값이 ≤ 한계인 경우", true},
		{"√(fck) 값을 사용한다", true},
		{"평범한 본문 문장", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ContainsFormula(c.text); got != c.want {
			t.Errorf("ContainsFormula(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestContainsTable(t *testing.T) {
	if !ContainsTable("구분 | 값 | 단위") {
		t.Error("row with two pipes not detected")
	}
	if ContainsTable("한 개의 | 구분자") {
		t.Error("single pipe wrongly detected")
	}
	if ContainsTable("파이프 없음") {
		t.Error("plain text wrongly detected")
	}
}
