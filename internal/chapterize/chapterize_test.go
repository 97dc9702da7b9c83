package chapterize

import (
	"strings"
	"testing"
)

func TestParseTitle(t *testing.T) {
	tests := []struct {
		in         string
		wantNumber int
		wantTitle  string
	}{
		{"第一章 初入宗门", 1, "初入宗门"},
		{"第12章 下山", 12, "下山"},
		{"第四百零六章 星残、巫影离开", 406, "星残、巫影离开"},
		{"第二十三章", 23, ""},
		{"Chapter 7 The Gate", 7, "The Gate"},
		{"3. A New Dawn", 3, "A New Dawn"},
		{"序章", 0, "序章"},
	}
	for _, tt := range tests {
		number, title := ParseTitle(tt.in)
		if number != tt.wantNumber || title != tt.wantTitle {
			t.Errorf("ParseTitle(%q) = (%d, %q), want (%d, %q)",
				tt.in, number, title, tt.wantNumber, tt.wantTitle)
		}
	}
}

func TestChineseToNumber(t *testing.T) {
	tests := map[string]int{
		"十":    10,
		"十一":   11,
		"二十":   20,
		"九十九":  99,
		"一百":   100,
		"一百零五": 105,
		"四百零六": 406,
		"一千零一": 1001,
		"三万":   30000,
	}
	for in, want := range tests {
		if got := chineseToNumber(in); got != want {
			t.Errorf("chineseToNumber(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestSplit(t *testing.T) {
	doc := strings.Join([]string{
		"第一章 初入宗门",
		"",
		"  柳姑娘走进了山门。",
		"",
		"",
		"  她抬头看着牌匾。",
		"第二章 拜师",
		"  柳点头行礼。",
	}, "\n")

	sections := Split(doc)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}

	first := sections[0]
	if first.Number != 1 || first.Title != "初入宗门" {
		t.Errorf("unexpected first section: %+v", first)
	}
	if first.RawTitle != "第一章 初入宗门" {
		t.Errorf("unexpected raw title %q", first.RawTitle)
	}
	if strings.Contains(first.Content, "  柳") {
		t.Error("leading indentation should be stripped")
	}
	if strings.Contains(first.Content, "\n\n\n") {
		t.Error("blank runs should be collapsed")
	}
	if strings.Contains(first.Content, "拜师") {
		t.Error("first section must end before the second heading")
	}

	second := sections[1]
	if second.Number != 2 || second.Title != "拜师" {
		t.Errorf("unexpected second section: %+v", second)
	}
	if !strings.Contains(second.Content, "柳点头行礼。") {
		t.Error("second section missing body")
	}
}

func TestSplit_NoHeadings(t *testing.T) {
	sections := Split("  只是一段没有章节标记的文字。\n\n\n还有一段。")
	if len(sections) != 1 {
		t.Fatalf("expected single section, got %d", len(sections))
	}
	if sections[0].Number != 1 || sections[0].Title != "全文" {
		t.Errorf("unexpected fallback section: %+v", sections[0])
	}
	if strings.Contains(sections[0].Content, "\n\n\n") {
		t.Error("blank runs should be collapsed")
	}
}

func TestSplit_EnglishHeadings(t *testing.T) {
	doc := "Chapter 1 Beginnings\nIt began.\nChapter 2 Endings\nIt ended."
	sections := Split(doc)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Number != 1 || sections[1].Number != 2 {
		t.Errorf("unexpected numbers: %d, %d", sections[0].Number, sections[1].Number)
	}
}
