// Package chapterize splits a raw novel document into chapter sections by
// recognizing common Chinese and English chapter heading conventions.
package chapterize

import (
	"regexp"
	"strconv"
	"strings"
)

// Section is one chapter cut out of a source document.
type Section struct {
	Number   int
	Title    string
	RawTitle string
	Content  string
}

var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^第[零一二三四五六七八九十百千万壹贰叁肆伍陆柒捌玖拾佰仟0-9]+章\s*`),
	regexp.MustCompile(`^(?:Chapter|CHAPTER)\s+[0-9IVXLC]+\s*`),
	regexp.MustCompile(`^\s*[0-9]+\.\s*`),
	regexp.MustCompile(`^\s*第[0-9]+节\s*`),
}

var (
	zhChapterRe = regexp.MustCompile(`^第(.+?)章\s*(.*)$`)
	numDotRe    = regexp.MustCompile(`^(\d+)\.\s*(.*)$`)
	enChapterRe = regexp.MustCompile(`^(?:Chapter|CHAPTER)\s+([0-9]+)\s*(.*)$`)
	blankRunsRe = regexp.MustCompile(`\n{2,}`)
)

// Split cuts content into sections at recognized chapter headings. A document
// with no recognized headings becomes a single section covering everything.
func Split(content string) []Section {
	lines := strings.Split(content, "\n")

	type marker struct {
		line     int
		rawTitle string
	}
	var markers []marker
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		for _, pattern := range headingPatterns {
			if pattern.MatchString(stripped) {
				markers = append(markers, marker{line: i, rawTitle: stripped})
				break
			}
		}
	}

	if len(markers) == 0 {
		return []Section{{
			Number:  1,
			Title:   "全文",
			Content: normalizeBody(strings.TrimSpace(content)),
		}}
	}

	sections := make([]Section, 0, len(markers))
	for i, m := range markers {
		end := len(lines)
		if i+1 < len(markers) {
			end = markers[i+1].line
		}
		number, title := ParseTitle(m.rawTitle)
		body := strings.TrimSpace(strings.Join(lines[m.line:end], "\n"))
		sections = append(sections, Section{
			Number:   number,
			Title:    title,
			RawTitle: m.rawTitle,
			Content:  normalizeBody(body),
		})
	}
	return sections
}

// ParseTitle separates the chapter number from the title text, handling
// "第X章 ...", "Chapter N ...", and "N. ..." headings. Unrecognized headings
// return number 0 with the whole line as title.
func ParseTitle(title string) (int, string) {
	if m := zhChapterRe.FindStringSubmatch(title); m != nil {
		number, err := strconv.Atoi(m[1])
		if err != nil {
			number = chineseToNumber(m[1])
		}
		return number, strings.TrimSpace(m[2])
	}
	if m := enChapterRe.FindStringSubmatch(title); m != nil {
		number, _ := strconv.Atoi(m[1])
		return number, strings.TrimSpace(m[2])
	}
	if m := numDotRe.FindStringSubmatch(title); m != nil {
		number, _ := strconv.Atoi(m[1])
		return number, strings.TrimSpace(m[2])
	}
	return 0, strings.TrimSpace(title)
}

var chineseDigits = map[rune]int{
	'零': 0, '一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9, '十': 10,
	'百': 100, '千': 1000, '万': 10000, '亿': 100000000,
	'壹': 1, '贰': 2, '叁': 3, '肆': 4, '伍': 5,
	'陆': 6, '柒': 7, '捌': 8, '玖': 9, '拾': 10,
	'佰': 100, '仟': 1000,
}

// chineseToNumber converts a Chinese numeral like 四百零六 to 406.
func chineseToNumber(s string) int {
	runes := []rune(s)
	if len(runes) > 0 && runes[0] == '十' {
		// 十, 十一, 十二 ...
		if len(runes) == 1 {
			return 10
		}
		return 10 + chineseDigits[runes[1]]
	}

	// 零 only matters as a placeholder before a unit.
	var processed []rune
	for i, r := range runes {
		if r == '零' {
			if i+1 < len(runes) {
				switch runes[i+1] {
				case '百', '千', '万', '亿':
					processed = append(processed, r)
				}
			}
			continue
		}
		processed = append(processed, r)
	}

	result, temp := 0, 0
	for _, r := range processed {
		digit, ok := chineseDigits[r]
		if !ok {
			if n, err := strconv.Atoi(s); err == nil {
				return n
			}
			continue
		}
		if digit < 10 {
			temp = temp*10 + digit
		} else {
			if temp == 0 {
				temp = 1
			}
			result += temp * digit
			temp = 0
		}
	}
	return result + temp
}

// normalizeBody strips leading whitespace from each line and collapses runs
// of blank lines into a single blank line.
func normalizeBody(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, " \t　")
	}
	return blankRunsRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
}
