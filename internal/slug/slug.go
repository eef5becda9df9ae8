// Package slug строит URL-безопасные идентификаторы заметок.
//
// Slugify повторяет поведение pytils.translit.slugify: транслитерация
// кириллицы в латиницу, нижний регистр, пробелы и дефисы схлопываются
// в один дефис, прочие символы отбрасываются.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ampRe   = regexp.MustCompile(`&amp;|&`)
	spaceRe = regexp.MustCompile(`[-\s\p{Z}\v]+`)
	validRe = regexp.MustCompile(`^[-a-z0-9_]+$`)
)

// translit сразу содержит итоговое написание: кавычки, апострофы,
// «№» и многоточие в слаге всё равно удаляются.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "j", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "yi", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",

	'–': "-", '—': "-", '‒': "-", '−': "-",
	'\'': "", '"': "", '‘': "", '’': "", '«': "", '»': "",
	'“': "", '”': "", '…': "", '№': "",
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func isPlain(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
}

// Slugify транслитерирует s в slug. Результат детерминирован.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = ampRe.ReplaceAllString(s, " and ")
	s = spaceRe.ReplaceAllString(s, "-")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isPlain(r) {
			b.WriteRune(r)
			continue
		}
		if tr, ok := translit[r]; ok {
			b.WriteString(tr)
			continue
		}
		if r < unicode.MaxASCII {
			continue
		}
		// é -> e, ü -> u; всё, что не свелось к латинице, отбрасывается.
		folded, _, err := transform.String(foldDiacritics, string(r))
		if err != nil {
			continue
		}
		for _, fr := range strings.ToLower(folded) {
			if isPlain(fr) {
				b.WriteRune(fr)
			}
		}
	}
	return b.String()
}

// Make строит slug из заголовка и обрезает его до maxLen символов.
func Make(title string, maxLen int) string {
	s := Slugify(title)
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// Normalize приводит явно заданный slug к каноничному виду.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Valid сообщает, состоит ли нормализованный slug только из [-a-z0-9_].
func Valid(s string) bool {
	return validRe.MatchString(s)
}
