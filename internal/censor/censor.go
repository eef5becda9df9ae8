// Package censor проверяет текст комментариев на запрещённые слова.
package censor

import (
	"errors"
	"strings"
)

// ErrBannedWord — текст содержит запрещённое слово.
var ErrBannedWord = errors.New("banned word")

// DefaultWords — список запрещённых слов по умолчанию.
var DefaultWords = []string{"редиска", "негодяй"}

// Filter ищет запрещённые слова как подстроки текста.
// По умолчанию сравнение чувствительно к регистру.
type Filter struct {
	words           []string
	caseInsensitive bool
}

// Option настраивает Filter.
type Option func(*Filter)

// CaseInsensitive включает сравнение без учёта регистра.
func CaseInsensitive() Option {
	return func(f *Filter) { f.caseInsensitive = true }
}

// New создаёт фильтр; пустые слова пропускаются.
func New(words []string, opts ...Option) *Filter {
	f := &Filter{}
	for _, o := range opts {
		o(f)
	}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if f.caseInsensitive {
			w = strings.ToLower(w)
		}
		f.words = append(f.words, w)
	}
	return f
}

// Words возвращает копию списка слов.
func (f *Filter) Words() []string {
	return append([]string(nil), f.words...)
}

// Find возвращает первое найденное запрещённое слово.
func (f *Filter) Find(text string) (string, bool) {
	if f.caseInsensitive {
		text = strings.ToLower(text)
	}
	for _, w := range f.words {
		if strings.Contains(text, w) {
			return w, true
		}
	}
	return "", false
}

// Check возвращает ErrBannedWord, если в тексте есть запрещённое слово.
func (f *Filter) Check(text string) error {
	if _, found := f.Find(text); found {
		return ErrBannedWord
	}
	return nil
}
