package censor_test

import (
	"testing"

	"news_notes/internal/censor"

	"github.com/stretchr/testify/require"
)

func TestFilter_Find(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		opts  []censor.Option
		text  string
		want  string
		found bool
	}{
		{name: "substring", words: []string{"плохое"}, text: "текст плохое текст", want: "плохое", found: true},
		{name: "clean text", words: []string{"плохое"}, text: "хороший текст", found: false},
		{name: "inside word", words: []string{"редиска"}, text: "редиски и редиска", want: "редиска", found: true},
		{name: "case sensitive by default", words: []string{"плохое"}, text: "ПЛОХОЕ", found: false},
		{name: "case insensitive option", words: []string{"Плохое"}, opts: []censor.Option{censor.CaseInsensitive()}, text: "ПЛОХОЕ слово", want: "плохое", found: true},
		{name: "empty words skipped", words: []string{"", "  "}, text: "любой текст", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := censor.New(tt.words, tt.opts...)
			got, found := f.Find(tt.text)
			require.Equal(t, tt.found, found)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_DefaultWords(t *testing.T) {
	f := censor.New(censor.DefaultWords)
	require.Equal(t, []string{"редиска", "негодяй"}, f.Words())

	_, found := f.Find("Какой-то текст, редиска, еще текст")
	require.True(t, found)
}

func TestFilter_Check(t *testing.T) {
	f := censor.New([]string{"плохое"})
	require.ErrorIs(t, f.Check("текст плохое текст"), censor.ErrBannedWord)
	require.NoError(t, f.Check("хороший текст"))
}
