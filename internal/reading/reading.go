// Package reading suggests kana readings for vocabulary words.
package reading

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Suggester produces a hiragana reading for a word.
type Suggester interface {
	Suggest(word string) (string, error)
}

// KagomeSuggester reads words with the kagome morphological analyzer and the
// IPA dictionary.
type KagomeSuggester struct {
	t *tokenizer.Tokenizer
}

func NewKagomeSuggester() (*KagomeSuggester, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer: %w", err)
	}
	return &KagomeSuggester{t: t}, nil
}

// Suggest concatenates the readings of the word's tokens in hiragana. Tokens
// the dictionary has no reading for keep their surface form.
func (k *KagomeSuggester) Suggest(word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", nil
	}

	var b strings.Builder
	for _, token := range k.t.Tokenize(word) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		// IPA features: 7 is the katakana reading.
		reading, ok := token.FeatureAt(7)
		if !ok || reading == "*" || reading == "" {
			reading = token.Surface
		}
		b.WriteString(reading)
	}
	return ToHiragana(b.String()), nil
}

// ToHiragana maps katakana in s to hiragana and leaves everything else alone.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ァ' && r <= 'ヶ' {
			return r - 0x60
		}
		return r
	}, s)
}

// Noop never suggests a reading.
type Noop struct{}

func (Noop) Suggest(string) (string, error) { return "", nil }
