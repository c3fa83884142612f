package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("lesson-12"))
	assert.True(t, ValidSlug("lesson2"))
	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("lesson_12"))
	assert.False(t, ValidSlug("Lesson2"))
	assert.False(t, ValidSlug("レッスン"))
}

func TestVocabEntry_View(t *testing.T) {
	entry := VocabEntry{ID: "1", Word: "わたしは", Reading: "watashi wa", Definition: "I am", Type: WordTypeNoun, Order: 1}

	view := entry.View()
	assert.Equal(t, "I am", view.Meaning)
	assert.Equal(t, "noun", view.Category)

	entry.Category = "grammar"
	assert.Equal(t, "grammar", entry.View().Category)
}

func TestLookup(t *testing.T) {
	missing := Missing[Lesson]()
	assert.False(t, missing.Found())
	_, ok := missing.Get()
	assert.False(t, ok)

	found := Found(&Lesson{Slug: "lesson1"})
	assert.True(t, found.Found())
	l, ok := found.Get()
	assert.True(t, ok)
	assert.Equal(t, "lesson1", l.Slug)
}
