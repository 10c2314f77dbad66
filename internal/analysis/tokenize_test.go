package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Run("normalizes and filters", func(t *testing.T) {
		got := Tokenize("The quick brown fox, it's a DOG!!")
		assert.Equal(t, WordSet{"quick": {}, "brown": {}, "fox": {}, "dog": {}}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Tokenize(""))
		assert.Empty(t, Tokenize("   \n\t"))
	})

	t.Run("punctuation splits words", func(t *testing.T) {
		got := Tokenize("api/v2-release:notes")
		assert.Contains(t, got, "api")
		assert.Contains(t, got, "release")
		assert.Contains(t, got, "notes")
		assert.NotContains(t, got, "v2")
	})

	t.Run("no short tokens or stop words", func(t *testing.T) {
		inputs := []string{
			"Should we do this and that, or not?",
			"I'm on it -- will ship to QA by EOD",
			"These were the things you could have done with those",
		}
		for _, in := range inputs {
			for w := range Tokenize(in) {
				assert.Greater(t, len(w), 2, "token %q from %q", w, in)
				assert.False(t, IsStopWord(w), "stop word %q from %q", w, in)
			}
		}
	})
}

func TestSimilarity(t *testing.T) {
	a := Tokenize("alpha beta gamma")
	b := Tokenize("beta gamma delta")

	assert.Equal(t, 0.0, Similarity(WordSet{}, WordSet{}))
	assert.Equal(t, 0.0, Similarity(a, WordSet{}))
	assert.Equal(t, 1.0, Similarity(a, a))
	assert.Equal(t, 0.5, Similarity(a, b))
	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}
