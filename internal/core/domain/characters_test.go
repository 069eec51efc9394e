package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindCharacters_ExactVocabularySubset(t *testing.T) {
	text := "虎妞看着祥子，刘四爷在屋里咳嗽。祥子没说话。"

	found := FindCharacters(text, CharacterVocabulary)

	assert.ElementsMatch(t, []string{"祥子", "虎妞", "刘四爷"}, found)
}

func TestFindCharacters_NoMatchReturnsEmpty(t *testing.T) {
	found := FindCharacters("北平的冬天很冷。", CharacterVocabulary)

	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestFindCharacters_Deduplicates(t *testing.T) {
	found := FindCharacters("祥子", []string{"祥子", "祥子", ""})

	assert.Equal(t, []string{"祥子"}, found)
}

func TestFindCharacters_SubstringMatching(t *testing.T) {
	found := FindCharacters("老马带着小马", CharacterVocabulary)

	assert.ElementsMatch(t, []string{"老马", "小马"}, found)
}

func TestFindCharacters_EveryVocabularyNameIsDetected(t *testing.T) {
	for _, name := range CharacterVocabulary {
		found := FindCharacters("……"+name+"……", CharacterVocabulary)
		assert.Contains(t, found, name)
	}
}
