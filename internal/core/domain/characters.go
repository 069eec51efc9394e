package domain

import "strings"

// CharacterVocabulary is the closed list of names tagged on chunks.
var CharacterVocabulary = []string{
	"祥子", "虎妞", "小福子", "刘四爷", "老马", "小马",
	"曹先生", "高妈", "阮明", "夏太太", "杨太太", "张妈",
	"二强子", "小文", "老程", "丁四", "孙排长",
}

// FindCharacters returns every vocabulary name occurring in text.
// The result is deduplicated and follows vocabulary order.
func FindCharacters(text string, vocabulary []string) []string {
	found := make([]string, 0)
	seen := make(map[string]bool, len(vocabulary))
	for _, name := range vocabulary {
		if name == "" || seen[name] {
			continue
		}
		if strings.Contains(text, name) {
			found = append(found, name)
			seen[name] = true
		}
	}
	return found
}
