package server

import (
	"bufio"
	"log"
	"os"
	"strings"

	"crossletters/internal/db"

	"gorm.io/gorm"
)

// Dictionary answers whether a formed string is a playable word. Lookups are
// case-insensitive.
type Dictionary interface {
	IsValidWord(word string) bool
}

// WordListDictionary holds a word list loaded from a plain text file, one
// word per line.
type WordListDictionary struct {
	words map[string]struct{}
}

func LoadWordList(path string) (*WordListDictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	words := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := normalizeWord(scanner.Text())
		if word == "" {
			continue
		}
		words[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &WordListDictionary{words: words}, nil
}

func (d *WordListDictionary) IsValidWord(word string) bool {
	_, ok := d.words[normalizeWord(word)]
	return ok
}

// DBDictionary checks words against the words table populated by
// cmd/load-words.
type DBDictionary struct {
	conn *gorm.DB
}

func NewDBDictionary(conn *gorm.DB) *DBDictionary {
	return &DBDictionary{conn: conn}
}

func (d *DBDictionary) IsValidWord(word string) bool {
	normalized := normalizeWord(word)
	if normalized == "" {
		return false
	}
	var count int64
	if err := d.conn.Model(&db.Word{}).Where("text = ?", normalized).Count(&count).Error; err != nil {
		log.Printf("dictionary lookup failed word=%s err=%v", normalized, err)
		return false
	}
	return count > 0
}

// PermissiveDictionary accepts everything; the fallback when neither a word
// list nor a database is configured.
type PermissiveDictionary struct{}

func (PermissiveDictionary) IsValidWord(string) bool { return true }

func normalizeWord(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	for _, r := range word {
		if r < 'a' || r > 'z' {
			return ""
		}
	}
	return word
}
