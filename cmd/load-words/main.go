package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"strings"

	"crossletters/internal/config"
	"crossletters/internal/db"

	"gorm.io/gorm/clause"
)

func main() {
	filePath := flag.String("file", "words.txt", "path to word list, one word per line")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	words, err := readWords(*filePath)
	if err != nil {
		log.Fatalf("failed to read word list: %v", err)
	}
	if len(words) == 0 {
		log.Fatal("word list is empty")
	}

	entries := make([]db.Word, 0, len(words))
	for _, word := range words {
		entries = append(entries, db.Word{Text: word})
	}
	result := conn.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(entries, 1000)
	if result.Error != nil {
		log.Fatalf("failed to insert words: %v", result.Error)
	}

	log.Printf("loaded %d words (%d new)", len(entries), result.RowsAffected)
}

func readWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	seen := make(map[string]struct{})
	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" || !isAlpha(word) {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func isAlpha(word string) bool {
	for _, r := range word {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
