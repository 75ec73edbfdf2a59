package javaparse

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// Language is the canonical name of the only language this package parses.
const Language = "java"

// extToLanguage maps file extensions to canonical language names.
var extToLanguage = map[string]string{
	".java": Language,
}

var (
	grammar     *sitter.Language
	grammarOnce sync.Once
)

// LanguageForFile returns the canonical language name for a file path based
// on its extension. Returns ("", false) if the extension is not recognized.
func LanguageForFile(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// Grammar returns the tree-sitter Java grammar. Lazily initialized.
func Grammar() *sitter.Language {
	grammarOnce.Do(func() {
		grammar = java.GetLanguage()
	})
	return grammar
}
