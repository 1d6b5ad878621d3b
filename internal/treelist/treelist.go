// Package treelist renames the tree view type to list.
package treelist

import (
	"regexp"
	"strings"
	"unicode"
)

var treeWord = regexp.MustCompile(`(?i)\btree\b`)

// Rename replaces every standalone "tree" word with "list", keeping the
// case pattern: tree, Tree and TREE become list, List and LIST.
func Rename(content string) string {
	return treeWord.ReplaceAllStringFunc(content, func(word string) string {
		switch {
		case word == strings.ToUpper(word):
			return "LIST"
		case unicode.IsUpper(rune(word[0])):
			return "List"
		default:
			return "list"
		}
	})
}

// Count returns how many words Rename would replace.
func Count(content string) int {
	return len(treeWord.FindAllStringIndex(content, -1))
}
