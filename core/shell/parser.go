// Package shell splits command text into argument words.
//
// Quoting follows POSIX shell rules: single quotes preserve everything
// literally, double quotes allow backslash escapes and a bare backslash
// escapes the next character. Expansions, globbing and operators are not
// interpreted here.
package shell

import (
	"fmt"

	"github.com/anmitsu/go-shlex"
)

// Lexer splits a command string into argument words.
type Lexer interface {
	Split(text string) ([]string, error)
}

// LexerFunc adapts a function to the Lexer interface.
type LexerFunc func(text string) ([]string, error)

// Split implements Lexer.
func (f LexerFunc) Split(text string) ([]string, error) {
	return f(text)
}

// Split tokenizes text using POSIX quoting rules.
func Split(text string) ([]string, error) {
	words, err := shlex.Split(text, true)
	if err != nil {
		return nil, fmt.Errorf("syntax error: %v", err)
	}
	return words, nil
}

// DefaultLexer is the POSIX quoting lexer.
var DefaultLexer Lexer = LexerFunc(Split)
