package core

import (
	"strings"

	"github.com/josephlewis42/pipesh/core/shell"
)

// PipeDelimiter separates pipeline stages. The bar must have a space on each
// side.
const PipeDelimiter = " | "

// Command is a program name followed by its arguments.
type Command []string

// Name returns the program name.
func (c Command) Name() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Pipeline is an ordered list of stages, each stage's output feeding the next
// stage's input.
type Pipeline []Command

// Segment splits residual into a pipeline of two or more stages. It returns
// nil if residual has no delimiter or any stage is empty, in which case the
// text should be run as a single command.
func Segment(residual string, lexer shell.Lexer) (Pipeline, error) {
	if !strings.Contains(residual, PipeDelimiter) {
		return nil, nil
	}

	var out Pipeline
	for _, part := range strings.Split(residual, PipeDelimiter) {
		argv, err := lexer.Split(part)
		if err != nil {
			return nil, &ParseError{Input: part, Err: err}
		}
		if len(argv) == 0 {
			return nil, nil
		}
		out = append(out, argv)
	}

	if len(out) < 2 {
		return nil, nil
	}
	return out, nil
}

// Parse turns residual into a pipeline, falling back to a single stage when
// it isn't segmented. A blank residual yields an empty pipeline.
func Parse(residual string, lexer shell.Lexer) (Pipeline, error) {
	if pipeline, err := Segment(residual, lexer); err != nil || pipeline != nil {
		return pipeline, err
	}

	argv, err := lexer.Split(residual)
	if err != nil {
		return nil, &ParseError{Input: residual, Err: err}
	}
	if len(argv) == 0 {
		return nil, nil
	}
	return Pipeline{argv}, nil
}
