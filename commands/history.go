package commands

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/pipesh/core/history"
	getopt "github.com/pborman/getopt/v2"
)

// History lists the session's command log or moves it to and from files.
//
//	history [N]         list all entries, or the last N
//	history -r FILE     append FILE's entries to the log
//	history -w FILE     write the whole log to FILE
//	history -a FILE     append entries not yet flushed to FILE
func History(env Env, args []string) (string, error) {
	opts := getopt.New()
	readFile := opts.String('r', "", "read the history file and append its contents", "FILE")
	writeFile := opts.String('w', "", "write the current history to the file", "FILE")
	appendFile := opts.String('a', "", "append new history lines to the file", "FILE")

	if err := opts.Getopt(args, nil); err != nil {
		w := &strings.Builder{}
		fmt.Fprintln(w, "usage: history [N] [-r FILE | -w FILE | -a FILE]")
		opts.PrintOptions(w)
		return "", fmt.Errorf("%s: %v\n%s", args[0], err, strings.TrimSpace(w.String()))
	}

	hist := env.History()
	switch {
	case *readFile != "":
		loaded, err := hist.Load(*readFile)
		if err != nil {
			return "", &history.Error{Op: "read", Path: *readFile, Err: err}
		}
		env.HistoryLoaded(loaded)
		return "", nil

	case *writeFile != "":
		if err := hist.WriteAll(*writeFile); err != nil {
			return "", &history.Error{Op: "write", Path: *writeFile, Err: err}
		}
		return "", nil

	case *appendFile != "":
		if _, err := hist.AppendNew(*appendFile); err != nil {
			return "", &history.Error{Op: "append", Path: *appendFile, Err: err}
		}
		return "", nil
	}

	limit := ""
	if rest := opts.Args(); len(rest) > 0 {
		limit = rest[0]
	}

	out := &strings.Builder{}
	if err := history.Render(out, hist.Entries(), limit); err != nil {
		return "", err
	}
	return out.String(), nil
}

func init() {
	mustAddBuiltin("history", History)
}
