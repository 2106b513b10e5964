package commands

import (
	"regexp"
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"
)

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-7][0-7]?[0-7]?`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F][0-9a-fA-F]?`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`,  // backslash literal
		`\b`, "\b", // backspace
		`\a`, "\a", // alert
		`\f`, "\f", // form feed
		`\v`, "\v", // vertical tab
	)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 8, 16)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 16, 16)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	return s
}

// Echo joins its arguments with spaces.
//
// -n suppresses the trailing newline and -e interprets backslash escapes. If
// the flags don't parse every argument is printed literally.
func Echo(env Env, args []string) (string, error) {
	opts := getopt.New()
	noNewline := opts.Bool('n', "do not output the trailing newline")
	escaped := opts.Bool('e', "interpret backslash escapes")

	words := args[1:]
	if err := opts.Getopt(args, nil); err == nil {
		words = opts.Args()
	} else {
		*noNewline, *escaped = false, false
	}

	out := strings.Join(words, " ")
	if *escaped {
		out = unescape(out)
	}
	if !*noNewline {
		out += "\n"
	}
	return out, nil
}

func init() {
	mustAddBuiltin("echo", Echo)
}
