package chat

import (
	"strconv"
	"strings"
)

// usageError reports malformed arguments; its text is the command usage.
type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

// parseUserRef accepts a raw id, a "<@id>" mention, or "@id".
func parseUserRef(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "<@")
	s = strings.TrimSuffix(s, ">")
	s = strings.TrimPrefix(s, "!")
	s = strings.TrimPrefix(s, "@")
	if s == "" {
		return "", false
	}
	return s, true
}

// userArg resolves req.Args[i] as a user reference, preferring the id the
// transport recorded for an @username.
func userArg(req Request, i int) (string, bool) {
	if i >= len(req.Args) {
		return "", false
	}
	arg := req.Args[i]
	if strings.HasPrefix(arg, "@") {
		if id, ok := req.Usernames[strings.ToLower(arg[1:])]; ok {
			return id, true
		}
	}
	return parseUserRef(arg)
}

// optionalUser returns the user named by req.Args[i], or fallback when absent.
func optionalUser(req Request, i int, fallback string) string {
	if id, ok := userArg(req, i); ok {
		return id
	}
	return fallback
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	return n, err == nil
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	return f, err == nil
}

// splitReason separates a trailing screenshot URL from a free-text reason.
func splitReason(args []string) (reason, screenshot string) {
	if n := len(args); n > 0 && isURL(args[n-1]) {
		screenshot = args[n-1]
		args = args[:n-1]
	}
	return strings.Join(args, " "), screenshot
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
