package tokens

import "strings"

// Token collections are flat text documents with one token per segment,
// segments separated by a blank line. A trailing delimiter is kept whenever
// entries remain, matching the layout the previous bot wrote.
//
// TODO: a token containing the delimiter sequence itself would split into two
// segments on the next parse; minted tokens never contain newlines, but
// admin-added custom tokens are not validated against this.
const collectionDelimiter = "\n\n"

// ParseCollection splits a token collection document into its token strings,
// dropping empty segments.
func ParseCollection(content string) []string {
	var out []string
	for _, seg := range strings.Split(content, collectionDelimiter) {
		if s := strings.TrimSpace(seg); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ContainsToken reports whether the collection document holds the token.
func ContainsToken(content, token string) bool {
	for _, t := range ParseCollection(content) {
		if t == token {
			return true
		}
	}
	return false
}

// AppendToken adds a token to the end of a collection document. Tokens are
// never deduplicated on append.
func AppendToken(content, token string) string {
	entries := append(ParseCollection(content), token)
	return strings.Join(entries, collectionDelimiter) + collectionDelimiter
}

// RemoveToken drops every occurrence of token from the collection document
// and reports whether any entry was removed.
func RemoveToken(content, token string) (string, bool) {
	entries := ParseCollection(content)
	kept := entries[:0]
	for _, t := range entries {
		if t != token {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(entries) {
		return content, false
	}
	return joinCollection(kept), true
}

// RemoveTokens drops every token present in the given set, for the sweeper's
// one-rewrite-per-collection batch removal.
func RemoveTokens(content string, remove map[string]struct{}) (string, bool) {
	entries := ParseCollection(content)
	kept := entries[:0]
	for _, t := range entries {
		if _, drop := remove[t]; !drop {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(entries) {
		return content, false
	}
	return joinCollection(kept), true
}

// RemoveTokenOnce drops exactly one occurrence of token, for rolling back a
// single append. Reports whether an entry was removed.
func RemoveTokenOnce(content, token string) (string, bool) {
	entries := ParseCollection(content)
	for i, t := range entries {
		if t == token {
			return joinCollection(append(entries[:i], entries[i+1:]...)), true
		}
	}
	return content, false
}

func joinCollection(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	return strings.Join(entries, collectionDelimiter) + collectionDelimiter
}
