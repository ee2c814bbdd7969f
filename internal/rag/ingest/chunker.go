package ingest

import "strings"

// separators run from the most to the least meaningful boundary; "" splits runes.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// splitTextIntoChunks cuts text into trimmed, non-empty chunks of at most limit
// bytes. Neighbouring chunks share up to overlap bytes of whole pieces.
func splitTextIntoChunks(text string, limit int, overlap int) []string {
	var out []string
	for _, c := range splitRecursive(text, limit, overlap, separators) {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func splitRecursive(text string, limit, overlap int, seps []string) []string {
	if len(text) <= limit {
		return []string{text}
	}

	sep, rest := "", []string(nil)
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			sep, rest = s, seps[i+1:]
			break
		}
	}

	var chunks, fitting []string
	for _, part := range strings.Split(text, sep) {
		if len(part) <= limit {
			fitting = append(fitting, part)
			continue
		}
		chunks = append(chunks, merge(fitting, sep, limit, overlap)...)
		fitting = nil
		chunks = append(chunks, splitRecursive(part, limit, overlap, rest)...)
	}
	return append(chunks, merge(fitting, sep, limit, overlap)...)
}

// merge packs pieces into chunks, carrying a tail of at most overlap bytes forward.
func merge(parts []string, sep string, limit, overlap int) []string {
	var chunks, window []string
	total := 0
	for _, p := range parts {
		extra := len(p)
		if len(window) > 0 {
			extra += len(sep)
		}
		if total+extra > limit && len(window) > 0 {
			chunks = append(chunks, strings.Join(window, sep))
			for len(window) > 0 && (total > overlap || total+len(sep)+len(p) > limit) {
				total -= len(window[0])
				if len(window) > 1 {
					total -= len(sep)
				}
				window = window[1:]
			}
		}
		if len(window) > 0 {
			total += len(sep)
		}
		window = append(window, p)
		total += len(p)
	}
	if len(window) > 0 {
		chunks = append(chunks, strings.Join(window, sep))
	}
	return chunks
}
