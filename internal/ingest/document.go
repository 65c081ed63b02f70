package ingest

import "strings"

const frontmatterDelimiter = "---"

// Document is the raw text of a source file after frontmatter extraction,
// together with its metadata. Documents are immutable once parsed.
type Document struct {
	Text string
	Meta map[string]string
}

// ParseDocument extracts frontmatter metadata from content and strips the
// frontmatter block from the text. source is the file path relative to the
// docs root; it always appears in the metadata, and title defaults to a
// filename-derived value unless the frontmatter supplies one. Missing or
// unterminated frontmatter delimiters mean "no frontmatter", not an error.
func ParseDocument(content, source string) Document {
	meta := map[string]string{
		"source": source,
		"title":  TitleFromPath(source),
	}

	text := content
	if block, rest, ok := splitFrontmatter(content); ok {
		for _, line := range strings.Split(block, "\n") {
			key, value, found := strings.Cut(line, ":")
			if !found {
				continue
			}
			meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
		text = rest
	}

	return Document{Text: text, Meta: meta}
}

// splitFrontmatter separates a leading "---" delimited block from the rest of
// the content. Returns ok=false when the content does not start with a
// frontmatter block.
func splitFrontmatter(content string) (block, rest string, ok bool) {
	if !strings.HasPrefix(content, frontmatterDelimiter+"\n") {
		return "", "", false
	}

	body := content[len(frontmatterDelimiter)+1:]
	end := strings.Index(body, "\n"+frontmatterDelimiter)
	if end == -1 {
		return "", "", false
	}

	block = body[:end]
	rest = body[end+1+len(frontmatterDelimiter):]
	rest = strings.TrimPrefix(rest, "\n")
	return block, rest, true
}
