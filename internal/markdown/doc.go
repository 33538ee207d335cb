// Package markdown renders site content with goldmark.
//
// Fenced code blocks tagged "mermaid" are rewritten during parsing into
// RawMarkup nodes that render as <div class="mermaid"> containers, leaving the
// diagram source for mermaid.js to pick up in the browser. The block text is
// embedded as is; content is expected to come from the site author.
package markdown
