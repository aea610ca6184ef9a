// Package extract derives a single HTML document from free-form model output.
//
// Model responses are expected to be a bare HTML document, but in practice they
// may be wrapped in markdown fences, preceded by prose, or truncated before the
// closing tag. HTML applies a layered fallback so that callers always get the
// best available document:
//
//  1. The first <!DOCTYPE html>/<html> ... </html> span in the text.
//  2. The body of the first ```html fenced block.
//  3. The body of the first generic ``` fenced block.
//  4. The trimmed text itself.
//  5. Step 1 applied to the candidate from steps 2-4.
//  6. A candidate that starts like HTML, cut after its last </html> when present.
//  7. The trimmed input.
//
// Extraction is pure and total: it never fails, and it returns an empty string
// only for empty (or whitespace-only) input.
package extract
