// Package prompts holds the instructions sent to upstream models.
//
// A built-in template set is always available. Operators may override any of
// its fields from a YAML file; the file is validated on load and can be hot
// reloaded while the server runs (see Watcher). Readers obtain the active set
// through Store.Current, which is safe for concurrent use.
package prompts

import (
	"fmt"
	"strings"
)

// Placeholders recognized in edit templates.
const (
	InstructionPlaceholder = "{{instruction}}"
	DocumentPlaceholder    = "{{document}}"
)

// Templates is one complete set of prompt texts.
type Templates struct {
	// System is the output contract sent as the system instruction.
	System string `yaml:"system"`

	// Edit wraps an existing document and an edit instruction.
	Edit string `yaml:"edit"`

	// LocalEdit replaces Edit for local inference servers, whose smaller
	// models follow an instruction-first layout more reliably.
	LocalEdit string `yaml:"local_edit"`

	// NoThinkDirective is appended to the user content when a local engine is
	// asked to skip its reasoning phase.
	NoThinkDirective string `yaml:"no_think_directive"`
}

const defaultSystem = `You are Zerocoder, an advanced HTML code generation engine. Your output MUST be a single, complete, and valid HTML document using Tailwind CSS (via CDN in the <head>). All designs must be responsive, visually appealing, and follow modern UI/UX best practices.

For any image content, if no suitable external image is available, generate SVG graphics directly within the HTML. The SVGs should be simple, clean, and vector-based to fit the content needs (e.g., icons, logos, or abstract patterns). These SVGs should be visually appropriate for the section of the site they appear in and should follow best design principles (e.g., minimalistic icons, geometric shapes, or abstract art for backgrounds).

Use high-quality placeholder services like Lorem Picsum or Unsplash Source for images when necessary, but prioritize SVGs when appropriate.

Your initial response must contain ONLY raw HTML. Start exactly with <!DOCTYPE html> and end with </html>. No markdown, comments, or extra characters are allowed, just clean, production-ready HTML.

**VERY IMPORTANT EDITING INSTRUCTIONS (APPLY IF 'Existing HTML' IS PROVIDED):**
When an 'Edit Instruction' is provided along with 'Existing HTML':
1.  **DO NOT REWRITE OR REGENERATE THE ENTIRE HTML DOCUMENT.** Your primary goal is to make a *targeted modification*.
2.  Treat the 'Existing HTML' as the definitive source code.
3.  Analyze the 'Edit Instruction' to understand the specific change requested (e.g., change text, color, add/remove an element, modify an attribute).
4.  Locate the *exact* HTML element(s) or section(s) in the 'Existing HTML' that the 'Edit Instruction' refers to.
5.  Modify ONLY that specific part of the 'Existing HTML'. All other parts, lines, and structures of the 'Existing HTML' MUST be preserved exactly as they were and in their original order and position.
6.  Imagine you are applying a small patch or diff to the 'Existing HTML'.
7.  After making the precise, minimal modification, your output MUST be the *entire, complete, and valid HTML document*, which includes your targeted change integrated into the original, otherwise unchanged, 'Existing HTML'.
8.  DO NOT output only the changed snippet. Do NOT include any explanations, apologies, markdown, or any text other than the full HTML document. Start exactly with ` + "`<!DOCTYPE html>`" + ` and end exactly with ` + "`</html>`" + `.

Repeat this edit cycle until the user confirms the final version.`

const defaultEdit = "Existing HTML:\n---\n" + DocumentPlaceholder + "\n-\nEdit Instruction:\n" + InstructionPlaceholder

const defaultLocalEdit = "Instruction: \"" + InstructionPlaceholder + "\"\n\n" +
	"Carefully update the following HTML based *only* on the instruction above. " +
	"Preserve all unchanged parts. Output the complete modified HTML only.\n\n" +
	"HTML to modify:\n---\n" + DocumentPlaceholder + "\n---"

// Default returns the built-in template set.
func Default() *Templates {
	return &Templates{
		System:           defaultSystem,
		Edit:             defaultEdit,
		LocalEdit:        defaultLocalEdit,
		NoThinkDirective: "/no_think",
	}
}

// withDefaults fills empty fields from the built-in set.
func (t *Templates) withDefaults() *Templates {
	d := Default()
	out := *t
	if strings.TrimSpace(out.System) == "" {
		out.System = d.System
	}
	if strings.TrimSpace(out.Edit) == "" {
		out.Edit = d.Edit
	}
	if strings.TrimSpace(out.LocalEdit) == "" {
		out.LocalEdit = d.LocalEdit
	}
	if strings.TrimSpace(out.NoThinkDirective) == "" {
		out.NoThinkDirective = d.NoThinkDirective
	}
	return &out
}

// Validate checks that both edit templates reference the instruction and the
// document.
func (t *Templates) Validate() error {
	for name, tmpl := range map[string]string{"edit": t.Edit, "local_edit": t.LocalEdit} {
		for _, ph := range []string{InstructionPlaceholder, DocumentPlaceholder} {
			if !strings.Contains(tmpl, ph) {
				return fmt.Errorf("template %q is missing placeholder %s", name, ph)
			}
		}
	}
	if strings.TrimSpace(t.System) == "" {
		return fmt.Errorf("template %q must not be empty", "system")
	}
	return nil
}

// Render substitutes instruction and document into an edit template.
// Substituted values are not rescanned for placeholders.
func Render(template, instruction, document string) string {
	r := strings.NewReplacer(
		InstructionPlaceholder, instruction,
		DocumentPlaceholder, document,
	)
	return r.Replace(template)
}
