// Package cli implements the interactive categorization flow: prompts,
// category selection and the per-transaction action loop. All decisions with
// edge-case policy live in the domain packages; this layer only asks
// questions and prints answers.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads line-oriented answers from the user.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
	eof bool
}

// NewPrompter creates a prompter reading from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Prompter{in: scanner, out: out}
}

// Ask prints the prompt and returns the trimmed answer. Returns "" once the
// input is exhausted; callers that loop on answers must check EOF.
func (p *Prompter) Ask(prompt string) string {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		p.eof = true
		fmt.Fprintln(p.out)
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

// EOF reports that the input source has been exhausted. Every answer after
// this point would be the empty string, so interactive loops must stop.
func (p *Prompter) EOF() bool {
	return p.eof
}

// AskDefault asks and substitutes def for an empty answer.
func (p *Prompter) AskDefault(prompt, def string) string {
	answer := p.Ask(prompt)
	if answer == "" {
		return def
	}
	return answer
}

// AskYesNo asks a y/n question with a default.
func (p *Prompter) AskYesNo(prompt string, def bool) bool {
	defHint := "y"
	if !def {
		defHint = "n"
	}
	answer := strings.ToLower(p.AskDefault(fmt.Sprintf("%s (y/n, default %s): ", prompt, defHint), defHint))
	return strings.HasPrefix(answer, "y")
}

// Multiline reads lines until a lone "." or EOF and returns them joined
// with newlines.
func (p *Prompter) Multiline(prompt string) string {
	fmt.Fprintln(p.out, prompt)
	fmt.Fprintln(p.out, `(finish with a line containing only "." )`)

	var lines []string
	for {
		if !p.in.Scan() {
			p.eof = true
			break
		}
		line := p.in.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
