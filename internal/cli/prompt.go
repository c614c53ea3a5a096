package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mitchellh/colorstring"
)

// TerminalPrompter asks questions on a terminal: the question goes to out
// (stderr in the CLI) and the answer is read from in.
type TerminalPrompter struct {
	in        *bufio.Reader
	out       io.Writer
	noConfirm bool
	prefix    string
	nocolor   string
}

// NewTerminalPrompter creates a prompter. With noConfirm set every question
// is answered with its default without reading in.
func NewTerminalPrompter(in io.Reader, out io.Writer, noConfirm, color bool) *TerminalPrompter {
	c := colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !color,
	}
	return &TerminalPrompter{
		in:        bufio.NewReader(in),
		out:       out,
		noConfirm: noConfirm,
		prefix:    c.Color("[bold][blue]::[reset][bold] "),
		nocolor:   c.Color("[reset]"),
	}
}

// YesNo prints ":: question [Y/n] " and reads the answer. An empty answer
// or end of input selects preset; anything that is not yes or no asks again.
func (p *TerminalPrompter) YesNo(question string, preset bool) bool {
	choices := "[y/N]"
	if preset {
		choices = "[Y/n]"
	}

	for {
		fmt.Fprintf(p.out, "%s%s %s%s ", p.prefix, question, choices, p.nocolor)

		if p.noConfirm {
			fmt.Fprintln(p.out)
			return preset
		}

		line, err := p.readLine()
		if err != nil || line == "" {
			if err != nil {
				fmt.Fprintln(p.out)
			}
			return preset
		}

		switch strings.ToLower(line) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}

// SelectIndex reads a number between 1 and count and returns it zero-based.
// An empty answer, end of input or noconfirm selects the first entry.
func (p *TerminalPrompter) SelectIndex(count int) int {
	for {
		fmt.Fprint(p.out, "\nEnter a number (default=1): ")

		if p.noConfirm {
			fmt.Fprintln(p.out)
			return 0
		}

		line, err := p.readLine()
		if err != nil || line == "" {
			if err != nil {
				fmt.Fprintln(p.out)
			}
			return 0
		}

		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= count {
			return n - 1
		}
		fmt.Fprintf(p.out, "error: invalid number: %s\n", line)
	}
}

func (p *TerminalPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
