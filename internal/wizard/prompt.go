package wizard

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// prompter serializes question/answer exchanges over a line-oriented stream.
// Input exhaustion is treated as the user walking away.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) say(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *prompter) ask(format string, args ...any) (string, error) {
	fmt.Fprintf(p.out, format, args...)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrAborted
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// confirm asks a yes/no question. An empty answer takes the default.
func (p *prompter) confirm(def bool, format string, args ...any) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		answer, err := p.ask("%s", fmt.Sprintf(format, args...)+" "+hint+" ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.say("please answer y or n")
	}
}

// askIndex asks for an integer in [0, limit) and reprompts on bad input.
func (p *prompter) askIndex(limit int, format string, args ...any) (int, error) {
	for {
		answer, err := p.ask("%s", fmt.Sprintf(format, args...)+fmt.Sprintf(" [0-%d]: ", limit-1))
		if err != nil {
			return 0, err
		}
		idx, convErr := strconv.Atoi(answer)
		if convErr != nil || idx < 0 || idx >= limit {
			p.say("enter a number between 0 and %d", limit-1)
			continue
		}
		return idx, nil
	}
}

// askIndexOrNone is askIndex with "none" as an extra accepted answer,
// reported as -1.
func (p *prompter) askIndexOrNone(limit int, format string, args ...any) (int, error) {
	for {
		answer, err := p.ask("%s", fmt.Sprintf(format, args...)+fmt.Sprintf(" [0-%d or none]: ", limit-1))
		if err != nil {
			return 0, err
		}
		if strings.EqualFold(answer, "none") {
			return -1, nil
		}
		idx, convErr := strconv.Atoi(answer)
		if convErr != nil || idx < 0 || idx >= limit {
			p.say("enter a number between 0 and %d, or none", limit-1)
			continue
		}
		return idx, nil
	}
}
