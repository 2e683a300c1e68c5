package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"overtime-ui/viewsync"
)

type Prompter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

// NewPrompter reads answers from in. With assumeYes every prompt is
// confirmed without reading.
func NewPrompter(in io.Reader, out io.Writer, assumeYes bool) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// Confirm asks a y/N question. End of input counts as no.
func (p *Prompter) Confirm(message string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N] ", message)
	if p.assumeYes {
		fmt.Fprintln(p.out, "y")
		return true, nil
	}
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Run dispatches cmd and answers every prompt it leaves pending.
func Run(ctx context.Context, c *viewsync.Controller, s viewsync.Session, cmd viewsync.Command,
	r viewsync.Renderer, p *Prompter) (viewsync.Session, error) {
	s, err := c.Dispatch(ctx, s, cmd, r)
	for err == nil && s.Prompt != nil {
		var yes bool
		yes, err = p.Confirm(s.Prompt.Message)
		if err != nil {
			break
		}
		s, err = c.Dispatch(ctx, s, viewsync.NewCommand(viewsync.CmdAnswer, "yes", strconv.FormatBool(yes)), r)
	}
	return s, err
}
