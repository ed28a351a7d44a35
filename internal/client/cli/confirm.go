package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// promptConfirmer asks a y/N question on the terminal. Anything but "y" or
// "yes" is a no.
type promptConfirmer struct {
	reader *bufio.Reader
	out    io.Writer
}

func newPromptConfirmer(r *bufio.Reader, w io.Writer) *promptConfirmer {
	return &promptConfirmer{reader: r, out: w}
}

func (c *promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	answer, err := GetSimpleText(c.reader, prompt+" [y/N]", c.out)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
