// Package console is the line-oriented front-end: it reads one question per
// line from an input stream and prints rendered answers until interrupted.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/render"
)

// Console runs the read-answer loop over plain streams.
type Console struct {
	answerer domain.Answerer
	md       render.Markdowner
	in       io.Reader
	out      io.Writer
}

// New creates a console reading from in and writing to out.
func New(answerer domain.Answerer, md render.Markdowner, in io.Reader, out io.Writer) *Console {
	return &Console{answerer: answerer, md: md, in: in, out: out}
}

type line struct {
	text string
	err  error
}

// Run prints the start banner and answers lines until ctx is cancelled or the
// input ends, in which case it prints the farewell and returns nil. Every line
// is forwarded as typed, blank lines included. The first pipeline error ends
// the loop and is returned.
func (c *Console) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	lines := make(chan line)
	go readLines(c.in, lines, done)

	fmt.Fprint(c.out, c.md.Markdown(render.StartBanner))
	fmt.Fprintln(c.out)

	for {
		select {
		case <-ctx.Done():
			c.farewell()
			return nil
		case l, ok := <-lines:
			if !ok {
				c.farewell()
				return nil
			}
			if l.err != nil {
				return l.err
			}
			if ctx.Err() != nil {
				c.farewell()
				return nil
			}
			answer, err := c.answerer.Answer(ctx, l.text)
			if err != nil {
				return err
			}
			fmt.Fprint(c.out, c.md.Markdown(answer))
			fmt.Fprint(c.out, c.md.Markdown(render.FollowUpBanner))
			fmt.Fprintln(c.out)
		}
	}
}

func (c *Console) farewell() {
	fmt.Fprintln(c.out)
	fmt.Fprint(c.out, c.md.Markdown(render.Farewell))
}

// readLines sends each input line without its terminator and closes out at
// EOF. It stops early once done is closed.
func readLines(in io.Reader, out chan<- line, done <-chan struct{}) {
	defer close(out)
	r := bufio.NewReader(in)
	for {
		text, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			select {
			case out <- line{err: err}:
			case <-done:
			}
			return
		}
		if err != nil && text == "" {
			return
		}
		text = strings.TrimSuffix(text, "\n")
		text = strings.TrimSuffix(text, "\r")
		select {
		case out <- line{text: text}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}
