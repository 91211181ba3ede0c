package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sofmeright/workspace-tools/src/consolidate"
	"github.com/sofmeright/workspace-tools/src/output"
)

// promptStrategy asks on the terminal which candidate to use. The answer is
// a candidate number, or any other text taken as the version itself. An
// empty or out-of-range answer makes no selection.
type promptStrategy struct {
	in    *bufio.Reader
	out   io.Writer
	color bool
}

func newPromptStrategy(in io.Reader, out io.Writer, color bool) *promptStrategy {
	return &promptStrategy{in: bufio.NewReader(in), out: out, color: color}
}

func (p *promptStrategy) Select(ctx context.Context, req consolidate.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprintf(p.out, "\n  [%d/%d] %s\n", req.Index, req.Total, req.Name)
	for i, c := range req.Candidates {
		fmt.Fprintf(p.out, "    %d) %-24s %s\n", i+1, c.Version, output.Dimmed(fmt.Sprintf("%d usage(s)", c.Usages), p.color))
	}
	fmt.Fprint(p.out, "  select version: ")

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading selection: %w", err)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return "", nil
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(req.Candidates) {
			return "", nil
		}
		return req.Candidates[n-1].Version, nil
	}
	return answer, nil
}
