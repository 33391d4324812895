// Package shell turns raw input lines into pipeline descriptions.
package shell

import (
	"fmt"
	"strings"
)

// Background is the token that marks a pipeline as a background job. It is
// only valid as the very last token of a line.
const Background = "&"

// Command is a single pipeline stage, e.g. "ls -aHpl". Args is never empty;
// Args[0] is the program name and doubles as argv[0].
type Command struct {
	Args []string
}

// Name returns the program name the stage resolves and executes.
func (c *Command) Name() string {
	return c.Args[0]
}

func (c *Command) String() string {
	return strings.Join(c.Args, " ")
}

// Pipeline is an ordered chain of stages. The output of stage i feeds the
// input of stage i+1 through a pipe.
type Pipeline struct {
	Stages     []*Command
	Background bool
}

// Empty reports whether the pipeline has no stages, i.e. the input line was
// blank. Callers skip empty pipelines silently.
func (p *Pipeline) Empty() bool {
	return len(p.Stages) == 0
}

// String re-serializes the pipeline in the same syntax Parse accepts.
func (p *Pipeline) String() string {
	parts := make([]string, 0, len(p.Stages))
	for _, stage := range p.Stages {
		parts = append(parts, stage.String())
	}
	out := strings.Join(parts, " | ")
	if p.Background {
		out += " " + Background
	}
	return out
}

// Parse splits one line of input (without its trailing newline) into a
// Pipeline. A blank line yields an empty Pipeline and no error. On error no
// Pipeline is returned; a partially built one is never handed out.
func Parse(line string) (*Pipeline, error) {
	pipeline := &Pipeline{}

	if strings.TrimSpace(line) == "" {
		return pipeline, nil
	}

	stages := strings.Split(line, "|")
	for i, stage := range stages {
		tokens := strings.Fields(stage)
		if len(tokens) == 0 {
			return nil, fmt.Errorf("empty command between pipes")
		}

		cmd := &Command{}
		for j, token := range tokens {
			if pipeline.Background {
				// A '&' was already consumed, so it wasn't the last token.
				return nil, fmt.Errorf("inaccurate use of background character %q (%s)", Background, token)
			}
			if token == Background {
				if i != len(stages)-1 || j != len(tokens)-1 {
					return nil, fmt.Errorf("inaccurate use of background character %q", Background)
				}
				pipeline.Background = true
				continue
			}
			cmd.Args = append(cmd.Args, token)
		}

		if len(cmd.Args) == 0 {
			// The stage held nothing but the background marker.
			return nil, fmt.Errorf("missing command before %q", Background)
		}
		pipeline.Stages = append(pipeline.Stages, cmd)
	}

	return pipeline, nil
}
