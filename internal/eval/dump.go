package eval

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human readable snapshot of the evaluator: the value stack
// left by the last evaluation, and every defined word rendered back into
// source form.
func (ev *Evaluator) Dump(out io.Writer) {
	dumper{ev: ev, out: out}.dump()
}

type dumper struct {
	ev  *Evaluator
	out io.Writer
}

func (dump dumper) dump() {
	fmt.Fprintf(dump.out, "# Evaluator Dump\n")
	dump.dumpStack()
	dump.dumpWords()
}

func (dump dumper) dumpStack() {
	fmt.Fprintf(dump.out, "  stack: %v\n", dump.ev.stack.values)
}

func (dump dumper) dumpWords() {
	names := dump.ev.words.Names()
	fmt.Fprintf(dump.out, "# Words (%v)\n", dump.ev.words.Len())

	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	var sb strings.Builder
	for _, name := range names {
		body, _ := dump.ev.words.Lookup(name)
		sb.Reset()
		fmt.Fprintf(&sb, "  : %-*s", width, name)
		if len(body) > 0 {
			sb.WriteByte(' ')
			sb.WriteString(body.String())
		}
		sb.WriteString(" ;\n")
		io.WriteString(dump.out, sb.String())
	}
}
