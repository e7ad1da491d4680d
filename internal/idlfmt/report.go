package idlfmt

import (
	"fmt"
	"io"
	"strings"

	"idlkit/internal/idl"
)

// Instructions writes the human-readable instruction report for doc.
//
// With NamesOnly set, each instruction contributes only its numbered name.
// Otherwise every block lists description lines, arguments (or "None"), the
// account tree and the return type when present. Document order is kept.
func Instructions(w io.Writer, doc *idl.Document, opts ReportOpts) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	p := newPalette(opts.Color)
	rw := &reportWriter{w: w}

	rw.printf("\n%s %s (v%s)\n", p.heading.Sprint("Program:"), doc.Metadata.Name, doc.Metadata.Version)
	rw.printf("%s %s\n", p.heading.Sprint("Address:"), doc.Address)
	rw.printf("\n%s\n", p.heading.Sprintf("Instructions (%d):", len(doc.Instructions)))

	for idx := range doc.Instructions {
		ix := &doc.Instructions[idx]
		rw.printf("\n%d. %s\n", idx+1, p.name.Sprint(ix.Name))
		if opts.NamesOnly {
			continue
		}
		writeInstructionBody(rw, ix, p)
		if rw.err != nil {
			return rw.err
		}
	}
	return rw.err
}

func writeInstructionBody(rw *reportWriter, ix *idl.Instruction, p palette) {
	if len(ix.Docs) > 0 {
		rw.printf("   Description:\n")
		for _, doc := range ix.Docs {
			rw.printf("     %s\n", doc)
		}
	}

	if len(ix.Args) > 0 {
		rw.printf("   Arguments:\n")
		for _, arg := range ix.Args {
			rw.printf("     %s (%s)\n", arg.Name, FormatType(arg.Type))
			if len(arg.Docs) > 0 {
				rw.printf("       %s\n", p.muted.Sprint(strings.Join(arg.Docs, " ")))
			}
		}
	} else {
		rw.printf("   Arguments: None\n")
	}

	rw.printf("   Accounts:\n")
	if len(ix.Accounts) == 0 {
		rw.printf("     None\n")
	} else if rw.err == nil {
		rw.err = RenderAccounts(rw.w, ix.Accounts, 1)
	}

	if ix.Returns != nil {
		rw.printf("   Returns: %s\n", FormatType(ix.Returns))
	}
}

// reportWriter remembers the first write error so the report body reads
// top to bottom.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) printf(format string, args ...any) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, format, args...)
}
