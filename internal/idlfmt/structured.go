package idlfmt

import (
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"idlkit/internal/idl"
)

// Report is the machine-readable form of the instruction report.
type Report struct {
	Program      string              `json:"program" yaml:"program"`
	Version      string              `json:"version" yaml:"version"`
	Address      string              `json:"address" yaml:"address"`
	Instructions []InstructionReport `json:"instructions" yaml:"instructions"`
}

type InstructionReport struct {
	Index    int             `json:"index" yaml:"index"`
	Name     string          `json:"name" yaml:"name"`
	Docs     []string        `json:"docs,omitempty" yaml:"docs,omitempty"`
	Args     []ArgReport     `json:"args,omitempty" yaml:"args,omitempty"`
	Accounts []AccountReport `json:"accounts,omitempty" yaml:"accounts,omitempty"`
	Returns  string          `json:"returns,omitempty" yaml:"returns,omitempty"`
}

type ArgReport struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	Docs string `json:"docs,omitempty" yaml:"docs,omitempty"`
}

// AccountReport is a single account; Path joins enclosing composite names
// with dots.
type AccountReport struct {
	Path     string   `json:"path" yaml:"path"`
	Attrs    []string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	PDASeeds int      `json:"pda_seeds,omitempty" yaml:"pda_seeds,omitempty"`
}

// BuildReport collects the same information Instructions prints.
func BuildReport(doc *idl.Document, namesOnly bool) Report {
	rep := Report{
		Program:      doc.Metadata.Name,
		Version:      doc.Metadata.Version,
		Address:      doc.Address,
		Instructions: make([]InstructionReport, 0, len(doc.Instructions)),
	}
	for i := range doc.Instructions {
		ix := &doc.Instructions[i]
		ir := InstructionReport{Index: i + 1, Name: ix.Name}
		if !namesOnly {
			ir.Docs = ix.Docs
			for _, arg := range ix.Args {
				ir.Args = append(ir.Args, ArgReport{
					Name: arg.Name,
					Type: FormatType(arg.Type),
					Docs: strings.Join(arg.Docs, " "),
				})
			}
			ir.Accounts = flattenAccounts(ix.Accounts, "", ir.Accounts)
			if ix.Returns != nil {
				ir.Returns = FormatType(ix.Returns)
			}
		}
		rep.Instructions = append(rep.Instructions, ir)
	}
	return rep
}

func flattenAccounts(items []idl.AccountItem, prefix string, out []AccountReport) []AccountReport {
	for _, item := range items {
		switch acc := item.(type) {
		case *idl.Account:
			ar := AccountReport{Path: prefix + acc.Name, Attrs: AccountAttrs(acc)}
			if acc.PDA != nil {
				ar.PDASeeds = len(acc.PDA.Seeds)
			}
			out = append(out, ar)
		case *idl.Composite:
			out = flattenAccounts(acc.Accounts, prefix+acc.Name+".", out)
		}
	}
	return out
}

// WriteJSON writes rep as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteYAML writes rep as YAML.
func WriteYAML(w io.Writer, rep Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}
