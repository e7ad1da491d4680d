package idlfmt

import (
	"fmt"
	"io"
	"strings"

	"idlkit/internal/idl"
)

const indentUnit = "  "

// RenderAccounts writes items as an indented tree. Lines at depth d are
// indented by two spaces times d+2, so depth 1 lines up under the
// "   Accounts:" heading of the instruction report.
//
// A single account renders as "name (writable, signer, optional)" listing only
// the flags that are set, followed by "  PDA with N seeds" when it has a PDA.
// A composite renders as "name:" with its children one level deeper. An empty
// list renders a lone "None".
func RenderAccounts(w io.Writer, items []idl.AccountItem, depth int) error {
	indent := strings.Repeat(indentUnit, depth+2)
	if len(items) == 0 {
		_, err := fmt.Fprintf(w, "%sNone\n", indent)
		return err
	}
	return renderAccounts(w, items, depth)
}

func renderAccounts(w io.Writer, items []idl.AccountItem, depth int) error {
	indent := strings.Repeat(indentUnit, depth+2)
	for _, item := range items {
		switch acc := item.(type) {
		case *idl.Account:
			if _, err := fmt.Fprintf(w, "%s%s%s\n", indent, acc.Name, attrSuffix(acc)); err != nil {
				return err
			}
			if acc.PDA != nil {
				if _, err := fmt.Fprintf(w, "%s%sPDA with %d seeds\n", indent, indentUnit, len(acc.PDA.Seeds)); err != nil {
					return err
				}
			}
		case *idl.Composite:
			if _, err := fmt.Fprintf(w, "%s%s:\n", indent, acc.Name); err != nil {
				return err
			}
			if err := renderAccounts(w, acc.Accounts, depth+1); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected account item %T", item)
		}
	}
	return nil
}

// AccountAttrs lists the set flags of acc in fixed order.
func AccountAttrs(acc *idl.Account) []string {
	attrs := make([]string, 0, 3)
	if acc.Writable {
		attrs = append(attrs, "writable")
	}
	if acc.Signer {
		attrs = append(attrs, "signer")
	}
	if acc.Optional {
		attrs = append(attrs, "optional")
	}
	return attrs
}

func attrSuffix(acc *idl.Account) string {
	attrs := AccountAttrs(acc)
	if len(attrs) == 0 {
		return ""
	}
	return " (" + strings.Join(attrs, ", ") + ")"
}
