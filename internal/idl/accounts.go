package idl

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// AccountItem is an instruction account requirement: *Account or *Composite.
type AccountItem interface {
	ItemName() string
	isAccountItem()
}

// Account is a single account passed to an instruction.
type Account struct {
	Name      string   `json:"name"`
	Docs      []string `json:"docs,omitempty"`
	Writable  bool     `json:"writable,omitempty"`
	Signer    bool     `json:"signer,omitempty"`
	Optional  bool     `json:"optional,omitempty"`
	Address   string   `json:"address,omitempty"`
	PDA       *PDA     `json:"pda,omitempty"`
	Relations []string `json:"relations,omitempty"`
}

// Composite is a named group of account requirements.
type Composite struct {
	Name     string       `json:"name"`
	Accounts AccountItems `json:"accounts"`
}

func (a *Account) ItemName() string   { return a.Name }
func (c *Composite) ItemName() string { return c.Name }

func (*Account) isAccountItem()   {}
func (*Composite) isAccountItem() {}

// PDA describes how an account address is derived.
type PDA struct {
	Seeds   []Seed `json:"seeds"`
	Program *Seed  `json:"program,omitempty"`
}

// Seed is one PDA seed. Kind is "const", "arg" or "account".
type Seed struct {
	Kind    string `json:"kind"`
	Value   Bytes  `json:"value,omitempty"`
	Path    string `json:"path,omitempty"`
	Account string `json:"account,omitempty"`
}

// AccountItems keeps authored order; composites are detected by an
// "accounts" member.
type AccountItems []AccountItem

func (items *AccountItems) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(AccountItems, 0, len(raw))
	for i, r := range raw {
		item, err := decodeAccountItem(r)
		if err != nil {
			return fmt.Errorf("account %d: %w", i, err)
		}
		out = append(out, item)
	}
	*items = out
	return nil
}

func decodeAccountItem(data json.RawMessage) (AccountItem, error) {
	var probe struct {
		Accounts json.RawMessage `json:"accounts"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(probe.Accounts)) > 0 {
		var c Composite
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	}
	var a Account
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// WalkAccounts visits every item depth-first in authored order. depth is 0
// for top-level items.
func WalkAccounts(items []AccountItem, fn func(item AccountItem, depth int)) {
	walkAccounts(items, 0, fn)
}

func walkAccounts(items []AccountItem, depth int, fn func(AccountItem, int)) {
	for _, item := range items {
		fn(item, depth)
		if c, ok := item.(*Composite); ok {
			walkAccounts(c.Accounts, depth+1, fn)
		}
	}
}
