package idl

// Document is a complete IDL.
type Document struct {
	Address      string        `json:"address"`
	Metadata     Metadata      `json:"metadata"`
	Docs         []string      `json:"docs,omitempty"`
	Instructions []Instruction `json:"instructions"`
	Accounts     []AccountDef  `json:"accounts,omitempty"`
	Events       []EventDef    `json:"events,omitempty"`
	Errors       []ErrorCode   `json:"errors,omitempty"`
	Types        []TypeDef     `json:"types,omitempty"`
	Constants    []Const       `json:"constants,omitempty"`
}

// Metadata describes the program the document belongs to.
type Metadata struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Spec         string       `json:"spec"`
	Description  string       `json:"description,omitempty"`
	Repository   string       `json:"repository,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
	Contact      string       `json:"contact,omitempty"`
	Deployments  *Deployments `json:"deployments,omitempty"`
}

type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Deployments struct {
	Mainnet  string `json:"mainnet,omitempty"`
	Testnet  string `json:"testnet,omitempty"`
	Devnet   string `json:"devnet,omitempty"`
	Localnet string `json:"localnet,omitempty"`
}

// Instruction is one callable entry point of the program.
type Instruction struct {
	Name          string       `json:"name"`
	Docs          []string     `json:"docs,omitempty"`
	Discriminator Bytes        `json:"discriminator"`
	Accounts      AccountItems `json:"accounts"`
	Args          []Field      `json:"args"`
	Returns       Type         `json:"returns,omitempty"`
}

// AccountDef declares an account type stored on chain. Its layout lives in
// Types under the same name.
type AccountDef struct {
	Name          string `json:"name"`
	Discriminator Bytes  `json:"discriminator"`
}

// EventDef declares an emitted event. Its layout lives in Types.
type EventDef struct {
	Name          string `json:"name"`
	Discriminator Bytes  `json:"discriminator"`
}

type ErrorCode struct {
	Code uint32 `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg,omitempty"`
}

// Field is a named, typed member: an instruction argument or a struct field.
type Field struct {
	Name string   `json:"name"`
	Docs []string `json:"docs,omitempty"`
	Type Type     `json:"type"`
}

type Const struct {
	Name  string   `json:"name"`
	Docs  []string `json:"docs,omitempty"`
	Type  Type     `json:"type"`
	Value string   `json:"value"`
}

// TypeByName returns the type definition with the given name.
func (d *Document) TypeByName(name string) (*TypeDef, bool) {
	for i := range d.Types {
		if d.Types[i].Name == name {
			return &d.Types[i], true
		}
	}
	return nil, false
}
