package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

const anchorToml = `[toolchain]
anchor_version = "0.30.1"

[features]
resolution = false
skip-lint = true

[programs.localnet]
vault = "Vau1t11111111111111111111111111111111111111"
escrow = "Esc1111111111111111111111111111111111111111"

[provider]
cluster = "Localnet"
wallet = "~/.config/solana/id.json"
`

func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), anchorToml)
	writeFile(t, filepath.Join(root, "programs", "vault", "Cargo.toml"), "[package]\nname = \"vault\"\n")
	writeFile(t, filepath.Join(root, "programs", "escrow-v2", "Cargo.toml"), "[package]\nname = \"escrow-v2\"\n\n[lib]\nname = \"escrow\"\n")
	writeFile(t, filepath.Join(root, "programs", "token-utils", "Cargo.toml"), "[package]\nname = \"token-utils\"\n")
	writeFile(t, filepath.Join(root, "programs", "notes", "README.md"), "not a crate\n")
	return root
}

func TestLoadWalksUp(t *testing.T) {
	root := newWorkspace(t)
	deep := filepath.Join(root, "programs", "vault", "src", "instructions")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	ws, err := Load(deep)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ws.Root != root {
		t.Fatalf("Root = %q, want %q", ws.Root, root)
	}
	if ws.Config.Toolchain.AnchorVersion != "0.30.1" || !ws.Config.Features.SkipLint {
		t.Fatalf("Config = %+v", ws.Config)
	}
	if ws.Resolution() {
		t.Fatalf("Resolution() = true, want false")
	}
}

func TestPrograms(t *testing.T) {
	ws, err := Load(newWorkspace(t))
	if err != nil {
		t.Fatal(err)
	}
	progs, err := ws.Programs()
	if err != nil {
		t.Fatalf("Programs: %v", err)
	}
	want := []struct{ name, dir, addr string }{
		{"escrow", "escrow-v2", "Esc1111111111111111111111111111111111111111"},
		{"token_utils", "token-utils", ""},
		{"vault", "vault", "Vau1t11111111111111111111111111111111111111"},
	}
	if len(progs) != len(want) {
		t.Fatalf("Programs = %+v", progs)
	}
	for i, w := range want {
		p := progs[i]
		if p.Name != w.name || filepath.Base(p.Dir) != w.dir || p.Address != w.addr {
			t.Fatalf("program %d = %+v, want %+v", i, p, w)
		}
	}
}

func TestProgramsMembersAndExclude(t *testing.T) {
	root := newWorkspace(t)
	writeFile(t, filepath.Join(root, ManifestName), anchorToml+"\n[workspace]\nmembers = [\"programs/*\"]\nexclude = [\"programs/token-utils\"]\n")
	ws, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	progs, err := ws.Programs()
	if err != nil {
		t.Fatal(err)
	}
	if len(progs) != 2 || progs[0].Name != "escrow" || progs[1].Name != "vault" {
		t.Fatalf("Programs = %+v", progs)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(t.TempDir()); !errors.Is(err, ErrNoWorkspace) {
		t.Fatalf("Load(empty) = %v, want ErrNoWorkspace", err)
	}

	cases := map[string]string{
		"bad toml":      "[features\n",
		"no cluster":    "[provider]\nwallet = \"w\"\n",
		"empty address": "[programs.localnet]\nvault = \"\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, body)
			if _, err := LoadFile(path); err == nil {
				t.Fatalf("LoadFile succeeded for %s", name)
			}
		})
	}
}

func TestResolutionDefaultsOn(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, "[provider]\ncluster = \"devnet\"\nwallet = \"w\"\n")
	ws, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !ws.Resolution() || ws.Cluster() != "devnet" {
		t.Fatalf("Resolution=%v Cluster=%q", ws.Resolution(), ws.Cluster())
	}
}
