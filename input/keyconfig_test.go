package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultKeyTable_Lookup(t *testing.T) {
	kt := DefaultKeyTable()
	tests := []struct {
		key  rune
		want Intent
	}{
		{'q', IntentQuit},
		{' ', IntentDestroy},
		{'c', IntentCombo},
		{'t', IntentCycleTheme},
		{'e', IntentEmergency},
		{'z', IntentNone},
	}
	for _, tt := range tests {
		if got := kt.Lookup(tt.key); got != tt.want {
			t.Errorf("Lookup(%q): Expected %v, got %v", tt.key, tt.want, got)
		}
	}

	var nilTable *KeyTable
	if nilTable.Lookup('q') != IntentNone {
		t.Error("Expected nil table to bind nothing")
	}
}

func TestIntent_Names(t *testing.T) {
	for i := IntentNone; i < intentCount; i++ {
		got, ok := ParseIntent(i.String())
		if !ok || got != i {
			t.Errorf("ParseIntent(%q) = %v, %v", i.String(), got, ok)
		}
	}
	if Intent(200).String() != "unknown" {
		t.Error("Expected unknown for out of range intent")
	}
}

func TestLoadKeyConfig(t *testing.T) {
	data := []byte(`
[keys]
space = "storm"
d = "destroy"
q = "none"
`)
	over, err := LoadKeyConfig(data)
	if err != nil {
		t.Fatalf("LoadKeyConfig: %v", err)
	}

	kt := DefaultKeyTable()
	kt.Merge(over)

	if kt.Lookup(' ') != IntentStorm {
		t.Errorf("Expected space rebound to storm, got %v", kt.Lookup(' '))
	}
	if kt.Lookup('d') != IntentDestroy {
		t.Errorf("Expected d bound to destroy, got %v", kt.Lookup('d'))
	}
	if kt.Lookup('q') != IntentNone {
		t.Errorf("Expected q unbound, got %v", kt.Lookup('q'))
	}
	if kt.Lookup('c') != IntentCombo {
		t.Errorf("Expected untouched binding to survive, got %v", kt.Lookup('c'))
	}
}

func TestLoadKeyConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown action", "[keys]\na = \"fly\"", "unknown action"},
		{"multi rune key", "[keys]\nab = \"hit\"", "single character"},
		{"unknown section", "[mouse]\nleft = \"hit\"", "unknown key"},
		{"malformed", "[keys\n", "keymap parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadKeyConfig([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.toml")
	if err := os.WriteFile(path, []byte("[keys]\nplus = \"storm\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	kt, err := LoadKeyFile(path)
	if err != nil {
		t.Fatalf("LoadKeyFile: %v", err)
	}
	if kt.Lookup('+') != IntentStorm {
		t.Errorf("Expected plus rebound to storm, got %v", kt.Lookup('+'))
	}
	if kt.Lookup('q') != IntentQuit {
		t.Errorf("Expected defaults kept, got %v", kt.Lookup('q'))
	}

	if _, err := LoadKeyFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestKeyTable_Help(t *testing.T) {
	kt := &KeyTable{Runes: map[rune]Intent{' ': IntentDestroy, 'q': IntentQuit}}
	if got := kt.Help(); got != "space:destroy q:quit" {
		t.Errorf("Expected \"space:destroy q:quit\", got %q", got)
	}
}
