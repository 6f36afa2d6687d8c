package input

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

// Rune aliases for keys that can't be bare single-char TOML keys
var runeAliases = map[string]rune{
	"space": ' ',
	"plus":  '+',
	"minus": '-',
	"equal": '=',
}

func keyName(r rune) string {
	for name, alias := range runeAliases {
		if alias == r {
			return name
		}
	}
	return string(r)
}

type keyFile struct {
	Keys map[string]string `toml:"keys"`
}

// LoadKeyConfig parses a TOML keymap into a sparse override table
//
//	[keys]
//	space = "storm"
//	d = "destroy"
//	q = "none"
//
// Unknown action names, multi-rune keys and unknown sections are errors
func LoadKeyConfig(data []byte) (*KeyTable, error) {
	var f keyFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("keymap parse: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("keymap: unknown key %q", undecoded[0].String())
	}

	kt := &KeyTable{Runes: make(map[rune]Intent, len(f.Keys))}
	for keyStr, action := range f.Keys {
		r, err := resolveRune(keyStr)
		if err != nil {
			return nil, fmt.Errorf("[keys] key %q: %w", keyStr, err)
		}
		intent, ok := ParseIntent(action)
		if !ok {
			return nil, fmt.Errorf("[keys] key %q: unknown action %q", keyStr, action)
		}
		kt.Runes[r] = intent
	}
	return kt, nil
}

// LoadKeyFile reads a keymap file and merges it over the defaults
func LoadKeyFile(path string) (*KeyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keymap %s: %w", path, err)
	}
	over, err := LoadKeyConfig(data)
	if err != nil {
		return nil, err
	}
	kt := DefaultKeyTable()
	kt.Merge(over)
	return kt, nil
}

// resolveRune converts a TOML key string to a rune
func resolveRune(s string) (rune, error) {
	if r, ok := runeAliases[s]; ok {
		return r, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected a single character or alias")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
