package input

import (
	"fmt"
	"sort"
	"strings"
)

// KeyTable maps printable keys to intents
// Hosts translate their own special keys (escape, ctrl-c) before lookup
type KeyTable struct {
	Runes map[rune]Intent
}

// DefaultKeyTable returns the default bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Runes: map[rune]Intent{
			'q': IntentQuit,
			'p': IntentPause,
			'm': IntentToggleMute,
			'+': IntentVolumeUp,
			'=': IntentVolumeUp,
			'-': IntentVolumeDown,

			' ': IntentDestroy,
			'h': IntentHit,
			'c': IntentCombo,
			'i': IntentCollect,
			'x': IntentCollision,
			's': IntentStorm,

			't': IntentCycleTheme,
			'e': IntentEmergency,
			'o': IntentForceOptimize,
			'l': IntentToggleLOD,
		},
	}
}

// Lookup returns the intent bound to r
func (kt *KeyTable) Lookup(r rune) Intent {
	if kt == nil {
		return IntentNone
	}
	return kt.Runes[r]
}

// Merge applies overrides on top of kt; IntentNone unbinds a key
func (kt *KeyTable) Merge(over *KeyTable) {
	if over == nil {
		return
	}
	if kt.Runes == nil {
		kt.Runes = make(map[rune]Intent, len(over.Runes))
	}
	for r, i := range over.Runes {
		if i == IntentNone {
			delete(kt.Runes, r)
			continue
		}
		kt.Runes[r] = i
	}
}

// Help renders bindings as "key:action" pairs sorted by action
func (kt *KeyTable) Help() string {
	pairs := make([]string, 0, len(kt.Runes))
	for r, i := range kt.Runes {
		pairs = append(pairs, fmt.Sprintf("%s:%s", keyName(r), i))
	}
	sort.Slice(pairs, func(a, b int) bool {
		ia := pairs[a][strings.IndexByte(pairs[a], ':')+1:]
		ib := pairs[b][strings.IndexByte(pairs[b], ':')+1:]
		if ia != ib {
			return ia < ib
		}
		return pairs[a] < pairs[b]
	})
	return strings.Join(pairs, " ")
}
