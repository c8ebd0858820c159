package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Tone is a style hint passed to the generation endpoint.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneConcise      Tone = "concise"
	TonePersuasive   Tone = "persuasive"
)

// Tones lists every tone in display order.
var Tones = []Tone{ToneProfessional, ToneConcise, TonePersuasive}

var ErrUnknownTone = errors.New("unknown tone")

func (t Tone) Valid() bool {
	for _, v := range Tones {
		if t == v {
			return true
		}
	}
	return false
}

// Label returns the capitalized display name.
func (t Tone) Label() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Next cycles forward through Tones. Unknown tones restart at the first one.
func (t Tone) Next() Tone {
	for i, v := range Tones {
		if v == t {
			return Tones[(i+1)%len(Tones)]
		}
	}
	return Tones[0]
}

// Prev cycles backward through Tones.
func (t Tone) Prev() Tone {
	for i, v := range Tones {
		if v == t {
			return Tones[(i+len(Tones)-1)%len(Tones)]
		}
	}
	return Tones[0]
}

// ParseTone resolves a tone name case-insensitively. Unknown names produce an
// error wrapping ErrUnknownTone that names the closest valid tone when one is
// within a few edits.
func ParseTone(s string) (Tone, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if t := Tone(name); t.Valid() {
		return t, nil
	}
	best, bestDist := Tone(""), -1
	for _, t := range Tones {
		d := levenshtein.ComputeDistance(name, string(t))
		if bestDist < 0 || d < bestDist {
			best, bestDist = t, d
		}
	}
	if name != "" && bestDist <= 3 {
		return "", fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownTone, s, best)
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownTone, s, joinTones())
}

func joinTones() string {
	names := make([]string, len(Tones))
	for i, t := range Tones {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
