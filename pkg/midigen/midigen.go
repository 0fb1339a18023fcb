package midigen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/james-see/melodygen/pkg/encoder"
	"github.com/james-see/melodygen/pkg/generator"
)

// Generate fills in defaults, resolves the seed and encodes the request.
// On error no bytes are returned.
func Generate(p generator.Params) (Result, error) {
	return GenerateAt(p, time.Now())
}

// GenerateAt is Generate with the timestamp used in the filename
func GenerateAt(p generator.Params, now time.Time) (Result, error) {
	p = p.WithDefaults()
	seed := p.ResolveSeed()
	p.Seed = &seed

	tr, err := generator.Generate(p)
	if err != nil {
		return Result{}, err
	}
	data, err := encoder.Encode(tr)
	if err != nil {
		return Result{}, fmt.Errorf("encode %s: %w", p.Kind, err)
	}
	return Result{
		Data:     data,
		Filename: Filename(p, now),
		Kind:     p.Kind,
		Seed:     seed,
		Notes:    len(tr.Notes),
	}, nil
}

// Filename builds
//
//	{melody|chord|arpeggio}_{root}_{mode|progression|mode_pattern}_{bpm}bpm_{timestamp}.mid
//
// where timestamp is ISO 8601 with ':' and '.' replaced by '-'.
func Filename(p generator.Params, now time.Time) string {
	prefix, detail := "melody", p.Mode
	switch p.Kind {
	case generator.KindChords:
		prefix, detail = "chord", p.ProgressionType
	case generator.KindArpeggio:
		pattern := p.ArpeggioPattern
		if pattern == "" {
			pattern = generator.ArpeggioUp
		}
		prefix, detail = "arpeggio", p.Mode+"_"+pattern
	}
	stamp := now.Format("2006-01-02T15:04:05.000000")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return fmt.Sprintf("%s_%s_%s_%dbpm_%s.mid", prefix, sanitize(p.RootNote), sanitize(detail), p.BPM, stamp)
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '#':
			return r
		case r == ' ', r == ',', r == '/':
			return '_'
		default:
			return -1
		}
	}, s)
}

// Save writes the result into dir and returns the full path
func Save(dir string, r Result) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, r.Filename)
	if err := os.WriteFile(path, r.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write MIDI file: %w", err)
	}
	return path, nil
}
