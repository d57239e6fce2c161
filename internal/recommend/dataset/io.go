// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// maxLineBytes bounds a single JSON line.
const maxLineBytes = 4 << 20

// LoadJSONLines decodes one Session per non-empty line and validates it.
func LoadJSONLines(r io.Reader) ([]Session, error) {
	return decodeLines(r, func(s Session) error { return s.Validate() })
}

// LoadFile reads sessions from a JSON-lines file.
func LoadFile(path string) ([]Session, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open sessions: %w", err)
	}
	defer f.Close()

	sessions, err := LoadJSONLines(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return sessions, nil
}

// LoadEvents decodes one Event per non-empty line.
func LoadEvents(r io.Reader) ([]Event, error) {
	return decodeLines(r, func(e Event) error { return e.Validate() })
}

// WriteJSONLines encodes sessions one per line.
func WriteJSONLines(w io.Writer, sessions []Session) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i, s := range sessions {
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode session %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func decodeLines[T any](r io.Reader, validate func(T) error) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var out []T
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := validate(v); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", line+1, err)
	}
	return out, nil
}
