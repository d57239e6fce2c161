// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ErrInvalidEvent is returned for click events that cannot be sessionized.
var ErrInvalidEvent = errors.New("invalid event")

// Event is a single timestamped click.
type Event struct {
	// SessionID groups events explicitly. When empty, events are grouped
	// by UserID and split on the inactivity gap.
	SessionID string `json:"session_id,omitempty"`

	// UserID is used when SessionID is empty.
	UserID int `json:"user_id,omitempty"`

	// ItemID is the raw (catalog) item id.
	ItemID int `json:"item_id"`

	// Timestamp orders events within a session.
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks required fields.
func (e Event) Validate() error {
	if e.ItemID == 0 {
		return fmt.Errorf("%w: item_id is required", ErrInvalidEvent)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidEvent)
	}
	return nil
}

// SessionizeOptions controls how events are grouped.
type SessionizeOptions struct {
	// Gap starts a new session when consecutive events are further apart.
	// Zero disables time splitting.
	// Default: 30m
	Gap time.Duration

	// MinLength drops sessions with fewer events.
	// Default: 2
	MinLength int
}

// DefaultSessionizeOptions returns the default grouping options.
func DefaultSessionizeOptions() SessionizeOptions {
	return SessionizeOptions{Gap: 30 * time.Minute, MinLength: 2}
}

// Sessionize groups events into raw item sequences. Output is ordered by
// session start time, ties broken by group key.
func Sessionize(events []Event, opts SessionizeOptions) [][]int {
	groups := make(map[string][]Event)
	for _, e := range events {
		key := e.SessionID
		if key == "" {
			key = "user:" + strconv.Itoa(e.UserID)
		}
		groups[key] = append(groups[key], e)
	}

	type run struct {
		key   string
		start time.Time
		items []int
	}
	var runs []run
	for key, group := range groups {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Timestamp.Before(group[j].Timestamp) })

		current := run{key: key, start: group[0].Timestamp, items: []int{group[0].ItemID}}
		last := group[0].Timestamp
		for _, e := range group[1:] {
			if opts.Gap > 0 && e.Timestamp.Sub(last) > opts.Gap {
				runs = append(runs, current)
				current = run{key: key, start: e.Timestamp}
			}
			current.items = append(current.items, e.ItemID)
			last = e.Timestamp
		}
		runs = append(runs, current)
	}

	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].start.Equal(runs[j].start) {
			return runs[i].start.Before(runs[j].start)
		}
		return runs[i].key < runs[j].key
	})

	var out [][]int
	for _, r := range runs {
		if len(r.items) >= max(opts.MinLength, 1) {
			out = append(out, r.items)
		}
	}
	return out
}

// Vocabulary maps raw item ids onto the dense range 1..n. Id 0 is reserved
// for padding.
type Vocabulary struct {
	dense map[int]int
	raw   []int
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{dense: make(map[int]int), raw: []int{0}}
}

// Add returns the dense id of raw, assigning the next id if unseen.
func (v *Vocabulary) Add(raw int) int {
	if id, ok := v.dense[raw]; ok {
		return id
	}
	id := len(v.raw)
	v.dense[raw] = id
	v.raw = append(v.raw, raw)
	return id
}

// Lookup returns the dense id of raw.
func (v *Vocabulary) Lookup(raw int) (int, bool) {
	id, ok := v.dense[raw]
	return id, ok
}

// Raw returns the raw id of a dense id.
func (v *Vocabulary) Raw(id int) (int, bool) {
	if id < 1 || id >= len(v.raw) {
		return 0, false
	}
	return v.raw[id], true
}

// Size returns the embedding table size the vocabulary needs (padding
// row included).
func (v *Vocabulary) Size() int {
	return len(v.raw)
}

// Encode maps a raw sequence to dense ids. With grow set unseen ids are
// added; otherwise they are dropped.
func (v *Vocabulary) Encode(seq []int, grow bool) []int {
	out := make([]int, 0, len(seq))
	for _, raw := range seq {
		if grow {
			out = append(out, v.Add(raw))
			continue
		}
		if id, ok := v.dense[raw]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Augment expands each sequence of length >= 2 into every (prefix, next)
// pair, longest prefix first.
func Augment(sequences [][]int) []Session {
	var out []Session
	for _, seq := range sequences {
		for cut := len(seq) - 1; cut >= 1; cut-- {
			out = append(out, Session{
				Items:  append([]int(nil), seq[:cut]...),
				Target: seq[cut],
			})
		}
	}
	return out
}
