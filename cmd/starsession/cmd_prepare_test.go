// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package main

import (
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/starsession/internal/recommend/dataset"
)

func clicks(session string, start time.Time, items ...int) []dataset.Event {
	events := make([]dataset.Event, len(items))
	for i, item := range items {
		events[i] = dataset.Event{
			SessionID: session,
			ItemID:    item,
			Timestamp: start.Add(time.Duration(i) * time.Minute),
		}
	}
	return events
}

func TestPrepareSessions(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var events []dataset.Event
	events = append(events, clicks("a", base, 100, 200, 300)...)
	events = append(events, clicks("b", base.Add(time.Hour), 200, 400)...)
	events = append(events, clicks("c", base.Add(2*time.Hour), 300, 999, 100)...)

	p, err := prepareSessions(events, dataset.DefaultSessionizeOptions(), 1.0/3)
	if err != nil {
		t.Fatalf("prepareSessions() error = %v", err)
	}

	if p.Sessions != 3 {
		t.Errorf("Sessions = %d, want 3", p.Sessions)
	}
	// Train vocabulary: 100->1, 200->2, 300->3, 400->4.
	if p.Vocab.Size() != 5 {
		t.Errorf("Vocab.Size() = %d, want 5", p.Vocab.Size())
	}
	wantTrain := []dataset.Session{
		{Items: []int{1, 2}, Target: 3},
		{Items: []int{1}, Target: 2},
		{Items: []int{2}, Target: 4},
	}
	if !reflect.DeepEqual(p.Train, wantTrain) {
		t.Errorf("Train = %v, want %v", p.Train, wantTrain)
	}
	// Item 999 is unseen in train and dropped from the test session.
	wantTest := []dataset.Session{{Items: []int{3}, Target: 1}}
	if !reflect.DeepEqual(p.Test, wantTest) {
		t.Errorf("Test = %v, want %v", p.Test, wantTest)
	}
}

func TestPrepareSessions_Errors(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := clicks("a", base, 1, 2)

	if _, err := prepareSessions(events, dataset.DefaultSessionizeOptions(), 1); err == nil {
		t.Error("prepareSessions(fraction=1) error = nil, want error")
	}
	if _, err := prepareSessions(events, dataset.SessionizeOptions{MinLength: 5}, 0.1); err == nil {
		t.Error("prepareSessions() with no long sessions error = nil, want error")
	}
}

func TestParseItemIDs(t *testing.T) {
	got, err := parseItemIDs([]string{"3", "1", "3"})
	if err != nil {
		t.Fatalf("parseItemIDs() error = %v", err)
	}
	if !reflect.DeepEqual(got, []int{3, 1, 3}) {
		t.Errorf("parseItemIDs() = %v, want [3 1 3]", got)
	}
	if _, err := parseItemIDs([]string{"x"}); err == nil {
		t.Error("parseItemIDs(x) error = nil, want error")
	}
}
