// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package validation

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type sessionRequest struct {
	Items []int  `json:"items" validate:"required,min=1,dive,min=1"`
	K     int    `json:"k,omitempty" validate:"omitempty,min=1,max=100"`
	Mode  string `json:"mode" validate:"omitempty,oneof=hybrid pooled"`
}

type serverSection struct {
	Port int    `koanf:"port" validate:"min=1,max=65535"`
	Host string `koanf:"host" validate:"required"`
}

type nestedConfig struct {
	Server serverSection `koanf:"server"`
	Secret string        `json:"-" validate:"required"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}

func TestStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"minimal request", &sessionRequest{Items: []int{1}}},
		{"full request", &sessionRequest{Items: []int{3, 1, 3}, K: 20, Mode: "pooled"}},
		{"config", &nestedConfig{Server: serverSection{Port: 8080, Host: "0.0.0.0"}, Secret: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Struct(tt.input); err != nil {
				t.Errorf("Struct() error = %v", err)
			}
		})
	}
}

func TestStruct_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		input      any
		wantFields []string
		wantMsg    string
	}{
		{
			name:       "missing items",
			input:      &sessionRequest{},
			wantFields: []string{"items"},
			wantMsg:    "is required",
		},
		{
			name:       "empty items",
			input:      &sessionRequest{Items: []int{}},
			wantFields: []string{"items"},
			wantMsg:    "must be at least 1 items",
		},
		{
			name:       "zero item id",
			input:      &sessionRequest{Items: []int{1, 0}},
			wantFields: []string{"items[1]"},
			wantMsg:    "must be at least 1",
		},
		{
			name:       "k too large",
			input:      &sessionRequest{Items: []int{1}, K: 101},
			wantFields: []string{"k"},
			wantMsg:    "must be at most 100",
		},
		{
			name:       "unknown mode",
			input:      &sessionRequest{Items: []int{1}, Mode: "softmax"},
			wantFields: []string{"mode"},
			wantMsg:    "must be one of: hybrid pooled",
		},
		{
			name:       "nested koanf names",
			input:      &nestedConfig{Server: serverSection{Port: 0}, Secret: "x"},
			wantFields: []string{"server.port", "server.host"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if err == nil {
				t.Fatal("Struct() expected error")
			}

			var verrs Errors
			if !errors.As(err, &verrs) {
				t.Fatalf("Struct() error type = %T, want Errors", err)
			}
			if got := verrs.Fields(); !reflect.DeepEqual(got, tt.wantFields) {
				t.Errorf("Fields() = %v, want %v", got, tt.wantFields)
			}
			if tt.wantMsg != "" && verrs[0].Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", verrs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestErrors_Error(t *testing.T) {
	if got := (Errors{}).Error(); got != "validation failed" {
		t.Errorf("Error() = %q, want %q", got, "validation failed")
	}

	err := Errors{
		{Field: "items", Message: "is required"},
		{Field: "k", Message: "must be at least 1"},
	}
	got := err.Error()
	if !strings.Contains(got, "items: is required") || !strings.Contains(got, "k: must be at least 1") {
		t.Errorf("Error() = %q, want both field messages", got)
	}
}

func TestTagName_Hidden(t *testing.T) {
	field, _ := reflect.TypeOf(nestedConfig{}).FieldByName("Secret")
	if got := tagName(field); got != "" {
		t.Errorf("tagName(json:\"-\") = %q, want empty", got)
	}
}
