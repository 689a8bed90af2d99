// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

package pipelinedef

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spindle-works/spindle/lib/command"
)

func TestParseJSONC(t *testing.T) {
	def, err := Parse([]byte(`{
		// uppercase a greeting
		"name": "shout",
		"stages": [
			["echo", "hi"],
			["tr", "a-z", "A-Z"], // trailing comma below is fine
		],
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if def.Name != "shout" {
		t.Errorf("name = %q, want shout", def.Name)
	}
	specs := def.Specs()
	if len(specs) != 2 {
		t.Fatalf("specs = %d, want 2", len(specs))
	}
	if !reflect.DeepEqual(specs[1].Args, []string{"tr", "a-z", "A-Z"}) {
		t.Errorf("stage 1 args = %v", specs[1].Args)
	}
}

func TestParseEmptyStage(t *testing.T) {
	if _, err := Parse([]byte(`{"stages": [["echo"], []]}`)); err == nil {
		t.Error("empty stage accepted")
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.jsonc")
	if err := os.WriteFile(path, []byte(`{"stages":[["true"]]}`), 0600); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	def, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(def.Stages) != 1 {
		t.Errorf("stages = %d, want 1", len(def.Stages))
	}
}

func TestSplitArgv(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []command.Spec
		wantErr bool
	}{
		{
			name: "two stages",
			args: []string{"echo", "hi", "|", "tr", "a-z", "A-Z"},
			want: []command.Spec{
				command.New("echo", "hi"),
				command.New("tr", "a-z", "A-Z"),
			},
		},
		{
			name: "single stage",
			args: []string{"false"},
			want: []command.Spec{command.New("false")},
		},
		{
			name: "empty input",
			args: nil,
			want: nil,
		},
		{name: "leading separator", args: []string{"|", "cat"}, wantErr: true},
		{name: "trailing separator", args: []string{"cat", "|"}, wantErr: true},
		{name: "doubled separator", args: []string{"a", "|", "|", "b"}, wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := SplitArgv(test.args)
			if test.wantErr {
				if err == nil {
					t.Fatal("want error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitArgv: %v", err)
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("SplitArgv = %v, want %v", got, test.want)
			}
		})
	}
}
