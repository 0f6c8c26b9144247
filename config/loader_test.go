/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"bennypowers.dev/dtref/parser"
	"bennypowers.dev/dtref/reference"
	"bennypowers.dev/dtref/testutil"
)

func TestLoad_YAML(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/yaml", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	want := reference.Options{OpeningCharacter: "$(", ClosingCharacter: ")", Separator: "/"}
	if cfg.Reference != want {
		t.Errorf("expected reference options %+v, got %+v", want, cfg.Reference)
	}
	if cfg.ValueMarker != "value" {
		t.Errorf("expected value marker 'value', got %q", cfg.ValueMarker)
	}
	if cfg.AllErrors() {
		t.Error("expected first-error mode")
	}

	wantFiles := []FileSpec{{Path: "tokens/**/*.json"}, {Path: "extra.yaml"}}
	if diff := cmp.Diff(wantFiles, cfg.Files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_JSON(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/json", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if !cfg.AllErrors() {
		t.Error("expected all-errors mode")
	}
	if len(cfg.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(cfg.Files))
	}
	if cfg.Files[0].Path != "./tokens.json" {
		t.Errorf("expected './tokens.json', got %q", cfg.Files[0].Path)
	}
	if cfg.Files[1].Path != "./legacy.json" || cfg.Files[1].ValueMarker != "value" {
		t.Errorf("unexpected object file spec %+v", cfg.Files[1])
	}

	// unset reference options keep their defaults
	if cfg.Reference != reference.DefaultOptions() {
		t.Errorf("expected default reference options, got %+v", cfg.Reference)
	}
}

func TestLoad_NotFound(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/nested", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/invalid", "/project")

	if _, err := Load(mfs, "/project"); err == nil {
		t.Fatal("expected error for invalid errors mode")
	}
}

func TestLoad_Variants(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/variants", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"light", "dark"}, cfg.VariantNames()); diff != "" {
		t.Errorf("variant names mismatch (-want +got):\n%s", diff)
	}

	sets := cfg.VariantSets()
	dark, err := ExpandSpecs(mfs, "/project", sets["dark"])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"/project/tokens/core.json", "/project/tokens/dark.json"}
	if diff := cmp.Diff(want, dark); diff != "" {
		t.Errorf("dark files mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandSpecs_Glob(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/yaml", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	files, err := ExpandSpecs(mfs, "/project", cfg.Files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"/project/tokens/a.json",
		"/project/tokens/nested/b.json",
		"/project/extra.yaml",
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("expanded files mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandSpecs_Dedupes(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/yaml", "/project")

	files, err := ExpandSpecs(mfs, "/project", []FileSpec{
		{Path: "tokens/a.json"},
		{Path: "tokens/*.json"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"/project/tokens/a.json"}, files); diff != "" {
		t.Errorf("expanded files mismatch (-want +got):\n%s", diff)
	}
}

func TestVariantSets_Default(t *testing.T) {
	cfg := &Config{Files: []FileSpec{{Path: "a.json"}}}

	sets := cfg.VariantSets()
	if diff := cmp.Diff(map[string][]FileSpec{DefaultVariant: {{Path: "a.json"}}}, sets); diff != "" {
		t.Errorf("variant sets mismatch (-want +got):\n%s", diff)
	}

	if (&Config{}).VariantSets() != nil {
		t.Error("expected no variant sets without files")
	}
}

func TestVariantSets_SharedFiles(t *testing.T) {
	cfg := &Config{
		Files:    []FileSpec{{Path: "core.json"}},
		Variants: []Variant{{Name: "dark", Files: []FileSpec{{Path: "dark.json"}}}},
	}

	want := []FileSpec{{Path: "core.json"}, {Path: "dark.json"}}
	if diff := cmp.Diff(want, cfg.VariantSets()["dark"]); diff != "" {
		t.Errorf("dark set mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, false},
		{"all", Config{Errors: ErrorsAll}, false},
		{"bad mode", Config{Errors: "some"}, true},
		{"unnamed variant", Config{Variants: []Variant{{Files: []FileSpec{{Path: "a"}}}}}, true},
		{"duplicate variant", Config{Variants: []Variant{
			{Name: "a", Files: []FileSpec{{Path: "a"}}},
			{Name: "a", Files: []FileSpec{{Path: "b"}}},
		}}, true},
		{"empty variant", Config{Variants: []Variant{{Name: "a"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsForFile(t *testing.T) {
	cfg := &Config{
		ValueMarker: "$value",
		Reference:   reference.Options{Separator: "/"},
		Files: []FileSpec{
			{Path: "a.json"},
			{Path: "legacy.json", ValueMarker: "value"},
		},
	}

	want := parser.Options{
		ValueMarker: "value",
		Reference:   reference.Options{OpeningCharacter: "{", ClosingCharacter: "}", Separator: "/"},
	}
	if diff := cmp.Diff(want, cfg.OptionsForFile("legacy.json")); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	if got := cfg.OptionsForFile("a.json").ValueMarker; got != "$value" {
		t.Errorf("expected global value marker, got %q", got)
	}
}
