package main

import (
	"testing"

	"github.com/maraval/veogallery/internal/metadata"
)

func TestNormalizeVeoModel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty uses default",
			input: "",
			want:  defaultGUIModel,
		},
		{
			name:  "supported model kept",
			input: "veo-3.1-generate-preview",
			want:  "veo-3.1-generate-preview",
		},
		{
			name:  "unknown model falls back",
			input: "unknown-model",
			want:  defaultGUIModel,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeVeoModel(tc.input)
			if got != tc.want {
				t.Fatalf("normalizeVeoModel(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeRefinerModel(t *testing.T) {
	if got := normalizeRefinerModel("bogus"); got != metadata.DefaultRefinerModel {
		t.Fatalf("normalizeRefinerModel(bogus) = %q, want default", got)
	}
	if got := normalizeRefinerModel(metadata.DefaultRefinerModel); got != metadata.DefaultRefinerModel {
		t.Fatalf("known refiner model rewritten to %q", got)
	}
}

func TestNormalizeAspect(t *testing.T) {
	if got := normalizeAspect("9:16"); got != "9:16" {
		t.Fatalf("valid aspect rewritten to %q", got)
	}
	if got := normalizeAspect("21:9"); got != "16:9" {
		t.Fatalf("invalid aspect normalized to %q, want 16:9", got)
	}
}

func TestClampVariantCount(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1},
		{-3, 1},
		{1, 1},
		{4, 4},
		{9, 4},
	}
	for _, tc := range tests {
		if got := clampVariantCount(tc.in); got != tc.want {
			t.Errorf("clampVariantCount(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestClampPollSeconds(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, defaultPollSeconds},
		{-5, defaultPollSeconds},
		{1, 1},
		{120, 120},
		{600, maxPollSecondsGUI},
	}
	for _, tc := range tests {
		if got := clampPollSeconds(tc.in); got != tc.want {
			t.Errorf("clampPollSeconds(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
