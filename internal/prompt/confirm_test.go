package prompt

import (
	"bytes"
	"testing"
)

func TestConfirmOverwrite_NonInteractive(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("y\n"),
		Out:           nil,
		IsInteractive: func() bool { return false },
	}
	ok, err := c.ConfirmOverwrite("remix.mp4", false)
	if err == nil {
		t.Fatalf("expected error for non-interactive confirm, got ok=%v", ok)
	}
}

func TestConfirmOverwrite_Force(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("n\n"),
		Out:           nil,
		IsInteractive: func() bool { return false },
	}
	ok, err := c.ConfirmOverwrite("remix.mp4", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true for forced overwrite")
	}
}

func TestConfirmOverwrite_Interactive(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"n\n", false},
		{"\n", false},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		c := Confirmer{
			In:            bytes.NewBufferString(tc.input),
			Out:           &out,
			IsInteractive: func() bool { return true },
		}
		ok, err := c.ConfirmOverwrite("remix.mp4", false)
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", tc.input, err)
		}
		if ok != tc.want {
			t.Fatalf("input %q: ok=%v, want %v", tc.input, ok, tc.want)
		}
		if out.Len() == 0 {
			t.Fatalf("input %q: expected overwrite prompt to be printed", tc.input)
		}
	}
}
