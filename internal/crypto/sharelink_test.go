package crypto

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNewShareLinkGeneratorLength(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr error
	}{
		{name: "default", length: DefaultShareLinkLength},
		{name: "minimum", length: MinShareLinkLength},
		{name: "maximum", length: MaxShareLinkLength},
		{name: "zero", length: 0, wantErr: ErrShareLinkLength},
		{name: "negative", length: -3, wantErr: ErrShareLinkLength},
		{name: "too long", length: MaxShareLinkLength + 1, wantErr: ErrShareLinkLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewShareLinkGenerator(tt.length)
			if err != tt.wantErr {
				t.Fatalf("NewShareLinkGenerator(%d) error = %v, want %v", tt.length, err, tt.wantErr)
			}
			if tt.wantErr == nil && g == nil {
				t.Fatal("NewShareLinkGenerator() returned nil generator")
			}
		})
	}
}

func TestShareLinkFormat(t *testing.T) {
	g, err := NewShareLinkGenerator(10)
	if err != nil {
		t.Fatalf("NewShareLinkGenerator() unexpected error: %v", err)
	}
	at := time.UnixMilli(1700000000000)
	g.now = func() time.Time { return at }

	hash, err := g.Generate(42)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	parts := strings.Split(hash, "-")
	if len(parts) != 3 {
		t.Fatalf("Generate() = %q, want 3 dash-separated parts", hash)
	}
	if parts[0] != "42" {
		t.Errorf("owner part = %q, want %q", parts[0], "42")
	}
	if want := strconv.FormatInt(at.UnixMilli(), 36); parts[1] != want {
		t.Errorf("timestamp part = %q, want %q", parts[1], want)
	}
	if len(parts[2]) != 10 {
		t.Errorf("suffix length = %d, want 10", len(parts[2]))
	}
	for _, ch := range parts[2] {
		if !strings.ContainsRune(shareLinkAlphabet, ch) {
			t.Errorf("suffix contains unexpected character %q", string(ch))
		}
	}
}

func TestShareLinksDiffer(t *testing.T) {
	g, err := NewShareLinkGenerator(DefaultShareLinkLength)
	if err != nil {
		t.Fatalf("NewShareLinkGenerator() unexpected error: %v", err)
	}
	g.now = func() time.Time { return time.UnixMilli(0) }

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		hash, err := g.Generate(1)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if seen[hash] {
			t.Errorf("duplicate share link generated: %q", hash)
		}
		seen[hash] = true
	}
}
