// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"testing"

	"code.hybscloud.com/segbuf"
)

func TestOptions_SelectLongestMatchWins(t *testing.T) {
	opts, err := segbuf.NewOptions(
		segbuf.NewByteStringFromString("GET"),
		segbuf.NewByteStringFromString("GETALL"),
		segbuf.NewByteStringFromString("POST"),
	)
	if err != nil {
		t.Fatalf("NewOptions: %v", err)
	}

	tests := []struct {
		name      string
		input     string
		wantIndex int
		wantRest  string
	}{
		{"exact short option with no longer match", "GET /", 0, " /"},
		{"longer option wins maximal munch", "GETALL /", 1, " /"},
		{"second alternative", "POST /", 2, " /"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b segbuf.Buffer
			_, _ = b.WriteString(tt.input)
			idx, err := b.Select(opts)
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if idx != tt.wantIndex {
				t.Fatalf("Select index = %d, want %d", idx, tt.wantIndex)
			}
			rest, _ := b.ReadByteString(b.ByteSize())
			if rest.String() != tt.wantRest {
				t.Fatalf("remaining bytes = %q, want %q", rest.String(), tt.wantRest)
			}
		})
	}
}

func TestOptions_SelectNoMatchConsumesNothing(t *testing.T) {
	opts, err := segbuf.NewOptions(
		segbuf.NewByteStringFromString("GET"),
		segbuf.NewByteStringFromString("POST"),
	)
	if err != nil {
		t.Fatalf("NewOptions: %v", err)
	}
	var b segbuf.Buffer
	_, _ = b.WriteString("PUT /")
	idx, err := b.Select(opts)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if idx != -1 {
		t.Fatalf("Select index = %d, want -1", idx)
	}
	if got := b.ByteSize(); got != int64(len("PUT /")) {
		t.Fatalf("Select consumed bytes on no-match: ByteSize() = %d", got)
	}
}

func TestOptions_EmptyAlternativesRejected(t *testing.T) {
	if _, err := segbuf.NewOptions(); err != segbuf.ErrInvalidOptions {
		t.Fatalf("NewOptions() with no alternatives = %v, want ErrInvalidOptions", err)
	}
}

func TestOptions_SelectAtEndOfStreamUsesLastTerminal(t *testing.T) {
	opts, err := segbuf.NewOptions(
		segbuf.NewByteStringFromString("a"),
		segbuf.NewByteStringFromString("ab"),
	)
	if err != nil {
		t.Fatalf("NewOptions: %v", err)
	}
	var b segbuf.Buffer
	_, _ = b.WriteString("a")
	idx, err := b.Select(opts)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if idx != 0 {
		t.Fatalf("Select index = %d, want 0 (fall back to shorter terminal at stream end)", idx)
	}
}
