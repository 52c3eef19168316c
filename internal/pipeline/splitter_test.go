package pipeline

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/chorus-network/chorus/internal/domain"
)

func TestSplitBoundary(t *testing.T) {
	// W=5, n=2 → chunk size round(5/2)=3: one full chunk, one leftover.
	chunks, err := Split("the quick brown fox jumps", 2)
	if err != nil {
		t.Fatalf("split: %v", err)
	}

	want := []string{"the quick brown ", "fox jumps "}
	if len(chunks) != len(want) {
		t.Fatalf("chunk count = %d, want %d", len(chunks), len(want))
	}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk[%d].Text = %q, want %q", i, chunks[i].Text, w)
		}
		if chunks[i].Index != i {
			t.Errorf("chunk[%d].Index = %d, want %d", i, chunks[i].Index, i)
		}
	}
}

func TestSplitPreservesWordSequence(t *testing.T) {
	texts := []string{
		"one",
		"alpha beta gamma delta epsilon zeta eta theta",
		"a  b\tc\nd   e f g h i j k l m",
	}

	for _, text := range texts {
		for n := 1; n <= 5; n++ {
			chunks, err := Split(text, n)
			if err != nil {
				t.Fatalf("Split(%q, %d): %v", text, n, err)
			}

			var joined strings.Builder
			for _, c := range chunks {
				joined.WriteString(c.Text)
			}
			got := strings.Fields(joined.String())
			want := strings.Fields(text)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Split(%q, %d) words = %v, want %v", text, n, got, want)
			}
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	const text = "pack my box with five dozen liquor jugs"
	a, err := Split(text, 3)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	b, err := Split(text, 3)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different chunks: %v vs %v", a, b)
	}
}

func TestSplitTrailingSpaceAfterEveryWord(t *testing.T) {
	chunks, err := Split("hello world", 1)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	for _, c := range chunks {
		if !strings.HasSuffix(c.Text, " ") {
			t.Errorf("chunk %d text %q lacks trailing space", c.Index, c.Text)
		}
	}
}

func TestSplitEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		if _, err := Split(text, 3); !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("Split(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}
}

func TestSplitBadChunkCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := Split("some words here", n); !errors.Is(err, domain.ErrBadChunkCount) {
			t.Errorf("Split(_, %d) error = %v, want ErrBadChunkCount", n, err)
		}
	}
}

func TestSplitMoreChunksThanWords(t *testing.T) {
	// n > W clamps the target size to one word per chunk.
	chunks, err := Split("just three words", 10)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("chunk count = %d, want 3", len(chunks))
	}
	for i, want := range []string{"just ", "three ", "words "} {
		if chunks[i].Text != want {
			t.Errorf("chunk[%d] = %q, want %q", i, chunks[i].Text, want)
		}
	}
}

func TestSplitIndexesContiguous(t *testing.T) {
	chunks, err := Split("a b c d e f g h i j k", 4)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Fatalf("chunk at position %d has index %d", i, c.Index)
		}
	}
}
