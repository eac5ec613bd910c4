package space

import (
	"slices"
	"testing"
)

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name string
		n    int
		want [][]int
	}{
		{"exact multiple", 7, [][]int{{1, 2, 3, 4, 5, 6, 7}}},
		{"remainder", 3, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}},
		{"size one", 1, [][]int{{1}, {2}, {3}, {4}, {5}, {6}, {7}}},
		{"larger than input", 50, [][]int{{1, 2, 3, 4, 5, 6, 7}}},
		{"non-positive", 0, [][]int{{1, 2, 3, 4, 5, 6, 7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(items, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("len(Chunk()) = %d, want %d", len(got), len(tt.want))
			}
			var flat []int
			for i, c := range got {
				if !slices.Equal(c, tt.want[i]) {
					t.Errorf("chunk %d = %v, want %v", i, c, tt.want[i])
				}
				flat = append(flat, c...)
			}
			if !slices.Equal(flat, items) {
				t.Errorf("flattened = %v, want %v", flat, items)
			}
		})
	}
}

func TestChunk_Empty(t *testing.T) {
	if got := Chunk([]int{}, 3); len(got) != 0 {
		t.Errorf("Chunk(empty) = %v, want none", got)
	}
}

func TestChunk_DoesNotAlias(t *testing.T) {
	items := []int{1, 2, 3, 4}
	chunks := Chunk(items, 2)

	chunks[0] = append(chunks[0], 99)

	if items[2] != 3 {
		t.Errorf("appending to a chunk overwrote the input: %v", items)
	}
}
