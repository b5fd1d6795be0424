package partition

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name           string
		total, workers int
		want           []Chunk
	}{
		{"even", 6, 3, []Chunk{{0, 0, 2}, {1, 2, 2}, {2, 4, 2}}},
		{"uneven", 7, 3, []Chunk{{0, 0, 3}, {1, 3, 3}, {2, 6, 1}}},
		{"trailing empty", 4, 3, []Chunk{{0, 0, 2}, {1, 2, 2}, {2, 4, 0}}},
		{"more workers than items", 2, 5, []Chunk{{0, 0, 1}, {1, 1, 1}, {2, 2, 0}, {3, 2, 0}, {4, 2, 0}}},
		{"nothing to do", 0, 2, []Chunk{{0, 0, 0}, {1, 0, 0}}},
		{"zero workers", 3, 0, []Chunk{{0, 0, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.total, tt.workers)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%d, %d) = %v, want %v", tt.total, tt.workers, got, tt.want)
			}
		})
	}
}

func TestSplitCoversRangeExactlyOnce(t *testing.T) {
	for total := 0; total < 40; total++ {
		for workers := 1; workers < 12; workers++ {
			chunks := Split(total, workers)
			if len(chunks) != workers {
				t.Fatalf("Split(%d, %d): %d chunks", total, workers, len(chunks))
			}
			next := 0
			for _, c := range chunks {
				if c.Offset != next {
					t.Fatalf("Split(%d, %d): chunk %d starts at %d, want %d", total, workers, c.Index, c.Offset, next)
				}
				next = c.End()
			}
			if next != total {
				t.Fatalf("Split(%d, %d) ends at %d", total, workers, next)
			}
		}
	}
}

func TestGatherPreservesChunkOrder(t *testing.T) {
	chunks := Split(10, 4)
	got, err := Gather(chunks, func(c Chunk) []int {
		out := make([]int, 0, c.Count)
		for i := c.Offset; i < c.End(); i++ {
			out = append(out, i)
		}
		return out
	})
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Gather() = %v, want %v", got, want)
	}
}

func TestGatherReportsPanics(t *testing.T) {
	chunks := Split(9, 3)
	got, err := Gather(chunks, func(c Chunk) []int {
		if c.Index == 1 {
			panic("out of memory")
		}
		return []int{c.Index}
	})
	if got != nil {
		t.Errorf("Gather() returned partial result %v", got)
	}
	var te *TaskError
	if !errors.As(err, &te) {
		t.Fatalf("Gather() error = %v, want *TaskError", err)
	}
	if te.Chunk.Index != 1 {
		t.Errorf("TaskError chunk = %d, want 1", te.Chunk.Index)
	}
}

func TestGatherEmpty(t *testing.T) {
	got, err := Gather(nil, func(Chunk) []int { return []int{1} })
	if err != nil {
		t.Fatalf("Gather(nil) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Gather(nil) = %v, want empty", got)
	}
}
