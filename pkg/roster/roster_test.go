package roster

import (
	"slices"
	"testing"

	"github.com/matzehuels/rosterfmt/pkg/errors"
	"github.com/matzehuels/rosterfmt/pkg/order"
)

func names(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestSortFullScenario(t *testing.T) {
	in := []Record{
		{Name: "Alice", Label: "XL"},
		{Name: "Bo", Label: "S"},
		{Name: "Cy", Label: "XL"},
	}

	got := NewSorter(nil, Full).Sort(in)

	want := []string{"Bo", "Cy", "Alice"}
	if !slices.Equal(names(got), want) {
		t.Errorf("Sort() = %v, want %v", names(got), want)
	}
	for i, r := range got {
		if r.Seq != i+1 {
			t.Errorf("record %d Seq = %d, want %d", i, r.Seq, i+1)
		}
	}

	// Input is untouched.
	if in[0].Name != "Alice" || in[0].Seq != 0 {
		t.Errorf("Sort() modified input: %+v", in[0])
	}
}

func TestSortFullTieBreaks(t *testing.T) {
	in := []Record{
		{Name: "王小明", Label: "M"},
		{Name: "Zed", Label: "M"},
		{Name: "Amy", Label: "M"},
		{Name: "李四", Label: "M"},
		{Name: "Christopher", Label: "S"},
	}

	got := NewSorter(nil, Full).Sort(in)

	// S before M; within M: 2 runes, then 3 runes ordered lexically.
	want := []string{"Christopher", "李四", "Amy", "Zed", "王小明"}
	if !slices.Equal(names(got), want) {
		t.Errorf("Sort() = %v, want %v", names(got), want)
	}
}

func TestSortSimpleIsStable(t *testing.T) {
	in := []Record{
		{Name: "Zoe", Label: "L"},
		{Name: "Al", Label: "M"},
		{Name: "Bartholomew", Label: "L"},
		{Name: "Ann", Label: "l"},
		{Name: "Cy", Label: "M"},
	}

	got := NewSorter(nil, Simple).Sort(in)

	want := []string{"Al", "Cy", "Zoe", "Bartholomew", "Ann"}
	if !slices.Equal(names(got), want) {
		t.Errorf("Sort() = %v, want %v", names(got), want)
	}
}

func TestSortUnknownLabelsLast(t *testing.T) {
	in := []Record{
		{Name: "a", Label: "free"},
		{Name: "b", Label: "12XL"},
		{Name: "c", Label: "150"},
		{Name: "d", Label: "kids"},
		{Name: "e", Label: "XXXL"},
	}

	got := NewSorter(nil, Simple).Sort(in)

	want := []string{"c", "e", "b", "a", "d"}
	if !slices.Equal(names(got), want) {
		t.Errorf("Sort() = %v, want %v", names(got), want)
	}
}

func TestSortEmpty(t *testing.T) {
	for _, s := range []Strategy{Full, Simple} {
		got := NewSorter(nil, s).Sort(nil)
		if len(got) != 0 {
			t.Errorf("Sort(nil) with %v = %v, want empty", s, got)
		}
	}
}

func TestSortIdempotent(t *testing.T) {
	in := []Record{
		{Name: "Dan", Label: "3XL"},
		{Name: "Eve", Label: "m"},
		{Name: "Bo", Label: "XXXL"},
		{Name: "Al", Label: "?"},
		{Name: "Cat", Label: "M"},
		{Name: "Eve", Label: "M"},
		{Name: "Fu", Label: "120"},
	}

	for _, s := range []Strategy{Full, Simple} {
		sorter := NewSorter(nil, s)
		once := sorter.Sort(in)
		twice := sorter.Sort(once)
		if !slices.Equal(once, twice) {
			t.Errorf("%v: Sort(Sort(R)) = %v, want %v", s, twice, once)
		}
	}
}

func TestSortSequenceContiguous(t *testing.T) {
	in := make([]Record, 57)
	for i := range in {
		in[i] = Record{Name: string(rune('a' + i%26)), Label: order.DefaultSizes[i%len(order.DefaultSizes)], Seq: 99}
	}

	got := NewSorter(nil, Full).Sort(in)

	if len(got) != len(in) {
		t.Fatalf("len = %d, want %d", len(got), len(in))
	}
	for i, r := range got {
		if r.Seq != i+1 {
			t.Fatalf("record %d Seq = %d, want %d", i, r.Seq, i+1)
		}
	}
}

func TestSortCustomOrder(t *testing.T) {
	o := order.MustNew([]string{"junior", "senior"}, order.WithoutOversized())
	in := []Record{
		{Name: "a", Label: "Senior"},
		{Name: "b", Label: "JUNIOR"},
	}

	got := NewSorter(o, Simple).Sort(in)

	if want := []string{"b", "a"}; !slices.Equal(names(got), want) {
		t.Errorf("Sort() = %v, want %v", names(got), want)
	}
}

func TestUnrecognized(t *testing.T) {
	in := []Record{
		{Label: "M"},
		{Label: "free"},
		{Label: "XXL"},
		{Label: "FREE"},
		{Label: "kids"},
		{Label: ""},
	}

	got := Unrecognized(order.Default(), in)

	want := []string{"free", "kids", ""}
	if !slices.Equal(got, want) {
		t.Errorf("Unrecognized() = %q, want %q", got, want)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"full", Full, false},
		{"Simple", Simple, false},
		{" FULL ", Full, false},
		{"", 0, true},
		{"fast", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ParseStrategy(%q) code = %v", tt.in, errors.GetCode(err))
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got.String() != map[Strategy]string{Full: "full", Simple: "simple"}[got] {
			t.Errorf("String() = %q", got.String())
		}
	}
}
