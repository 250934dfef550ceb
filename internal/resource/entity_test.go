package resource

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseEntity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		sep     string
		want    Entity
		wantErr bool
	}{
		{
			name:  "atomic symbol",
			input: "TP53",
			sep:   "_",
			want:  Entity{"TP53"},
		},
		{
			name:  "two subunit complex",
			input: "ITGA1_ITGB1",
			sep:   "_",
			want:  Entity{"ITGA1", "ITGB1"},
		},
		{
			name:  "three subunit complex",
			input: "IL2_IL2RA_IL2RB",
			sep:   "_",
			want:  Entity{"IL2", "IL2RA", "IL2RB"},
		},
		{
			name:  "default separator",
			input: "ITGA1_ITGB1",
			want:  Entity{"ITGA1", "ITGB1"},
		},
		{
			name:  "custom separator",
			input: "ITGA1:ITGB1",
			sep:   ":",
			want:  Entity{"ITGA1", "ITGB1"},
		},
		{
			name:  "surrounding whitespace trimmed",
			input: " TP53 ",
			sep:   "_",
			want:  Entity{"TP53"},
		},
		{
			name:    "empty string",
			input:   "",
			sep:     "_",
			wantErr: true,
		},
		{
			name:    "empty subunit",
			input:   "ITGA1__ITGB1",
			sep:     "_",
			wantErr: true,
		},
		{
			name:    "trailing separator",
			input:   "ITGA1_",
			sep:     "_",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntity(tt.input, tt.sep)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				if !errors.Is(err, ErrMalformedEntity) {
					t.Fatalf("expected ErrMalformedEntity, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntityEncode(t *testing.T) {
	entity := Entity{"ITGA1", "ITGB1"}
	if got := entity.Encode("_"); got != "ITGA1_ITGB1" {
		t.Fatalf("got %q", got)
	}
	if got := entity.Encode(""); got != "ITGA1_ITGB1" {
		t.Fatalf("default separator: got %q", got)
	}
	if got := Atomic("TP53").Encode("_"); got != "TP53" {
		t.Fatalf("atomic: got %q", got)
	}
}

func TestEntityIsComplex(t *testing.T) {
	if Atomic("TP53").IsComplex() {
		t.Fatal("a single gene is not a complex")
	}
	if !(Entity{"ITGA1", "ITGB1"}).IsComplex() {
		t.Fatal("a multi-subunit entity is a complex")
	}
}

func TestPairKey(t *testing.T) {
	// The key must not merge pairs whose concatenated symbols happen
	// to coincide.
	a := PairKey(Entity{"A", "B"}, Entity{"C"})
	b := PairKey(Entity{"A"}, Entity{"B", "C"})
	if a == b {
		t.Fatalf("distinct pairs share key %q", a)
	}
	if a != PairKey(Entity{"A", "B"}, Entity{"C"}) {
		t.Fatal("key must be stable for the same pair")
	}
}

func TestEntityEqual(t *testing.T) {
	a := Entity{"A", "B"}
	if !a.Equal(Entity{"A", "B"}) {
		t.Fatal("identical sequences should be equal")
	}
	if a.Equal(Entity{"B", "A"}) {
		t.Fatal("subunit order is part of complex identity")
	}
	if a.Equal(Entity{"A"}) {
		t.Fatal("different lengths should not be equal")
	}
}
