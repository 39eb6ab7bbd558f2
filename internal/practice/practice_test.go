package practice

import (
	"reflect"
	"testing"
)

// ---- ParseLinks ----

func TestParseLinks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "https://a.example", []string{"https://a.example"}},
		{"one per line", "https://a.example\nhttps://b.example", []string{"https://a.example", "https://b.example"}},
		{"blank lines dropped", "https://a.example\n\n  \nhttps://b.example\n", []string{"https://a.example", "https://b.example"}},
		{"whitespace trimmed", "  https://a.example  \r", []string{"https://a.example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLinks(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLinks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLinksRoundTrip(t *testing.T) {
	links := []string{"https://a.example", "https://b.example/drill?id=3"}
	joined := JoinLinks(links)
	if joined != "https://a.example,https://b.example/drill?id=3" {
		t.Errorf("JoinLinks() = %q", joined)
	}
	if got := SplitLinks(joined); !reflect.DeepEqual(got, links) {
		t.Errorf("SplitLinks() = %v, want %v", got, links)
	}
	if got := SplitLinks(""); got != nil {
		t.Errorf("SplitLinks(\"\") = %v, want nil", got)
	}
}

// ---- Drill filtering ----

func TestDrillValid(t *testing.T) {
	tests := []struct {
		name  string
		drill Drill
		want  bool
	}{
		{"complete", Drill{Name: "Passing", Time: "10 min"}, true},
		{"missing name", Drill{Time: "10 min"}, false},
		{"missing time", Drill{Name: "Passing"}, false},
		{"whitespace name", Drill{Name: "  ", Time: "10 min"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.drill.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeepValidDrills(t *testing.T) {
	in := []Drill{
		{Name: "Warm skate", Time: "5 min", OrderIndex: 99},
		{Name: "", Time: "10 min"},
		{Name: "Passing", Time: "15 min", OrderIndex: 42},
		{Name: "Shooting", Time: ""},
		{Name: "Scrimmage", Time: "20 min"},
	}

	got := keepValidDrills(in)
	if len(got) != 3 {
		t.Fatalf("kept %d drills, want 3", len(got))
	}
	wantNames := []string{"Warm skate", "Passing", "Scrimmage"}
	for i, d := range got {
		if d.Name != wantNames[i] {
			t.Errorf("drill[%d] = %q, want %q", i, d.Name, wantNames[i])
		}
		if d.OrderIndex != i {
			t.Errorf("drill[%d].OrderIndex = %d, want %d", i, d.OrderIndex, i)
		}
	}
}
