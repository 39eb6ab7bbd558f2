package roster

import (
	"net/url"
	"reflect"
	"testing"
)

// ---- ParseFilter ----

func TestParseFilter(t *testing.T) {
	boolPtr := func(v bool) *bool { return &v }

	tests := []struct {
		name  string
		query string
		want  Filter
	}{
		{"empty", "", Filter{}},
		{"team and season", "team=8U&season=2024", Filter{Team: "8U", Season: "2024"}},
		{"paid true", "paid=true", Filter{Paid: boolPtr(true)}},
		{"paid false", "paid=false", Filter{Paid: boolPtr(false)}},
		{"paid garbage ignored", "paid=maybe", Filter{}},
		{"paid None ignored", "paid=None", Filter{}},
		{"search trimmed", "search=+doe+", Filter{Search: "doe"}},
		{"all dimensions", "team=10U&season=2023&paid=true&search=smith",
			Filter{Team: "10U", Season: "2023", Paid: boolPtr(true), Search: "smith"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			got := ParseFilter(q)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFilter() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFilter_IsZero(t *testing.T) {
	if !(Filter{}).IsZero() {
		t.Error("empty filter should be zero")
	}
	f := false
	if (Filter{Paid: &f}).IsZero() {
		t.Error("paid=false filter should not be zero")
	}
	if (Filter{Search: "x"}).IsZero() {
		t.Error("search filter should not be zero")
	}
}

// ---- buildConditions ----

func TestFilter_BuildConditions(t *testing.T) {
	paid := true

	tests := []struct {
		name      string
		filter    Filter
		wantWhere string
		wantArgs  []any
	}{
		{
			"empty filter",
			Filter{},
			"",
			nil,
		},
		{
			"team only",
			Filter{Team: "8U"},
			" WHERE team = $1",
			[]any{"8U"},
		},
		{
			"team and season",
			Filter{Team: "8U", Season: "2024"},
			" WHERE team = $1 AND season = $2",
			[]any{"8U", "2024"},
		},
		{
			"paid",
			Filter{Paid: &paid},
			" WHERE paid = $1",
			[]any{true},
		},
		{
			"search expands to one arg",
			Filter{Search: "doe"},
			" WHERE (first_name ILIKE $1 OR last_name ILIKE $1 OR guardian_first_name ILIKE $1 OR guardian_last_name ILIKE $1)",
			[]any{"%doe%"},
		},
		{
			"everything numbered in order",
			Filter{Team: "8U", Season: "2024", Paid: &paid, Search: "doe"},
			" WHERE team = $1 AND season = $2 AND paid = $3 AND (first_name ILIKE $4 OR last_name ILIKE $4 OR guardian_first_name ILIKE $4 OR guardian_last_name ILIKE $4)",
			[]any{"8U", "2024", true, "%doe%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.buildConditions(0)
			if where != tt.wantWhere {
				t.Errorf("where = %q, want %q", where, tt.wantWhere)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestFilter_BuildConditionsOffset(t *testing.T) {
	where, args := Filter{Team: "8U", Season: "2024"}.buildConditions(3)
	if want := " WHERE team = $4 AND season = $5"; where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want 2 entries", args)
	}
}
