package roster

import (
	"fmt"
	"net/url"
	"strings"
)

// Filter narrows roster listings and exports. Zero values mean "no
// constraint". Paid is a tri-state: nil means unfiltered.
type Filter struct {
	Team   string
	Season string
	Paid   *bool
	Search string
}

// ParseFilter reads a filter from request query parameters. The paid
// parameter only takes effect when it is exactly "true" or "false";
// any other value leaves the payment dimension unfiltered.
func ParseFilter(q url.Values) Filter {
	f := Filter{
		Team:   strings.TrimSpace(q.Get("team")),
		Season: strings.TrimSpace(q.Get("season")),
		Search: strings.TrimSpace(q.Get("search")),
	}
	switch q.Get("paid") {
	case "true":
		t := true
		f.Paid = &t
	case "false":
		fv := false
		f.Paid = &fv
	}
	return f
}

// IsZero reports whether no constraint is set.
func (f Filter) IsZero() bool {
	return f.Team == "" && f.Season == "" && f.Paid == nil && f.Search == ""
}

// buildConditions renders the filter as a WHERE fragment with numbered
// placeholders starting at argOffset+1, plus the matching argument slice.
// The fragment is empty when the filter is empty.
func (f Filter) buildConditions(argOffset int) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, val any) {
		argOffset++
		conds = append(conds, fmt.Sprintf(cond, argOffset))
		args = append(args, val)
	}

	if f.Team != "" {
		add("team = $%d", f.Team)
	}
	if f.Season != "" {
		add("season = $%d", f.Season)
	}
	if f.Paid != nil {
		add("paid = $%d", *f.Paid)
	}
	if f.Search != "" {
		argOffset++
		conds = append(conds, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR guardian_first_name ILIKE $%d OR guardian_last_name ILIKE $%d)",
			argOffset, argOffset, argOffset, argOffset))
		args = append(args, "%"+f.Search+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
