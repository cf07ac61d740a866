package offer

import (
	"strings"
	"testing"
)

func TestSearchSQLCountSharesWhere(t *testing.T) {
	minPrice := 100000.0
	p := Params{
		Filters: Filters{Destination: "Dakar", MinPrice: &minPrice},
		Page:    3,
		Limit:   10,
	}

	query, countQuery, args, countArgs := searchSQL(p)

	if !strings.Contains(query, "LIMIT $3 OFFSET $4") {
		t.Fatalf("unexpected window placeholders in query:\n%s", query)
	}
	if len(args) != 4 {
		t.Fatalf("expected 4 query args; got %d", len(args))
	}
	if args[2] != 10 || args[3] != 20 {
		t.Fatalf("expected limit 10 offset 20; got %v, %v", args[2], args[3])
	}

	for _, clause := range []string{"destination ILIKE $1", "price >= $2"} {
		if !strings.Contains(countQuery, clause) {
			t.Fatalf("count query missing %q:\n%s", clause, countQuery)
		}
	}
	if strings.Contains(countQuery, "LIMIT") || strings.Contains(countQuery, "OFFSET") {
		t.Fatalf("count query must not be windowed:\n%s", countQuery)
	}
	if len(countArgs) != 2 {
		t.Fatalf("expected count args to carry only filter values; got %d", len(countArgs))
	}
	if countArgs[0] != "%Dakar%" || countArgs[1] != minPrice {
		t.Fatalf("unexpected count args: %v", countArgs)
	}
}

func TestSearchSQLCountWithoutFilters(t *testing.T) {
	_, countQuery, _, countArgs := searchSQL(Params{Page: 2, Limit: 12})

	if countQuery != "SELECT COUNT(*) FROM offers;" {
		t.Fatalf("unexpected unfiltered count query: %s", countQuery)
	}
	if len(countArgs) != 0 {
		t.Fatalf("expected no count args; got %v", countArgs)
	}
}
