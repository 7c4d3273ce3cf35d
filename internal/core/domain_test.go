package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2020-03-10T00:00:00", time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"2020-03-10T23:59:59", time.Date(2020, 3, 10, 23, 59, 59, 0, time.UTC), true},
		{"2020-03-10", time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"2020-03-10T08:00:00Z", time.Date(2020, 3, 10, 8, 0, 0, 0, time.UTC), true},
		{"10/03/2020", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for i, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok {
			if !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
			}
			continue
		}
		if !d.Equal(tc.want) {
			t.Fatalf("case %d got %v, want %v", i, d.Time, tc.want)
		}
	}
}

func TestItemUnmarshal(t *testing.T) {
	raw := `{
		"package": "FLEXIBLE",
		"created": "2020-03-10T00:00:00",
		"summary": [
			{"period": "2019-12", "documents": {"incomes": 63, "expenses": 13}},
			{"period": "2020-02", "documents": {"incomes": 45}}
		]
	}`
	var it Item
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.Package != Flexible {
		t.Fatalf("package = %q", it.Package)
	}
	if !it.Created.Equal(NewDate(2020, 3, 10).Time) {
		t.Fatalf("created = %v", it.Created)
	}
	if len(it.Summary) != 2 {
		t.Fatalf("summary len = %d", len(it.Summary))
	}
	if got := it.Summary[0].Documents; got != NewDocuments(63, 13) {
		t.Fatalf("documents = %+v", got)
	}
	second := it.Summary[1].Documents
	if !second.Incomes.Valid || second.Expenses.Valid {
		t.Fatalf("expected only incomes present, got %+v", second)
	}
}

func TestItemUnmarshal_InvalidCreated(t *testing.T) {
	var it Item
	err := json.Unmarshal([]byte(`{"package":"FLEXIBLE","created":"yesterday","summary":[]}`), &it)
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDocumentsTotal(t *testing.T) {
	got, err := NewDocuments(45, 81).Total()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (DocumentTotals{Incomes: 45, Expenses: 81, Total: 126}) {
		t.Fatalf("got %+v", got)
	}

	missing := []Documents{
		{},
		{Incomes: NewCount(1)},
		{Expenses: NewCount(1)},
	}
	for i, d := range missing {
		if _, err := d.Total(); !errors.Is(err, ErrMissingDocuments) {
			t.Fatalf("case %d expected ErrMissingDocuments, got %v", i, err)
		}
	}
}

func TestDocumentsSum(t *testing.T) {
	if got := NewDocuments(3, 4).Sum(); got != 7 {
		t.Fatalf("sum = %d, want 7", got)
	}
	if got := (Documents{Expenses: NewCount(4)}).Sum(); got != 4 {
		t.Fatalf("sum with missing incomes = %d, want 4", got)
	}
	if got := (Documents{}).Sum(); got != 0 {
		t.Fatalf("sum of empty = %d, want 0", got)
	}
}

func TestCountJSON(t *testing.T) {
	var c Count
	if err := json.Unmarshal([]byte("null"), &c); err != nil || c.Valid {
		t.Fatalf("null: %+v %v", c, err)
	}
	if err := json.Unmarshal([]byte("12"), &c); err != nil || c != NewCount(12) {
		t.Fatalf("12: %+v %v", c, err)
	}
	if err := json.Unmarshal([]byte(`"12"`), &c); err == nil {
		t.Fatal("expected error for string count")
	}
	b, _ := json.Marshal(Count{})
	if string(b) != "null" {
		t.Fatalf("marshal absent = %s", b)
	}
}

func TestPackageQualifies(t *testing.T) {
	cases := map[Package]bool{
		Enterprise: true,
		Flexible:   true,
		"BASIC":    false,
		"":         false,
		"flexible": false,
	}
	for p, want := range cases {
		if got := p.Qualifies(); got != want {
			t.Errorf("%q.Qualifies() = %v, want %v", p, got, want)
		}
	}
}
