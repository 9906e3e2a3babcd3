package ruleparse

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vkoshelev/storerules/internal/condition"
)

func TestParse(t *testing.T) {
	p := New(zerolog.Nop())

	text := `
# weekend promo
cart_total >= 5000|EUR
product_id = 10, 20
country != US
used < 3
`
	conds, err := p.Parse(text)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(conds) != 4 {
		t.Fatalf("Parse() returned %d conditions, want 4", len(conds))
	}

	want := []condition.Condition{
		{Identifier: "cart_total", Operator: condition.OpGte, Values: []string{"5000|EUR"}},
		{Identifier: "product_id", Operator: condition.OpEq, Values: []string{"10", "20"}},
		{Identifier: "country", Operator: condition.OpNeq, Values: []string{"US"}},
		{Identifier: "used", Operator: condition.OpLt, Values: []string{"3"}},
	}
	for i, w := range want {
		got := conds[i]
		if got.Identifier != w.Identifier || got.Operator != w.Operator {
			t.Fatalf("conds[%d] = %+v, want %+v", i, got, w)
		}
		if len(got.Values) != len(w.Values) {
			t.Fatalf("conds[%d].Values = %v, want %v", i, got.Values, w.Values)
		}
		for j := range w.Values {
			if got.Values[j] != w.Values[j] {
				t.Fatalf("conds[%d].Values[%d] = %q, want %q", i, j, got.Values[j], w.Values[j])
			}
		}
	}
}

func TestParse_TwoCharOperatorsWinOverPrefixes(t *testing.T) {
	p := New(zerolog.Nop())

	conds, err := p.Parse("cart_total <= 100")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if conds[0].Operator != condition.OpLte {
		t.Fatalf("Operator = %q, want <=", conds[0].Operator)
	}
	if conds[0].Values[0] != "100" {
		t.Fatalf("Values[0] = %q, want 100", conds[0].Values[0])
	}
}

func TestParse_MalformedLines(t *testing.T) {
	p := New(zerolog.Nop())

	tests := []string{
		"cart_total",        // no operator
		"= 100",             // no identifier
		"cart_total >= ",    // no values
		"product_id = 1,,2", // empty value in list
	}
	for _, text := range tests {
		if _, err := p.Parse(text); !errors.Is(err, ErrMalformedLine) {
			t.Fatalf("Parse(%q) = %v, want ErrMalformedLine", text, err)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	p := New(zerolog.Nop())
	conds, err := p.Parse("\n# only a comment\n")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(conds) != 0 {
		t.Fatalf("Parse() = %v, want no conditions", conds)
	}
}
