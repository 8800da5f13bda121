package contract

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTaxonomy(t *testing.T) {
	cases := []struct {
		name     string
		contract Contract
		want     *ValidationError
	}{
		{"small map", Small(map[string]any{"a": 1}), nil},
		{"small slice", Small([]int{1, 2}), nil},
		{"small struct", Small(struct{ A int }{A: 1}), nil},
		{"small string", Small("nope"), ErrInvalidSmallData},
		{"small number", Small(42), ErrInvalidSmallData},
		{"small nil", Small(nil), ErrInvalidSmallData},
		{"small nil pointer", Small((*struct{ A int })(nil)), ErrInvalidSmallData},
		{"paginated slice", Paginated([]int{1, 2}, 1, 10, 25), nil},
		{"paginated page zero passes", Paginated([]int{1}, 0, 10, 25), nil},
		{"paginated map data", Paginated(map[string]any{"a": 1}, 1, 10, 25), ErrInvalidPaginatedData},
		{
			"paginated missing page",
			Contract{Kind: KindPaginated, Data: []int{1}, Metadata: map[string]any{MetaPageSize: 10, MetaTotal: 25}},
			ErrMissingPaginationMetadata,
		},
		{
			"paginated non-numeric page",
			Contract{Kind: KindPaginated, Data: []int{1}, Metadata: map[string]any{MetaPage: "1", MetaPageSize: 10, MetaTotal: 25}},
			ErrMissingPaginationMetadata,
		},
		{"streamed ok", Streamed(strings.NewReader("x"), "report.csv"), nil},
		{"streamed nil stream", Streamed(nil, "report.csv"), ErrInvalidStreamData},
		{"streamed empty filename", Streamed(strings.NewReader("x"), ""), ErrMissingFilename},
		{
			"streamed missing filename key",
			Contract{Kind: KindStreamed, Stream: strings.NewReader("x"), Metadata: map[string]any{}},
			ErrMissingFilename,
		},
		{"zero kind", Contract{}, ErrInvalidContractType},
		{"bogus kind", Contract{Kind: Kind(99), Data: map[string]any{"a": 1}}, ErrInvalidContractType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.contract)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error is not a *ValidationError: %T", err)
			}
			if verr.Code != tc.want.Code {
				t.Fatalf("code = %s, want %s", verr.Code, tc.want.Code)
			}
		})
	}
}

func TestValidateIsTotal(t *testing.T) {
	// Every kind value, known or not, must produce a result without panicking.
	for k := Kind(-1); k <= Kind(10); k++ {
		_ = Validate(Contract{Kind: k})
	}
}
