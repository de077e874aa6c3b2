package captable

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const capTableJSONL = `{"kind":"company","name":"Acme","currency":"USD"}
{"kind":"security","id":"common","name":"Common Stock","type":"common","seniority":1,"price_per_share":0.0001}
{"kind":"security","id":"plan","name":"Stock Option Plan","type":"option","seniority":1,"price_per_share":0.1}
{"kind":"security","id":"series-a","name":"Series A Preferred","type":"preferred","date":"2021-06-01","seniority":2,"price_per_share":0.625,"conversion_ratio":1,"liquidation_preference":1}
{"kind":"security","id":"note","name":"Convertible Note","type":"convertible","seniority":2,"price_per_share":1,"price_cap":4000000,"discount_rate":0.2,"interest_rate":0.1,"conversion_security":"series-a"}
{"kind":"addition","security":"plan","date":"2020-01-01","authorized":2900000}
{"kind":"certificate","id":"CS-1","security":"common","shareholder":"Alice","date":"2020-01-01","shares":4000000,"cash":400}
{"kind":"certificate","id":"OP-1","security":"plan","shareholder":"Carol","date":"2021-01-01","granted":100000,"vesting_start":"2021-01-01","vesting_term":48,"vesting_cliff":12,"vesting_trigger":"double"}
{"kind":"certificate","id":"PA-1","security":"series-a","shareholder":"Fund A","investor":"Fund A LP","date":"2021-06-01","shares":1600000,"cash":1000000,"prorata":true}
{"kind":"certificate","id":"CN-1","security":"note","shareholder":"Angel","status":"converted","date":"2020-06-01","converted_date":"2021-06-01","principal":100000}
`

func TestDecodeCapTable(t *testing.T) {
	ct, err := DecodeCapTable(strings.NewReader(capTableJSONL), "EUR")
	if err != nil {
		t.Fatalf("DecodeCapTable() unexpected error: %v", err)
	}
	if ct.Name() != "Acme" || ct.Currency() != "USD" {
		t.Errorf("company = %q in %q, want Acme in USD", ct.Name(), ct.Currency())
	}
	note := ct.Security("note")
	if note == nil || note.Type != Convertible || !note.PriceCap.Equal(USD(4_000_000)) || !note.DiscountRate.Equal(R(0.2)) {
		t.Errorf("Security(note) = %+v, want the convertible note terms", note)
	}
	if got := ct.Authorized("plan"); !got.Equal(Q(2_900_000)) {
		t.Errorf("Authorized(plan) = %s, want 2900000", got)
	}

	var certs []Certificate
	for c := range ct.Certificates() {
		certs = append(certs, c)
	}
	if len(certs) != 4 {
		t.Fatalf("got %d certificates, want 4", len(certs))
	}
	if c := certs[1]; c.VestingTrigger != DoubleTrigger || c.VestingTerm != 48 || c.VestingCliff != 12 {
		t.Errorf("OP-1 vesting = %v %d/%d, want double 48/12", c.VestingTrigger, c.VestingTerm, c.VestingCliff)
	}
	if c := certs[2]; c.Holder() != "Fund A LP" || !c.Prorata || !c.Cash.Equal(USD(1_000_000)) {
		t.Errorf("PA-1 = %+v, want Fund A LP with pro-rata", c)
	}
	if c := certs[3]; c.Status != Converted || c.ConvertedDate.IsZero() {
		t.Errorf("CN-1 status = %v converted on %s, want converted", c.Status, c.ConvertedDate)
	}
}

func TestDecodeCapTable_DefaultCurrencyAndIDs(t *testing.T) {
	input := `{"kind":"certificate","security":"common","shareholder":"Alice","shares":10}
{"kind":"security","id":"common","type":"common","seniority":1}
`
	ct, err := DecodeCapTable(strings.NewReader(input), "EUR")
	if err != nil {
		t.Fatalf("DecodeCapTable() unexpected error: %v", err)
	}
	if ct.Currency() != "EUR" {
		t.Errorf("Currency() = %q, want the default EUR", ct.Currency())
	}
	for c := range ct.Certificates() {
		if c.ID == "" {
			t.Error("certificate without id did not get one")
		}
	}
}

func TestDecodeCapTable_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		line  string
	}{
		{"not json", "{", "line 1"},
		{"unknown kind", `{"kind":"dividend"}`, "line 1"},
		{"bad security type", `{"kind":"security","id":"x","type":"bond","seniority":1}`, "line 1"},
		{"no seniority", `{"kind":"security","id":"x","type":"common"}`, "line 1"},
		{"bad currency", `{"kind":"company","currency":"XYZ1"}`, "line 1"},
		{"no holder", "\n" + `{"kind":"certificate","security":"x"}`, "line 2"},
		{"cliff after term", `{"kind":"certificate","security":"x","shareholder":"a","vesting_term":12,"vesting_cliff":24}`, "line 1"},
		{"dangling security", `{"kind":"certificate","id":"c","security":"x","shareholder":"a"}`, "line 1"},
		{"bad status", `{"kind":"certificate","security":"x","shareholder":"a","status":"lost"}`, "line 1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeCapTable(strings.NewReader(tc.input), "USD")
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("DecodeCapTable() error = %v, want ErrInvalidInput", err)
			}
			if !strings.Contains(err.Error(), tc.line) {
				t.Errorf("DecodeCapTable() error = %q, want it to cite %q", err, tc.line)
			}
		})
	}
}

func TestEncodeCapTable(t *testing.T) {
	ct, err := DecodeCapTable(strings.NewReader(capTableJSONL), "USD")
	if err != nil {
		t.Fatalf("DecodeCapTable() unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeCapTable(&buf, ct); err != nil {
		t.Fatalf("EncodeCapTable() unexpected error: %v", err)
	}
	if got := buf.String(); got != capTableJSONL {
		t.Errorf("EncodeCapTable() is not canonical:\ngot:\n%s\nwant:\n%s", got, capTableJSONL)
	}

	// encoding is stable.
	again, err := DecodeCapTable(strings.NewReader(buf.String()), "USD")
	if err != nil {
		t.Fatalf("DecodeCapTable() of the encoded table unexpected error: %v", err)
	}
	var buf2 bytes.Buffer
	if err := EncodeCapTable(&buf2, again); err != nil {
		t.Fatalf("EncodeCapTable() unexpected error: %v", err)
	}
	if buf.String() != buf2.String() {
		t.Errorf("EncodeCapTable() is not stable")
	}
}
