package captable

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/captable/date"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// This file persists a cap table in JSONL: one record per line, identified
// by its "kind". It is meant to be human-readable and git-friendly.
//
//	{"kind":"company","name":"Acme","currency":"USD"}
//	{"kind":"security","id":"common","name":"Common Stock","type":"common","seniority":1}
//	{"kind":"addition","security":"plan","date":"2020-01-01","authorized":1000000}
//	{"kind":"certificate","id":"CS-1","security":"common","shareholder":"Alice","shares":5000000}
//
// Amounts are plain decimals in the company currency.

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Record kinds.
const (
	kindCompany     = "company"
	kindSecurity    = "security"
	kindAddition    = "addition"
	kindCertificate = "certificate"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return money.GetCurrency(fl.Field().String()) != nil
	})
	return v
}

// jcompany is the company record.
type jcompany struct {
	Name     string `json:"name"`
	Currency string `json:"currency" validate:"omitempty,currency"`
}

// jsecurity is the security record.
type jsecurity struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	Type                  string          `json:"type" validate:"required,oneof=common preferred convertible option warrant"`
	Date                  date.Date       `json:"date"`
	Seniority             int             `json:"seniority" validate:"min=1"`
	PricePerShare         decimal.Decimal `json:"price_per_share"`
	ConversionRatio       Ratio           `json:"conversion_ratio"`
	LiquidationPreference Ratio           `json:"liquidation_preference"`
	Participating         bool            `json:"participating"`
	ParticipationCap      Ratio           `json:"participation_cap"`
	PriceCap              decimal.Decimal `json:"price_cap"`
	DiscountRate          Ratio           `json:"discount_rate"`
	InterestRate          Ratio           `json:"interest_rate"`
	Pre                   decimal.Decimal `json:"pre"`
	ConversionSecurity    string          `json:"conversion_security"`
}

// jaddition is the addition record.
type jaddition struct {
	Date       date.Date `json:"date"`
	Security   string    `json:"security" validate:"required"`
	Authorized Quantity  `json:"authorized"`
}

// jcertificate is the certificate record.
type jcertificate struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Security         string          `json:"security" validate:"required"`
	Shareholder      string          `json:"shareholder" validate:"required_without=Investor"`
	Investor         string          `json:"investor"`
	Status           string          `json:"status" validate:"omitempty,oneof=outstanding cancelled transferred exercised converted"`
	Date             date.Date       `json:"date"`
	ConvertedDate    date.Date       `json:"converted_date"`
	Shares           Quantity        `json:"shares"`
	Returned         Quantity        `json:"returned"`
	Cash             decimal.Decimal `json:"cash"`
	Refunded         decimal.Decimal `json:"refunded"`
	Principal        decimal.Decimal `json:"principal"`
	Forgiven         decimal.Decimal `json:"forgiven"`
	Granted          Quantity        `json:"granted"`
	Exercised        Quantity        `json:"exercised"`
	Cancelled        Quantity        `json:"cancelled"`
	Prorata          bool            `json:"prorata"`
	VestingStart     date.Date       `json:"vesting_start"`
	VestingStop      date.Date       `json:"vesting_stop"`
	VestingTerm      int             `json:"vesting_term" validate:"gte=0"`
	VestingCliff     int             `json:"vesting_cliff" validate:"gte=0,ltefield=VestingTerm"`
	VestingImmediate Ratio           `json:"vesting_immediate"`
	VestingTrigger   string          `json:"vesting_trigger" validate:"omitempty,oneof=none single double"`
}

// line is a decoded record with its position in the input.
type line[T any] struct {
	n   int
	rec T
}

// DecodeCapTable reads a JSONL cap table. Records may come in any order.
// Amounts use the company record currency, or cur when there is none.
// Securities and certificates without id get a generated one.
func DecodeCapTable(r io.Reader, cur string) (*CapTable, error) {
	var (
		company      jcompany
		securities   []line[jsecurity]
		additions    []line[jaddition]
		certificates []line[jcertificate]
		errs         []error
	)

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		raw := scanner.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}

		var identifier struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(raw, &identifier); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w: %v", n, ErrInvalidInput, err))
			continue
		}

		var err error
		switch identifier.Kind {
		case kindCompany:
			err = decodeRecord(raw, &company)
		case kindSecurity:
			var rec jsecurity
			if err = decodeRecord(raw, &rec); err == nil {
				if rec.ID == "" {
					rec.ID = uuid.NewString()
					logrus.WithFields(logrus.Fields{"line": n, "id": rec.ID}).Debug("generated security id")
				}
				securities = append(securities, line[jsecurity]{n, rec})
			}
		case kindAddition:
			var rec jaddition
			if err = decodeRecord(raw, &rec); err == nil {
				additions = append(additions, line[jaddition]{n, rec})
			}
		case kindCertificate:
			var rec jcertificate
			if err = decodeRecord(raw, &rec); err == nil {
				if rec.ID == "" {
					rec.ID = uuid.NewString()
					logrus.WithFields(logrus.Fields{"line": n, "id": rec.ID}).Debug("generated certificate id")
				}
				certificates = append(certificates, line[jcertificate]{n, rec})
			}
		default:
			err = fmt.Errorf("%w: unknown record kind %q", ErrInvalidInput, identifier.Kind)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", n, err))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if company.Currency != "" {
		cur = company.Currency
	}
	t := NewCapTable(company.Name, cur)
	for _, l := range securities {
		if err := t.AppendSecurity(l.rec.security(cur)); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", l.n, err))
		}
	}
	for _, l := range additions {
		a := Addition{Date: l.rec.Date, Security: l.rec.Security, Authorized: l.rec.Authorized}
		if err := t.AppendAddition(a); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", l.n, err))
		}
	}
	for _, l := range certificates {
		if err := t.AppendCertificate(l.rec.certificate(cur)); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", l.n, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"company":      t.Name(),
		"securities":   len(securities),
		"additions":    len(additions),
		"certificates": len(certificates),
	}).Debug("cap table decoded")
	return t, nil
}

// decodeRecord unmarshals a record and checks its struct tags.
func decodeRecord(raw []byte, rec any) error {
	if err := json.Unmarshal(raw, rec); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validate.Struct(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func (j jsecurity) security(cur string) Security {
	// the type is checked by the validator.
	typ, _ := ParseSecurityType(j.Type)
	return Security{
		ID:                    j.ID,
		Name:                  j.Name,
		Type:                  typ,
		Date:                  j.Date,
		Seniority:             j.Seniority,
		PricePerShare:         M(j.PricePerShare, cur),
		ConversionRatio:       j.ConversionRatio,
		LiquidationPreference: j.LiquidationPreference,
		Participating:         j.Participating,
		ParticipationCap:      j.ParticipationCap,
		PriceCap:              M(j.PriceCap, cur),
		DiscountRate:          j.DiscountRate,
		InterestRate:          j.InterestRate,
		Pre:                   M(j.Pre, cur),
		ConversionSecurity:    j.ConversionSecurity,
	}
}

func (j jcertificate) certificate(cur string) Certificate {
	status, _ := ParseStatus(j.Status)
	trigger, _ := ParseTrigger(j.VestingTrigger)
	return Certificate{
		ID:               j.ID,
		Name:             j.Name,
		Security:         j.Security,
		Shareholder:      j.Shareholder,
		Investor:         j.Investor,
		Status:           status,
		Date:             j.Date,
		ConvertedDate:    j.ConvertedDate,
		Shares:           j.Shares,
		Returned:         j.Returned,
		Cash:             M(j.Cash, cur),
		Refunded:         M(j.Refunded, cur),
		Principal:        M(j.Principal, cur),
		Forgiven:         M(j.Forgiven, cur),
		Granted:          j.Granted,
		Exercised:        j.Exercised,
		Cancelled:        j.Cancelled,
		Prorata:          j.Prorata,
		VestingStart:     j.VestingStart,
		VestingStop:      j.VestingStop,
		VestingTerm:      j.VestingTerm,
		VestingCliff:     j.VestingCliff,
		VestingImmediate: j.VestingImmediate,
		VestingTrigger:   trigger,
	}
}

// recordWriter appends the non zero fields of a record.
type recordWriter struct{ jsonObjectWriter }

func (w *recordWriter) date(key string, d date.Date) {
	if !d.IsZero() {
		w.Append(key, d)
	}
}
func (w *recordWriter) quantity(key string, q Quantity) {
	if !q.IsZero() {
		w.Append(key, q.value)
	}
}
func (w *recordWriter) ratio(key string, r Ratio) {
	if !r.IsZero() {
		w.Append(key, r.value)
	}
}
func (w *recordWriter) money(key string, m Money) {
	if !m.IsZero() {
		w.Append(key, m.value)
	}
}

// EncodeCapTable writes the cap table in its canonical JSONL form: the
// company, then securities, additions and certificates in insertion order.
func EncodeCapTable(w io.Writer, t *CapTable) error {
	decimal.MarshalJSONWithoutQuotes = true
	write := func(rw *recordWriter) error {
		data, err := rw.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
		return nil
	}

	var cw recordWriter
	cw.Append("kind", kindCompany)
	cw.Optional("name", t.Name())
	cw.Optional("currency", t.Currency())
	if err := write(&cw); err != nil {
		return err
	}

	for s := range t.Securities() {
		var rw recordWriter
		rw.Append("kind", kindSecurity)
		rw.Append("id", s.ID)
		rw.Optional("name", s.Name)
		rw.Append("type", s.Type)
		rw.date("date", s.Date)
		rw.Append("seniority", s.Seniority)
		rw.money("price_per_share", s.PricePerShare)
		rw.ratio("conversion_ratio", s.ConversionRatio)
		rw.ratio("liquidation_preference", s.LiquidationPreference)
		rw.Optional("participating", s.Participating)
		rw.ratio("participation_cap", s.ParticipationCap)
		rw.money("price_cap", s.PriceCap)
		rw.ratio("discount_rate", s.DiscountRate)
		rw.ratio("interest_rate", s.InterestRate)
		rw.money("pre", s.Pre)
		rw.Optional("conversion_security", s.ConversionSecurity)
		if err := write(&rw); err != nil {
			return err
		}
	}

	for a := range t.Additions() {
		var rw recordWriter
		rw.Append("kind", kindAddition)
		rw.Append("security", a.Security)
		rw.date("date", a.Date)
		rw.quantity("authorized", a.Authorized)
		if err := write(&rw); err != nil {
			return err
		}
	}

	for c := range t.Certificates() {
		var rw recordWriter
		rw.Append("kind", kindCertificate)
		rw.Append("id", c.ID)
		rw.Optional("name", c.Name)
		rw.Append("security", c.Security)
		rw.Optional("shareholder", c.Shareholder)
		rw.Optional("investor", c.Investor)
		if c.Status != Outstanding {
			rw.Append("status", c.Status)
		}
		rw.date("date", c.Date)
		rw.date("converted_date", c.ConvertedDate)
		rw.quantity("shares", c.Shares)
		rw.quantity("returned", c.Returned)
		rw.money("cash", c.Cash)
		rw.money("refunded", c.Refunded)
		rw.money("principal", c.Principal)
		rw.money("forgiven", c.Forgiven)
		rw.quantity("granted", c.Granted)
		rw.quantity("exercised", c.Exercised)
		rw.quantity("cancelled", c.Cancelled)
		rw.Optional("prorata", c.Prorata)
		rw.date("vesting_start", c.VestingStart)
		rw.date("vesting_stop", c.VestingStop)
		rw.Optional("vesting_term", c.VestingTerm)
		rw.Optional("vesting_cliff", c.VestingCliff)
		rw.ratio("vesting_immediate", c.VestingImmediate)
		if c.VestingTrigger != NoTrigger {
			rw.Append("vesting_trigger", c.VestingTrigger)
		}
		if err := write(&rw); err != nil {
			return err
		}
	}
	return nil
}
