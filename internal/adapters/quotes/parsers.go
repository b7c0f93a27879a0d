package quotes

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/domain"
)

// ISO 4217
const (
	codeUSD = 840
	codeUAH = 980
)

// Parser превращает сырой ответ провайдера в котировку.
type Parser func(raw []byte) (domain.RateQuote, error)

func decode(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return domain.NewParse("decode: %v", err)
	}
	return nil
}

func positive(field string, d decimal.NullDecimal) (decimal.Decimal, error) {
	if !d.Valid || !d.Decimal.IsPositive() {
		return decimal.Zero, domain.NewParse("%s missing or not positive", field)
	}
	return d.Decimal, nil
}

func pair(id domain.ProviderID, buy, sell decimal.NullDecimal) (domain.RateQuote, error) {
	b, err := positive("buy", buy)
	if err != nil {
		return domain.RateQuote{}, err
	}
	s, err := positive("sell", sell)
	if err != nil {
		return domain.RateQuote{}, err
	}
	return domain.RateQuote{Buy: b, Sell: s, Provider: id}, nil
}

// ParsePrivatBank: [{ccy, base_ccy, buy, sale}], числа строками.
func ParsePrivatBank(raw []byte) (domain.RateQuote, error) {
	var rows []struct {
		Ccy  string              `json:"ccy"`
		Buy  decimal.NullDecimal `json:"buy"`
		Sale decimal.NullDecimal `json:"sale"`
	}
	if err := decode(raw, &rows); err != nil {
		return domain.RateQuote{}, err
	}
	for _, r := range rows {
		if r.Ccy == "USD" {
			return pair(domain.PrivatBank, r.Buy, r.Sale)
		}
	}
	return domain.RateQuote{}, domain.NewParse("USD not found")
}

// ParseMonobank: [{currencyCodeA, currencyCodeB, rateBuy, rateSell}].
func ParseMonobank(raw []byte) (domain.RateQuote, error) {
	var rows []struct {
		CodeA    int                 `json:"currencyCodeA"`
		CodeB    int                 `json:"currencyCodeB"`
		RateBuy  decimal.NullDecimal `json:"rateBuy"`
		RateSell decimal.NullDecimal `json:"rateSell"`
	}
	if err := decode(raw, &rows); err != nil {
		return domain.RateQuote{}, err
	}
	for _, r := range rows {
		if r.CodeA == codeUSD && r.CodeB == codeUAH {
			return pair(domain.Monobank, r.RateBuy, r.RateSell)
		}
	}
	return domain.RateQuote{}, domain.NewParse("USD/UAH not found")
}

// ParseMinFin: [{currency, bid, ask}], нужна запись "usd".
func ParseMinFin(raw []byte) (domain.RateQuote, error) {
	var rows []struct {
		Currency string              `json:"currency"`
		Bid      decimal.NullDecimal `json:"bid"`
		Ask      decimal.NullDecimal `json:"ask"`
	}
	if err := decode(raw, &rows); err != nil {
		return domain.RateQuote{}, err
	}
	for _, r := range rows {
		if r.Currency == "usd" {
			return pair(domain.MinFin, r.Bid, r.Ask)
		}
	}
	return domain.RateQuote{}, domain.NewParse("usd not found")
}

type nbuRow struct {
	CC   string              `json:"cc"`
	Rate decimal.NullDecimal `json:"rate"`
}

// ParseNBU: официальный курс, первый элемент массива.
func ParseNBU(raw []byte) (domain.RateQuote, error) {
	var rows []nbuRow
	if err := decode(raw, &rows); err != nil {
		return domain.RateQuote{}, err
	}
	if len(rows) == 0 {
		return domain.RateQuote{}, domain.NewParse("rate not found")
	}
	rate, err := positive("rate", rows[0].Rate)
	if err != nil {
		return domain.RateQuote{}, err
	}
	return domain.SingleRate(domain.NBU, rate, true), nil
}

// ParseNBUCross: USD/PLN = (USD/UAH) / (PLN/UAH).
func ParseNBUCross(raw []byte) (domain.RateQuote, error) {
	var rows []nbuRow
	if err := decode(raw, &rows); err != nil {
		return domain.RateQuote{}, err
	}
	var usd, pln decimal.NullDecimal
	for _, r := range rows {
		switch r.CC {
		case "USD":
			usd = r.Rate
		case "PLN":
			pln = r.Rate
		}
	}
	u, err := positive("USD rate", usd)
	if err != nil {
		return domain.RateQuote{}, err
	}
	p, err := positive("PLN rate", pln)
	if err != nil {
		return domain.RateQuote{}, err
	}
	// USD/UAH ÷ PLN/UAH обычно бесконечная дробь; кросс-курс хранится с 6 знаками.
	return domain.SingleRate(domain.NBUPLN, u.Div(p).Round(6), true), nil
}

// ParseExchangeRate: {result: "success", rates: {PLN}}.
func ParseExchangeRate(raw []byte) (domain.RateQuote, error) {
	var body struct {
		Result string                         `json:"result"`
		Rates  map[string]decimal.NullDecimal `json:"rates"`
	}
	if err := decode(raw, &body); err != nil {
		return domain.RateQuote{}, err
	}
	if body.Result != "success" {
		return domain.RateQuote{}, domain.NewParse("result %q", body.Result)
	}
	rate, err := positive("PLN rate", body.Rates["PLN"])
	if err != nil {
		return domain.RateQuote{}, err
	}
	return domain.SingleRate(domain.ExchangeRate, rate, false), nil
}

// ParseFrankfurter: {rates: {PLN}} — референс ЕЦБ.
func ParseFrankfurter(raw []byte) (domain.RateQuote, error) {
	var body struct {
		Rates map[string]decimal.NullDecimal `json:"rates"`
	}
	if err := decode(raw, &body); err != nil {
		return domain.RateQuote{}, err
	}
	rate, err := positive("PLN rate", body.Rates["PLN"])
	if err != nil {
		return domain.RateQuote{}, err
	}
	return domain.SingleRate(domain.Frankfurter, rate, false), nil
}
