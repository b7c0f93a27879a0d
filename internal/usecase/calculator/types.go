package calculator

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/pipeline"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
	"github.com/DevWolk/fop-calc/internal/usecase/rates"
)

// ====== Типы use-case (не зависят от HTTP и CLI) ======

// Options — общие параметры расчёта. Пустые поля берутся из
// удерживаемых курсов и Defaults.
type Options struct {
	BankBuyRate     decimal.NullDecimal `json:"bankBuyRate"`
	BankSellRate    decimal.NullDecimal `json:"bankSellRate"`
	DestRate        decimal.NullDecimal `json:"destRate"`
	FixedBankFee    decimal.NullDecimal `json:"fixedBankFee"`
	TopUpMethod     fees.Method         `json:"topUpMethod"`
	Plan            plan.Tier           `json:"plan"`
	Weekend         *bool               `json:"weekend"` // nil — определить по календарю
	ExistingBalance decimal.Decimal     `json:"existingBalance"`
}

type ForwardRequest struct {
	Amount decimal.Decimal `json:"amount"` // USD на счёте ФОП
	Options
}

type ReverseRequest struct {
	Target decimal.Decimal `json:"target"` // PLN, которые нужно иметь на карте
	Options
}

// Applied — фактически использованные параметры.
type Applied struct {
	BankBuyRate  decimal.Decimal `json:"bankBuyRate"`
	BankSellRate decimal.Decimal `json:"bankSellRate"`
	DestRate     decimal.Decimal `json:"destRate"`
	FixedBankFee decimal.Decimal `json:"fixedBankFee"`
	TopUpMethod  fees.Method     `json:"topUpMethod"`
	TopUpKind    fees.Kind       `json:"topUpKind"`
	TopUpRate    decimal.Decimal `json:"topUpRate"`
	Plan         plan.Tier       `json:"plan"`
	Policy       plan.Policy     `json:"policy"`
	Weekend      bool            `json:"weekend"`
	Existing     decimal.Decimal `json:"existingBalance"`
}

type ForwardOutcome struct {
	Amount  decimal.Decimal        `json:"amount"`
	Applied Applied                `json:"applied"`
	Result  pipeline.ForwardResult `json:"result"`
}

type ReverseOutcome struct {
	Target  decimal.Decimal        `json:"target"`
	Applied Applied                `json:"applied"`
	Result  pipeline.ReverseResult `json:"result"`
}

// Defaults — значения из конфигурации.
type Defaults struct {
	FixedBankFee decimal.Decimal
	TopUpMethod  fees.Method
	Plan         plan.Tier
	Weekend      *bool // nil — auto
}

// RateSource — удерживаемые курсы (rates.Service).
type RateSource interface {
	Held(ctx context.Context) (rates.Held, error)
}
