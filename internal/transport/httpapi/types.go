package httpapi

import (
	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/usecase/calculator"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
	"github.com/DevWolk/fop-calc/internal/usecase/rates"
)

// CalcOptions — общие поля запросов расчёта. Пустые курсы берутся из удерживаемых.
type CalcOptions struct {
	BankBuyRate     decimal.NullDecimal `json:"bankBuyRate"`
	BankSellRate    decimal.NullDecimal `json:"bankSellRate"`
	DestRate        decimal.NullDecimal `json:"destRate"`
	FixedBankFee    decimal.NullDecimal `json:"fixedBankFee"`
	TopUpMethod     string              `json:"topUpMethod"`
	Plan            string              `json:"plan"`
	Weekend         *bool               `json:"weekend"` // null — по календарю
	ExistingBalance decimal.NullDecimal `json:"existingBalance"`
}

type ForwardRequest struct {
	Amount decimal.Decimal `json:"amount"`
	CalcOptions
}

type ReverseRequest struct {
	Target decimal.Decimal `json:"target"`
	CalcOptions
}

// Display — те же суммы, отформатированные для показа.
type Display map[string]string

type ForwardResponse struct {
	calculator.ForwardOutcome
	Display Display `json:"display"`
}

// ReverseResponse: Result == nil, если цель не задана (target <= 0).
type ReverseResponse struct {
	Target  decimal.Decimal            `json:"target"`
	Result  *calculator.ReverseOutcome `json:"result"`
	Display Display                    `json:"display,omitempty"`
}

type RatesResponse struct {
	Report rates.Report `json:"report"`
	Held   rates.Held   `json:"held"`
}

type ProvidersResponse struct {
	Providers []domain.ProviderInfo `json:"providers"`
	Proxies   []domain.Proxy        `json:"proxies"`
	Methods   []MethodInfo          `json:"topUpMethods"`
	Plans     []PlanInfo            `json:"plans"`
}

type MethodInfo struct {
	ID   fees.Method     `json:"id"`
	Kind fees.Kind       `json:"kind"`
	Rate decimal.Decimal `json:"rate"`
}

type PlanInfo struct {
	ID plan.Tier `json:"id"`
	plan.Policy
}

type ErrorResponse struct {
	Error string       `json:"error"`
	Chain domain.Chain `json:"chain,omitempty"`
}
