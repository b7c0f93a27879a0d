package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
)

// ====== Чистые типы конвейера (не зависят от сети и UI) ======
//
// Цепочка: USD (ФОП) -> UAH (банк, покупка) -> USD (банк, продажа)
// -> карта (комиссия пополнения) -> тариф (weekend / fair use) -> PLN.

// ForwardInput — вход прямого расчёта. Собирается заново на каждый расчёт.
type ForwardInput struct {
	SourceAmount        decimal.Decimal // USD на счёте ФОП
	BankBuyRate         decimal.Decimal // UAH за 1 USD при продаже валюты банку
	BankSellRate        decimal.Decimal // UAH за 1 USD при покупке валюты у банка
	FixedBankFee        decimal.Decimal // фикс в USD за перевод на карту
	TopUp               fees.Model
	Plan                plan.Policy
	Weekend             bool
	DestRate            decimal.Decimal // PLN за 1 USD
	ExistingDestBalance decimal.Decimal // PLN уже на счёте
}

// ForwardResult — полная разбивка прямого расчёта, всё округлено до копеек.
type ForwardResult struct {
	Intermediate     decimal.Decimal `json:"intermediate"`  // UAH после продажи USD
	GrossReturn      decimal.Decimal `json:"grossReturn"`   // USD после обратной покупки
	AfterFixedFee    decimal.Decimal `json:"afterFixedFee"` // USD после фикс-комиссии
	Charged          decimal.Decimal `json:"charged"`       // USD списано с карты банка
	Settled          decimal.Decimal `json:"settled"`       // USD дошло до карты
	TopUpFee         decimal.Decimal `json:"topUpFee"`
	Effective        decimal.Decimal `json:"effective"` // USD после надбавок тарифа
	WeekendFee       decimal.Decimal `json:"weekendFee"`
	FairUseFee       decimal.Decimal `json:"fairUseFee"`
	DestAmount       decimal.Decimal `json:"destAmount"`       // PLN от конвертации
	TotalDestBalance decimal.Decimal `json:"totalDestBalance"` // PLN с учётом остатка
	SpreadLoss       decimal.Decimal `json:"spreadLoss"`
	TotalFees        decimal.Decimal `json:"totalFees"`
	TotalFeesPercent decimal.Decimal `json:"totalFeesPercent"`
}

// ReverseInput — вход обратного расчёта.
type ReverseInput struct {
	TargetDestAmount    decimal.Decimal // сколько PLN нужно иметь в итоге
	ExistingDestBalance decimal.Decimal
	DestRate            decimal.Decimal
	TopUp               fees.Model
	Plan                plan.Policy
	Weekend             bool
	BankBuyRate         decimal.Decimal
	BankSellRate        decimal.Decimal
	FixedBankFee        decimal.Decimal
}

// ReverseResult — требуемые суммы на каждом шаге, округлены вверх.
type ReverseResult struct {
	DestNeeded         decimal.Decimal `json:"destNeeded"`         // PLN не хватает
	SettledNeeded      decimal.Decimal `json:"settledNeeded"`      // USD должно дойти до карты
	ChargeNeeded       decimal.Decimal `json:"chargeNeeded"`       // USD списать с карты банка
	AmountToBuy        decimal.Decimal `json:"amountToBuy"`        // USD купить у банка
	IntermediateNeeded decimal.Decimal `json:"intermediateNeeded"` // UAH на покупку
	SourceNeeded       decimal.Decimal `json:"sourceNeeded"`       // USD продать со счёта ФОП
}

// IsZero — результат короткого замыкания (цель уже покрыта остатком).
func (r ReverseResult) IsZero() bool {
	return r.DestNeeded.IsZero() && r.SourceNeeded.IsZero()
}
