package domain

// ProviderID — идентификатор внешнего источника курса.
type ProviderID string

const (
	Monobank   ProviderID = "monobank"
	PrivatBank ProviderID = "privatbank"
	MinFin     ProviderID = "minfin"
	NBU        ProviderID = "nbu"
	Binance    ProviderID = "binance"

	ExchangeRate ProviderID = "exchangerate"
	Frankfurter  ProviderID = "frankfurter"
	NBUPLN       ProviderID = "nbu_pln"
)

type RateType string

const (
	RateCommercial RateType = "commercial"
	RateOfficial   RateType = "official"
	RateInterbank  RateType = "interbank"
	RateECB        RateType = "ecb"
	RateMarket     RateType = "market"
)

// ProviderInfo — статическое описание провайдера.
type ProviderInfo struct {
	ID         ProviderID `json:"id"`
	Pair       Pair       `json:"pair"`
	NeedsProxy bool       `json:"needsProxy"` // прямой доступ из браузера блокируется
	RateType   RateType   `json:"rateType"`
	Updates    string     `json:"updates"`
}

// Порядок в срезе — фиксированный приоритет fallback внутри пары.
var catalog = []ProviderInfo{
	{ID: Monobank, Pair: PairUAH, RateType: RateCommercial, Updates: "5min"},
	{ID: PrivatBank, Pair: PairUAH, NeedsProxy: true, RateType: RateCommercial, Updates: "5min"},
	{ID: MinFin, Pair: PairUAH, NeedsProxy: true, RateType: RateCommercial, Updates: "realtime"},
	{ID: NBU, Pair: PairUAH, RateType: RateOfficial, Updates: "daily"},
	{ID: Binance, Pair: PairUAH, RateType: RateMarket, Updates: "realtime"},

	{ID: ExchangeRate, Pair: PairPLN, RateType: RateInterbank, Updates: "daily"},
	{ID: Frankfurter, Pair: PairPLN, RateType: RateECB, Updates: "daily"},
	{ID: NBUPLN, Pair: PairPLN, RateType: RateOfficial, Updates: "daily"},
}

// Catalog возвращает копию каталога провайдеров.
func Catalog() []ProviderInfo {
	out := make([]ProviderInfo, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup ищет описание провайдера.
func Lookup(id ProviderID) (ProviderInfo, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return ProviderInfo{}, false
}

// FallbackOrder — фиксированный порядок провайдеров пары.
func FallbackOrder(pair Pair) []ProviderID {
	var out []ProviderID
	for _, p := range catalog {
		if p.Pair == pair {
			out = append(out, p.ID)
		}
	}
	return out
}

// DefaultProvider — провайдер, выбранный по умолчанию для пары.
func DefaultProvider(pair Pair) ProviderID {
	switch pair {
	case PairUAH:
		return Monobank
	case PairPLN:
		return ExchangeRate
	default:
		return ""
	}
}

// Proxy — пресет CORS-прокси.
type Proxy struct {
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

var proxies = []Proxy{
	{Name: "direct", Prefix: ""},
	{Name: "corsproxy.io", Prefix: "https://corsproxy.io/?"},
	{Name: "allorigins.win", Prefix: "https://api.allorigins.win/raw?url="},
	{Name: "cors.lol", Prefix: "https://api.cors.lol/?url="},
	{Name: "cors.sh", Prefix: "https://proxy.cors.sh/"},
}

func Proxies() []Proxy {
	out := make([]Proxy, len(proxies))
	copy(out, proxies)
	return out
}

// ResolveProxy принимает имя пресета или готовый префикс и возвращает префикс.
func ResolveProxy(nameOrPrefix string) string {
	for _, p := range proxies {
		if p.Name == nameOrPrefix {
			return p.Prefix
		}
	}
	return nameOrPrefix
}
