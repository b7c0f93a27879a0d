package quotes

import "github.com/DevWolk/fop-calc/internal/domain"

// Адреса публичных API.
const (
	EndpointMonobank     = "https://api.monobank.ua/bank/currency"
	EndpointPrivatBank   = "https://api.privatbank.ua/p24api/pubinfo?json&exchange&coursid=11"
	EndpointMinFin       = "https://api.minfin.com.ua/mb/"
	EndpointNBU          = "https://bank.gov.ua/NBUStatService/v1/statdirectory/exchange?valcode=USD&json"
	EndpointNBUAll       = "https://bank.gov.ua/NBUStatService/v1/statdirectory/exchange?json"
	EndpointExchangeRate = "https://open.er-api.com/v6/latest/USD"
	EndpointFrankfurter  = "https://api.frankfurter.app/latest?from=USD&to=PLN"
)

// Route — адрес и парсер HTTP-провайдера.
type Route struct {
	Endpoint string
	Parse    Parser
}

// RouteFor — статическая таблица провайдер -> (адрес, парсер).
// Binance идёт через SDK и маршрута не имеет.
func RouteFor(id domain.ProviderID) (Route, bool) {
	switch id {
	case domain.Monobank:
		return Route{EndpointMonobank, ParseMonobank}, true
	case domain.PrivatBank:
		return Route{EndpointPrivatBank, ParsePrivatBank}, true
	case domain.MinFin:
		return Route{EndpointMinFin, ParseMinFin}, true
	case domain.NBU:
		return Route{EndpointNBU, ParseNBU}, true
	case domain.ExchangeRate:
		return Route{EndpointExchangeRate, ParseExchangeRate}, true
	case domain.Frankfurter:
		return Route{EndpointFrankfurter, ParseFrankfurter}, true
	case domain.NBUPLN:
		return Route{EndpointNBUAll, ParseNBUCross}, true
	case domain.Binance:
		return Route{}, false
	default:
		return Route{}, false
	}
}

// Registry — провайдеры по идентификатору.
type Registry struct {
	byID map[domain.ProviderID]domain.Provider
}

type RegistryOption func(*registryConfig)

type registryConfig struct {
	endpoints map[domain.ProviderID]string
	extra     []domain.Provider
}

// WithEndpoint переопределяет адрес провайдера (тесты, зеркала).
func WithEndpoint(id domain.ProviderID, endpoint string) RegistryOption {
	return func(c *registryConfig) { c.endpoints[id] = endpoint }
}

// WithProvider добавляет провайдера со своим транспортом (Binance SDK).
func WithProvider(p domain.Provider) RegistryOption {
	return func(c *registryConfig) { c.extra = append(c.extra, p) }
}

// NewRegistry собирает HTTP-провайдеры каталога поверх get.
func NewRegistry(get Getter, opts ...RegistryOption) *Registry {
	cfg := registryConfig{endpoints: map[domain.ProviderID]string{}}
	for _, o := range opts {
		o(&cfg)
	}

	r := &Registry{byID: make(map[domain.ProviderID]domain.Provider)}
	for _, info := range domain.Catalog() {
		route, ok := RouteFor(info.ID)
		if !ok {
			continue
		}
		if ep, ok := cfg.endpoints[info.ID]; ok {
			route.Endpoint = ep
		}
		r.byID[info.ID] = NewSource(info, route.Endpoint, route.Parse, get)
	}
	for _, p := range cfg.extra {
		r.byID[p.ID()] = p
	}
	return r
}

// Get возвращает провайдера или FetchError вида unknown_provider.
func (r *Registry) Get(id domain.ProviderID) (domain.Provider, error) {
	if p, ok := r.byID[id]; ok {
		return p, nil
	}
	return nil, domain.NewUnknownProvider(id)
}

// Register добавляет или заменяет провайдера.
func (r *Registry) Register(p domain.Provider) {
	r.byID[p.ID()] = p
}
