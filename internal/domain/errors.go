package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTopUp  = errors.New("unknown top-up method")
	ErrUnknownPlan   = errors.New("unknown plan")
	ErrUnknownPair   = errors.New("unknown currency pair")
	ErrInvalidAmount = errors.New("invalid amount")
)

// ErrorKind — класс сбоя получения котировки.
type ErrorKind string

const (
	KindTimeout         ErrorKind = "timeout"
	KindNetworkBlocked  ErrorKind = "network_blocked"
	KindHTTPStatus      ErrorKind = "http_status"
	KindParse           ErrorKind = "parse"
	KindUnknownProvider ErrorKind = "unknown_provider"
	KindUnknown         ErrorKind = "unknown"
)

// FetchError — классифицированная ошибка провайдера.
// StatusCode заполнен только для KindHTTPStatus.
type FetchError struct {
	Kind       ErrorKind `json:"kind"`
	StatusCode int       `json:"statusCode,omitempty"`
	Message    string    `json:"message,omitempty"`
	Err        error     `json:"-"`
}

func (e *FetchError) Error() string {
	switch {
	case e.Kind == KindHTTPStatus:
		return fmt.Sprintf("http %d", e.StatusCode)
	case e.Message != "":
		return string(e.Kind) + ": " + e.Message
	default:
		return string(e.Kind)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Label — короткая стабильная метка для сводки и метрик.
func (e *FetchError) Label() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("%s(%d)", e.Kind, e.StatusCode)
	}
	return string(e.Kind)
}

func NewTimeout(err error) *FetchError {
	return &FetchError{Kind: KindTimeout, Message: "deadline exceeded", Err: err}
}

func NewNetworkBlocked(err error) *FetchError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &FetchError{Kind: KindNetworkBlocked, Message: msg, Err: err}
}

func NewHTTPStatus(code int) *FetchError {
	return &FetchError{Kind: KindHTTPStatus, StatusCode: code}
}

func NewParse(format string, args ...any) *FetchError {
	return &FetchError{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

func NewUnknownProvider(id ProviderID) *FetchError {
	return &FetchError{Kind: KindUnknownProvider, Message: string(id)}
}

// NewPairMismatch — провайдер из каталога, но котирует другую пару.
func NewPairMismatch(id ProviderID, want, got Pair) *FetchError {
	return &FetchError{Kind: KindUnknownProvider, Message: fmt.Sprintf("%s quotes %s, not %s", id, got, want)}
}

// Classify приводит произвольную ошибку к FetchError.
func Classify(err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{Kind: KindUnknown, Message: err.Error(), Err: err}
}
