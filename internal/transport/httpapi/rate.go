package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/DevWolk/fop-calc/internal/domain"
)

// handleRates: GET|POST /api/rates?uah=monobank&pln=frankfurter&proxy=corsproxy.io&fallback=true
// Обновляет обе пары и возвращает отчёт и удерживаемые курсы.
// 502 — только если не обновилась ни одна пара.
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := s.settings
	q := r.URL.Query()
	for _, p := range []struct {
		param string
		pair  domain.Pair
		dst   *domain.ProviderID
	}{
		{"uah", domain.PairUAH, &st.UAHProvider},
		{"pln", domain.PairPLN, &st.PLNProvider},
	} {
		v := domain.ProviderID(strings.TrimSpace(q.Get(p.param)))
		if v == "" {
			continue
		}
		// чужой паре нельзя: её курс записался бы как удерживаемый
		if info, ok := domain.Lookup(v); ok && info.Pair != p.pair {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("%s quotes %s, not %s", v, info.Pair, p.pair)})
			return
		}
		*p.dst = v
	}
	if q.Has("proxy") {
		st.Proxy = q.Get("proxy")
	}
	if v := q.Get("fallback"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "fallback must be true or false"})
			return
		}
		st.Fallback = b
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.RatesTimeout)
	defer cancel()

	report := s.rates.Refresh(ctx, st)
	held, err := s.rates.Held(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if !report.UAH.OK && !report.PLN.OK {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, RatesResponse{Report: report, Held: held})
}
