package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/shared/format"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
)

const (
	ActionForward = "forward"
	ActionReverse = "reverse"
)

// InputParams — параметры, собранные интерактивно в CLI.
type InputParams struct {
	// forward | reverse
	Action string

	// forward: USD на счёте ФОП; reverse: PLN, которые нужны на карте
	Amount decimal.Decimal

	TopUpMethod fees.Method
	Plan        plan.Tier

	// PLN уже на карте
	Existing decimal.Decimal
}

// GetInteractiveParams — опрос пользователя в терминале.
func GetInteractiveParams(in io.Reader, out io.Writer) InputParams {
	reader := bufio.NewReader(in)

	params := InputParams{Action: askAction(reader, out)}

	if params.Action == ActionForward {
		params.Amount = askDecimal(reader, out, "\nСколько USD на счёте ФОП? (Enter = 1000): ", decimal.NewFromInt(1000))
	} else {
		params.Amount = askDecimal(reader, out, "\nСколько PLN нужно на карте? (Enter = 4000): ", decimal.NewFromInt(4000))
	}

	fmt.Fprintln(out, "\nСпособ пополнения карты:")
	methods := fees.Methods()
	params.TopUpMethod = methods[askFromList(reader, out, asStrings(methods), indexOf(methods, fees.GooglePayMC)+1)]

	fmt.Fprintln(out, "\nТариф карты:")
	tiers := plan.Tiers()
	params.Plan = tiers[askFromList(reader, out, asStrings(tiers), 1)]

	params.Existing = askDecimal(reader, out, "\nОстаток PLN на карте? (Enter = 0): ", decimal.Zero)

	// Контекст (дружественное подтверждение выбора)
	if params.Action == ActionForward {
		fmt.Fprintf(out, "\nСчитаем перевод %s, пополнение %s, тариф %s\n",
			format.USD(params.Amount), params.TopUpMethod, params.Plan)
	} else {
		fmt.Fprintf(out, "\nИщем сумму под %s, пополнение %s, тариф %s\n",
			format.PLN(params.Amount), params.TopUpMethod, params.Plan)
	}

	return params
}

func askAction(r *bufio.Reader, out io.Writer) string {
	for {
		fmt.Fprintln(out, "Выберите действие:")
		fmt.Fprintln(out, "1) Сколько PLN получу из USD")
		fmt.Fprintln(out, "2) Сколько USD нужно для суммы PLN")
		fmt.Fprint(out, "Ваш выбор [1-2] (Enter = 1): ")

		raw, err := r.ReadString('\n')
		raw = strings.TrimSpace(raw)

		switch raw {
		case "", "1":
			return ActionForward
		case "2":
			return ActionReverse
		default:
			if err != nil {
				return ActionForward
			}
			fmt.Fprintln(out, "Введите 1 или 2, либо нажмите Enter для значения по умолчанию.")
		}
	}
}

// askFromList возвращает индекс выбранного варианта (с нуля).
func askFromList(r *bufio.Reader, out io.Writer, options []string, defIndex1 int) int {
	for i, c := range options {
		fmt.Fprintf(out, "%d) %s\n", i+1, c)
	}
	fmt.Fprintf(out, "Ваш выбор [1-%d] (Enter = %d): ", len(options), defIndex1)

	raw, _ := r.ReadString('\n')
	raw = strings.TrimSpace(raw)

	idx := defIndex1
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			idx = n
		}
	}
	if idx < 1 || idx > len(options) {
		idx = defIndex1
	}
	return idx - 1
}

func askDecimal(r *bufio.Reader, out io.Writer, prompt string, def decimal.Decimal) decimal.Decimal {
	for {
		fmt.Fprint(out, prompt)
		raw, err := r.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return def
		}
		if v, perr := ParseAmount(raw); perr == nil && !v.IsNegative() {
			return v
		}
		if err != nil {
			return def
		}
		fmt.Fprintln(out, "Введите число (например, 1000 или 0,5).")
	}
}

// ParseAmount разбирает сумму: запятая как десятичный разделитель,
// пробелы между тысячами игнорируются.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	raw = strings.ReplaceAll(raw, ",", ".")
	return decimal.NewFromString(raw)
}

func asStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func indexOf[T comparable](in []T, v T) int {
	for i, x := range in {
		if x == v {
			return i
		}
	}
	return 0
}

// AskAmount — один вопрос о сумме (команды с пропущенным аргументом).
func AskAmount(in io.Reader, out io.Writer, prompt string, def decimal.Decimal) decimal.Decimal {
	return askDecimal(bufio.NewReader(in), out, prompt, def)
}
