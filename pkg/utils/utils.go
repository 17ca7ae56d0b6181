package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
)

func TruncateString(str string, num int) string {
	if len(str) <= num {
		return str
	}
	if num <= 3 {
		return str[:num]
	}
	return str[0:num-3] + "..."
}

func AddCommas(s string) string {
	if len(s) == 0 {
		return s
	}
	parts := strings.Split(s, ".")
	integerPart := parts[0]
	sign := ""
	if strings.HasPrefix(integerPart, "-") {
		sign = "-"
		integerPart = integerPart[1:]
	}

	n := len(integerPart)
	if n <= 3 {
		return s
	}

	var result strings.Builder
	result.WriteString(sign)
	remainder := n % 3
	if remainder > 0 {
		result.WriteString(integerPart[:remainder])
		result.WriteString(",")
	}
	for i := remainder; i < n; i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(integerPart[i : i+3])
	}

	if len(parts) > 1 {
		result.WriteString(".")
		result.WriteString(parts[1])
	}
	return result.String()
}

func FormatFloat(f float64, decimals int) string {
	return AddCommas(fmt.Sprintf("%.*f", decimals, f))
}

// FormatUSD renders a dollar amount with cents, e.g. "$1,234.50".
func FormatUSD(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	// Cents no longer fit in an int64 past this point.
	if math.Abs(v) >= math.MaxInt64/100 {
		if v < 0 {
			return "-$" + FormatFloat(-v, 2)
		}
		return "$" + FormatFloat(v, 2)
	}
	return money.New(int64(math.Round(v*100)), money.USD).Display()
}

// FormatPrice keeps two decimals for prices of at least a dollar and four below.
func FormatPrice(price float64) string {
	if math.IsNaN(price) {
		return "$0.00"
	}
	if price >= 1 {
		return "$" + FormatFloat(price, 2)
	}
	return "$" + FormatFloat(price, 4)
}

// FormatLargeNumber abbreviates billions and millions.
func FormatLargeNumber(v float64) string {
	if v == 0 || math.IsNaN(v) {
		return "$0.00"
	}
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	}
	return "$" + FormatFloat(v, 0)
}

// ShortAddress renders the first six characters of an address, e.g. "0xAb58...".
func ShortAddress(addr string) string {
	if len(addr) <= 6 {
		return addr
	}
	return addr[:6] + "..."
}
