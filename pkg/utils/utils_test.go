package utils

import (
	"testing"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"hello world", 5, "he..."},
		{"short", 10, "short"},
		{"exact", 5, "exact"},
		{"", 5, ""},
		{"abc", 2, "ab"},
		{"abc", 3, "abc"},
	}

	for _, tt := range tests {
		result := TruncateString(tt.input, tt.length)
		if result != tt.expected {
			t.Errorf("TruncateString(%q, %d) = %q; want %q", tt.input, tt.length, result, tt.expected)
		}
	}
}

func TestAddCommas(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"123", "123"},
		{"1234", "1,234"},
		{"123456", "123,456"},
		{"1234567", "1,234,567"},
		{"1234.56", "1,234.56"},
		{"-1234", "-1,234"},
		{"", ""},
	}

	for _, tt := range tests {
		result := AddCommas(tt.input)
		if result != tt.expected {
			t.Errorf("AddCommas(%q) = %q; want %q", tt.input, result, tt.expected)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input    float64
		decimals int
		expected string
	}{
		{1234.5678, 2, "1,234.57"},
		{1234.5, 2, "1,234.50"},
		{0, 2, "0.00"},
	}

	for _, tt := range tests {
		result := FormatFloat(tt.input, tt.decimals)
		if result != tt.expected {
			t.Errorf("FormatFloat(%f, %d) = %q; want %q", tt.input, tt.decimals, result, tt.expected)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "$0.00"},
		{1234.5, "$1,234.50"},
		{97123.456, "$97,123.46"},
		{0.004, "$0.00"},
		{-12.5, "-$12.50"},
		{1e18, "$1,000,000,000,000,000,000.00"},
		{-1e18, "-$1,000,000,000,000,000,000.00"},
	}

	for _, tt := range tests {
		if got := FormatUSD(tt.input); got != tt.expected {
			t.Errorf("FormatUSD(%v) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "$0.0000"},
		{0.123456, "$0.1235"},
		{1, "$1.00"},
		{64123.4, "$64,123.40"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.input); got != tt.expected {
			t.Errorf("FormatPrice(%v) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatLargeNumber(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "$0.00"},
		{999, "$999"},
		{123456, "$123,456"},
		{2500000, "$2.50M"},
		{1234000000000, "$1234.00B"},
	}

	for _, tt := range tests {
		if got := FormatLargeNumber(tt.input); got != tt.expected {
			t.Errorf("FormatLargeNumber(%v) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestShortAddress(t *testing.T) {
	if got := ShortAddress("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"); got != "0xAb58..." {
		t.Errorf("ShortAddress() = %q", got)
	}
	if got := ShortAddress("0x12"); got != "0x12" {
		t.Errorf("ShortAddress() = %q", got)
	}
}
