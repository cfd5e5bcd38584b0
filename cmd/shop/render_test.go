package main

import "testing"

func Test_formatINR(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "₹0"},
		{25, "₹25"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{1234, "₹1,234"},
		{25000, "₹25,000"},
		{123456, "₹1,23,456"},
		{1234567, "₹12,34,567"},
		{123456789, "₹12,34,56,789"},
		{-45, "-₹45"},
		{-123456, "-₹1,23,456"},
	}
	for _, tc := range tests {
		if got := formatINR(tc.in); got != tc.want {
			t.Errorf("formatINR(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
