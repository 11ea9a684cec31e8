package tokenize

import (
	"reflect"
	"testing"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "lower-cases and splits", in: "Trip to JAPAN, 2024!", want: []string{"trip", "japan", "2024"}},
		{name: "drops short words", in: "a b c++ x1", want: []string{"x1"}},
		{name: "drops stop words", in: "it is what it is", want: nil},
		{name: "unicode letters", in: "Café 旅行 naïve", want: []string{"café", "旅行", "naïve"}},
		{name: "hyphen and ampersand split", in: "Wi-Fi q&a", want: []string{"wi", "fi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Words(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Words(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTerm(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "Trip", want: "trip", wantOK: true},
		{in: "  Road-Trip ", want: "road trip", wantOK: true},
		{in: "state of mind", want: "state mind", wantOK: true},
		{in: "it", wantOK: false},
		{in: "c++", wantOK: false},
		{in: "to-do", wantOK: false},
		{in: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Term(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Term(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
