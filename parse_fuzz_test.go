package kalkulator_test

import (
	"strings"
	"testing"

	kalk "github.com/nikolapetrovic58760-cpu/Pametni-kalkulator"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("1+2*3")
	f.Add("(5 + 3) * 2 - 4^2")
	f.Add("2**3")
	f.Add("__import__('os')")
	f.Fuzz(func(t *testing.T, s string) {
		kalk.Parse(strings.NewReader(s))
	})
}
