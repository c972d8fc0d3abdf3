package utils

import "fmt"

// CentsToDollar formats an amount in cents as a dollar string, e.g.
// 1050 -> "10.50".
func CentsToDollar(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
