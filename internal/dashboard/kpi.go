package dashboard

import "fmt"

// KPI is one live process parameter card.
type KPI struct {
	Name      string
	Current   float64
	Target    float64
	Previous  float64
	Unit      string
	Status    string
	Highlight bool
}

// Variance is the deviation from target in percent.
func (k KPI) Variance() float64 {
	return percentChange(k.Current, k.Target)
}

// BatchChange is the change against the previous batch in percent.
func (k KPI) BatchChange() float64 {
	return percentChange(k.Current, k.Previous)
}

func (k KPI) Rising() bool {
	return k.Current > k.Previous
}

func (k KPI) Reading() string {
	if k.Unit == "" {
		return fmt.Sprintf("%g", k.Current)
	}
	return fmt.Sprintf("%g %s", k.Current, k.Unit)
}

func percentChange(value, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (value - base) / base * 100
}

// Percent formats a percentage with one decimal. Values that round above zero
// carry a leading plus sign.
func Percent(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	if v > 0 && s != "0.0" {
		s = "+" + s
	}
	return s + "%"
}
