package reservation

type PriceCalculator interface {
	Calculate(nightly Money, period StayPeriod) (Money, error)
}

// NightlyPriceCalculator charges the nightly rate for every night of the stay.
type NightlyPriceCalculator struct{}

func NewNightlyPriceCalculator() *NightlyPriceCalculator {
	return &NightlyPriceCalculator{}
}

func (pc *NightlyPriceCalculator) Calculate(nightly Money, period StayPeriod) (Money, error) {
	return nightly.Multiply(period.Nights())
}
