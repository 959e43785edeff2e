package market

import (
	"math"
	"math/rand/v2"
	"time"
)

// PriceFunc returns the simulated market price (currency per kWh) at a
// simulated instant. Implementations must be pure.
type PriceFunc func(simTime time.Time) float64

// PriceConfig parameterizes the diurnal price curve.
type PriceConfig struct {
	BasePrice float64       `mapstructure:"base_price"`
	Amplitude float64       `mapstructure:"amplitude"`
	Jitter    float64       `mapstructure:"jitter"`
	Step      time.Duration `mapstructure:"price_step"`
	Seed      uint64        `mapstructure:"seed"`
}

// DefaultPriceConfig mirrors the flat grid tariff of the reference
// installation with a daily swing around it.
func DefaultPriceConfig() PriceConfig {
	return PriceConfig{
		BasePrice: 8.5,
		Amplitude: 1.5,
		Jitter:    1.0,
		Step:      15 * time.Minute,
		Seed:      42,
	}
}

const minPrice = 0.01

// ConstantPrice always returns p.
func ConstantPrice(p float64) PriceFunc {
	return func(time.Time) float64 { return p }
}

// DiurnalPrice is cheapest at 03:00 and dearest at 15:00 simulated local
// time. Within each Step bucket a seeded offset in [-Jitter, Jitter] is
// added, so the same instant always yields the same price.
func DiurnalPrice(c PriceConfig) PriceFunc {
	return func(t time.Time) float64 {
		h := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
		p := c.BasePrice + c.Amplitude*math.Sin(2*math.Pi*(h-9)/24)
		if c.Jitter > 0 && c.Step > 0 {
			bucket := uint64(t.UnixNano() / int64(c.Step))
			r := rand.New(rand.NewPCG(c.Seed, bucket))
			p += c.Jitter * (2*r.Float64() - 1)
		}
		return math.Round(math.Max(p, minPrice)*1e4) / 1e4
	}
}
