package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type SeatTier string

const (
	SeatTierStandard SeatTier = "standard"
	SeatTierPremium  SeatTier = "premium"
	SeatTierVIP      SeatTier = "vip"
)

// Seat is immutable once its show is created. The price is fixed at show
// creation time.
type Seat struct {
	ID     string
	Row    int
	Column int
	Tier   SeatTier
	Price  decimal.Decimal
}

// SeatID derives the identifier of a seat from its 1-based row and column,
// e.g. row 2 column 7 is "B7".
func SeatID(row, column int) string {
	return fmt.Sprintf("%c%d", rune('A'+row-1), column)
}

type TierPrices struct {
	Standard decimal.Decimal
	Premium  decimal.Decimal
	VIP      decimal.Decimal
}

var DefaultTierPrices = TierPrices{
	Standard: decimal.NewFromInt(10),
	Premium:  decimal.NewFromInt(15),
	VIP:      decimal.NewFromInt(20),
}

func (p TierPrices) For(tier SeatTier) decimal.Decimal {
	switch tier {
	case SeatTierPremium:
		return p.Premium
	case SeatTierVIP:
		return p.VIP
	default:
		return p.Standard
	}
}

// NewSeatLayout generates a rows x seatsPerRow layout. The middle third of the
// rows is premium and the centre columns of the back rows are vip.
func NewSeatLayout(rows, seatsPerRow int, prices TierPrices) []Seat {
	seats := make([]Seat, 0, rows*seatsPerRow)

	premiumFrom := rows / 3
	premiumTo := ceilDiv(2*rows, 3)
	vipColFrom := seatsPerRow / 3
	vipColTo := ceilDiv(2*seatsPerRow, 3)

	for row := 1; row <= rows; row++ {
		for col := 1; col <= seatsPerRow; col++ {
			tier := SeatTierStandard

			if row >= premiumFrom && row <= premiumTo {
				tier = SeatTierPremium
			}

			if row > premiumTo && col > vipColFrom && col <= vipColTo {
				tier = SeatTierVIP
			}

			seats = append(seats, Seat{
				ID:     SeatID(row, col),
				Row:    row,
				Column: col,
				Tier:   tier,
				Price:  prices.For(tier),
			})
		}
	}

	return seats
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
