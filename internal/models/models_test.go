package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchingTrades(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		expected []Trade
	}{
		{name: "FullLabel", term: "Elektrik", expected: []Trade{TradeElectrician}},
		{name: "Substring", term: "heizung", expected: []Trade{TradePlumber}},
		{name: "CaseInsensitive", term: "MALER", expected: []Trade{TradePainter}},
		{name: "WhitespaceTrimmed", term: "  garten  ", expected: []Trade{TradeGardener}},
		{name: "NoMatch", term: "dachdecker", expected: nil},
		{name: "Empty", term: "   ", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.expected, MatchingTrades(tt.term))
		})
	}
}

func TestTradeLabel(t *testing.T) {
	assert.Equal(t, "Sanitär & Heizung", TradePlumber.Label())
	assert.Equal(t, "Sonstiges", TradeOther.Label())
	// Unknown codes fall back to the raw value.
	assert.Equal(t, "ROOFER", Trade("ROOFER").Label())
}

func TestBookingStatusScan(t *testing.T) {
	var status BookingStatus
	assert.NoError(t, status.Scan("CONFIRMED"))
	assert.Equal(t, BookingStatusConfirmed, status)

	assert.NoError(t, status.Scan([]byte("COMPLETED")))
	assert.Equal(t, BookingStatusCompleted, status)

	assert.Error(t, status.Scan("SHIPPED"))
}
