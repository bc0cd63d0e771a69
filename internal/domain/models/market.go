package models

import "time"

// Sample is a single point of a price/volume time series, immutable once
// produced by the feed.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Volume    int64     `json:"volume"`
}

// Series is a chronological sequence of samples for one symbol.
type Series struct {
	Symbol  string   `json:"symbol"`
	Samples []Sample `json:"samples"`
}

// Prices returns the price column of the series.
func (s Series) Prices() []float64 {
	out := make([]float64, len(s.Samples))
	for i, p := range s.Samples {
		out[i] = p.Price
	}
	return out
}

// Volumes returns the volume column of the series.
func (s Series) Volumes() []int64 {
	out := make([]int64, len(s.Samples))
	for i, p := range s.Samples {
		out[i] = p.Volume
	}
	return out
}

// Timestamps returns the timestamp column of the series.
func (s Series) Timestamps() []time.Time {
	out := make([]time.Time, len(s.Samples))
	for i, p := range s.Samples {
		out[i] = p.Timestamp
	}
	return out
}

// Last returns the most recent sample, or a zero Sample for an empty series.
func (s Series) Last() Sample {
	if len(s.Samples) == 0 {
		return Sample{}
	}
	return s.Samples[len(s.Samples)-1]
}

// SymbolMatch is one suggestion returned by the symbol search proxy.
type SymbolMatch struct {
	Symbol         string `json:"symbol"`
	Exchange       string `json:"exchange"`
	InstrumentName string `json:"instrument_name"`
}
