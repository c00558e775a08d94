package eventmodels

import (
	"fmt"
	"time"
)

// CsvBarDTO is one row of a 1-minute replay file.
type CsvBarDTO struct {
	Timestamp string  `csv:"time"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
}

func (dto *CsvBarDTO) ToModel(symbol Symbol) (Bar, error) {
	t, err := time.Parse(time.RFC3339, dto.Timestamp)
	if err != nil {
		t, err = time.Parse("2006-01-02 15:04:05", dto.Timestamp)
		if err != nil {
			return Bar{}, fmt.Errorf("CsvBarDTO.ToModel: failed to parse time %q: %w", dto.Timestamp, err)
		}
	}

	return Bar{
		Symbol:      symbol,
		Timestamp:   t,
		LastUpdated: t.Add(BaseTimeframe.Duration()),
		Open:        dto.Open,
		High:        dto.High,
		Low:         dto.Low,
		Close:       dto.Close,
		Volume:      dto.Volume,
		Complete:    true,
	}, nil
}
