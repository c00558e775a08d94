package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/quantbeam/live-scanner/src/eventmodels"
)

const readDeadline = 30 * time.Second

// WebsocketBarDTO is the wire payload for one completed base bar.
type WebsocketBarDTO struct {
	Symbol string  `json:"symbol"`
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

func (dto *WebsocketBarDTO) ToModel() (eventmodels.Bar, error) {
	t, err := time.Parse(time.RFC3339, dto.Time)
	if err != nil {
		return eventmodels.Bar{}, fmt.Errorf("WebsocketBarDTO.ToModel: failed to parse time %q: %w", dto.Time, err)
	}

	return eventmodels.Bar{
		Symbol:      eventmodels.Symbol(dto.Symbol),
		Timestamp:   t,
		LastUpdated: t.Add(eventmodels.BaseTimeframe.Duration()),
		Open:        dto.Open,
		High:        dto.High,
		Low:         dto.Low,
		Close:       dto.Close,
		Volume:      dto.Volume,
		Complete:    true,
	}, nil
}

// WebsocketFeed streams live base bars from a websocket endpoint. A read
// failure triggers a reconnect; the feed only returns when the context is
// canceled or the handler refuses a bar.
type WebsocketFeed struct {
	url string
}

func NewWebsocketFeed(url string) *WebsocketFeed {
	return &WebsocketFeed{url: url}
}

func (f *WebsocketFeed) connect() (*websocket.Conn, error) {
	log.Infof("connecting to %s", f.url)

	c, _, err := websocket.DefaultDialer.Dial(f.url, nil)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, fmt.Errorf("failed to connect to websocket server: connection is nil")
	}

	return c, nil
}

func (f *WebsocketFeed) Run(ctx context.Context, handler BarHandler) error {
	c, err := f.connect()
	if err != nil {
		return fmt.Errorf("WebsocketFeed.Run: initial connect failed: %w", err)
	}

	defer c.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			c.SetReadDeadline(time.Now().UTC().Add(readDeadline))
			_, message, err := c.ReadMessage()

			if err != nil {
				log.Errorf("ReadMessage(): %v", err)

				// Reconnect
				newConn, newErr := f.connect()
				if newErr != nil {
					log.Errorf("failed to reconnect: %v", newErr)
					continue
				}

				if e := c.Close(); e != nil {
					log.Errorf("error closing old connection: %v", e)
				}

				c = newConn
				continue
			}

			var dto WebsocketBarDTO
			if err := json.Unmarshal(message, &dto); err != nil {
				log.Errorf("failed to unmarshal json: %v", err)
				continue
			}

			bar, err := dto.ToModel()
			if err != nil {
				log.Errorf("dropping malformed bar: %v", err)
				continue
			}

			if err := handler(bar); err != nil {
				return fmt.Errorf("WebsocketFeed.Run: handler: %w", err)
			}
		}
	}
}
