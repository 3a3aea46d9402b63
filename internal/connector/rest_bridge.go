package connector

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/models"
)

// RestBridge talks to a local terminal-bridge service that exposes the
// trading platform over HTTP. Every request carries the bounded timeout
// from the broker config, so a wedged terminal can never hang the sync
// loop.
type RestBridge struct {
	client  *resty.Client
	name    string
	logger  *zap.Logger
	limiter *rate.Limiter

	mu        sync.Mutex
	connected bool
}

var _ Connector = (*RestBridge)(nil)

// NewRestBridge creates a connector for the bridge at cfg.BridgeURL.
func NewRestBridge(cfg *config.Broker, logger *zap.Logger) *RestBridge {
	client := resty.New().
		SetBaseURL(cfg.BridgeURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &RestBridge{
		client:  client,
		name:    cfg.Name,
		logger:  logger,
		limiter: limiter,
	}
}

func (c *RestBridge) Name() string { return c.name }

// Connected reports whether the last Connect succeeded.
func (c *RestBridge) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// doRequest executes the request with rate limiting and retry on transient
// failures.
func (c *RestBridge) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing bridge request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.SetContext(ctx).Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// Retry on rate limiting, server errors and network failures;
		// anything else is the caller's problem.
		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil && err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				retryAfterHeader := resp.Header().Get("Retry-After")
				if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
		} else {
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		if retryAfter == 0 {
			// Exponential backoff: 1s, 2s, 4s
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("Bridge request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

type connectResponse struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
}

// Connect logs the account in through the bridge.
func (c *RestBridge) Connect(ctx context.Context, creds Credentials) (bool, error) {
	req := c.client.R().
		SetBody(map[string]string{
			"account":  creds.Account,
			"password": creds.Password,
			"server":   creds.Server,
		}).
		SetResult(&connectResponse{})

	resp, err := c.doRequest(ctx, "POST", "/connect", req)
	if err != nil {
		return false, &ConnectorError{Broker: c.name, Op: "connect", Err: err}
	}

	result := resp.Result().(*connectResponse)
	c.mu.Lock()
	c.connected = result.Connected
	c.mu.Unlock()

	if !result.Connected {
		c.logger.Warn("Bridge refused login", zap.String("message", result.Message))
	}
	return result.Connected, nil
}

// Disconnect closes the session. Errors are logged, not returned; a bridge
// that is already gone counts as disconnected.
func (c *RestBridge) Disconnect() {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := c.doRequest(ctx, "POST", "/disconnect", c.client.R()); err != nil {
		c.logger.Warn("Failed to disconnect from bridge", zap.Error(err))
	}
}

// bridgePosition is the bridge's wire form of one position or deal.
type bridgePosition struct {
	Ticket     int64    `json:"ticket"`
	Symbol     string   `json:"symbol"`
	Type       int      `json:"type"` // 0 = buy, 1 = sell
	Volume     float64  `json:"volume"`
	PriceOpen  float64  `json:"price_open"`
	PriceClose *float64 `json:"price_close,omitempty"`
	Time       int64    `json:"time"` // unix seconds
	TimeClose  *int64   `json:"time_close,omitempty"`
	Profit     float64  `json:"profit"`
	Commission float64  `json:"commission"`
	Swap       float64  `json:"swap"`
	Comment    string   `json:"comment"`
	Magic      int64    `json:"magic"`
}

func (p *bridgePosition) toTrade(status string) models.Trade {
	side := models.SideBuy
	if p.Type != 0 {
		side = models.SideSell
	}

	trade := models.Trade{
		ID:         strconv.FormatInt(p.Ticket, 10),
		Symbol:     p.Symbol,
		Type:       side,
		Lots:       p.Volume,
		OpenPrice:  p.PriceOpen,
		ClosePrice: p.PriceClose,
		Profit:     p.Profit,
		Commission: p.Commission,
		Swap:       p.Swap,
		Comment:    p.Comment,
		Magic:      p.Magic,
		Status:     status,
	}
	if p.Time > 0 {
		open := time.Unix(p.Time, 0).UTC()
		trade.OpenTime = &open
	}
	if p.TimeClose != nil {
		closed := time.Unix(*p.TimeClose, 0).UTC()
		trade.CloseTime = &closed
	}
	return trade
}

// GetOpenTrades returns the currently open positions as trade records.
func (c *RestBridge) GetOpenTrades(ctx context.Context) ([]models.Trade, error) {
	if !c.Connected() {
		return nil, &ConnectorError{Broker: c.name, Op: "get open trades", Err: errNotConnected}
	}

	var positions []bridgePosition
	req := c.client.R().SetResult(&positions)

	resp, err := c.doRequest(ctx, "GET", "/positions", req)
	if err != nil {
		return nil, &ConnectorError{Broker: c.name, Op: "get open trades", Err: err}
	}

	result := *resp.Result().(*[]bridgePosition)
	trades := make([]models.Trade, 0, len(result))
	for i := range result {
		trades = append(trades, result[i].toTrade(models.StatusOpen))
	}
	return trades, nil
}

// GetTradeHistory returns closed trades from the last given days.
func (c *RestBridge) GetTradeHistory(ctx context.Context, days int) ([]models.Trade, error) {
	if !c.Connected() {
		return nil, &ConnectorError{Broker: c.name, Op: "get trade history", Err: errNotConnected}
	}

	var deals []bridgePosition
	req := c.client.R().
		SetQueryParam("days", strconv.Itoa(days)).
		SetResult(&deals)

	resp, err := c.doRequest(ctx, "GET", "/history", req)
	if err != nil {
		return nil, &ConnectorError{Broker: c.name, Op: "get trade history", Err: err}
	}

	result := *resp.Result().(*[]bridgePosition)
	trades := make([]models.Trade, 0, len(result))
	for i := range result {
		trades = append(trades, result[i].toTrade(models.StatusClosed))
	}
	return trades, nil
}

// GetAccountInfo returns broker-reported account figures.
func (c *RestBridge) GetAccountInfo(ctx context.Context) (map[string]float64, error) {
	if !c.Connected() {
		return nil, &ConnectorError{Broker: c.name, Op: "get account info", Err: errNotConnected}
	}

	var info map[string]float64
	req := c.client.R().SetResult(&info)

	resp, err := c.doRequest(ctx, "GET", "/account", req)
	if err != nil {
		return nil, &ConnectorError{Broker: c.name, Op: "get account info", Err: err}
	}

	return *resp.Result().(*map[string]float64), nil
}
