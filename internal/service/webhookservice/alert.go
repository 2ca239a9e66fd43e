package webhookservice

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/broker/angelone"
	"github.com/GlebRadaev/tradebridge/internal/broker/dhan"
	"github.com/GlebRadaev/tradebridge/internal/broker/upstox"
	"github.com/GlebRadaev/tradebridge/pkg/validate"
)

// Alert is the TradingView body. Numbers may arrive quoted.
type Alert struct {
	Symbol       string      `json:"symbol" validate:"required"`
	Action       string      `json:"action" validate:"required"`
	Quantity     json.Number `json:"quantity" validate:"required"`
	OrderType    string      `json:"orderType,omitempty"`
	Price        json.Number `json:"price,omitempty"`
	ProductType  string      `json:"productType,omitempty"`
	TriggerPrice json.Number `json:"triggerPrice,omitempty"`
}

type order struct {
	symbol       string
	side         string
	orderType    string
	productType  string
	quantity     int64
	price        float64
	triggerPrice float64
}

func parseAlert(payload []byte) (Alert, error) {
	var alert Alert
	if err := json.Unmarshal(payload, &alert); err != nil {
		return Alert{}, fmt.Errorf("%w: %v", ErrInvalidAlert, err)
	}
	alert.Symbol = strings.TrimSpace(alert.Symbol)
	alert.Action = strings.TrimSpace(alert.Action)
	if err := validate.Struct(alert); err != nil {
		return Alert{}, fmt.Errorf("%w: %v", ErrInvalidAlert, err)
	}
	return alert, nil
}

func normalizeAction(action string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "buy", "b", "long":
		return broker.SideBuy, nil
	case "sell", "s", "short":
		return broker.SideSell, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAction, action)
}

func (a Alert) toOrder() (order, error) {
	side, err := normalizeAction(a.Action)
	if err != nil {
		return order{}, err
	}
	qty, err := a.Quantity.Int64()
	if err != nil || qty <= 0 {
		return order{}, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidAlert)
	}
	price, err := number(a.Price)
	if err != nil {
		return order{}, fmt.Errorf("%w: price: %v", ErrInvalidAlert, err)
	}
	trigger, err := number(a.TriggerPrice)
	if err != nil {
		return order{}, fmt.Errorf("%w: triggerPrice: %v", ErrInvalidAlert, err)
	}
	return order{
		symbol:       a.Symbol,
		side:         side,
		orderType:    strings.ToUpper(strings.TrimSpace(a.OrderType)),
		productType:  strings.ToUpper(strings.TrimSpace(a.ProductType)),
		quantity:     qty,
		price:        price,
		triggerPrice: trigger,
	}, nil
}

func number(n json.Number) (float64, error) {
	if n == "" {
		return 0, nil
	}
	return n.Float64()
}

// brokerPayload reshapes an order into the app-level order body the
// broker's adapter accepts.
func brokerPayload(brokerName string, o order) (json.RawMessage, error) {
	var body any
	switch brokerName {
	case broker.AngelOne:
		body = angelone.OrderRequest{
			TradingSymbol: o.symbol,
			OrderSide:     o.side,
			OrderType:     o.orderType,
			ProductType:   o.productType,
			Quantity:      o.quantity,
			Price:         o.price,
			TriggerPrice:  o.triggerPrice,
		}
	case broker.Dhan:
		body = dhan.OrderRequest{
			Symbol:          o.symbol,
			TransactionType: o.side,
			OrderType:       o.orderType,
			ProductType:     o.productType,
			Quantity:        o.quantity,
			Price:           o.price,
			TriggerPrice:    o.triggerPrice,
		}
	case broker.Upstox:
		body = upstox.OrderRequest{
			Symbol:          o.symbol,
			TransactionType: o.side,
			OrderType:       o.orderType,
			Product:         o.productType,
			Quantity:        o.quantity,
			Price:           o.price,
			TriggerPrice:    o.triggerPrice,
		}
	default:
		return nil, fmt.Errorf("%w: %s alerts are not routed", broker.ErrUnsupportedBroker, brokerName)
	}
	return json.Marshal(body)
}
