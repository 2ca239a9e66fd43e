package dto

import "time"

type BalanceResponseDTO struct {
	Coins     int64 `json:"coins" example:"500"`
	Purchased int64 `json:"purchased_total" example:"1200"`
}

type CoinTransactionResponseDTO struct {
	OrderID   string    `json:"order_id" example:"coin_6f1c2a4e-1b7d-4c35-9a0e-8d8d0c6f0c11"`
	Coins     int64     `json:"coins" example:"100"`
	Amount    string    `json:"amount" example:"100.00"`
	CreatedAt time.Time `json:"created_at" example:"2024-05-01T09:15:00Z"`
}
