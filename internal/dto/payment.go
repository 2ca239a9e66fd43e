package dto

type CreateCoinOrderRequestDTO struct {
	Coins         int64  `json:"coins" validate:"required,gt=0" example:"100"`
	CustomerPhone string `json:"customer_phone" validate:"required,min=10,max=15" example:"9999999999"`
	CustomerEmail string `json:"customer_email,omitempty" validate:"omitempty,email" example:"trader@example.com"`
	CustomerName  string `json:"customer_name,omitempty" example:"Trader One"`
}

type CoinOrderResponseDTO struct {
	OrderID          string `json:"order_id" example:"coin_6f1c2a4e-1b7d-4c35-9a0e-8d8d0c6f0c11"`
	PaymentSessionID string `json:"payment_session_id,omitempty" example:"session_a1b2c3"`
	Amount           string `json:"amount" example:"100.00"`
	Coins            int64  `json:"coins" example:"100"`
	Status           string `json:"status" example:"PENDING"`
}

type PaymentWebhookResponseDTO struct {
	Status string `json:"status" example:"completed"`
}
