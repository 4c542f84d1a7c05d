package usecase

// Published to RabbitMQ when a checkout is accepted; consumed by the worker
// that forwards the order to the payment gateway.
type OrderCreatedMsg struct {
	OrderID  string  `json:"orderId"`
	UserID   string  `json:"userId"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// Published to RabbitMQ when a coin gift is accepted.
type GiftCreatedMsg struct {
	GiftID       string `json:"giftId"`
	SenderID     string `json:"senderId"`
	RecipientID  string `json:"recipientId"`
	Metal        string `json:"metal"`
	Denomination int    `json:"denomination"`
	Quantity     int    `json:"quantity"`
}

// Sent by the payment gateway on Kafka once payment settles or fails.
type OrderStatusChangedMsg struct {
	OrderID  string  `json:"orderId"`
	UserID   string  `json:"userId"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"` // e.g. "SUCCESS"
}

// Pushed by the rates provider on Kafka whenever the bullion price moves.
type RateUpdateMsg struct {
	Metal     string  `json:"metal"`
	BuyRate   float64 `json:"buyRate"`
	SellRate  float64 `json:"sellRate"`
	Timestamp string  `json:"timestamp"`
}
