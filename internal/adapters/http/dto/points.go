package dto

import "github.com/jsamuelsen/horoscope-service/internal/app"

// BalanceResponse is the reader's point balance.
type BalanceResponse struct {
	Balance    int64 `json:"balance"`
	UnlockCost int64 `json:"unlockCost"`
}

// PurchaseRequest is the body of POST /points/purchase.
type PurchaseRequest struct {
	Pack int `json:"pack" validate:"required,oneof=1 10"`
}

// PurchaseResponse reports the points added by a purchase.
type PurchaseResponse struct {
	Added   int64 `json:"added"`
	Balance int64 `json:"balance"`
}

// NewPurchaseResponse converts a PurchaseResult.
func NewPurchaseResponse(r *app.PurchaseResult) PurchaseResponse {
	return PurchaseResponse{Added: r.Added, Balance: r.Balance}
}

// UnlockRequest is the body of POST /fortunes/:sign/unlock. An empty date
// means today.
type UnlockRequest struct {
	Date string `json:"date" validate:"datekey"`
}

// UnlockResponse reports the outcome of an unlock.
type UnlockResponse struct {
	Sign    string `json:"sign"`
	Date    string `json:"date"`
	Already bool   `json:"already"`
	Spent   int64  `json:"spent"`
	Balance int64  `json:"balance"`
}

// NewUnlockResponse converts an UnlockResult.
func NewUnlockResponse(signKey, dateKey string, r *app.UnlockResult) UnlockResponse {
	return UnlockResponse{
		Sign:    signKey,
		Date:    dateKey,
		Already: r.Already,
		Spent:   r.Spent,
		Balance: r.Balance,
	}
}
