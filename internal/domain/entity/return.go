package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de devolución o retirada del mercado.
const (
	ReturnReasonCustomer = "customer_return"
	ReturnReasonRecall   = "market_recall"
	ReturnReasonQuality  = "quality_issue"
)

// ValidReturnReason comprueba que el motivo sea uno de los conocidos.
func ValidReturnReason(reason string) bool {
	switch reason {
	case ReturnReasonCustomer, ReturnReasonRecall, ReturnReasonQuality:
		return true
	}
	return false
}

// Return devolución o retirada de producto del mercado. El cliente es
// opcional (una retirada interna no tiene cliente).
type Return struct {
	ID           string
	CustomerID   *string
	ReturnNumber string // único
	ReturnDate   time.Time
	Reason       string
	Notes        string
	CreatedAt    time.Time

	Details []*ReturnDetail
}

// ReturnDetail línea de devolución: un lote y una cantidad.
// Único por (devolución, lote).
type ReturnDetail struct {
	ID       string
	ReturnID string
	LotID    string
	Quantity decimal.Decimal
	Unit     string
}
