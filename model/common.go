package model

type PagingMeta struct {
	Page   int                    `json:"page"`
	Count  int64                  `json:"count"`
	Limit  int                    `json:"limit"`
	Order  string                 `json:"order"`
	Filter map[string]interface{} `json:"filter"`
}

// Currency identifies one of the two balance ledgers kept per user
type Currency string

const (
	// CurrencyStable is the stable unit currency used for purchases and commissions
	CurrencyStable Currency = "stable"
	// CurrencyBonus is the bonus unit currency awarded alongside stable commissions
	CurrencyBonus Currency = "bonus"
)

func (c Currency) String() string {
	return string(c)
}

// Currencies lists every ledger currency in a stable order
func Currencies() []Currency {
	return []Currency{CurrencyStable, CurrencyBonus}
}
