package utils

import (
	"github.com/ericlagergren/decimal/sql/postgres"
)

// FmtDecimal formats the given database decimal as a plain string
func FmtDecimal(amount *postgres.Decimal) string {
	if amount == nil || amount.V == nil {
		return "0"
	}
	return amount.V.String()
}
