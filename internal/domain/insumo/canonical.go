package insumo

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Canonicalize replica la canonicalización decimal del backend de asignaciones:
// enteros sin cambios; si el primer dígito decimal no nulo está en la posición 0 o 1
// (0.x o 0.0x) se redondea a 3 decimales; en otro caso se deja igual.
//
// Debe mantenerse idéntica a la regla del backend: cualquier diferencia provoca
// rechazos por descuadre en la suma.
func Canonicalize(q decimal.Decimal) decimal.Decimal {
	if q.IsInteger() {
		return q
	}
	s := q.Abs().String()
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return q
	}
	zeros := 0
	for _, c := range s[dot+1:] {
		if c != '0' {
			break
		}
		zeros++
	}
	if zeros <= 1 {
		return q.Round(3)
	}
	return q
}
