package entity

import "github.com/shopspring/decimal"

// RequestLine fila de un borrador de solicitud de insumos.
// FormatQuantity se recibe tal cual y se trunca hacia abajo al validar.
type RequestLine struct {
	MaterialID     string
	FormatID       string
	FormatQuantity decimal.Decimal
	Comment        string
}
