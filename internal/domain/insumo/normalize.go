// Package insumo contiene el motor de resolución y asignación de insumos:
// normalización de texto, búsqueda tolerante a errores, opciones de catálogo con stock,
// conversión de formatos a unidad base, conciliación de asignaciones por bulto y
// agregación de faltantes previa a crear una orden de fabricación.
//
// Todas las funciones son puras salvo FormatCache; el stock de la bodega se pasa
// siempre como parámetro.
package insumo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = runes.Remove(runes.In(unicode.Mn))

// Normalize pasa a minúsculas, elimina diacríticos y colapsa espacios.
// "Ñandú" → "nandu". Nunca falla: ante un error de transformación devuelve la versión
// en minúsculas sin quitar marcas.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	t := transform.Chain(norm.NFD, stripMarks, norm.NFC)
	out, _, err := transform.String(t, lower)
	if err != nil {
		out = lower
	}
	return strings.Join(strings.Fields(out), " ")
}
