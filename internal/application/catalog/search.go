package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer descompone y elimina diacríticos (á → a, ñ → n).
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldAccents normaliza un texto para búsqueda: minúsculas y sin acentos.
func foldAccents(s string) string {
	folded, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// matchesSearch indica si alguno de los campos contiene el término ya
// normalizado con foldAccents.
func matchesSearch(folded string, fields ...string) bool {
	if folded == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(foldAccents(f), folded) {
			return true
		}
	}
	return false
}
