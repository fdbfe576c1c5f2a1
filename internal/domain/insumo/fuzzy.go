package insumo

import "strings"

// Matches indica si la consulta coincide con el texto ya normalizado.
// Consulta vacía coincide con todo; si la consulta completa es subcadena, coincide.
// Si no, TODOS los tokens deben coincidir, como subcadena o a distancia de edición
// tolerable de alguna palabra del texto.
func Matches(haystackNormalized, rawQuery string) bool {
	q := Normalize(rawQuery)
	if q == "" {
		return true
	}
	if strings.Contains(haystackNormalized, q) {
		return true
	}
	words := strings.Fields(haystackNormalized)
	for _, token := range strings.Fields(q) {
		if !tokenMatches(haystackNormalized, words, token) {
			return false
		}
	}
	return true
}

func tokenMatches(haystack string, words []string, token string) bool {
	if strings.Contains(haystack, token) {
		return true
	}
	tl := len([]rune(token))
	tol := tokenTolerance(tl)
	for _, w := range words {
		wl := len([]rune(w))
		if abs(wl-tl) > tol {
			continue
		}
		if editDistance(token, w) <= tol {
			return true
		}
	}
	return false
}

// tokenTolerance: 1 para tokens de hasta 4 caracteres, si no floor(len × 0.25).
func tokenTolerance(n int) int {
	if n <= 4 {
		return 1
	}
	return n / 4
}

// editDistance distancia de edición con inserción, borrado, sustitución y
// transposición de caracteres adyacentes (cada una cuesta 1).
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	al, bl := len(ra), len(rb)
	if al == 0 {
		return bl
	}
	if bl == 0 {
		return al
	}

	dp := make([][]int, al+1)
	for i := range dp {
		dp[i] = make([]int, bl+1)
		dp[i][0] = i
	}
	for j := 0; j <= bl; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= al; i++ {
		for j := 1; j <= bl; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				dp[i][j] = min(dp[i][j], dp[i-2][j-2]+1)
			}
		}
	}
	return dp[al][bl]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
