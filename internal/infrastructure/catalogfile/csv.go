package catalogfile

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV lee CSV en UTF-8 o Latin-1. Si el contenido no es UTF-8 válido se usa chardet para
// distinguir Windows-1252 de ISO-8859-1; el separador (coma o punto y coma) se detecta en la cabecera.
func readCSV(r io.Reader) ([][]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = trimBOM(b)

	var src io.Reader = strings.NewReader(string(b))
	if !utf8.Valid(b) {
		dec := charmap.ISO8859_1.NewDecoder()
		if det, err := chardet.NewTextDetector().DetectBest(b); err == nil && det != nil &&
			strings.EqualFold(det.Charset, "windows-1252") {
			dec = charmap.Windows1252.NewDecoder()
		}
		src = transform.NewReader(src, dec)
	}

	br := bufio.NewReader(src)
	first, _ := br.Peek(1024)
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if line, _, _ := strings.Cut(string(first), "\n"); strings.Count(line, ";") > strings.Count(line, ",") {
		cr.Comma = ';'
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
