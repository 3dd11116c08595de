package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/labstock-service/internal/inventory/dto"
)

// ImportHeader documents the column order ParseProducts expects.
const ImportHeader = "code,nom,cas,formule,depot,stock,unite,seuil,peremption"

// ParseProducts reads the product import file. The first line is a header and
// is skipped. Fields are split on every comma: quoting is not supported, so a
// comma inside a name shifts the columns of that line.
func ParseProducts(data []byte) ([]dto.CreateProductInput, []string) {
	var (
		rows []dto.CreateProductInput
		errs []string
	)

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}
		if len(fields) < 7 {
			errs = append(errs, fmt.Sprintf("ligne %d: %d colonnes, 7 attendues au minimum", i+1, len(fields)))
			continue
		}

		stock, err := strconv.Atoi(fields[5])
		if err != nil {
			errs = append(errs, fmt.Sprintf("ligne %d: stock invalide %q", i+1, fields[5]))
			continue
		}
		row := dto.CreateProductInput{
			Code:      fields[0],
			Name:      fields[1],
			CASNumber: fields[2],
			Formula:   fields[3],
			Location:  fields[4],
			Stock:     stock,
			Unit:      fields[6],
		}
		if len(fields) > 7 && fields[7] != "" {
			threshold, err := strconv.Atoi(fields[7])
			if err != nil {
				errs = append(errs, fmt.Sprintf("ligne %d: seuil invalide %q", i+1, fields[7]))
				continue
			}
			row.AlertThreshold = threshold
		}
		if len(fields) > 8 && fields[8] != "" {
			expiry, err := time.Parse("2006-01-02", fields[8])
			if err != nil {
				errs = append(errs, fmt.Sprintf("ligne %d: date de péremption invalide %q", i+1, fields[8]))
				continue
			}
			row.ExpiryDate = &expiry
		}
		rows = append(rows, row)
	}
	return rows, errs
}
