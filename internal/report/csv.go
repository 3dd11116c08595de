// Package report renders the CSV exports and parses the CSV product import.
//
// Exports are UTF-8 with one fixed header row. Quantity and code columns are
// written bare; free text is always quoted with embedded quotes doubled.
package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/labstock-service/internal/model"
)

const dateLayout = "2006-01-02 15:04:05"

type cell struct {
	value  string
	quoted bool
}

func text(s string) cell { return cell{value: s, quoted: true} }

func bare(s string) cell { return cell{value: s} }

func number(n int) cell { return cell{value: strconv.Itoa(n)} }

func date(t time.Time) cell { return cell{value: t.Format(dateLayout)} }

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

type csvWriter struct {
	w   *bufio.Writer
	err error
}

func newCSVWriter(w io.Writer, header ...string) *csvWriter {
	cw := &csvWriter{w: bufio.NewWriter(w)}
	cells := make([]cell, len(header))
	for i, h := range header {
		cells[i] = bare(h)
	}
	cw.row(cells...)
	return cw
}

func (cw *csvWriter) row(cells ...cell) {
	if cw.err != nil {
		return
	}
	for i, c := range cells {
		if i > 0 {
			cw.write(",")
		}
		if c.quoted {
			cw.write(quote(c.value))
		} else {
			cw.write(c.value)
		}
	}
	cw.write("\n")
}

func (cw *csvWriter) write(s string) {
	if cw.err != nil {
		return
	}
	_, cw.err = cw.w.WriteString(s)
}

func (cw *csvWriter) flush() error {
	if cw.err != nil {
		return cw.err
	}
	return cw.w.Flush()
}

// WriteSubmissionDraft exports the items a depot is about to submit.
func WriteSubmissionDraft(w io.Writer, depotName string, items []model.SubmissionItem) error {
	cw := newCSVWriter(w, "Dépôt", "ID Produit", "Produit", "Quantité comptée")
	for _, it := range items {
		cw.row(text(depotName), bare(it.ProductID), text(it.Name), number(it.Quantity))
	}
	return cw.flush()
}

// WriteSubmission exports a reviewed submission.
func WriteSubmission(w io.Writer, sub *model.InventorySubmission) error {
	cw := newCSVWriter(w, "Soumission", "Dépôt", "Statut", "Date", "ID Produit", "Produit", "Quantité")
	for _, it := range sub.Items {
		cw.row(
			bare(sub.ID),
			text(sub.DepotName),
			bare(string(sub.Status)),
			date(sub.CreatedAt),
			bare(it.ProductID),
			text(it.Name),
			number(it.Quantity),
		)
	}
	return cw.flush()
}

func WriteStockSheet(w io.Writer, products []model.Product) error {
	cw := newCSVWriter(w, "Code", "Nom", "CAS", "Formule", "Dépôt", "Stock", "Unité", "Seuil d'alerte", "Péremption")
	for _, p := range products {
		expiry := ""
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Format("2006-01-02")
		}
		cw.row(
			bare(p.Code),
			text(p.Name),
			text(p.CASNumber),
			text(p.Formula),
			text(p.Location),
			number(p.Stock),
			text(p.Unit),
			number(p.AlertThreshold),
			bare(expiry),
		)
	}
	return cw.flush()
}

func WriteMovements(w io.Writer, movements []model.StockMovement) error {
	cw := newCSVWriter(w, "Date", "Référence", "Produit", "Dépôt", "Utilisateur", "Type", "Variation", "Ancien stock", "Nouveau stock")
	for _, m := range movements {
		cw.row(
			date(m.CreatedAt),
			bare(m.TransactionRef),
			text(m.ProductName),
			text(m.DepotName),
			text(m.UserName),
			bare(string(m.ChangeType)),
			number(m.QuantityChange),
			number(m.OldStockLevel),
			number(m.NewStockLevel),
		)
	}
	return cw.flush()
}
