package report

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/labstock-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestWriteSubmissionDraft(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSubmissionDraft(&buf, "Labo \"A\"", []model.SubmissionItem{
		{ProductID: "p-1", Name: "Acide chlorhydrique, 37%", Quantity: 12},
	})
	require.NoError(t, err)

	out := lines(t, &buf)
	require.Len(t, out, 2)
	assert.Equal(t, "Dépôt,ID Produit,Produit,Quantité comptée", out[0])
	assert.Equal(t, `"Labo ""A""",p-1,"Acide chlorhydrique, 37%",12`, out[1])
}

func TestWriteSubmission(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSubmission(&buf, &model.InventorySubmission{
		ID:        "s-1",
		DepotName: "Labo A",
		Status:    model.SubmissionApproved,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Items:     model.SubmissionItems{{ProductID: "p-1", Name: "Éthanol", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, `s-1,"Labo A",approved,2026-01-02 03:04:05,p-1,"Éthanol",3`, lines(t, &buf)[1])
}

func TestWriteStockSheet(t *testing.T) {
	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := WriteStockSheet(&buf, []model.Product{
		{Code: "ETH-01", Name: "Éthanol", CASNumber: "64-17-5", Formula: "C2H6O", Location: "Labo A", Stock: 7, Unit: "L", AlertThreshold: 2, ExpiryDate: &expiry},
		{Code: "NACL", Name: "Chlorure de sodium", Location: "Labo B", Stock: 0, Unit: "g"},
	})
	require.NoError(t, err)

	out := lines(t, &buf)
	require.Len(t, out, 3)
	assert.Equal(t, `ETH-01,"Éthanol","64-17-5","C2H6O","Labo A",7,"L",2,2027-06-30`, out[1])
	assert.Equal(t, `NACL,"Chlorure de sodium","","","Labo B",0,"g",0,`, out[2])
}

func TestWriteMovements(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMovements(&buf, []model.StockMovement{{
		CreatedAt:      time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
		TransactionRef: "CON-1769932800000",
		ProductName:    "Éthanol",
		DepotName:      "Labo A",
		UserName:       "Marie",
		ChangeType:     model.ChangeConsumption,
		QuantityChange: -3,
		OldStockLevel:  10,
		NewStockLevel:  7,
	}})
	require.NoError(t, err)

	out := lines(t, &buf)
	assert.Equal(t, "Date,Référence,Produit,Dépôt,Utilisateur,Type,Variation,Ancien stock,Nouveau stock", out[0])
	assert.Equal(t, `2026-02-01 08:00:00,CON-1769932800000,"Éthanol","Labo A","Marie",consumption,-3,10,7`, out[1])
}

func TestParseProducts(t *testing.T) {
	data := []byte(ImportHeader + "\r\n" +
		"ETH-01, Éthanol ,64-17-5,C2H6O,Labo A,12,L,2,2027-01-31\r\n" +
		"\r\n" +
		"NACL,Sel,,,Labo B,4,g\n" +
		"BAD,Trop court\n" +
		"X1,Nom,cas,f,Labo A,douze,L\n" +
		"X2,Nom,cas,f,Labo A,1,L,beaucoup\n" +
		"X3,Nom,cas,f,Labo A,1,L,,31/01/2027\n" +
		"X4,Acide, dilué,cas,f,Labo A,1,L\n")

	rows, errs := ParseProducts(data)
	require.Len(t, rows, 2)
	assert.Equal(t, "ETH-01", rows[0].Code)
	assert.Equal(t, "Éthanol", rows[0].Name)
	assert.Equal(t, "Labo A", rows[0].Location)
	assert.Equal(t, 12, rows[0].Stock)
	assert.Equal(t, 2, rows[0].AlertThreshold)
	require.NotNil(t, rows[0].ExpiryDate)
	assert.Equal(t, "2027-01-31", rows[0].ExpiryDate.Format("2006-01-02"))
	assert.Equal(t, "NACL", rows[1].Code)
	assert.Nil(t, rows[1].ExpiryDate)

	require.Len(t, errs, 5)
	assert.True(t, strings.HasPrefix(errs[0], "ligne 5:"))
	assert.Contains(t, errs[1], "stock invalide")
	assert.Contains(t, errs[2], "seuil invalide")
	assert.Contains(t, errs[3], "date de péremption invalide")
	// Commas inside a field shift the columns: the stock lands on "Labo A".
	assert.Contains(t, errs[4], `stock invalide "Labo A"`)
}

func TestArchiver_Save(t *testing.T) {
	dir := t.TempDir()
	a := NewArchiver(filepath.Join(dir, "exports"))

	path, err := a.Save("inventaire_Labo A/../x.csv", func(w io.Writer) error {
		_, err := w.Write([]byte("ok\n"))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "exports", "inventaire_Labo_A_.._x.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(content))
}
