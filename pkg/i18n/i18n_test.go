package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT_French(t *testing.T) {
	assert.Equal(t, "Accès refusé.", T(MsgForbidden, nil))
	assert.Equal(t,
		"Nouvel inventaire soumis par Labo A (3 produits). Réf. soumission : s-1",
		T(MsgSubmissionNotice, map[string]interface{}{"Depot": "Labo A", "Count": 3, "ID": "s-1"}),
	)
}

func TestT_UnknownMessageFallsBackToID(t *testing.T) {
	assert.Equal(t, "missing.id", T("missing.id", nil))
}

func TestT_PartialLocaleFallsBackToFrench(t *testing.T) {
	path := filepath.Join(t.TempDir(), "active.de.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"error.conflict": "Konflikt: {{.Detail}}"}`), 0o600))
	require.NoError(t, Load(path))

	assert.Equal(t, "Konflikt: x", T(MsgConflict, map[string]interface{}{"Detail": "x"}, "de-DE"))
	assert.Equal(t, "Accès refusé.", T(MsgForbidden, nil, "de-DE"))
	assert.Equal(t, "missing.id", T("missing.id", nil, "de"))
}

func TestLoad_AddsLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "active.en.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"error.forbidden": "Access denied."}`), 0o600))
	require.NoError(t, Load(path))

	assert.Equal(t, "Access denied.", T(MsgForbidden, nil, "en-US,en;q=0.9"))
	assert.Equal(t, "Accès refusé.", T(MsgForbidden, nil, "fr"))
	// Messages missing from the extra file still resolve in French.
	assert.Equal(t, "Authentification requise.", T(MsgUnauthorized, nil, "en"))
}
