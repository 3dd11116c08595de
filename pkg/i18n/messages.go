package i18n

import goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

const (
	MsgValidation        = "error.validation"
	MsgInvalidQuantity   = "error.invalid_quantity"
	MsgInsufficientStock = "error.insufficient_stock"
	MsgNotFound          = "error.not_found"
	MsgConflict          = "error.conflict"
	MsgRemote            = "error.remote"
	MsgUnauthorized      = "error.unauthorized"
	MsgForbidden         = "error.forbidden"
	MsgAIUnavailable     = "ai.unavailable"
	MsgAIRateLimited     = "ai.rate_limited"
	MsgAIFailed          = "ai.failed"
	MsgSubmissionNotice  = "chat.submission_notice"
)

var frenchCatalog = []*goi18n.Message{
	{ID: MsgValidation, Other: "Données invalides : {{.Detail}}"},
	{ID: MsgInvalidQuantity, Other: "Quantité invalide : le stock ne peut pas devenir négatif."},
	{ID: MsgInsufficientStock, Other: "Stock insuffisant pour {{.Detail}}."},
	{ID: MsgNotFound, Other: "Élément introuvable : {{.Detail}}"},
	{ID: MsgConflict, Other: "Opération impossible : {{.Detail}}"},
	{ID: MsgRemote, Other: "Erreur de communication avec la base de données. Veuillez réessayer."},
	{ID: MsgUnauthorized, Other: "Authentification requise."},
	{ID: MsgForbidden, Other: "Accès refusé."},
	{ID: MsgAIUnavailable, Other: "L'assistant IA n'est pas configuré (clé API manquante)."},
	{ID: MsgAIRateLimited, Other: "Trop de requêtes vers l'assistant IA. Veuillez patienter quelques instants."},
	{ID: MsgAIFailed, Other: "L'assistant IA n'a pas pu répondre. Veuillez réessayer plus tard."},
	{ID: MsgSubmissionNotice, Other: "Nouvel inventaire soumis par {{.Depot}} ({{.Count}} produits). Réf. soumission : {{.ID}}"},
}
