package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/assistant"
	"github.com/fekuna/labstock-service/internal/assistant/dto"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/movement"
	"github.com/fekuna/labstock-service/pkg/i18n"
	"github.com/fekuna/labstock-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	DefaultModel      = "gemini-2.5-flash"
	historyLimit      = 300
	maxImageSize      = 8 << 20
	analysisStockRows = 200
)

// ProductLister lists the products stored at one depot.
type ProductLister interface {
	ListByLocation(ctx context.Context, location string) ([]model.Product, error)
}

type assistantUseCase struct {
	gen       assistant.Generator
	model     string
	products  ProductLister
	movements movement.UseCase
	logger    logger.ZapLogger
}

// NewAssistantUseCase accepts a nil generator; every call then answers
// with the unavailable error.
func NewAssistantUseCase(
	gen assistant.Generator,
	modelName string,
	products ProductLister,
	movements movement.UseCase,
	log logger.ZapLogger,
) assistant.UseCase {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &assistantUseCase{
		gen:       gen,
		model:     modelName,
		products:  products,
		movements: movements,
		logger:    log,
	}
}

func (uc *assistantUseCase) SafetySheet(ctx context.Context, input *dto.SafetySheetInput) (*dto.Answer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.Validation("name", "required")
	}
	prompt := fmt.Sprintf(`Rédige en français une fiche de données de sécurité synthétique (format markdown) pour le produit chimique suivant.
Nom : %s
Numéro CAS : %s
Formule : %s
Sections attendues : identification, dangers (pictogrammes SGH, mentions H et P), premiers secours, stockage, équipements de protection, élimination.
Appuie-toi sur des sources fiables et cite-les.`, input.Name, orDash(input.CASNumber), orDash(input.Formula))

	return uc.groundedText(ctx, "safety_sheet", prompt)
}

func (uc *assistantUseCase) PredictiveAnalysis(ctx context.Context, depotName string) (*dto.Answer, error) {
	data, err := uc.depotSnapshot(ctx, depotName)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(`Tu es gestionnaire de stock d'un laboratoire. À partir de l'état du stock et de l'historique des mouvements du dépôt %q ci-dessous,
estime pour chaque produit la date probable de rupture, signale les produits à recommander en priorité et propose des quantités de réapprovisionnement.
Réponds en français, au format markdown, avec un tableau récapitulatif.

%s`, depotName, data)

	return uc.groundedText(ctx, "predictive_analysis", prompt)
}

func (uc *assistantUseCase) AnomalyAnalysis(ctx context.Context, depotName string) (*dto.Answer, error) {
	data, err := uc.depotSnapshot(ctx, depotName)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(`Analyse l'historique des mouvements de stock du dépôt %q ci-dessous et relève les anomalies :
consommations inhabituelles, écarts importants lors des inventaires, sorties répétées hors des habitudes, produits périmés encore en stock.
Réponds en français, au format markdown, en classant les anomalies de la plus à la moins critique.

%s`, depotName, data)

	return uc.groundedText(ctx, "anomaly_analysis", prompt)
}

func (uc *assistantUseCase) ProductInfo(ctx context.Context, input *dto.ProductInfoInput) (*dto.ProductInfo, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, apperror.Validation("query", "required")
	}
	prompt := fmt.Sprintf(`Donne les informations de référence du produit chimique "%s" : nom usuel en français, numéro CAS, formule brute,
unité de conditionnement usuelle en laboratoire et un résumé des dangers en une phrase.`, input.Query)

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":       {Type: genai.TypeString},
				"cas_number": {Type: genai.TypeString},
				"formula":    {Type: genai.TypeString},
				"unit":       {Type: genai.TypeString},
				"hazards":    {Type: genai.TypeString},
			},
			Required: []string{"name", "cas_number", "formula"},
		},
	}

	resp, err := uc.generate(ctx, "product_info", genai.Text(prompt), cfg)
	if err != nil {
		return nil, err
	}
	var info dto.ProductInfo
	if err := json.Unmarshal([]byte(responseText(resp)), &info); err != nil {
		uc.logger.Error("assistant returned invalid JSON", zap.String("call", "product_info"), zap.Error(err))
		return nil, failed(err)
	}
	return &info, nil
}

func (uc *assistantUseCase) ExtractProducts(ctx context.Context, image *dto.ImageInput) ([]dto.ExtractedProduct, error) {
	if len(image.Data) == 0 {
		return nil, apperror.Validation("image", "required")
	}
	if len(image.Data) > maxImageSize {
		return nil, apperror.Validation("image", "file too large")
	}
	if !strings.HasPrefix(image.MIMEType, "image/") {
		return nil, apperror.Validation("image", "unsupported type "+image.MIMEType)
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: `Cette image montre des produits chimiques (étiquettes, bon de livraison ou inventaire manuscrit).
Liste chaque produit visible avec son code s'il apparaît, son nom, la quantité et l'unité. Quantité 0 si elle n'est pas lisible.`},
			{InlineData: &genai.Blob{Data: image.Data, MIMEType: image.MIMEType}},
		},
	}}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"code":     {Type: genai.TypeString},
					"name":     {Type: genai.TypeString},
					"quantity": {Type: genai.TypeInteger},
					"unit":     {Type: genai.TypeString},
				},
				Required: []string{"name", "quantity"},
			},
		},
	}

	resp, err := uc.generate(ctx, "extract_products", contents, cfg)
	if err != nil {
		return nil, err
	}
	var products []dto.ExtractedProduct
	if err := json.Unmarshal([]byte(responseText(resp)), &products); err != nil {
		uc.logger.Error("assistant returned invalid JSON", zap.String("call", "extract_products"), zap.Error(err))
		return nil, failed(err)
	}
	return products, nil
}

func (uc *assistantUseCase) groundedText(ctx context.Context, call, prompt string) (*dto.Answer, error) {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	resp, err := uc.generate(ctx, call, genai.Text(prompt), cfg)
	if err != nil {
		return nil, err
	}
	return &dto.Answer{
		Markdown:  responseText(resp),
		Citations: citations(resp),
	}, nil
}

func (uc *assistantUseCase) generate(ctx context.Context, call string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if uc.gen == nil {
		return nil, apperror.Unavailable("generative model not configured", i18n.MsgAIUnavailable)
	}
	resp, err := uc.gen.GenerateContent(ctx, uc.model, contents, cfg)
	if err != nil {
		if isRateLimited(err) {
			uc.logger.Warn("assistant rate limited", zap.String("call", call))
			return nil, apperror.RateLimited("generative model rate limited", i18n.MsgAIRateLimited, err)
		}
		uc.logger.Error("assistant call failed", zap.String("call", call), zap.Error(err))
		return nil, failed(err)
	}
	if responseText(resp) == "" {
		return nil, failed(errors.New("empty response"))
	}
	return resp, nil
}

// depotSnapshot renders the stock and recent history of a depot as plain text for prompts.
func (uc *assistantUseCase) depotSnapshot(ctx context.Context, depotName string) (string, error) {
	if strings.TrimSpace(depotName) == "" {
		return "", apperror.Validation("depot", "required")
	}
	products, err := uc.products.ListByLocation(ctx, depotName)
	if err != nil {
		return "", err
	}
	history, err := uc.movements.ListForDepot(ctx, depotName, historyLimit)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("## Stock actuel\ncode;nom;stock;unité;seuil;péremption\n")
	for i, p := range products {
		if i == analysisStockRows {
			break
		}
		expiry := "-"
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "%s;%s;%d;%s;%d;%s\n", p.Code, p.Name, p.Stock, p.Unit, p.AlertThreshold, expiry)
	}
	b.WriteString("\n## Mouvements récents\ndate;produit;type;variation;stock après\n")
	for _, m := range history {
		fmt.Fprintf(&b, "%s;%s;%s;%d;%d\n",
			m.CreatedAt.Format("2006-01-02"), m.ProductName, m.ChangeType, m.QuantityChange, m.NewStockLevel)
	}
	return b.String(), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

func citations(resp *genai.GenerateContentResponse) []dto.Citation {
	out := []dto.Citation{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return out
	}
	seen := map[string]bool{}
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		out = append(out, dto.Citation{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return out
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code == http.StatusTooManyRequests
	}
	return false
}

func failed(err error) error {
	return &apperror.Error{
		Kind:      apperror.KindRemote,
		Detail:    "generative model call failed",
		Err:       err,
		MessageID: i18n.MsgAIFailed,
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
