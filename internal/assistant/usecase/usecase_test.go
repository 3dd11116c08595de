package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/assistant"
	"github.com/fekuna/labstock-service/internal/assistant/dto"
	"github.com/fekuna/labstock-service/internal/assistant/usecase"
	"github.com/fekuna/labstock-service/internal/model"
	movementusecase "github.com/fekuna/labstock-service/internal/movement/usecase"
	"github.com/fekuna/labstock-service/internal/store/memory"
	"github.com/fekuna/labstock-service/pkg/i18n"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	resp *genai.GenerateContentResponse
	err  error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (g *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	g.model, g.contents, g.config = model, contents, config
	return g.resp, g.err
}

func (g *fakeGenerator) prompt() string {
	var b strings.Builder
	for _, c := range g.contents {
		for _, p := range c.Parts {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

func textResponse(text string, chunks ...*genai.GroundingChunk) *genai.GenerateContentResponse {
	candidate := &genai.Candidate{
		Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
	}
	if len(chunks) > 0 {
		candidate.GroundingMetadata = &genai.GroundingMetadata{GroundingChunks: chunks}
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate}}
}

func webChunk(title, uri string) *genai.GroundingChunk {
	return &genai.GroundingChunk{Web: &genai.GroundingChunkWeb{Title: title, URI: uri}}
}

func newUseCase(t *testing.T, gen assistant.Generator) assistant.UseCase {
	t.Helper()
	s := memory.New()
	ctx := context.Background()
	p := model.Product{BaseModel: model.BaseModel{ID: "p1"}, Code: "ETH", Name: "Éthanol", Location: "Labo A", Stock: 4, Unit: "L", AlertThreshold: 2, Version: 1}
	require.NoError(t, s.Products().CreateWithMovement(ctx, &p, &model.StockMovement{
		ID: "m1", ProductID: "p1", ProductName: "Éthanol", DepotName: "Labo A",
		ChangeType: model.ChangeConsumption, QuantityChange: -2, OldStockLevel: 6, NewStockLevel: 4,
		TransactionRef: "CON-1", CreatedAt: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
	}))
	return usecase.NewAssistantUseCase(gen, "", s.Products(), movementusecase.NewMovementUseCase(s.Movements(), logger.NewNop()), logger.NewNop())
}

func TestSafetySheet_ReturnsMarkdownAndCitations(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("# Éthanol\nInflammable.",
		webChunk("INRS", "https://www.inrs.fr/ethanol"),
		webChunk("INRS", "https://www.inrs.fr/ethanol"),
		&genai.GroundingChunk{},
		webChunk("ECHA", "https://echa.europa.eu/ethanol"),
	)}
	uc := newUseCase(t, gen)

	ans, err := uc.SafetySheet(context.Background(), &dto.SafetySheetInput{Name: "Éthanol", CASNumber: "64-17-5"})
	require.NoError(t, err)
	assert.Equal(t, "# Éthanol\nInflammable.", ans.Markdown)
	assert.Equal(t, []dto.Citation{
		{Title: "INRS", URI: "https://www.inrs.fr/ethanol"},
		{Title: "ECHA", URI: "https://echa.europa.eu/ethanol"},
	}, ans.Citations)

	assert.Equal(t, usecase.DefaultModel, gen.model)
	require.Len(t, gen.config.Tools, 1)
	assert.NotNil(t, gen.config.Tools[0].GoogleSearch)
	assert.Contains(t, gen.prompt(), "64-17-5")
	assert.Contains(t, gen.prompt(), "Formule : -")
}

func TestPredictiveAnalysis_IncludesDepotData(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("Rupture prévue.")}
	uc := newUseCase(t, gen)

	ans, err := uc.PredictiveAnalysis(context.Background(), "Labo A")
	require.NoError(t, err)
	assert.Empty(t, ans.Citations)
	assert.Contains(t, gen.prompt(), "ETH;Éthanol;4;L;2;-")
	assert.Contains(t, gen.prompt(), "2026-08-03;Éthanol;consumption;-2;4")

	_, err = uc.AnomalyAnalysis(context.Background(), " ")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestProductInfo_DecodesJSON(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(`{"name":"Acétone","cas_number":"67-64-1","formula":"C3H6O","unit":"L"}`)}
	uc := newUseCase(t, gen)

	info, err := uc.ProductInfo(context.Background(), &dto.ProductInfoInput{Query: "acetone"})
	require.NoError(t, err)
	assert.Equal(t, "67-64-1", info.CASNumber)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)

	gen.resp = textResponse("pas du json")
	_, err = uc.ProductInfo(context.Background(), &dto.ProductInfoInput{Query: "acetone"})
	assert.Equal(t, apperror.KindRemote, apperror.KindOf(err))
}

func TestExtractProducts(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(`[{"code":"NACL","name":"Sel","quantity":3,"unit":"kg"}]`)}
	uc := newUseCase(t, gen)
	ctx := context.Background()

	products, err := uc.ExtractProducts(ctx, &dto.ImageInput{Data: []byte{0xff, 0xd8}, MIMEType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, []dto.ExtractedProduct{{Code: "NACL", Name: "Sel", Quantity: 3, Unit: "kg"}}, products)
	require.Len(t, gen.contents[0].Parts, 2)
	assert.Equal(t, "image/jpeg", gen.contents[0].Parts[1].InlineData.MIMEType)

	_, err = uc.ExtractProducts(ctx, &dto.ImageInput{Data: []byte("%PDF"), MIMEType: "application/pdf"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = uc.ExtractProducts(ctx, &dto.ImageInput{MIMEType: "image/png"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestErrors_AreLocalized(t *testing.T) {
	ctx := context.Background()
	input := &dto.SafetySheetInput{Name: "Éthanol"}

	tests := []struct {
		name      string
		gen       assistant.Generator
		kind      apperror.Kind
		messageID string
	}{
		{"no api key", nil, apperror.KindUnavailable, i18n.MsgAIUnavailable},
		{"rate limited", &fakeGenerator{err: fmt.Errorf("generate: %w", genai.APIError{Code: http.StatusTooManyRequests})}, apperror.KindRateLimited, i18n.MsgAIRateLimited},
		{"server error", &fakeGenerator{err: genai.APIError{Code: http.StatusInternalServerError}}, apperror.KindRemote, i18n.MsgAIFailed},
		{"network error", &fakeGenerator{err: errors.New("dial tcp: timeout")}, apperror.KindRemote, i18n.MsgAIFailed},
		{"empty answer", &fakeGenerator{resp: &genai.GenerateContentResponse{}}, apperror.KindRemote, i18n.MsgAIFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newUseCase(t, tt.gen).SafetySheet(ctx, input)
			require.Error(t, err)
			var appErr *apperror.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.kind, appErr.Kind)
			assert.Equal(t, tt.messageID, appErr.MessageID)
		})
	}
}
