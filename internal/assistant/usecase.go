package assistant

import (
	"context"

	"github.com/fekuna/labstock-service/internal/assistant/dto"
)

// UseCase wraps the generative model. Every call fails with a localized
// unavailable error when no API key is configured.
type UseCase interface {
	SafetySheet(ctx context.Context, input *dto.SafetySheetInput) (*dto.Answer, error)
	PredictiveAnalysis(ctx context.Context, depotName string) (*dto.Answer, error)
	AnomalyAnalysis(ctx context.Context, depotName string) (*dto.Answer, error)
	ProductInfo(ctx context.Context, input *dto.ProductInfoInput) (*dto.ProductInfo, error)
	ExtractProducts(ctx context.Context, image *dto.ImageInput) ([]dto.ExtractedProduct, error)
}
