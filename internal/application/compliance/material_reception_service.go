package compliance

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aihaccp/backend/internal/application/metering"
	"github.com/aihaccp/backend/internal/domain/compliance"
	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/partner"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/aihaccp/backend/internal/infrastructure/logger"
	"github.com/aihaccp/backend/internal/infrastructure/vision"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrSupplierNotFound = shared.NewDomainError("NOT_FOUND", "Supplier not found")
	ErrInvalidImage     = shared.NewDomainError("INVALID_IMAGE", "Image must be non-empty base64")
)

// MaterialReceptionService records deliveries and reads label photos
type MaterialReceptionService struct {
	repo         compliance.MaterialReceptionRepository
	supplierRepo partner.SupplierRepository
	analyzer     compliance.ImageAnalyzer
	storage      compliance.ImageStorage
	meter        metering.Charger
	logger       *zap.Logger
}

// NewMaterialReceptionService creates a new MaterialReceptionService
func NewMaterialReceptionService(
	repo compliance.MaterialReceptionRepository,
	supplierRepo partner.SupplierRepository,
	analyzer compliance.ImageAnalyzer,
	storage compliance.ImageStorage,
	usage metering.UsageRecorder,
	logger *zap.Logger,
) *MaterialReceptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialReceptionService{
		repo:         repo,
		supplierRepo: supplierRepo,
		analyzer:     analyzer,
		storage:      storage,
		meter:        metering.NewCharger(usage, logger),
		logger:       logger,
	}
}

// Create stores a reception and charges material_reception only; an attached
// image is analyzed and stored as part of it. Analysis problems are kept on the
// reception as {"success": false, "error": ...} and never fail it.
func (s *MaterialReceptionService) Create(ctx context.Context, organizationID, userID uuid.UUID, req CreateMaterialReceptionRequest) (*MaterialReceptionResponse, error) {
	exists, err := s.supplierRepo.ExistsForOrganization(ctx, organizationID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrSupplierNotFound
	}

	reception, err := compliance.NewMaterialReception(
		organizationID, req.SupplierID, userID,
		req.ProductName, req.Category, req.Quantity, req.Unit,
	)
	if err != nil {
		return nil, err
	}
	reception.Barcode = req.Barcode
	reception.BatchNumber = req.BatchNumber
	reception.QualityNotes = req.QualityNotes
	reception.TemperatureOnArrival = req.TemperatureOnArrival
	if req.ExpiryDate != "" {
		expiry, err := time.Parse(time.DateOnly, req.ExpiryDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_EXPIRY_DATE", "Expiry date must be YYYY-MM-DD")
		}
		reception.ExpiryDate = &expiry
	}

	if req.Image != "" {
		s.analyzeAttached(ctx, reception, req.Image)
	}

	if err := s.repo.Create(ctx, reception); err != nil {
		return nil, fmt.Errorf("failed to create material reception: %w", err)
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionMaterialReception, domainMetering.Metadata{
		"material_reception_id": reception.ID.String(),
		"has_image":             req.Image != "",
	}); err != nil {
		return nil, err
	}

	resp := ToMaterialReceptionResponse(reception)
	return &resp, nil
}

// analyzeAttached runs the analyzer and stores the image; the outcome is attached to the reception
func (s *MaterialReceptionService) analyzeAttached(ctx context.Context, reception *compliance.MaterialReception, encoded string) {
	log := logger.Enrich(ctx, s.logger)

	image, err := vision.DecodeImage(encoded)
	if err != nil {
		failed := &compliance.ImageAnalysis{Success: false, Error: err.Error()}
		reception.AttachAnalysis("", failed.AsMap())
		return
	}

	analysis, err := s.analyzer.Analyze(ctx, image)
	if err != nil {
		log.Warn("Image analysis failed", zap.Error(err))
		failed := &compliance.ImageAnalysis{Success: false, Error: err.Error()}
		reception.AttachAnalysis("", failed.AsMap())
		return
	}

	var imagePath string
	if s.storage != nil {
		key := path.Join("receptions", reception.OrganizationID.String(), reception.ID.String()+extensionFor(analysis.ContentType))
		imagePath, err = s.storage.Save(ctx, key, analysis.ContentType, image)
		if err != nil {
			log.Warn("Failed to store reception image", zap.String("key", key), zap.Error(err))
			imagePath = ""
		}
	}
	reception.AttachAnalysis(imagePath, analysis.AsMap())
}

// AnalyzeImage reads a label photo without creating a reception and charges
// ai_image_analysis once per analysis. The analyzer's running time is kept as metadata.
func (s *MaterialReceptionService) AnalyzeImage(ctx context.Context, organizationID, userID uuid.UUID, req AnalyzeImageRequest) (map[string]any, error) {
	image, err := vision.DecodeImage(req.Image)
	if err != nil {
		return nil, ErrInvalidImage
	}
	analysis, err := s.analyzer.Analyze(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionAIImageAnalysis, domainMetering.Metadata{
		"content_type":      analysis.ContentType,
		"confidence":        analysis.Confidence,
		"execution_seconds": executionSeconds(analysis.Duration),
	}); err != nil {
		return nil, err
	}
	return analysis.AsMap(), nil
}

// ListRecent returns the newest receptions and charges data_query
func (s *MaterialReceptionService) ListRecent(ctx context.Context, organizationID, userID uuid.UUID) ([]MaterialReceptionResponse, error) {
	receptions, err := s.repo.FindRecent(ctx, organizationID, RecentLimit)
	if err != nil {
		return nil, err
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionDataQuery, domainMetering.Metadata{
		"resource": "material_receptions",
	}); err != nil {
		return nil, err
	}
	out := make([]MaterialReceptionResponse, len(receptions))
	for i, r := range receptions {
		out[i] = ToMaterialReceptionResponse(r)
	}
	return out, nil
}

func executionSeconds(d time.Duration) string {
	return decimal.NewFromFloat(d.Seconds()).Round(6).String()
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
