package compliance

import (
	"context"
	"fmt"

	"github.com/aihaccp/backend/internal/application/metering"
	"github.com/aihaccp/backend/internal/domain/compliance"
	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CleaningService manages cleaning plans and their execution records
type CleaningService struct {
	planRepo     compliance.CleaningPlanRepository
	cleaningRepo compliance.RoomCleaningRepository
	meter        metering.Charger
}

// NewCleaningService creates a new CleaningService
func NewCleaningService(
	planRepo compliance.CleaningPlanRepository,
	cleaningRepo compliance.RoomCleaningRepository,
	usage metering.UsageRecorder,
	logger *zap.Logger,
) *CleaningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleaningService{
		planRepo:     planRepo,
		cleaningRepo: cleaningRepo,
		meter:        metering.NewCharger(usage, logger),
	}
}

// CreatePlan stores a plan and charges cleaning_plan_create
func (s *CleaningService) CreatePlan(ctx context.Context, organizationID, userID uuid.UUID, req CreateCleaningPlanRequest) (*CleaningPlanResponse, error) {
	rooms := make([]compliance.Room, len(req.Rooms))
	for i, r := range req.Rooms {
		rooms[i] = compliance.Room{Name: r.Name, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	}
	plan, err := compliance.NewCleaningPlan(organizationID, req.Name, rooms, compliance.CleaningFrequency(req.Frequency))
	if err != nil {
		return nil, err
	}
	plan.Description = req.Description
	if req.EstimatedDuration != nil {
		if err := plan.SetEstimatedDuration(*req.EstimatedDuration); err != nil {
			return nil, err
		}
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create cleaning plan: %w", err)
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionCleaningPlanCreate, domainMetering.Metadata{
		"cleaning_plan_id": plan.ID.String(),
		"rooms":            len(plan.Rooms),
	}); err != nil {
		return nil, err
	}

	resp := ToCleaningPlanResponse(plan)
	return &resp, nil
}

// ListPlans returns a page of plans and charges data_query
func (s *CleaningService) ListPlans(ctx context.Context, organizationID, userID uuid.UUID, filter CleaningPlanListFilter) (*shared.Paginated[CleaningPlanResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}

	plans, total, err := s.planRepo.FindAllForOrganization(ctx, organizationID, f)
	if err != nil {
		return nil, err
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionDataQuery, domainMetering.Metadata{
		"resource": "cleaning_plans",
	}); err != nil {
		return nil, err
	}

	items := make([]CleaningPlanResponse, len(plans))
	for i, p := range plans {
		items[i] = ToCleaningPlanResponse(p)
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// MarkRoomCleaned records a cleaning of a room that belongs to the plan
func (s *CleaningService) MarkRoomCleaned(ctx context.Context, organizationID, userID uuid.UUID, req MarkRoomCleanedRequest) (*RoomCleaningResponse, error) {
	plan, err := s.planRepo.FindByIDForOrganization(ctx, organizationID, req.CleaningPlanID)
	if err != nil {
		return nil, err
	}
	cleaning, err := plan.MarkRoomCleaned(req.RoomName, userID, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.cleaningRepo.Create(ctx, cleaning); err != nil {
		return nil, fmt.Errorf("failed to record room cleaning: %w", err)
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionRoomCleaning, domainMetering.Metadata{
		"cleaning_plan_id": plan.ID.String(),
		"room_name":        cleaning.RoomName,
	}); err != nil {
		return nil, err
	}

	resp := ToRoomCleaningResponse(cleaning)
	return &resp, nil
}

// ListRoomCleanings returns the cleanings of one plan, newest first
func (s *CleaningService) ListRoomCleanings(ctx context.Context, organizationID, userID, planID uuid.UUID) ([]RoomCleaningResponse, error) {
	if _, err := s.planRepo.FindByIDForOrganization(ctx, organizationID, planID); err != nil {
		return nil, err
	}
	cleanings, err := s.cleaningRepo.FindByPlan(ctx, organizationID, planID)
	if err != nil {
		return nil, err
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionDataQuery, domainMetering.Metadata{
		"resource":         "room_cleanings",
		"cleaning_plan_id": planID.String(),
	}); err != nil {
		return nil, err
	}
	out := make([]RoomCleaningResponse, len(cleanings))
	for i, c := range cleanings {
		out[i] = ToRoomCleaningResponse(c)
	}
	return out, nil
}
