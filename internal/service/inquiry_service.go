package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ceylontrails/ceylontrails-api/internal/apperr"
	"github.com/ceylontrails/ceylontrails-api/internal/domain"
	"github.com/ceylontrails/ceylontrails-api/internal/platform/mailer"
	"github.com/ceylontrails/ceylontrails-api/internal/repo/postgres"
	"github.com/ceylontrails/ceylontrails-api/internal/validation"
	"github.com/ceylontrails/ceylontrails-api/pkg/events"
	"github.com/ceylontrails/ceylontrails-api/pkg/logger"
)

type InquiryService interface {
	Create(ctx context.Context, in *domain.InquiryInput) (*domain.Inquiry, error)
	Get(ctx context.Context, id string) (*domain.Inquiry, error)
	List(ctx context.Context, filter domain.InquiryFilter) ([]domain.Inquiry, int, error)
	Update(ctx context.Context, id string, in *domain.InquiryInput, status string) (*domain.Inquiry, error)
	UpdateStatusBulk(ctx context.Context, in *domain.BulkStatusInput) (int64, error)
	Delete(ctx context.Context, id string) error
}

type inquiryService struct {
	repo        postgres.InquiryRepository
	packageRepo postgres.PackageRepository
	mailer      mailer.Service
	publisher   events.Publisher
	// notifyEmail is the operator inbox for new-inquiry alerts; empty
	// disables the notification.
	notifyEmail string
}

func NewInquiryService(
	repo postgres.InquiryRepository,
	packageRepo postgres.PackageRepository,
	mail mailer.Service,
	publisher events.Publisher,
	notifyEmail string,
) InquiryService {
	return &inquiryService{
		repo:        repo,
		packageRepo: packageRepo,
		mailer:      mail,
		publisher:   publisher,
		notifyEmail: notifyEmail,
	}
}

func (s *inquiryService) Create(ctx context.Context, in *domain.InquiryInput) (*domain.Inquiry, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	pkg, err := s.packageRepo.GetByID(ctx, in.PackageID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up package: %w", err)
	}
	if pkg == nil {
		return nil, apperr.Validation("Validation failed",
			apperr.FieldError{Field: "package_id", Message: "unknown package"})
	}

	inq, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}
	inq.PackageName = pkg.Name

	// Notification failures never fail the booking form.
	if s.notifyEmail != "" {
		if err := s.mailer.SendInquiryNotification(s.notifyEmail, inq.Name, pkg.Name, inq.TravelDate, inq.NumberOfPeople); err != nil {
			logger.WarnContext(ctx, "Failed to send inquiry notification", "error", err, "inquiry_id", inq.ID)
		}
	}

	err = s.publisher.Publish(ctx, events.InquiryCreated, events.InquiryCreatedEvent{
		InquiryID:  inq.ID,
		PackageID:  inq.PackageID,
		Name:       inq.Name,
		Email:      inq.Email,
		TravelDate: inq.TravelDate,
		People:     inq.NumberOfPeople,
		CreatedAt:  inq.CreatedAt,
	})
	if err != nil {
		logger.WarnContext(ctx, "Failed to publish inquiry event", "error", err, "inquiry_id", inq.ID)
	}

	return inq, nil
}

func (s *inquiryService) Get(ctx context.Context, id string) (*domain.Inquiry, error) {
	inq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load inquiry: %w", err)
	}
	if inq == nil {
		return nil, apperr.NotFound("Inquiry not found")
	}
	return inq, nil
}

func (s *inquiryService) List(ctx context.Context, filter domain.InquiryFilter) ([]domain.Inquiry, int, error) {
	inquiries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, total, nil
}

func (s *inquiryService) Update(ctx context.Context, id string, in *domain.InquiryInput, status string) (*domain.Inquiry, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	st, ok := domain.ParseInquiryStatus(status)
	if !ok {
		return nil, apperr.Validation("Validation failed",
			apperr.FieldError{Field: "status", Message: "must be one of: new, contacted, confirmed, cancelled"})
	}

	inq, err := s.repo.Update(ctx, id, in, st)
	if err != nil {
		return nil, fmt.Errorf("failed to update inquiry: %w", err)
	}
	if inq == nil {
		return nil, apperr.NotFound("Inquiry not found")
	}
	return inq, nil
}

func (s *inquiryService) UpdateStatusBulk(ctx context.Context, in *domain.BulkStatusInput) (int64, error) {
	if err := validation.Struct(in); err != nil {
		return 0, err
	}

	status, _ := domain.ParseInquiryStatus(in.Status)

	modified, err := s.repo.UpdateStatusBulk(ctx, in.IDs, status)
	if err != nil {
		return 0, fmt.Errorf("failed to update inquiry statuses: %w", err)
	}
	if modified == 0 {
		return 0, apperr.NotFound("No inquiries found for the given ids")
	}

	err = s.publisher.Publish(ctx, events.InquiryStatusUpdated, events.InquiryStatusUpdatedEvent{
		InquiryIDs: in.IDs,
		Status:     in.Status,
		Modified:   modified,
		UpdatedAt:  time.Now(),
	})
	if err != nil {
		logger.WarnContext(ctx, "Failed to publish status update event", "error", err)
	}

	return modified, nil
}

// Delete is carried for completeness; the admin workflow moves inquiries
// to cancelled rather than removing them.
func (s *inquiryService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete inquiry: %w", err)
	}
	if !deleted {
		return apperr.NotFound("Inquiry not found")
	}
	return nil
}
