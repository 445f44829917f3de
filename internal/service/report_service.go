package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trth/performance-api/internal/dto"
	"github.com/trth/performance-api/internal/models"
	appErrors "github.com/trth/performance-api/pkg/errors"
	"github.com/trth/performance-api/pkg/export"
	"github.com/trth/performance-api/pkg/storage"
)

type assessmentLister interface {
	List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, int, error)
}

// ReportService renders assessment exports into the report archive and hands
// out signed download tokens.
type ReportService struct {
	assessments assessmentLister
	employees   employeeReader
	permissions permissionChecker
	archive     *storage.ReportArchive
	signer      *storage.DownloadSigner
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(assessments assessmentLister, employees employeeReader, permissions permissionChecker, archive *storage.ReportArchive, signer *storage.DownloadSigner, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		assessments: assessments,
		employees:   employees,
		permissions: permissions,
		archive:     archive,
		signer:      signer,
		validator:   validate,
		logger:      logger,
	}
}

// Generate renders an export for the matching assessments and returns a
// signed download token. Restricted to the admin and VIEW_REPORTS holders.
func (s *ReportService) Generate(ctx context.Context, req dto.ReportRequest, actor *models.JWTClaims) (*dto.ReportResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.IsAdmin && !s.permissions.HasPermission(ctx, actor.EmpCode, models.PermViewReports) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report export requires VIEW_REPORTS")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	sheet := export.Sheet{Title: "Assessment Results", GeneratedAt: time.Now().UTC()}
	filter := models.AssessmentFilter{Category: models.AssessmentCategory(req.Category), PageSize: 100}
	for page := 1; ; page++ {
		filter.Page = page
		assessments, total, err := s.assessments.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to list assessments")
		}
		for i := range assessments {
			row, err := s.buildRow(ctx, &assessments[i], req.Group)
			if err != nil {
				return nil, err
			}
			if row != nil {
				sheet.Rows = append(sheet.Rows, *row)
			}
		}
		if page*filter.PageSize >= total || len(assessments) == 0 {
			break
		}
	}

	var (
		data []byte
		err  error
		ext  string
	)
	switch req.Format {
	case dto.ReportFormatPDF:
		data, err = export.WritePDF(sheet)
		ext = "pdf"
	default:
		data, err = export.WriteCSV(sheet)
		ext = "csv"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	filename := fmt.Sprintf("assessments-%s-%s.%s", time.Now().UTC().Format("20060102-150405"), uuid.NewString()[:8], ext)
	if _, err := s.archive.Put(filename, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	reportID := uuid.NewString()
	token, expiresAt, err := s.signer.Sign(reportID, filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	s.logger.Info("report generated",
		zap.String("file", filename),
		zap.String("format", string(req.Format)),
		zap.Int("rows", len(sheet.Rows)))
	return &dto.ReportResponse{
		File:      filename,
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// Open validates a signed token and opens the stored file for download.
func (s *ReportService) Open(token string) (*os.File, string, error) {
	_, filename, _, err := s.signer.Verify(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	file, err := s.archive.Reader(filename)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report file not found")
	}
	return file, filename, nil
}

// Cleanup prunes report files older than the retention window. Invoked by
// the background job runner.
func (s *ReportService) Cleanup(maxAge time.Duration) (int, error) {
	removed, err := s.archive.Prune(maxAge)
	if err != nil {
		return removed, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clean up reports")
	}
	if removed > 0 {
		s.logger.Info("cleaned up report files", zap.Int("count", removed))
	}
	return removed, nil
}

func (s *ReportService) buildRow(ctx context.Context, a *models.Assessment, group string) (*export.ResultRow, error) {
	employee, err := s.employees.GetByCode(ctx, a.EmployeeID)
	if err != nil {
		// keep the row with the bare code if the record is gone
		s.logger.Debug("report row missing employee", zap.String("empCode", a.EmployeeID), zap.Error(err))
		employee = &models.Employee{EmpCode: a.EmployeeID, EmpNameEng: a.EmployeeID}
	}
	if group != "" && employee.Group != group {
		return nil, nil
	}
	return &export.ResultRow{
		Employee:  fmt.Sprintf("%s (%s)", employee.EmpNameEng, employee.EmpCode),
		Title:     a.Title,
		Category:  string(a.Category),
		Status:    string(a.Status),
		Self:      formatScore(a.SelfScore),
		Manager:   formatScore(a.ManagerScore),
		Approver2: formatScore(a.Approver2Score),
		Approver3: formatScore(a.Approver3Score),
		GM:        formatScore(a.GMScore),
		Final:     formatScore(a.FinalScore),
	}, nil
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *score)
}
