package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
	"github.com/noah-isme/tutoring-api/pkg/export"
)

var (
	referralReportHeaders = []string{"No. control", "Alumno", "Área", "Motivo", "Estado", "Fecha", "Tutor"}
	rosterHeaders         = []string{"#", "No. control", "Alumno", "Carrera", "Semestre"}
)

// ReportService renders referral reports and group rosters as downloadable documents.
type ReportService struct {
	repos     Repos
	referrals *ReferralService
	renderer  *export.Renderer
	enabled   bool
	logger    *zap.Logger
}

// NewReportService constructs a ReportService. A nil renderer wires every exporter.
func NewReportService(repos Repos, referrals *ReferralService, renderer *export.Renderer, enabled bool, logger *zap.Logger) *ReportService {
	if renderer == nil {
		renderer = export.NewRenderer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repos: repos, referrals: referrals, renderer: renderer, enabled: enabled, logger: logger}
}

// ReferralReport renders every scoped referral matching filter.
func (s *ReportService) ReferralReport(ctx context.Context, scope models.Scope, filter models.ReferralFilter, rawFormat string) (*export.Document, error) {
	format, err := s.format(rawFormat)
	if err != nil {
		return nil, err
	}
	items, err := s.referrals.ListAll(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: referralReportHeaders, Rows: make([]map[string]string, 0, len(items))}
	for _, item := range items {
		tutor := ""
		if item.TutorName != nil {
			tutor = *item.TutorName
		}
		data.Rows = append(data.Rows, map[string]string{
			"No. control": item.ControlNumber,
			"Alumno":      item.StudentName,
			"Área":        item.TargetArea,
			"Motivo":      item.Reason,
			"Estado":      string(item.Status),
			"Fecha":       item.ReferralDate.Format(dateLayout),
			"Tutor":       tutor,
		})
	}
	return s.render(format, data, "Reporte de canalizaciones", "canalizaciones_"+nowUTC().Format("20060102"))
}

// GroupRoster renders the students enrolled in a visible group.
func (s *ReportService) GroupRoster(ctx context.Context, scope models.Scope, groupID, rawFormat string) (*export.Document, error) {
	format, err := s.format(rawFormat)
	if err != nil {
		return nil, err
	}
	group, err := s.repos.Groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, notFoundOr(err, "group not found", "failed to load group")
	}
	if !groupVisible(scope, group) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "group is outside your scope")
	}
	period, err := s.repos.Periods.FindByID(ctx, group.PeriodID)
	if err != nil {
		return nil, notFoundOr(err, "period not found", "failed to load period")
	}
	students, err := s.repos.Enrollments.ListStudentsByGroup(ctx, group.ID, group.PeriodID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group students")
	}

	data := export.Dataset{Headers: rosterHeaders, Rows: make([]map[string]string, 0, len(students))}
	for i, student := range students {
		data.Rows = append(data.Rows, map[string]string{
			"#":           strconv.Itoa(i + 1),
			"No. control": student.ControlNumber,
			"Alumno":      student.FullName(),
			"Carrera":     student.Program,
			"Semestre":    strconv.Itoa(student.CurrentSemester),
		})
	}
	title := fmt.Sprintf("Grupo %s - %s (semestre %d) - %s", group.Name, group.Program, group.Semester, period.Name)
	return s.render(format, data, title, fmt.Sprintf("lista_%s_%s", group.Name, period.Name))
}

func (s *ReportService) format(raw string) (export.Format, error) {
	if !s.enabled {
		return "", appErrors.Clone(appErrors.ErrForbidden, "reports are disabled")
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be pdf, xlsx or csv")
	}
	return format, nil
}

func (s *ReportService) render(format export.Format, data export.Dataset, title, basename string) (*export.Document, error) {
	doc, err := s.renderer.Render(format, data, title, basename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	s.logger.Debug("report rendered", zap.String("file", doc.Filename), zap.Int("rows", len(data.Rows)), zap.Int("bytes", len(doc.Body)))
	return doc, nil
}
