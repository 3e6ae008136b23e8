package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

type memReferrals struct {
	m          *memStore
	items      map[string]models.Referral
	lastFilter models.ReferralFilter
}

func newMemReferrals(m *memStore) *memReferrals {
	return &memReferrals{m: m, items: map[string]models.Referral{}}
}

func (r *memReferrals) Create(ctx context.Context, referral *models.Referral) error {
	referral.ID = r.m.nextID("referral")
	if referral.ReferralDate.IsZero() {
		referral.ReferralDate = nowUTC()
	}
	r.items[referral.ID] = *referral
	return nil
}

func (r *memReferrals) detail(ref models.Referral) models.ReferralDetail {
	student := r.m.students[ref.StudentID]
	return models.ReferralDetail{Referral: ref, ControlNumber: student.ControlNumber, StudentName: student.FullName()}
}

func (r *memReferrals) FindByID(ctx context.Context, id string) (*models.ReferralDetail, error) {
	ref, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d := r.detail(ref)
	return &d, nil
}

func (r *memReferrals) List(ctx context.Context, filter models.ReferralFilter) ([]models.ReferralDetail, int, error) {
	r.lastFilter = filter
	var out []models.ReferralDetail
	for _, ref := range r.items {
		if filter.Status != "" && ref.Status != filter.Status {
			continue
		}
		out = append(out, r.detail(ref))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReferralDate.After(out[j].ReferralDate) })
	return out, len(out), nil
}

func (r *memReferrals) UpdateStatus(ctx context.Context, id string, status models.ReferralStatus, attendedAt *time.Time) error {
	ref, ok := r.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	ref.Status = status
	ref.AttendedAt = attendedAt
	r.items[id] = ref
	return nil
}

func TestReferralServiceCreate(t *testing.T) {
	store := newMemStore()
	student := tutoredStudent(store)
	referrals := newMemReferrals(store)
	svc := NewReferralService(store.repos(), referrals, nil, nil, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, models.TutorScope("tutor-1"), "tutor-1", CreateReferralRequest{
		StudentID: student.ID, TargetArea: "Psicología", Reason: "Ansiedad", ReferralDate: "2025-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReferralPending, created.Status)
	assert.Equal(t, "21300001", created.ControlNumber)
	require.NotNil(t, created.TutorID)
	assert.Equal(t, "tutor-1", *created.TutorID)

	_, err = svc.Create(ctx, models.TutorScope("tutor-2"), "tutor-2", CreateReferralRequest{StudentID: student.ID, TargetArea: "x", Reason: "y"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Create(ctx, models.AllScope(), "", CreateReferralRequest{StudentID: student.ID})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestReferralServiceListScope(t *testing.T) {
	store := newMemStore()
	student := tutoredStudent(store)
	referrals := newMemReferrals(store)
	svc := NewReferralService(store.repos(), referrals, nil, nil, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, models.AllScope(), "", CreateReferralRequest{
			StudentID: student.ID, TargetArea: "Tutoría", Reason: fmt.Sprintf("motivo %d", i),
		})
		require.NoError(t, err)
	}

	items, page, err := svc.List(ctx, models.TutorScope("tutor-1"), models.ReferralFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.PageSize)
	active := store.activePeriods()[0]
	assert.Equal(t, active.ID, referrals.lastFilter.PeriodID)
	assert.Equal(t, models.ScopeTutor, referrals.lastFilter.Scope.Kind)

	all, err := svc.ListAll(ctx, models.AllScope(), models.ReferralFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, -1, referrals.lastFilter.PageSize)
	assert.Empty(t, referrals.lastFilter.PeriodID)

	from, to := date("2025-05-01"), date("2025-04-01")
	_, _, err = svc.List(ctx, models.AllScope(), models.ReferralFilter{From: &from, To: &to})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestReferralServiceListTutorWithoutActivePeriod(t *testing.T) {
	store := newMemStore()
	referrals := newMemReferrals(store)
	svc := NewReferralService(store.repos(), referrals, nil, nil, zap.NewNop())

	items, page, err := svc.List(context.Background(), models.TutorScope("tutor-1"), models.ReferralFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, page.TotalCount)
}

func TestReferralServiceStatus(t *testing.T) {
	store := newMemStore()
	student := tutoredStudent(store)
	referrals := newMemReferrals(store)
	svc := NewReferralService(store.repos(), referrals, nil, nil, zap.NewNop())
	ctx := context.Background()
	scope := models.AllScope()

	created, err := svc.Create(ctx, scope, "", CreateReferralRequest{StudentID: student.ID, TargetArea: "Salud", Reason: "Revisión"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, scope, created.ID, ReferralStatusRequest{Status: "en_seguimiento"})
	require.NoError(t, err)
	assert.Equal(t, models.ReferralFollowUp, updated.Status)
	assert.Nil(t, updated.AttendedAt)

	updated, err = svc.UpdateStatus(ctx, scope, created.ID, ReferralStatusRequest{Status: "atendida"})
	require.NoError(t, err)
	assert.Equal(t, models.ReferralAttended, updated.Status)
	require.NotNil(t, updated.AttendedAt)
	assert.NotNil(t, referrals.items[created.ID].AttendedAt)

	_, err = svc.UpdateStatus(ctx, scope, created.ID, ReferralStatusRequest{Status: "pendiente"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.UpdateStatus(ctx, scope, created.ID, ReferralStatusRequest{Status: "cerrada"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.UpdateStatus(ctx, scope, "missing", ReferralStatusRequest{Status: "atendida"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
