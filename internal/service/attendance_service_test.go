package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	"github.com/apper-apps/scholar-array-protocol/internal/repository"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
)

var markDay = models.MustParseDate("2024-09-02")

func newAttendanceService(repo attendanceRepository) *AttendanceService {
	return NewAttendanceService(AttendanceServiceParams{Attendance: repo, BatchConcurrency: 3})
}

func TestMarkAttendanceIsIdempotent(t *testing.T) {
	st := newStores()
	svc := newAttendanceService(st.attendance)
	req := MarkAttendanceRequest{StudentID: 1, ClassID: 2, Date: markDay, Status: models.AttendanceStatusPresent}

	first, err := svc.MarkAttendance(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := svc.MarkAttendance(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Record.ID, second.Record.ID)

	records, err := st.attendance.List(context.Background(), models.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.AttendanceStatusPresent, records[0].Status)
}

func TestMarkAttendanceOverwritesStatusAndNotes(t *testing.T) {
	st := newStores()
	svc := newAttendanceService(st.attendance)
	ctx := context.Background()

	created, err := svc.MarkAttendance(ctx, MarkAttendanceRequest{StudentID: 1, ClassID: 2, Date: markDay, Status: models.AttendanceStatusAbsent, Notes: "sick"})
	require.NoError(t, err)

	updated, err := svc.MarkAttendance(ctx, MarkAttendanceRequest{StudentID: 1, ClassID: 2, Date: markDay, Status: models.AttendanceStatusLate})
	require.NoError(t, err)
	assert.Equal(t, created.Record.ID, updated.Record.ID)
	assert.Equal(t, models.AttendanceStatusLate, updated.Record.Status)
	assert.Empty(t, updated.Record.Notes)
	assert.Equal(t, models.Ref(1), updated.Record.StudentID)
	assert.True(t, updated.Record.Date.Equal(markDay))
}

func TestMarkAttendanceKeyScoped(t *testing.T) {
	st := newStores()
	svc := newAttendanceService(st.attendance)
	ctx := context.Background()

	a, err := svc.MarkAttendance(ctx, MarkAttendanceRequest{StudentID: 1, ClassID: 2, Date: markDay, Status: models.AttendanceStatusPresent})
	require.NoError(t, err)
	b, err := svc.MarkAttendance(ctx, MarkAttendanceRequest{StudentID: 3, ClassID: 2, Date: markDay, Status: models.AttendanceStatusAbsent})
	require.NoError(t, err)
	assert.NotEqual(t, a.Record.ID, b.Record.ID)

	records, err := st.attendance.List(ctx, models.AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMarkAttendanceConcurrentSameKey(t *testing.T) {
	st := newStores()
	svc := newAttendanceService(st.attendance)

	var wg sync.WaitGroup
	statuses := []models.AttendanceStatus{
		models.AttendanceStatusPresent, models.AttendanceStatusAbsent,
		models.AttendanceStatusLate, models.AttendanceStatusExcused,
	}
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.MarkAttendance(context.Background(), MarkAttendanceRequest{
				StudentID: 7, ClassID: 1, Date: markDay, Status: statuses[i%len(statuses)],
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	records, err := st.attendance.List(context.Background(), models.AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Zero(t, svc.locks.size())
}

// racingRepo hides the first lookup so the service collides with an insert made elsewhere.
type racingRepo struct {
	attendanceRepository
	hidden bool
}

func (r *racingRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	if !r.hidden {
		r.hidden = true
		return nil, nil
	}
	return r.attendanceRepository.List(ctx, filter)
}

func TestMarkAttendanceRecoversFromDuplicateInsert(t *testing.T) {
	st := newStores()
	existing := models.AttendanceRecord{StudentID: 1, ClassID: 2, Date: markDay, Status: models.AttendanceStatusAbsent}
	require.NoError(t, st.attendance.Create(context.Background(), &existing))

	svc := newAttendanceService(&racingRepo{attendanceRepository: st.attendance})
	mark, err := svc.MarkAttendance(context.Background(), MarkAttendanceRequest{StudentID: 1, ClassID: 2, Date: markDay, Status: models.AttendanceStatusPresent})
	require.NoError(t, err)
	assert.False(t, mark.Created)
	assert.Equal(t, existing.ID, mark.Record.ID)
	assert.Equal(t, models.AttendanceStatusPresent, mark.Record.Status)
}

func TestMarkAttendanceValidation(t *testing.T) {
	svc := newAttendanceService(newStores().attendance)
	ctx := context.Background()

	cases := map[string]MarkAttendanceRequest{
		"unknown status": {StudentID: 1, ClassID: 1, Date: markDay, Status: "tardy"},
		"missing date":   {StudentID: 1, ClassID: 1, Status: models.AttendanceStatusPresent},
		"missing class":  {StudentID: 1, Date: markDay, Status: models.AttendanceStatusPresent},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.MarkAttendance(ctx, req)
			assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
		})
	}
}

func TestMarkAttendanceStoreFailure(t *testing.T) {
	repo := &failingAttendanceRepo{attendanceRepository: newStores().attendance, listErr: errStoreDown}
	svc := newAttendanceService(repo)

	_, err := svc.MarkAttendance(context.Background(), MarkAttendanceRequest{StudentID: 1, ClassID: 1, Date: markDay, Status: models.AttendanceStatusPresent})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrStoreFailure)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestMarkAllPresent(t *testing.T) {
	st := newStores()
	svc := newAttendanceService(st.attendance)
	ctx := context.Background()

	_, err := svc.MarkAttendance(ctx, MarkAttendanceRequest{StudentID: 2, ClassID: 9, Date: markDay, Status: models.AttendanceStatusAbsent})
	require.NoError(t, err)

	result, err := svc.MarkAllPresent(ctx, MarkAllPresentRequest{StudentIDs: []models.ForeignKey{1, 2, 3, 2}, ClassID: 9, Date: markDay})
	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 3)
	assert.Empty(t, result.Failed)

	records, err := st.attendance.List(ctx, models.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, models.AttendanceStatusPresent, r.Status)
	}
}

func TestMarkAllPresentReportsPartialFailure(t *testing.T) {
	st := newStores()
	repo := &failingAttendanceRepo{attendanceRepository: st.attendance, failStudents: map[int64]bool{2: true}}
	svc := newAttendanceService(repo)

	result, err := svc.MarkAllPresent(context.Background(), MarkAllPresentRequest{StudentIDs: []models.ForeignKey{1, 2, 3}, ClassID: 4, Date: markDay})
	require.Error(t, err)

	var batch *appErrors.PartialBatchFailure
	require.True(t, errors.As(err, &batch))
	assert.Equal(t, []string{"2:4:2024-09-02"}, batch.FailedKeys())
	assert.ElementsMatch(t, []string{"1:4:2024-09-02", "3:4:2024-09-02"}, batch.Succeeded)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 207, appErrors.FromError(err).Status)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, int64(2), result.Failed[0].StudentID)
	assert.Len(t, result.Records, 2)
}

func TestMarkAllPresentValidatesBeforeWriting(t *testing.T) {
	st := newStores()
	svc := newAttendanceService(st.attendance)

	_, err := svc.MarkAllPresent(context.Background(), MarkAllPresentRequest{StudentIDs: []models.ForeignKey{1, 0}, ClassID: 4, Date: markDay})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)

	records, err := st.attendance.List(context.Background(), models.AttendanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAttendanceRateAndSummary(t *testing.T) {
	st := newStores()
	svc := newAttendanceService(st.attendance)
	ctx := context.Background()

	rate, err := svc.AttendanceRate(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rate.Rate)

	days := []string{"2024-09-02", "2024-09-03", "2024-09-04", "2024-09-05"}
	statuses := []models.AttendanceStatus{models.AttendanceStatusPresent, models.AttendanceStatusLate, models.AttendanceStatusAbsent, models.AttendanceStatusAbsent}
	for i, day := range days {
		_, err := svc.MarkAttendance(ctx, MarkAttendanceRequest{StudentID: 1, ClassID: 1, Date: models.MustParseDate(day), Status: statuses[i]})
		require.NoError(t, err)
	}
	_, err = svc.MarkAttendance(ctx, MarkAttendanceRequest{StudentID: 1, ClassID: 2, Date: markDay, Status: models.AttendanceStatusPresent})
	require.NoError(t, err)

	classID := int64(1)
	rate, err = svc.AttendanceRate(ctx, 1, &classID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rate.Rate)

	rate, err = svc.AttendanceRate(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 60.0, rate.Rate)

	summary, err := svc.StudentSummary(ctx, 1, &classID)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceSummary{Present: 1, Late: 1, Absent: 2, Total: 4, Rate: 50}, *summary)
}

func TestAttendanceDeleteAndClassDay(t *testing.T) {
	st := newStores()
	svc := newAttendanceService(st.attendance)
	ctx := context.Background()

	mark, err := svc.MarkAttendance(ctx, MarkAttendanceRequest{StudentID: 1, ClassID: 5, Date: markDay, Status: models.AttendanceStatusPresent})
	require.NoError(t, err)

	day, err := svc.ClassDay(ctx, 5, markDay)
	require.NoError(t, err)
	assert.Len(t, day, 1)

	require.NoError(t, svc.Delete(ctx, mark.Record.ID))
	assert.ErrorIs(t, svc.Delete(ctx, mark.Record.ID), appErrors.ErrNotFound)

	_, err = svc.Get(ctx, mark.Record.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
