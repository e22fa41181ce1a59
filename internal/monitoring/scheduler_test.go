package monitoring

import (
	"errors"
	"testing"

	"github.com/clmgranada/intensivo-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendance struct {
	closed  int64
	calls   int
	failErr error
}

func (f *fakeAttendance) CheckIn(string, string, string) (models.Attendance, error) {
	return models.Attendance{}, nil
}
func (f *fakeAttendance) CheckOut(string) (models.Attendance, error) {
	return models.Attendance{}, nil
}
func (f *fakeAttendance) ListForUser(string, int) ([]models.Attendance, error) {
	return nil, nil
}
func (f *fakeAttendance) CloseOpenRecords() (int64, error) {
	f.calls++
	return f.closed, f.failErr
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(&fakeAttendance{}, "not a cron spec")
	assert.Error(t, err)
}

func TestNewSchedulerComputesNextRun(t *testing.T) {
	s, err := NewScheduler(&fakeAttendance{}, "0 22 * * *")
	require.NoError(t, err)
	assert.False(t, s.nextRun.IsZero())
}

func TestCloseOpenRecordsDelegates(t *testing.T) {
	fake := &fakeAttendance{closed: 3}
	s, err := NewScheduler(fake, "* * * * *")
	require.NoError(t, err)

	s.closeOpenRecords()
	assert.Equal(t, 1, fake.calls)

	fake.failErr = errors.New("db gone")
	s.closeOpenRecords() // must not panic on failure
	assert.Equal(t, 2, fake.calls)
}
