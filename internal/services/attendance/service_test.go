package attendance

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/KirkDiggler/shopkeep/internal/common/clock/mocks"
	"github.com/KirkDiggler/shopkeep/internal/models"
	attendanceRepo "github.com/KirkDiggler/shopkeep/internal/repositories/attendance"
)

type AttendanceServiceTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockClock *clockMocks.MockClock
	repo      attendanceRepo.Repository
	service   Service
	ctx       context.Context

	testTime time.Time
	alice    *models.Member
	bob      *models.Member
}

func (s *AttendanceServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)

	// A real file-backed ledger keeps the durability path under test
	repo, err := attendanceRepo.NewCSV(&attendanceRepo.Config{
		Path: filepath.Join(s.T().TempDir(), "attendance.csv"),
	})
	s.Require().NoError(err)
	s.repo = repo

	svc, err := New(&Config{
		Repo:  s.repo,
		Clock: s.mockClock,
	})
	s.Require().NoError(err)
	s.service = svc

	s.ctx = context.Background()
	s.testTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s.alice = &models.Member{CardUID: "04A1B2C3", Name: "Alice", UserID: "U-ALICE", Seniority: 1}
	s.bob = &models.Member{CardUID: "04D4E5F6", Name: "Bob", UserID: "U-BOB", Seniority: 3}
}

func (s *AttendanceServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAttendanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AttendanceServiceTestSuite))
}

func (s *AttendanceServiceTestSuite) TestCheckInAndCheckOut() {
	s.mockClock.EXPECT().Now().Return(s.testTime)
	checkInOutput, err := s.service.CheckIn(s.ctx, &CheckInInput{Member: s.alice})
	s.Require().NoError(err)
	s.True(checkInOutput.CheckInTime.Equal(s.testTime))
	s.True(checkInOutput.ShopWasEmpty)
	s.Equal(1, checkInOutput.PresentCount)

	s.mockClock.EXPECT().Now().Return(s.testTime.Add(90 * time.Minute))
	checkOutOutput, err := s.service.CheckOut(s.ctx, &CheckOutInput{Member: s.alice})
	s.Require().NoError(err)
	s.Equal(1.5, checkOutOutput.Hours)
	s.True(checkOutOutput.ShopNowEmpty)
	s.Empty(checkOutOutput.Remaining)
	s.Equal(models.ApprovalPending, checkOutOutput.Session.Approved)

	// The closed session is durable
	readOutput, err := s.repo.ReadSessions(s.ctx, &attendanceRepo.ReadSessionsInput{})
	s.Require().NoError(err)
	s.Require().Len(readOutput.Sessions, 1)
	s.False(readOutput.Sessions[0].IsOpen())
	s.Equal(1.5, readOutput.Sessions[0].Hours)
}

func (s *AttendanceServiceTestSuite) TestCheckInTwice() {
	s.mockClock.EXPECT().Now().Return(s.testTime)
	_, err := s.service.CheckIn(s.ctx, &CheckInInput{Member: s.alice})
	s.Require().NoError(err)

	_, err = s.service.CheckIn(s.ctx, &CheckInInput{Member: s.alice})
	s.Require().ErrorIs(err, ErrAlreadyCheckedIn)
}

func (s *AttendanceServiceTestSuite) TestCheckOutWithoutCheckIn() {
	s.mockClock.EXPECT().Now().Return(s.testTime)
	_, err := s.service.CheckOut(s.ctx, &CheckOutInput{Member: s.alice})
	s.Require().ErrorIs(err, ErrNotCheckedIn)
}

func (s *AttendanceServiceTestSuite) TestCheckOutSelfHealsInconsistentState() {
	s.mockClock.EXPECT().Now().Return(s.testTime)
	_, err := s.service.CheckIn(s.ctx, &CheckInInput{Member: s.alice})
	s.Require().NoError(err)

	// Simulate a ledger wiped out from under the live state
	err = s.repo.WriteSessions(s.ctx, &attendanceRepo.WriteSessionsInput{Sessions: nil})
	s.Require().NoError(err)

	s.mockClock.EXPECT().Now().Return(s.testTime.Add(time.Hour))
	_, err = s.service.CheckOut(s.ctx, &CheckOutInput{Member: s.alice})
	s.Require().ErrorIs(err, ErrInconsistentState)

	// The live state was cleared, so the next attempt is a plain error
	s.mockClock.EXPECT().Now().Return(s.testTime.Add(time.Hour))
	_, err = s.service.CheckOut(s.ctx, &CheckOutInput{Member: s.alice})
	s.Require().ErrorIs(err, ErrNotCheckedIn)

	// And a fresh check-in works again
	s.mockClock.EXPECT().Now().Return(s.testTime.Add(2 * time.Hour))
	_, err = s.service.CheckIn(s.ctx, &CheckInInput{Member: s.alice})
	s.Require().NoError(err)
}

func (s *AttendanceServiceTestSuite) TestCheckOutFallsBackToNameLookup() {
	s.mockClock.EXPECT().Now().Return(s.testTime)
	_, err := s.service.CheckIn(s.ctx, &CheckInInput{Member: s.alice})
	s.Require().NoError(err)

	// The member re-registered with a new card between check-in and
	// check-out
	reissued := &models.Member{CardUID: "04NEWCARD", Name: "Alice", UserID: "U-ALICE", Seniority: 1}

	s.mockClock.EXPECT().Now().Return(s.testTime.Add(time.Hour))
	output, err := s.service.CheckOut(s.ctx, &CheckOutInput{Member: reissued})
	s.Require().NoError(err)
	s.Equal(1.0, output.Hours)
}

func (s *AttendanceServiceTestSuite) TestPresenceAcrossMultipleMembers() {
	s.mockClock.EXPECT().Now().Return(s.testTime)
	aliceIn, err := s.service.CheckIn(s.ctx, &CheckInInput{Member: s.alice})
	s.Require().NoError(err)
	s.True(aliceIn.ShopWasEmpty)

	s.mockClock.EXPECT().Now().Return(s.testTime.Add(10 * time.Minute))
	bobIn, err := s.service.CheckIn(s.ctx, &CheckInInput{Member: s.bob})
	s.Require().NoError(err)
	s.False(bobIn.ShopWasEmpty)
	s.Equal(2, bobIn.PresentCount)

	membersOutput, err := s.service.CurrentMembers(s.ctx, &CurrentMembersInput{})
	s.Require().NoError(err)
	s.Equal([]string{"Alice", "Bob"}, membersOutput.Names)

	s.mockClock.EXPECT().Now().Return(s.testTime.Add(time.Hour))
	aliceOut, err := s.service.CheckOut(s.ctx, &CheckOutInput{Member: s.alice})
	s.Require().NoError(err)
	s.False(aliceOut.ShopNowEmpty)
	s.Equal([]string{"Bob"}, aliceOut.Remaining)
}

func (s *AttendanceServiceTestSuite) TestReconcileRestoresPresence() {
	err := s.repo.WriteSessions(s.ctx, &attendanceRepo.WriteSessionsInput{
		Sessions: []*models.Session{
			{CardUID: "04A1B2C3", MemberName: "Alice", CheckIn: s.testTime.Add(-time.Hour), Approved: models.ApprovalPending},
			{CardUID: "04D4E5F6", MemberName: "Bob", CheckIn: s.testTime.Add(-3 * time.Hour), CheckOut: s.testTime.Add(-2 * time.Hour), Hours: 1, Approved: models.ApprovalPending},
		},
	})
	s.Require().NoError(err)

	s.mockClock.EXPECT().Now().Return(s.testTime)
	output, err := s.service.Reconcile(s.ctx, &ReconcileInput{})
	s.Require().NoError(err)
	s.Equal([]string{"Alice"}, output.Recovered)
	s.Empty(output.Stale)

	membersOutput, err := s.service.CurrentMembers(s.ctx, &CurrentMembersInput{})
	s.Require().NoError(err)
	s.Equal([]string{"Alice"}, membersOutput.Names)
}

func (s *AttendanceServiceTestSuite) TestReconcileFlagsStaleSessions() {
	err := s.repo.WriteSessions(s.ctx, &attendanceRepo.WriteSessionsInput{
		Sessions: []*models.Session{
			{CardUID: "04A1B2C3", MemberName: "Alice", CheckIn: s.testTime.Add(-20 * time.Hour), Approved: models.ApprovalPending},
			{CardUID: "04D4E5F6", MemberName: "Bob", CheckIn: s.testTime.Add(-time.Hour), Approved: models.ApprovalPending},
		},
	})
	s.Require().NoError(err)

	s.mockClock.EXPECT().Now().Return(s.testTime)
	output, err := s.service.Reconcile(s.ctx, &ReconcileInput{})
	s.Require().NoError(err)

	s.Equal([]string{"Bob"}, output.Recovered)
	s.Require().Len(output.Stale, 1)
	s.Equal("Alice", output.Stale[0].MemberName)
	s.Equal(20*time.Hour, output.Stale[0].Age)

	// The stale session stays open in the ledger for manual resolution
	readOutput, err := s.repo.ReadSessions(s.ctx, &attendanceRepo.ReadSessionsInput{})
	s.Require().NoError(err)
	s.True(readOutput.Sessions[0].IsOpen())
}

func (s *AttendanceServiceTestSuite) TestReconcileMostRecentOpenSessionWins() {
	// Duplicate open rows can appear after direct ledger edits
	err := s.repo.WriteSessions(s.ctx, &attendanceRepo.WriteSessionsInput{
		Sessions: []*models.Session{
			{CardUID: "04A1B2C3", MemberName: "Alice", CheckIn: s.testTime.Add(-20 * time.Hour), Approved: models.ApprovalPending},
			{CardUID: "04A1B2C3", MemberName: "Alice", CheckIn: s.testTime.Add(-time.Hour), Approved: models.ApprovalPending},
		},
	})
	s.Require().NoError(err)

	s.mockClock.EXPECT().Now().Return(s.testTime)
	output, err := s.service.Reconcile(s.ctx, &ReconcileInput{})
	s.Require().NoError(err)
	s.Equal([]string{"Alice"}, output.Recovered)
	s.Empty(output.Stale)
}

func (s *AttendanceServiceTestSuite) TestConcurrentCheckOutClosesExactlyOnce() {
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	_, err := s.service.CheckIn(s.ctx, &CheckInInput{Member: s.alice})
	s.Require().NoError(err)

	const racers = 8
	var wg sync.WaitGroup
	errs := make(chan error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.CheckOut(s.ctx, &CheckOutInput{Member: s.alice})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.Require().ErrorIs(err, ErrNotCheckedIn)
		}
	}
	s.Equal(1, succeeded)

	readOutput, err := s.repo.ReadSessions(s.ctx, &attendanceRepo.ReadSessionsInput{})
	s.Require().NoError(err)
	s.Require().Len(readOutput.Sessions, 1)
	s.False(readOutput.Sessions[0].IsOpen())
}

func (s *AttendanceServiceTestSuite) TestHoursRounding() {
	cases := []struct {
		elapsed time.Duration
		want    float64
	}{
		{90 * time.Minute, 1.5},
		{time.Hour + 27*time.Second, 1.01},
		{time.Hour + 17*time.Second, 1.0},
		{45 * time.Second, 0.01},
	}

	for _, tc := range cases {
		s.mockClock.EXPECT().Now().Return(s.testTime)
		_, err := s.service.CheckIn(s.ctx, &CheckInInput{Member: s.alice})
		s.Require().NoError(err)

		s.mockClock.EXPECT().Now().Return(s.testTime.Add(tc.elapsed))
		output, err := s.service.CheckOut(s.ctx, &CheckOutInput{Member: s.alice})
		s.Require().NoError(err)
		s.Equal(tc.want, output.Hours, "elapsed %s", tc.elapsed)
	}
}
