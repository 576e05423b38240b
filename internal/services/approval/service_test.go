package approval

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/shopkeep/internal/models"
	attendanceRepo "github.com/KirkDiggler/shopkeep/internal/repositories/attendance"
	memberRepo "github.com/KirkDiggler/shopkeep/internal/repositories/member"
	memberMocks "github.com/KirkDiggler/shopkeep/internal/repositories/member/mocks"
)

type ApprovalServiceTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockMemberRepo *memberMocks.MockRepository
	ledgerPath     string
	repo           attendanceRepo.Repository
	service        Service
	ctx            context.Context

	testTime time.Time
	senior   *models.Member
	lead     *models.Member
	junior   *models.Member
	target   *models.Member
}

func (s *ApprovalServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockMemberRepo = memberMocks.NewMockRepository(s.mockCtrl)

	s.ledgerPath = filepath.Join(s.T().TempDir(), "attendance.csv")
	repo, err := attendanceRepo.NewCSV(&attendanceRepo.Config{
		Path: s.ledgerPath,
	})
	s.Require().NoError(err)
	s.repo = repo

	svc, err := New(&Config{
		AttendanceRepo: s.repo,
		MemberRepo:     s.mockMemberRepo,
	})
	s.Require().NoError(err)
	s.service = svc

	s.ctx = context.Background()
	s.testTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	s.senior = &models.Member{CardUID: "UID-S", Name: "Sam", UserID: "U-SAM", Seniority: 1}
	s.lead = &models.Member{CardUID: "UID-L", Name: "Lee", UserID: "U-LEE", Seniority: 5}
	s.junior = &models.Member{CardUID: "UID-J", Name: "Jo", UserID: "U-JO", Seniority: 5}
	s.target = &models.Member{CardUID: "UID-T", Name: "Taylor", UserID: "U-TAYLOR", Seniority: 5, LeadUserID: "U-LEE"}

	// The target has two pending sessions (one still open), one approved
	// session, and an unrelated member's row in between
	err = s.repo.WriteSessions(s.ctx, &attendanceRepo.WriteSessionsInput{
		Sessions: []*models.Session{
			{CardUID: "UID-T", MemberName: "Taylor", CheckIn: s.testTime, CheckOut: s.testTime.Add(2 * time.Hour), Hours: 2, Approved: models.ApprovalPending},
			{CardUID: "UID-J", MemberName: "Jo", CheckIn: s.testTime, CheckOut: s.testTime.Add(time.Hour), Hours: 1, Approved: models.ApprovalPending},
			{CardUID: "UID-T", MemberName: "Taylor", CheckIn: s.testTime.Add(3 * time.Hour), CheckOut: s.testTime.Add(4 * time.Hour), Hours: 1, Approved: models.ApprovalApproved},
			{CardUID: "UID-T", MemberName: "Taylor", CheckIn: s.testTime.Add(5 * time.Hour), Approved: models.ApprovalPending},
		},
	})
	s.Require().NoError(err)
}

func (s *ApprovalServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}

// expectApprover sets up the registry lookups behind an authorization check
func (s *ApprovalServiceTestSuite) expectApprover(approver *models.Member) {
	s.mockMemberRepo.EXPECT().
		GetMemberByUserID(gomock.Any(), &memberRepo.GetMemberByUserIDInput{UserID: approver.UserID}).
		Return(&memberRepo.GetMemberByUserIDOutput{Member: approver}, nil)
	s.mockMemberRepo.EXPECT().
		ListMembers(gomock.Any(), gomock.Any()).
		Return(&memberRepo.ListMembersOutput{Members: []*models.Member{s.senior, s.lead, s.junior, s.target}}, nil)
}

func (s *ApprovalServiceTestSuite) TestSeniorIsAuthorized() {
	s.expectApprover(s.senior)

	output, err := s.service.IsAuthorized(s.ctx, &IsAuthorizedInput{
		ApproverUserID: "U-SAM",
		TargetName:     "Taylor",
	})
	s.Require().NoError(err)
	s.True(output.Authorized)
}

func (s *ApprovalServiceTestSuite) TestLeadIsAuthorizedDespiteEqualRank() {
	s.expectApprover(s.lead)

	output, err := s.service.IsAuthorized(s.ctx, &IsAuthorizedInput{
		ApproverUserID: "U-LEE",
		TargetName:     "Taylor",
	})
	s.Require().NoError(err)
	s.True(output.Authorized)
}

func (s *ApprovalServiceTestSuite) TestPeerIsNotAuthorized() {
	s.expectApprover(s.junior)

	output, err := s.service.IsAuthorized(s.ctx, &IsAuthorizedInput{
		ApproverUserID: "U-JO",
		TargetName:     "Taylor",
	})
	s.Require().NoError(err)
	s.False(output.Authorized)
}

func (s *ApprovalServiceTestSuite) TestUnknownApproverIsNotAuthorized() {
	s.mockMemberRepo.EXPECT().
		GetMemberByUserID(gomock.Any(), gomock.Any()).
		Return(nil, memberRepo.ErrMemberNotFound)

	output, err := s.service.IsAuthorized(s.ctx, &IsAuthorizedInput{
		ApproverUserID: "U-NOBODY",
		TargetName:     "Taylor",
	})
	s.Require().NoError(err)
	s.False(output.Authorized)
}

func (s *ApprovalServiceTestSuite) TestUnknownTargetIsNotAuthorized() {
	s.expectApprover(s.senior)

	output, err := s.service.IsAuthorized(s.ctx, &IsAuthorizedInput{
		ApproverUserID: "U-SAM",
		TargetName:     "Nobody",
	})
	s.Require().NoError(err)
	s.False(output.Authorized)
}

func (s *ApprovalServiceTestSuite) TestListPendingNumbersInLedgerOrder() {
	output, err := s.service.ListPending(s.ctx, &ListPendingInput{TargetName: "taylor"})
	s.Require().NoError(err)
	s.Require().Len(output.Sessions, 2)

	s.Equal(1, output.Sessions[0].Number)
	s.Equal(2.0, output.Sessions[0].Session.Hours)
	s.Equal(2, output.Sessions[1].Number)
	s.True(output.Sessions[1].Session.IsOpen())
}

func (s *ApprovalServiceTestSuite) TestApprove() {
	s.expectApprover(s.senior)

	output, err := s.service.Approve(s.ctx, &ApproveInput{
		ApproverUserID: "U-SAM",
		TargetName:     "Taylor",
		Number:         1,
	})
	s.Require().NoError(err)
	s.Equal(models.ApprovalApproved, output.Session.Approved)
	s.Equal(2.0, output.Session.Hours)

	readOutput, err := s.repo.ReadSessions(s.ctx, &attendanceRepo.ReadSessionsInput{})
	s.Require().NoError(err)
	s.Equal(models.ApprovalApproved, readOutput.Sessions[0].Approved)

	// The open session is now pending number one
	listOutput, err := s.service.ListPending(s.ctx, &ListPendingInput{TargetName: "Taylor"})
	s.Require().NoError(err)
	s.Require().Len(listOutput.Sessions, 1)
	s.True(listOutput.Sessions[0].Session.IsOpen())
}

func (s *ApprovalServiceTestSuite) TestApproveUnauthorized() {
	s.expectApprover(s.junior)

	_, err := s.service.Approve(s.ctx, &ApproveInput{
		ApproverUserID: "U-JO",
		TargetName:     "Taylor",
		Number:         1,
	})
	s.Require().ErrorIs(err, ErrUnauthorized)
}

func (s *ApprovalServiceTestSuite) TestApproveInvalidNumber() {
	for _, number := range []int{0, -1, 3, 99} {
		s.expectApprover(s.senior)

		_, err := s.service.Approve(s.ctx, &ApproveInput{
			ApproverUserID: "U-SAM",
			TargetName:     "Taylor",
			Number:         number,
		})
		s.Require().ErrorIs(err, ErrInvalidIndex, "number %d", number)
	}
}

func (s *ApprovalServiceTestSuite) TestDisapproveRemovesSession() {
	s.expectApprover(s.lead)

	output, err := s.service.Disapprove(s.ctx, &DisapproveInput{
		ApproverUserID: "U-LEE",
		TargetName:     "Taylor",
		Number:         1,
	})
	s.Require().NoError(err)
	s.Equal(2.0, output.Session.Hours)

	readOutput, err := s.repo.ReadSessions(s.ctx, &attendanceRepo.ReadSessionsInput{})
	s.Require().NoError(err)
	s.Require().Len(readOutput.Sessions, 3)

	// Other members' rows and the approved row survive
	s.Equal("Jo", readOutput.Sessions[0].MemberName)
	s.Equal(models.ApprovalApproved, readOutput.Sessions[1].Approved)
}

func (s *ApprovalServiceTestSuite) TestApproveAll() {
	s.expectApprover(s.senior)

	output, err := s.service.ApproveAll(s.ctx, &ApproveAllInput{
		ApproverUserID: "U-SAM",
		TargetName:     "Taylor",
	})
	s.Require().NoError(err)
	s.Equal(2, output.Count)

	listOutput, err := s.service.ListPending(s.ctx, &ListPendingInput{TargetName: "Taylor"})
	s.Require().NoError(err)
	s.Empty(listOutput.Sessions)

	// Jo's pending session was not touched
	readOutput, err := s.repo.ReadSessions(s.ctx, &attendanceRepo.ReadSessionsInput{})
	s.Require().NoError(err)
	s.Equal(models.ApprovalPending, readOutput.Sessions[1].Approved)
}

func (s *ApprovalServiceTestSuite) TestApproveAllWithNothingPendingSkipsWrite() {
	s.expectApprover(s.senior)
	output, err := s.service.ApproveAll(s.ctx, &ApproveAllInput{
		ApproverUserID: "U-SAM",
		TargetName:     "Taylor",
	})
	s.Require().NoError(err)
	s.Equal(2, output.Count)

	before, err := os.ReadFile(s.ledgerPath)
	s.Require().NoError(err)

	s.expectApprover(s.senior)
	output, err = s.service.ApproveAll(s.ctx, &ApproveAllInput{
		ApproverUserID: "U-SAM",
		TargetName:     "Taylor",
	})
	s.Require().NoError(err)
	s.Equal(0, output.Count)

	// The second call was a pure no-op at the file level
	after, err := os.ReadFile(s.ledgerPath)
	s.Require().NoError(err)
	s.Equal(string(before), string(after))
}
