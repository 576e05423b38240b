package messaging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MessagingServiceTestSuite struct {
	suite.Suite
	service Service
	ctx     context.Context
}

func (s *MessagingServiceTestSuite) SetupTest() {
	svc, err := New(&Config{
		Seed: 42,
	})
	s.Require().NoError(err)
	s.service = svc

	s.ctx = context.Background()
}

func TestMessagingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MessagingServiceTestSuite))
}

func (s *MessagingServiceTestSuite) TestCasualShopOpenMessage() {
	output, err := s.service.ShopOpenMessage(s.ctx, &ShopOpenMessageInput{MemberName: "Alice"})
	s.Require().NoError(err)
	s.True(strings.HasSuffix(output.Message, "Alice checked in."))
	s.NotEqual("Alice checked in.", strings.TrimSpace(output.Message), "casual mode prepends an opener")
}

func (s *MessagingServiceTestSuite) TestFormalModePinsTheOpener() {
	_, err := s.service.SetAnnouncementMode(s.ctx, &SetAnnouncementModeInput{Mode: ModeFormal})
	s.Require().NoError(err)

	for i := 0; i < 5; i++ {
		output, err := s.service.ShopOpenMessage(s.ctx, &ShopOpenMessageInput{MemberName: "Alice"})
		s.Require().NoError(err)
		s.Equal(FormalOpenMessage+" Alice checked in.", output.Message)
	}
}

func (s *MessagingServiceTestSuite) TestCasualModeRestoresThePool() {
	_, err := s.service.SetAnnouncementMode(s.ctx, &SetAnnouncementModeInput{Mode: ModeFormal})
	s.Require().NoError(err)

	output, err := s.service.SetAnnouncementMode(s.ctx, &SetAnnouncementModeInput{Mode: ModeCasual})
	s.Require().NoError(err)
	s.Equal(ModeCasual, output.Mode)

	// With the pool restored, repeated draws produce more than one opener
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		msgOutput, err := s.service.ShopOpenMessage(s.ctx, &ShopOpenMessageInput{MemberName: "Alice"})
		s.Require().NoError(err)
		seen[msgOutput.Message] = struct{}{}
	}
	s.Greater(len(seen), 1)
}

func (s *MessagingServiceTestSuite) TestUnknownModeIsRejected() {
	_, err := s.service.SetAnnouncementMode(s.ctx, &SetAnnouncementModeInput{Mode: "shouty"})
	s.Require().Error(err)
}

func (s *MessagingServiceTestSuite) TestShopClosedMessage() {
	output, err := s.service.ShopClosedMessage(s.ctx, &ShopClosedMessageInput{MemberName: "Bob"})
	s.Require().NoError(err)
	s.Equal("Shop closed. Last person out: Bob", output.Message)
}

func (s *MessagingServiceTestSuite) TestEmptyMemberNameIsRejected() {
	_, err := s.service.ShopOpenMessage(s.ctx, &ShopOpenMessageInput{})
	s.Require().Error(err)

	_, err = s.service.ShopClosedMessage(s.ctx, &ShopClosedMessageInput{})
	s.Require().Error(err)
}
