package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/shopkeep/internal/models"
	memberRepo "github.com/KirkDiggler/shopkeep/internal/repositories/member"
	approvalService "github.com/KirkDiggler/shopkeep/internal/services/approval"
	attendanceService "github.com/KirkDiggler/shopkeep/internal/services/attendance"
	escalationService "github.com/KirkDiggler/shopkeep/internal/services/escalation"
	messagingService "github.com/KirkDiggler/shopkeep/internal/services/messaging"
)

// ShopCommandConfig holds the collaborators for the /shop command
type ShopCommandConfig struct {
	AttendanceService attendanceService.Service
	EscalationService escalationService.Service
	ApprovalService   approvalService.Service
	MessagingService  messagingService.Service
	MemberRepo        memberRepo.Repository
	AnnounceChannelID string
	AdminUserID       string
}

// ShopCommand handles the /shop command
type ShopCommand struct {
	BaseCommand
	attendance attendanceService.Service
	escalation escalationService.Service
	approval   approvalService.Service
	messaging  messagingService.Service
	members    memberRepo.Repository

	announceChannelID string
	adminUserID       string
}

// NewShopCommand creates a new shop command handler
func NewShopCommand(cfg *ShopCommandConfig) *ShopCommand {
	memberOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "member",
		Description: "Member name",
		Required:    true,
	}
	numberOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "number",
		Description: "Session number from the pending list",
		Required:    true,
	}

	return &ShopCommand{
		BaseCommand: BaseCommand{
			Name:        "shop",
			Description: "Shop attendance commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "checkin",
					Description: "Check in to the shop",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "checkout",
					Description: "Check out of the shop",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "who",
					Description: "Who is currently checked in",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Is the shop open",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "pending",
					Description: "List a member's pending sessions",
					Options:     []*discordgo.ApplicationCommandOption{memberOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "approve",
					Description: "Approve one of a member's pending sessions",
					Options:     []*discordgo.ApplicationCommandOption{memberOption, numberOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "disapprove",
					Description: "Remove one of a member's pending sessions",
					Options:     []*discordgo.ApplicationCommandOption{memberOption, numberOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "approveall",
					Description: "Approve all of a member's pending sessions",
					Options:     []*discordgo.ApplicationCommandOption{memberOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "announce",
					Description: "Switch shop-open announcement mode (admin only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "mode",
							Description: "formal or casual",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "formal", Value: string(messagingService.ModeFormal)},
								{Name: "casual", Value: string(messagingService.ModeCasual)},
							},
						},
					},
				},
			},
		},
		attendance:        cfg.AttendanceService,
		escalation:        cfg.EscalationService,
		approval:          cfg.ApprovalService,
		messaging:         cfg.MessagingService,
		members:           cfg.MemberRepo,
		announceChannelID: cfg.AnnounceChannelID,
		adminUserID:       cfg.AdminUserID,
	}
}

// Handle processes a Discord interaction for the shop command
func (c *ShopCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	user := interactionUser(i)
	if user == nil {
		return errors.New("interaction has no user")
	}

	sub := data.Options[0]

	var err error
	switch sub.Name {
	case "checkin":
		err = c.handleCheckIn(s, i, user.ID)
	case "checkout":
		err = c.handleCheckOut(s, i, user.ID)
	case "who":
		err = c.handleWho(s, i)
	case "status":
		err = c.handleStatus(s, i)
	case "pending":
		err = c.handlePending(s, i, user.ID, stringOption(sub, "member"))
	case "approve":
		err = c.handleApprove(s, i, user.ID, stringOption(sub, "member"), intOption(sub, "number"))
	case "disapprove":
		err = c.handleDisapprove(s, i, user.ID, stringOption(sub, "member"), intOption(sub, "number"))
	case "approveall":
		err = c.handleApproveAll(s, i, user.ID, stringOption(sub, "member"))
	case "announce":
		err = c.handleAnnounce(s, i, user.ID, stringOption(sub, "mode"))
	default:
		err = errors.New("unknown subcommand")
	}

	return err
}

// handleCheckIn handles the checkin subcommand
func (c *ShopCommand) handleCheckIn(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	ctx := context.Background()

	member, err := c.lookupMember(ctx, userID)
	if err != nil {
		return RespondWithEphemeralMessage(s, i, "You are not registered in the member list.")
	}

	output, err := c.attendance.CheckIn(ctx, &attendanceService.CheckInInput{Member: member})
	if err != nil {
		if errors.Is(err, attendanceService.ErrAlreadyCheckedIn) {
			return RespondWithEphemeralMessage(s, i, "You are already checked in. Please check out first.")
		}
		log.Printf("Check-in failed for %s: %v", member.Name, err)
		return RespondWithEphemeralMessage(s, i, "Failed to record check-in. Please try again or contact an admin.")
	}

	if output.ShopWasEmpty {
		c.announceShopOpen(ctx, s, member.Name)
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Checked in at %s.", output.CheckInTime.Format("15:04:05")))
}

// handleCheckOut handles the checkout subcommand
func (c *ShopCommand) handleCheckOut(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	ctx := context.Background()

	member, err := c.lookupMember(ctx, userID)
	if err != nil {
		return RespondWithEphemeralMessage(s, i, "You are not registered in the member list.")
	}

	output, err := c.attendance.CheckOut(ctx, &attendanceService.CheckOutInput{Member: member})
	if err != nil {
		switch {
		case errors.Is(err, attendanceService.ErrNotCheckedIn):
			return RespondWithEphemeralMessage(s, i, "You're not currently checked in.")
		case errors.Is(err, attendanceService.ErrInconsistentState):
			return RespondWithEphemeralMessage(s, i,
				"Inconsistency detected: you were marked as checked in but the ledger has no open session. "+
					"Your live state has been cleared - please check in again.")
		default:
			log.Printf("Check-out failed for %s: %v", member.Name, err)
			return RespondWithEphemeralMessage(s, i, "Failed to record check-out. Please try again or contact an admin.")
		}
	}

	// Pick and notify the approval recipient. Delivery problems must not
	// fail the check-out itself.
	resolveOutput, err := c.escalation.Resolve(ctx, &escalationService.ResolveInput{
		Session:      output.Session,
		CheckOutTime: output.CheckOutTime,
		Departing:    member,
		Present:      output.Remaining,
	})
	if err != nil {
		log.Printf("Failed to resolve notification target for %s: %v", member.Name, err)
	} else if resolveOutput.UserID != "" {
		if err := c.notifyUser(s, resolveOutput.UserID, formatCheckOutNotice(member.Name, output.Hours)); err != nil {
			log.Printf("Failed to notify %s: %v", resolveOutput.UserID, err)
		}
	}

	if output.ShopNowEmpty {
		c.announceShopClosed(ctx, s, member.Name)
	}

	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("Checked out at %s. Hours worked: %.2f", output.CheckOutTime.Format("15:04:05"), output.Hours))
}

// handleWho handles the who subcommand
func (c *ShopCommand) handleWho(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	output, err := c.attendance.CurrentMembers(context.Background(), &attendanceService.CurrentMembersInput{})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, "Failed to read the presence list.")
	}

	return RespondWithMessage(s, i, formatWhoList(output.Names))
}

// handleStatus handles the status subcommand
func (c *ShopCommand) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	output, err := c.attendance.CurrentMembers(context.Background(), &attendanceService.CurrentMembersInput{})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, "Failed to read the presence list.")
	}

	return RespondWithMessage(s, i, formatShopStatus(output.Names))
}

// handlePending handles the pending subcommand
func (c *ShopCommand) handlePending(s *discordgo.Session, i *discordgo.InteractionCreate, userID, target string) error {
	ctx := context.Background()

	authOutput, err := c.approval.IsAuthorized(ctx, &approvalService.IsAuthorizedInput{
		ApproverUserID: userID,
		TargetName:     target,
	})
	if err != nil || !authOutput.Authorized {
		return RespondWithEphemeralMessage(s, i, "You're not authorized to view pending sessions for that member.")
	}

	listOutput, err := c.approval.ListPending(ctx, &approvalService.ListPendingInput{TargetName: target})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, "Failed to read pending sessions.")
	}

	return RespondWithEphemeralMessage(s, i, formatPendingList(target, listOutput.Sessions))
}

// handleApprove handles the approve subcommand
func (c *ShopCommand) handleApprove(s *discordgo.Session, i *discordgo.InteractionCreate, userID, target string, number int) error {
	_, err := c.approval.Approve(context.Background(), &approvalService.ApproveInput{
		ApproverUserID: userID,
		TargetName:     target,
		Number:         number,
	})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, approvalErrorMessage(err, target))
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Approved session #%d for %s.", number, target))
}

// handleDisapprove handles the disapprove subcommand
func (c *ShopCommand) handleDisapprove(s *discordgo.Session, i *discordgo.InteractionCreate, userID, target string, number int) error {
	_, err := c.approval.Disapprove(context.Background(), &approvalService.DisapproveInput{
		ApproverUserID: userID,
		TargetName:     target,
		Number:         number,
	})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, approvalErrorMessage(err, target))
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Removed session #%d for %s.", number, target))
}

// handleApproveAll handles the approveall subcommand
func (c *ShopCommand) handleApproveAll(s *discordgo.Session, i *discordgo.InteractionCreate, userID, target string) error {
	output, err := c.approval.ApproveAll(context.Background(), &approvalService.ApproveAllInput{
		ApproverUserID: userID,
		TargetName:     target,
	})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, approvalErrorMessage(err, target))
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Approved %d session(s) for %s.", output.Count, target))
}

// handleAnnounce handles the announce subcommand
func (c *ShopCommand) handleAnnounce(s *discordgo.Session, i *discordgo.InteractionCreate, userID, mode string) error {
	if userID != c.adminUserID {
		return RespondWithEphemeralMessage(s, i, "You're not authorized to use this command.")
	}

	output, err := c.messaging.SetAnnouncementMode(context.Background(), &messagingService.SetAnnouncementModeInput{
		Mode: messagingService.AnnouncementMode(mode),
	})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, "Unknown announcement mode.")
	}

	if output.Mode == messagingService.ModeFormal {
		return RespondWithEphemeralMessage(s, i,
			fmt.Sprintf("Formal mode enabled. All future shop-open announcements will use:\n%q", messagingService.FormalOpenMessage))
	}
	return RespondWithEphemeralMessage(s, i, "Casual mode restored. Shop-open announcements will use random messages again.")
}

// lookupMember fetches the invoking user's registry record
func (c *ShopCommand) lookupMember(ctx context.Context, userID string) (*models.Member, error) {
	output, err := c.members.GetMemberByUserID(ctx, &memberRepo.GetMemberByUserIDInput{UserID: userID})
	if err != nil {
		return nil, err
	}
	return output.Member, nil
}

// announceShopOpen posts the shop-open announcement
func (c *ShopCommand) announceShopOpen(ctx context.Context, s *discordgo.Session, memberName string) {
	msgOutput, err := c.messaging.ShopOpenMessage(ctx, &messagingService.ShopOpenMessageInput{MemberName: memberName})
	if err != nil {
		log.Printf("Failed to build shop-open announcement: %v", err)
		return
	}
	c.announce(s, msgOutput.Message)
}

// announceShopClosed posts the last-person-out announcement
func (c *ShopCommand) announceShopClosed(ctx context.Context, s *discordgo.Session, memberName string) {
	msgOutput, err := c.messaging.ShopClosedMessage(ctx, &messagingService.ShopClosedMessageInput{MemberName: memberName})
	if err != nil {
		log.Printf("Failed to build shop-closed announcement: %v", err)
		return
	}
	c.announce(s, msgOutput.Message)
}

// announce posts to the announcement channel
func (c *ShopCommand) announce(s *discordgo.Session, text string) {
	if c.announceChannelID == "" {
		log.Printf("No announce channel configured, dropping announcement: %s", text)
		return
	}

	if _, err := s.ChannelMessageSend(c.announceChannelID, text); err != nil {
		log.Printf("Failed to announce: %v", err)
	}
}

// notifyUser sends a direct message to the user
func (c *ShopCommand) notifyUser(s *discordgo.Session, userID, text string) error {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to open DM with %s: %w", userID, err)
	}

	if _, err := s.ChannelMessageSend(channel.ID, text); err != nil {
		return fmt.Errorf("failed to DM %s: %w", userID, err)
	}

	return nil
}

// approvalErrorMessage maps approval service errors to user-facing text
func approvalErrorMessage(err error, target string) string {
	switch {
	case errors.Is(err, approvalService.ErrUnauthorized):
		return "You're not authorized to approve/disapprove sessions for that member."
	case errors.Is(err, approvalService.ErrInvalidIndex):
		return fmt.Sprintf("Invalid session number - check `/shop pending %s` for the current list.", target)
	default:
		return "Failed to update sessions. Please try again or contact an admin."
	}
}

// stringOption extracts a string option from a subcommand by name
func stringOption(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

// intOption extracts an integer option from a subcommand by name
func intOption(sub *discordgo.ApplicationCommandInteractionDataOption, name string) int {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return int(opt.IntValue())
		}
	}
	return 0
}
