package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	memberRepo "github.com/KirkDiggler/shopkeep/internal/repositories/member"
	approvalService "github.com/KirkDiggler/shopkeep/internal/services/approval"
	attendanceService "github.com/KirkDiggler/shopkeep/internal/services/attendance"
	escalationService "github.com/KirkDiggler/shopkeep/internal/services/escalation"
	messagingService "github.com/KirkDiggler/shopkeep/internal/services/messaging"
)

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	config     *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// AnnounceChannelID is where shop open/closed announcements go
	AnnounceChannelID string

	// AdminUserID is the operator allowed to switch announcement modes
	AdminUserID string

	// Services
	AttendanceService attendanceService.Service
	EscalationService escalationService.Service
	ApprovalService   approvalService.Service
	MessagingService  messagingService.Service

	// MemberRepo is the member registry
	MemberRepo memberRepo.Repository
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.AttendanceService == nil || cfg.EscalationService == nil ||
		cfg.ApprovalService == nil || cfg.MessagingService == nil {
		return nil, errors.New("all services must be provided")
	}

	if cfg.MemberRepo == nil {
		return nil, errors.New("member repository cannot be nil")
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:    session,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		config:     cfg,
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	// Register the shop command
	shopCmd := NewShopCommand(&ShopCommandConfig{
		AttendanceService: b.config.AttendanceService,
		EscalationService: b.config.EscalationService,
		ApprovalService:   b.config.ApprovalService,
		MessagingService:  b.config.MessagingService,
		MemberRepo:        b.config.MemberRepo,
		AnnounceChannelID: b.config.AnnounceChannelID,
		AdminUserID:       b.config.AdminUserID,
	})
	if err := b.RegisterCommand(shopCmd); err != nil {
		return fmt.Errorf("failed to register shop command: %w", err)
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	// Remove all commands
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, guildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	// If guild ID is provided, register command for that specific guild.
	// Otherwise, register it globally.
	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
		log.Printf("Registering command %s for guild %s", cmd.GetName(), guildID)
	} else {
		log.Printf("Registering command %s globally", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID

	return nil
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
		if err := h.Handle(s, i); err != nil {
			log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
		}
	}
}

// Announce posts text to the announcement channel. Used by the card-scan
// handler, which has no interaction of its own to respond to.
func (b *Bot) Announce(ctx context.Context, text string) error {
	if b.config.AnnounceChannelID == "" {
		log.Printf("No announce channel configured, dropping announcement: %s", text)
		return nil
	}

	if _, err := b.session.ChannelMessageSend(b.config.AnnounceChannelID, text); err != nil {
		return fmt.Errorf("failed to announce: %w", err)
	}

	return nil
}

// NotifyUser sends a direct message to the user
func (b *Bot) NotifyUser(ctx context.Context, userID, text string) error {
	channel, err := b.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to open DM with %s: %w", userID, err)
	}

	if _, err := b.session.ChannelMessageSend(channel.ID, text); err != nil {
		return fmt.Errorf("failed to DM %s: %w", userID, err)
	}

	return nil
}
