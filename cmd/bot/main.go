package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/shopkeep/internal/common/clock"
	"github.com/KirkDiggler/shopkeep/internal/display"
	"github.com/KirkDiggler/shopkeep/internal/handlers/discord"
	"github.com/KirkDiggler/shopkeep/internal/handlers/scanner"
	"github.com/KirkDiggler/shopkeep/internal/reader"
	attendanceRepo "github.com/KirkDiggler/shopkeep/internal/repositories/attendance"
	memberRepo "github.com/KirkDiggler/shopkeep/internal/repositories/member"
	approvalService "github.com/KirkDiggler/shopkeep/internal/services/approval"
	attendanceService "github.com/KirkDiggler/shopkeep/internal/services/attendance"
	escalationService "github.com/KirkDiggler/shopkeep/internal/services/escalation"
	messagingService "github.com/KirkDiggler/shopkeep/internal/services/messaging"
)

// config holds all process configuration, read from the environment
type config struct {
	DiscordToken      string `envconfig:"DISCORD_TOKEN" required:"true"`
	ApplicationID     string `envconfig:"APPLICATION_ID"`
	GuildID           string `envconfig:"GUILD_ID"`
	AnnounceChannelID string `envconfig:"ANNOUNCE_CHANNEL_ID"`
	AdminUserID       string `envconfig:"ADMIN_USER_ID" required:"true"`

	// LedgerBackend selects where sessions persist: "csv" or "redis"
	LedgerBackend  string `envconfig:"LEDGER_BACKEND" default:"csv"`
	AttendanceFile string `envconfig:"ATTENDANCE_FILE" default:"attendance.csv"`
	MembersFile    string `envconfig:"MEMBERS_FILE" default:"members.csv"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	StaleAfter time.Duration `envconfig:"STALE_AFTER" default:"12h"`
	Lookback   time.Duration `envconfig:"ESCALATION_LOOKBACK" default:"24h"`

	// CardReaderEnabled turns on the stdin card-scan loop
	CardReaderEnabled bool `envconfig:"CARD_READER_ENABLED" default:"false"`
}

func main() {
	// .env is optional, real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env file: %v", err)
	}

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	ledgerRepo, err := buildLedgerRepo(&cfg)
	if err != nil {
		log.Fatalf("Failed to create attendance repository: %v", err)
	}

	members, err := memberRepo.NewCSV(&memberRepo.Config{
		Path: cfg.MembersFile,
	})
	if err != nil {
		log.Fatalf("Failed to create member repository: %v", err)
	}

	attendanceSvc, err := attendanceService.New(&attendanceService.Config{
		Repo:       ledgerRepo,
		Clock:      &clock.DefaultClock{},
		StaleAfter: cfg.StaleAfter,
	})
	if err != nil {
		log.Fatalf("Failed to create attendance service: %v", err)
	}

	escalationSvc, err := escalationService.New(&escalationService.Config{
		AttendanceRepo: ledgerRepo,
		MemberRepo:     members,
		AdminUserID:    cfg.AdminUserID,
		Lookback:       cfg.Lookback,
	})
	if err != nil {
		log.Fatalf("Failed to create escalation service: %v", err)
	}

	approvalSvc, err := approvalService.New(&approvalService.Config{
		AttendanceRepo: ledgerRepo,
		MemberRepo:     members,
	})
	if err != nil {
		log.Fatalf("Failed to create approval service: %v", err)
	}

	messagingSvc, err := messagingService.New(&messagingService.Config{})
	if err != nil {
		log.Fatalf("Failed to create messaging service: %v", err)
	}

	// Rebuild the live presence set from the ledger before accepting any
	// commands or scans
	reconcileOutput, err := attendanceSvc.Reconcile(context.Background(), &attendanceService.ReconcileInput{})
	if err != nil {
		log.Fatalf("Failed to reconcile presence from ledger: %v", err)
	}
	if len(reconcileOutput.Recovered) > 0 {
		log.Printf("Recovered presence for: %s", strings.Join(reconcileOutput.Recovered, ", "))
	}

	bot, err := discord.New(&discord.Config{
		Token:             cfg.DiscordToken,
		ApplicationID:     cfg.ApplicationID,
		GuildID:           cfg.GuildID,
		AnnounceChannelID: cfg.AnnounceChannelID,
		AdminUserID:       cfg.AdminUserID,
		AttendanceService: attendanceSvc,
		EscalationService: escalationSvc,
		ApprovalService:   approvalSvc,
		MessagingService:  messagingSvc,
		MemberRepo:        members,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Stale open sessions need an operator decision, flag them over DM
	for _, stale := range reconcileOutput.Stale {
		notice := fmt.Sprintf("Stale open session for %s: checked in %s (%.1fh ago). Close or remove it manually.",
			stale.MemberName, stale.CheckIn.Format(time.RFC3339), stale.Age.Hours())
		if err := bot.NotifyUser(context.Background(), cfg.AdminUserID, notice); err != nil {
			log.Printf("Failed to flag stale session for %s: %v", stale.MemberName, err)
		}
	}

	scanCtx, cancelScan := context.WithCancel(context.Background())
	defer cancelScan()

	if cfg.CardReaderEnabled {
		scan, err := scanner.New(&scanner.Config{
			Reader:            reader.NewLineReader(os.Stdin),
			Display:           &display.Console{},
			MemberRepo:        members,
			AttendanceService: attendanceSvc,
			EscalationService: escalationSvc,
			MessagingService:  messagingSvc,
			Notifier:          bot,
		})
		if err != nil {
			log.Fatalf("Failed to create card scanner: %v", err)
		}

		go func() {
			if err := scan.Run(scanCtx); err != nil {
				log.Printf("Card scanner stopped: %v", err)
			}
		}()
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	cancelScan()

	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Bot has been shut down")
}

// buildLedgerRepo constructs the session ledger for the configured backend
func buildLedgerRepo(cfg *config) (attendanceRepo.Repository, error) {
	switch cfg.LedgerBackend {
	case "csv":
		return attendanceRepo.NewCSV(&attendanceRepo.Config{
			Path: cfg.AttendanceFile,
		})
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		return attendanceRepo.NewRedis(&attendanceRepo.RedisConfig{
			RedisClient: redisClient,
		})
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}
}
