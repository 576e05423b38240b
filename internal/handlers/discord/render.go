package discord

import (
	"fmt"
	"strings"

	approvalService "github.com/KirkDiggler/shopkeep/internal/services/approval"
)

// sessionTimeFormat is how timestamps render in chat replies
const sessionTimeFormat = "2006-01-02 15:04:05"

// formatWhoList renders the current presence list
func formatWhoList(names []string) string {
	if len(names) == 0 {
		return "No one is currently checked in."
	}

	return "Currently checked in:\n- " + strings.Join(names, "\n- ")
}

// formatShopStatus renders the open/closed summary
func formatShopStatus(names []string) string {
	if len(names) == 0 {
		return "No, the shop is currently closed."
	}

	return "Yes, the shop is open. Currently checked in:\n- " + strings.Join(names, "\n- ")
}

// formatPendingList renders a member's numbered pending sessions
func formatPendingList(target string, sessions []*approvalService.PendingSession) string {
	if len(sessions) == 0 {
		return fmt.Sprintf("No pending sessions for %s.", target)
	}

	lines := []string{fmt.Sprintf("Pending sessions for %s:", target)}
	for _, p := range sessions {
		checkOut := "(open)"
		if !p.Session.IsOpen() {
			checkOut = p.Session.CheckOut.Format(sessionTimeFormat)
		}
		lines = append(lines, fmt.Sprintf("%d. check_in: %s  check_out: %s  hours: %.2f",
			p.Number, p.Session.CheckIn.Format(sessionTimeFormat), checkOut, p.Session.Hours))
	}

	lines = append(lines,
		"",
		fmt.Sprintf("- `/shop approve %s <number>` to approve", target),
		fmt.Sprintf("- `/shop disapprove %s <number>` to remove", target),
	)

	return strings.Join(lines, "\n")
}

// formatCheckOutNotice renders the DM sent to the approval recipient
func formatCheckOutNotice(memberName string, hours float64) string {
	return fmt.Sprintf("%s checked out. Hours worked: %.2f\n"+
		"- `/shop pending %s` to view pending sessions\n"+
		"- `/shop approve %s <number>` to approve a specific session\n"+
		"- `/shop disapprove %s <number>` to remove a specific session",
		memberName, hours, memberName, memberName, memberName)
}
