package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vihangaNethsara/telegram-bot/internal/export"
)

func (h *Handler) handleTable(ctx context.Context, msg *tgbotapi.Message, args []string) {
	payments, err := h.payments.ListRecent(ctx, 20)
	if err != nil {
		log.Printf("table command: %v", err)
		h.reply(msg.Chat.ID, "❌ Error fetching payment records.", false)
		return
	}
	if len(payments) == 0 {
		h.reply(msg.Chat.ID, "📭 No payment records found.", false)
		return
	}

	var b strings.Builder
	b.WriteString("📊 *Last 20 Payments*\n\n")
	b.WriteString("```\n")
	b.WriteString("ID   | Member     | Amount    | Date\n")
	b.WriteString("-----+------------+-----------+------------\n")
	for _, p := range payments {
		b.WriteString(fmt.Sprintf("%-4d | %-10s | %-9s | %s\n",
			p.ID,
			truncate(p.MemberName, 10),
			"Rs."+p.Amount.StringFixed(0),
			p.PaymentDate.Format("2006-01-02"),
		))
	}
	b.WriteString("```")

	h.reply(msg.Chat.ID, b.String(), true)
}

func (h *Handler) handleToday(ctx context.Context, msg *tgbotapi.Message, args []string) {
	t, err := h.payments.TodayTotal(ctx)
	if err != nil {
		log.Printf("today command: %v", err)
		h.reply(msg.Chat.ID, "❌ Error fetching today's total.", false)
		return
	}

	h.reply(msg.Chat.ID, fmt.Sprintf(
		"📅 *Today's Collection (%s)*\n\n"+
			"💰 Total Amount: *Rs.%s*\n"+
			"📝 Number of Payments: *%d*",
		t.Date, t.Total.StringFixed(2), t.Count,
	), true)
}

func (h *Handler) handleMonth(ctx context.Context, msg *tgbotapi.Message, args []string) {
	t, err := h.payments.MonthTotal(ctx)
	if err != nil {
		log.Printf("month command: %v", err)
		h.reply(msg.Chat.ID, "❌ Error fetching monthly total.", false)
		return
	}

	h.reply(msg.Chat.ID, fmt.Sprintf(
		"📆 *%s %d Collection*\n\n"+
			"💰 Total Amount: *Rs.%s*\n"+
			"📝 Number of Payments: *%d*",
		t.MonthName, t.Year, t.Total.StringFixed(2), t.Count,
	), true)
}

func (h *Handler) handleMember(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		h.reply(msg.Chat.ID, "❌ Please provide a member name.\nUsage: /member <name>", false)
		return
	}
	memberName := args[0]

	summary, err := h.payments.ByMember(ctx, memberName)
	if err != nil {
		log.Printf("member command: %v", err)
		h.reply(msg.Chat.ID, "❌ Error fetching member records.", false)
		return
	}
	if summary.Count == 0 {
		h.reply(msg.Chat.ID, "❌ No payment records found for member: "+memberName, false)
		return
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(
		"👤 *Payment History: %s*\n\n"+
			"💰 Total Paid: *Rs.%s*\n"+
			"📝 Total Payments: *%d*\n\n"+
			"*Recent Payments:*\n",
		capitalizeFirst(summary.MemberName), summary.Total.StringFixed(2), summary.Count,
	))

	recent := summary.Payments
	if len(recent) > 10 {
		recent = recent[:10]
	}
	for _, p := range recent {
		b.WriteString(fmt.Sprintf("• Rs.%s on %s\n", p.Amount.StringFixed(2), p.PaymentDate.Format("2006-01-02")))
	}
	if summary.Count > 10 {
		b.WriteString(fmt.Sprintf("\n_... and %d more payments_", summary.Count-10))
	}

	h.reply(msg.Chat.ID, b.String(), true)
}

// handleExport generates an Excel workbook in the system temp directory,
// sends it as a document and removes the file afterwards. The temp file is
// removed on every path, including a failed send. Updates are dispatched in
// their own goroutines, so a slow export never blocks other users.
func (h *Handler) handleExport(ctx context.Context, msg *tgbotapi.Message, args []string) {
	h.reply(msg.Chat.ID, "📤 Generating Excel export...", false)

	payments, err := h.payments.ListAll(ctx)
	if err != nil {
		log.Printf("export command: %v", err)
		h.reply(msg.Chat.ID, "❌ Error generating export file.", false)
		return
	}
	if len(payments) == 0 {
		h.reply(msg.Chat.ID, "📭 No records to export.", false)
		return
	}

	filename := fmt.Sprintf("society_payments_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(os.TempDir(), filename)
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove temp export file: %v", err)
		}
	}()

	total, err := export.WriteWorkbook(path, payments)
	if err != nil {
		log.Printf("export command: write workbook: %v", err)
		h.reply(msg.Chat.ID, "❌ Error generating export file.", false)
		return
	}

	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FilePath(path))
	doc.Caption = fmt.Sprintf(
		"📊 Society Payments Export\n"+
			"📝 Total Records: %d\n"+
			"💰 Total Amount: Rs.%s",
		len(payments), total.StringFixed(2),
	)
	if _, err := h.api.Send(doc); err != nil {
		log.Printf("export command: send document: %v", err)
		h.reply(msg.Chat.ID, "❌ Error generating export file.", false)
		return
	}

	log.Printf("export completed: %d records sent", len(payments))
}

func (h *Handler) handleStats(ctx context.Context, msg *tgbotapi.Message, args []string) {
	stats, err := h.payments.Stats(ctx)
	if err != nil {
		log.Printf("stats command: %v", err)
		h.reply(msg.Chat.ID, "❌ Error fetching statistics.", false)
		return
	}
	if stats.Count == 0 {
		h.reply(msg.Chat.ID, "📭 No payment records found.", false)
		return
	}

	h.reply(msg.Chat.ID, fmt.Sprintf(
		"📈 *Payment Statistics*\n\n"+
			"📝 Total Payments: *%d*\n"+
			"👥 Unique Members: *%d*\n\n"+
			"💰 *Amount Summary:*\n"+
			"• Total: *Rs.%s*\n"+
			"• Average: *Rs.%s*\n"+
			"• Highest: *Rs.%s*\n"+
			"• Lowest: *Rs.%s*",
		stats.Count, stats.UniqueMembers,
		stats.Total.StringFixed(2), stats.Average.StringFixed(2),
		stats.Max.StringFixed(2), stats.Min.StringFixed(2),
	), true)
}

// handleReset arms the confirmation window. It refuses when there is nothing
// to delete, so /confirm_reset cannot be armed against an empty table.
func (h *Handler) handleReset(ctx context.Context, msg *tgbotapi.Message, args []string) {
	stats, err := h.payments.Stats(ctx)
	if err != nil {
		log.Printf("reset command: %v", err)
		h.reply(msg.Chat.ID, "❌ Error processing reset request.", false)
		return
	}
	if stats.Count == 0 {
		h.reply(msg.Chat.ID, "📭 No records to delete.", false)
		return
	}

	h.resets.Request(msg.From.ID)
	log.Printf("reset requested by user %d", msg.From.ID)

	h.reply(msg.Chat.ID, fmt.Sprintf(
		"⚠️ *WARNING: Reset Confirmation Required*\n\n"+
			"You are about to delete ALL payment records:\n"+
			"• Total Records: *%d*\n"+
			"• Total Amount: *Rs.%s*\n"+
			"• Unique Members: *%d*\n\n"+
			"This action *CANNOT BE UNDONE*.\n\n"+
			"To confirm, type: /confirm_reset\n"+
			"This confirmation will expire in 60 seconds.",
		stats.Count, stats.Total.StringFixed(2), stats.UniqueMembers,
	), true)
}

func (h *Handler) handleConfirmReset(ctx context.Context, msg *tgbotapi.Message, args []string) {
	switch h.resets.Consume(msg.From.ID) {
	case resetNone:
		h.reply(msg.Chat.ID, "❌ No valid reset request found.\nPlease use /reset first.", false)
		return
	case resetExpired:
		h.reply(msg.Chat.ID, "❌ Reset request has expired.\nPlease use /reset first.", false)
		return
	}

	deleted, err := h.payments.DeleteAll(ctx)
	if err != nil {
		log.Printf("confirm_reset command: %v", err)
		h.reply(msg.Chat.ID, "❌ Error executing reset.", false)
		return
	}

	log.Printf("reset executed by admin %d: %d records deleted", msg.From.ID, deleted)
	h.reply(msg.Chat.ID, fmt.Sprintf(
		"🗑️ *Reset Complete*\n\n"+
			"Successfully deleted *%d* payment records.\n"+
			"The database is now empty.",
		deleted,
	), true)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
