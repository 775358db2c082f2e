package bot

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/vihangaNethsara/telegram-bot/internal/config"
	"github.com/vihangaNethsara/telegram-bot/internal/domain"
)

// Store is the payment persistence contract the handler depends on.
// *repo.Payments implements it; tests use an in-memory double.
type Store interface {
	Insert(ctx context.Context, memberName string, amount decimal.Decimal, recordedBy int64) (domain.Payment, error)
	ListRecent(ctx context.Context, n int) ([]domain.Payment, error)
	ListAll(ctx context.Context) ([]domain.Payment, error)
	TodayTotal(ctx context.Context) (domain.DayTotal, error)
	MonthTotal(ctx context.Context) (domain.MonthTotal, error)
	ByMember(ctx context.Context, memberName string) (domain.MemberSummary, error)
	DeleteAll(ctx context.Context) (int, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// sender is the slice of tgbotapi.BotAPI the handler needs for replies.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type commandFunc func(ctx context.Context, msg *tgbotapi.Message, args []string)

type command struct {
	fn        commandFunc
	adminOnly bool
}

type Handler struct {
	api      sender
	cfg      config.Config
	admins   map[int64]struct{}
	payments Store
	resets   *resetConfirmations
	commands map[string]command
}

func NewHandler(api sender, cfg config.Config, payments Store) *Handler {
	h := &Handler{
		api:      api,
		cfg:      cfg,
		admins:   make(map[int64]struct{}, len(cfg.AdminIDs)),
		payments: payments,
		resets:   newResetConfirmations(),
	}
	for _, id := range cfg.AdminIDs {
		h.admins[id] = struct{}{}
	}

	h.commands = map[string]command{
		"start":         {h.handleStart, false},
		"help":          {h.handleHelp, false},
		"table":         {h.handleTable, true},
		"today":         {h.handleToday, true},
		"month":         {h.handleMonth, true},
		"member":        {h.handleMember, true},
		"export":        {h.handleExport, true},
		"stats":         {h.handleStats, true},
		"reset":         {h.handleReset, true},
		"confirm_reset": {h.handleConfirmReset, true},
	}
	return h
}

// CommandMenu is the command list registered with Telegram at startup.
func CommandMenu() tgbotapi.SetMyCommandsConfig {
	return tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start the bot"},
		tgbotapi.BotCommand{Command: "help", Description: "Show help message"},
		tgbotapi.BotCommand{Command: "table", Description: "Show last 20 payments (Admin)"},
		tgbotapi.BotCommand{Command: "today", Description: "Show today's total (Admin)"},
		tgbotapi.BotCommand{Command: "month", Description: "Show monthly total (Admin)"},
		tgbotapi.BotCommand{Command: "member", Description: "Show member history (Admin)"},
		tgbotapi.BotCommand{Command: "export", Description: "Export to Excel (Admin)"},
		tgbotapi.BotCommand{Command: "stats", Description: "Show statistics (Admin)"},
		tgbotapi.BotCommand{Command: "reset", Description: "Reset all data (Admin)"},
	)
}

func (h *Handler) isAdmin(userID int64) bool {
	_, ok := h.admins[userID]
	return ok
}

// HandleUpdate is the entry point for one inbound update. Updates are
// dispatched concurrently, so nothing here may assume exclusive access
// beyond what the confirmation store's own lock provides. A panic in a
// handler is contained here so the polling loop keeps running.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic while handling update from %d: %v", msg.From.ID, r)
			h.reply(msg.Chat.ID, "❌ An error occurred while processing your request.", false)
		}
	}()

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, msg, text)
		return
	}

	h.handlePaymentMessage(ctx, msg, text)
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message, text string) {
	fields := strings.Fields(text)
	name := strings.TrimPrefix(fields[0], "/")
	// strip the @botname suffix used in group chats
	name, _, _ = strings.Cut(name, "@")

	cmd, ok := h.commands[name]
	if !ok {
		return
	}

	// Authorization runs before the handler touches any state.
	if cmd.adminOnly && !h.isAdmin(msg.From.ID) {
		h.reply(msg.Chat.ID, "🔒 This command is only available to administrators.", false)
		return
	}

	cmd.fn(ctx, msg, fields[1:])
}

// handlePaymentMessage parses the name-amount shorthand. Messages without a
// hyphen are ignored entirely so that free chat can coexist with the bot.
// Splitting on every hyphen and requiring exactly two segments means
// hyphenated member names are unsupported; that is the documented grammar,
// not something to fix here.
func (h *Handler) handlePaymentMessage(ctx context.Context, msg *tgbotapi.Message, text string) {
	if !strings.Contains(text, "-") {
		return
	}

	const invalidFormat = "❌ Invalid format. Use: name-amount (example: kamal-500)"

	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		h.reply(msg.Chat.ID, invalidFormat, false)
		return
	}

	name := strings.TrimSpace(parts[0])
	amountStr := strings.TrimSpace(parts[1])

	// One message for every validation failure: the bot never tells the
	// sender whether the name or the amount was the problem.
	if !isValidName(name) || !isValidAmount(amountStr) {
		h.reply(msg.Chat.ID, invalidFormat, false)
		return
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		h.reply(msg.Chat.ID, invalidFormat, false)
		return
	}

	payment, err := h.payments.Insert(ctx, name, amount, msg.From.ID)
	if err != nil {
		log.Printf("insert payment: %v", err)
		h.reply(msg.Chat.ID, "❌ Failed to record payment. Please try again.", false)
		return
	}

	displayName := capitalizeFirst(name)
	h.reply(msg.Chat.ID,
		"✅ Payment recorded successfully\n"+
			"Member: "+displayName+"\n"+
			"Amount: Rs."+amount.StringFixed(2)+"\n"+
			"Date: "+payment.PaymentDate.Format("2006-01-02 15:04"),
		false)
	log.Printf("payment recorded: %s - Rs.%s (by %d)", displayName, amount.StringFixed(2), msg.From.ID)
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message, args []string) {
	h.reply(msg.Chat.ID,
		"🏛️ *Welcome to Society Payment Tracker Bot*\n\n"+
			"This bot helps track member payments for the society.\n\n"+
			"*How to record a payment:*\n"+
			"Simply send a message in the format:\n"+
			"`name-amount`\n\n"+
			"*Examples:*\n"+
			"• kamal-500\n"+
			"• nimal-1000\n\n"+
			"Type /help for more commands.",
		true)
}

func (h *Handler) handleHelp(ctx context.Context, msg *tgbotapi.Message, args []string) {
	text := "📚 *Society Payment Tracker - Help*\n\n" +
		"*Recording Payments:*\n" +
		"Send a message in format: `name-amount`\n" +
		"Example: `kamal-500`\n\n" +
		"*Rules:*\n" +
		"• Name must contain only letters\n" +
		"• Amount must be a positive number\n"

	if h.isAdmin(msg.From.ID) {
		text += "\n*Admin Commands:*\n" +
			"/table - Show last 20 payments\n" +
			"/today - Show today's total collection\n" +
			"/month - Show current month's total\n" +
			"/member <name> - Show member's payment history\n" +
			"/export - Export all data to Excel\n" +
			"/stats - Show payment statistics\n" +
			"/reset - Clear all records (confirmation required)\n"
	}

	h.reply(msg.Chat.ID, text, true)
}

func (h *Handler) reply(chatID int64, text string, markdown bool) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("send message: %v", err)
	}
}
