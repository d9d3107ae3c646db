package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/utkarshdhiman48/remindit48-bot/internal/domain"
	"github.com/utkarshdhiman48/remindit48-bot/internal/model"
	"github.com/utkarshdhiman48/remindit48-bot/internal/repository"
	"github.com/utkarshdhiman48/remindit48-bot/internal/service"
)

const msgPleaseStart = "please /start the bot"

// pendingFlow marks which prompted flow the user's next plain-text
// message belongs to. State is in-memory and cleared after one payload.
type pendingFlow int

const (
	flowNone pendingFlow = iota
	flowAdd
	flowDelete
	flowUpdate
	flowListOf
)

type handlerFunc func(ctx context.Context, msg *tgbotapi.Message) error

// command is one entry of the dispatch table. The first name is the
// primary spelling, the rest are aliases.
type command struct {
	names       []string
	description string
	handler     handlerFunc
}

// Bot wires Telegram updates to the reminder services.
type Bot struct {
	api      *tgbotapi.BotAPI
	userRepo *repository.UserRepository
	taskSvc  *service.TaskService
	log      *zap.Logger

	commands []command
	dispatch map[string]handlerFunc

	pending map[int64]pendingFlow
	mu      sync.Mutex
}

// New builds the bot and its dispatch table. The table is constructed
// once here and consulted for every incoming command; there is no
// registration anywhere else.
func New(token string, userRepo *repository.UserRepository, taskSvc *service.TaskService, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info("bot authorized", zap.String("account", api.Self.UserName))

	b := &Bot{
		api:      api,
		userRepo: userRepo,
		taskSvc:  taskSvc,
		log:      log,
		pending:  make(map[int64]pendingFlow),
	}

	b.commands = []command{
		{names: []string{"start", "begin"}, description: "starts the bot", handler: b.handleStart},
		{names: []string{"help"}, description: "show all commands", handler: b.handleHelp},
		{names: []string{"list", "get"}, description: "get all the reminders", handler: b.handleList},
		{names: []string{"listof", "getof"}, description: "get all the reminders of a specific date", handler: b.handleListOf},
		{names: []string{"add", "remind"}, description: "add new reminder", handler: b.handleAdd},
		{names: []string{"update"}, description: "update a reminder", handler: b.handleUpdate},
		{names: []string{"delete", "remove"}, description: "delete a reminder", handler: b.handleDelete},
	}
	b.dispatch = make(map[string]handlerFunc)
	for _, cmd := range b.commands {
		for _, name := range cmd.names {
			b.dispatch[name] = cmd.handler
		}
	}

	return b, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.log.Error("handle message failed", zap.Error(err))
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		b.clearPending(msg.From.ID)
		handler, ok := b.dispatch[strings.ToLower(msg.Command())]
		if !ok {
			return b.sendText(msg.Chat.ID, "Unknown command, see /help")
		}
		return handler(ctx, msg)
	}

	if flow := b.takePending(msg.From.ID); flow != flowNone {
		return b.handleFlowPayload(ctx, msg, flow)
	}

	return b.sendText(msg.Chat.ID, "Use /add to create a reminder or /help for all commands")
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	created, err := b.userRepo.Add(ctx, msg.From.ID, msg.From.FirstName, msg.From.LastName, msg.From.UserName)
	if err != nil {
		b.log.Error("add user failed", zap.Int64("telegram_id", msg.From.ID), zap.Error(err))
		return b.sendText(msg.Chat.ID, "start: "+err.Error())
	}
	if !created {
		return nil
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("Welcome! %s", msg.From.FirstName))
}

func (b *Bot) handleHelp(ctx context.Context, msg *tgbotapi.Message) error {
	var builder strings.Builder
	builder.WriteString("Following commands can be used\n")
	for _, cmd := range b.commands {
		builder.WriteString("\n/")
		builder.WriteString(strings.Join(cmd.names, " or /"))
		builder.WriteString("\n")
		builder.WriteString(cmd.description)
		builder.WriteString("\n")
	}
	return b.sendText(msg.Chat.ID, builder.String())
}

func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) error {
	if _, ok, err := b.requireUser(ctx, msg); err != nil || !ok {
		return err
	}
	b.setPending(msg.From.ID, flowAdd)
	return b.sendText(msg.Chat.ID,
		"Enter your task in the format:\n"+
			"date-month-year\nReminder Name\nDescription\n\n"+
			"skip -year if its a yearly recurring or use 0 for year")
}

func (b *Bot) handleList(ctx context.Context, msg *tgbotapi.Message) error {
	user, ok, err := b.requireUser(ctx, msg)
	if err != nil || !ok {
		return err
	}
	return b.sendListing(ctx, msg.Chat.ID, user, "Your reminders are as follows")
}

func (b *Bot) handleListOf(ctx context.Context, msg *tgbotapi.Message) error {
	if _, ok, err := b.requireUser(ctx, msg); err != nil || !ok {
		return err
	}
	b.setPending(msg.From.ID, flowListOf)
	return b.sendText(msg.Chat.ID, "Send a date in the format\ndate-month-year")
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	user, ok, err := b.requireUser(ctx, msg)
	if err != nil || !ok {
		return err
	}
	b.setPending(msg.From.ID, flowDelete)
	return b.sendListing(ctx, msg.Chat.ID, user, "To delete a reminder send\ndate-month-year:ReminderNumber")
}

func (b *Bot) handleUpdate(ctx context.Context, msg *tgbotapi.Message) error {
	user, ok, err := b.requireUser(ctx, msg)
	if err != nil || !ok {
		return err
	}
	b.setPending(msg.From.ID, flowUpdate)
	return b.sendListing(ctx, msg.Chat.ID, user,
		"To update a reminder send\ndate-month-year:ReminderNumber\ndate-month-year\nSubject\nDescription")
}

// handleFlowPayload consumes the message following a prompt.
func (b *Bot) handleFlowPayload(ctx context.Context, msg *tgbotapi.Message, flow pendingFlow) error {
	user, ok, err := b.requireUser(ctx, msg)
	if err != nil || !ok {
		return err
	}

	switch flow {
	case flowAdd:
		return b.sendText(msg.Chat.ID, b.report("add", b.taskSvc.Add(ctx, user, msg.Text)))
	case flowDelete:
		return b.sendText(msg.Chat.ID, b.report("delete", b.taskSvc.Delete(ctx, user, msg.Text)))
	case flowUpdate:
		return b.sendText(msg.Chat.ID, b.report("update", b.taskSvc.Update(ctx, user, msg.Text)))
	case flowListOf:
		text, err := b.taskSvc.ListingOf(ctx, user, msg.Text)
		if err != nil {
			return b.sendText(msg.Chat.ID, b.report("listOf", err))
		}
		return b.sendText(msg.Chat.ID, text)
	default:
		return nil
	}
}

func (b *Bot) sendListing(ctx context.Context, chatID int64, user *model.User, firstLine string) error {
	text, err := b.taskSvc.Listing(ctx, user, firstLine)
	if err != nil {
		return b.sendText(chatID, b.report("list", err))
	}
	return b.sendText(chatID, text)
}

// report converts an operation result into the user-visible
// "<operation>: <message>" form. Invalid input and not-found are
// expected outcomes; anything else is a store failure and logged for
// the operator.
func (b *Bot) report(operation string, err error) string {
	if err == nil {
		return operation + ": done"
	}
	if errors.Is(err, domain.ErrInvalidFormat) || errors.Is(err, domain.ErrNotFound) {
		b.log.Debug("rejected input", zap.String("operation", operation), zap.Error(err))
	} else {
		b.log.Error("store failure", zap.String("operation", operation), zap.Error(err))
	}
	return operation + ": " + err.Error()
}

// requireUser resolves the sender; when the user has not started the
// bot yet it replies with a hint and reports ok=false.
func (b *Bot) requireUser(ctx context.Context, msg *tgbotapi.Message) (*model.User, bool, error) {
	user, err := b.userRepo.FindByTelegramID(ctx, msg.From.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, b.sendText(msg.Chat.ID, msgPleaseStart)
	}
	if err != nil {
		b.log.Error("find user failed", zap.Int64("telegram_id", msg.From.ID), zap.Error(err))
		return nil, false, b.sendText(msg.Chat.ID, "something went wrong, try again later")
	}
	return user, true, nil
}

// Notify implements service.Notifier.
func (b *Bot) Notify(telegramID int64, text string) error {
	return b.sendText(telegramID, text)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) setPending(userID int64, flow pendingFlow) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[userID] = flow
}

// takePending returns and clears the user's pending flow.
func (b *Bot) takePending(userID int64) pendingFlow {
	b.mu.Lock()
	defer b.mu.Unlock()
	flow := b.pending[userID]
	delete(b.pending, userID)
	return flow
}

func (b *Bot) clearPending(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, userID)
}
