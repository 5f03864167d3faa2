package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-planner/internal/config"
	"task-planner/internal/model"
	"task-planner/internal/repository"
	"task-planner/internal/service"
)

const helpText = `<b>Commands</b>
/tasks [today|week|upcoming|all] — list tasks
/add &lt;title&gt; — create a task
/done &lt;id&gt; — complete a task
/undone &lt;id&gt; — reopen a task
/rm &lt;id&gt; — delete a task
/lists — show lists
/stats — XP, level and streaks
/achievements — unlocked achievements
/agenda — today's digest`

// Bot is the Telegram surface. It only ever talks to the service layer;
// all lifecycle rules live there.
type Bot struct {
	api          *tgbotapi.BotAPI
	tasks        *service.TaskService
	lists        *service.ListService
	reminders    *service.ReminderService
	gamification *service.GamificationService
	store        *repository.Store
	config       *config.Config
}

func New(
	token string,
	tasks *service.TaskService,
	lists *service.ListService,
	reminders *service.ReminderService,
	gamification *service.GamificationService,
	store *repository.Store,
	cfg *config.Config,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:          api,
		tasks:        tasks,
		lists:        lists,
		reminders:    reminders,
		gamification: gamification,
		store:        store,
		config:       cfg,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil || update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("handle message: %v", err)
		}
	}

	return nil
}

// Notify sends a line to the configured chat, for reminder and agenda
// announcements. Silently skipped when no chat is configured.
func (b *Bot) Notify(text string) {
	if b.config.TelegramChatID == 0 {
		return
	}
	if err := b.sendText(b.config.TelegramChatID, text); err != nil {
		log.Printf("[warn] notify: %v", err)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if !msg.IsCommand() {
		return b.sendText(msg.Chat.ID, "Unknown input. Try /help.")
	}

	switch msg.Command() {
	case "start", "help":
		return b.sendText(msg.Chat.ID, helpText)
	case "tasks":
		return b.handleTasks(ctx, msg)
	case "add":
		return b.handleAdd(ctx, msg)
	case "done":
		return b.handleToggle(ctx, msg, true)
	case "undone":
		return b.handleToggle(ctx, msg, false)
	case "rm":
		return b.handleDelete(ctx, msg)
	case "lists":
		return b.handleLists(ctx, msg)
	case "stats":
		return b.handleStats(ctx, msg)
	case "achievements":
		return b.handleAchievements(ctx, msg)
	case "agenda":
		return b.handleAgenda(ctx, msg)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleTasks(ctx context.Context, msg *tgbotapi.Message) error {
	filter := repository.TaskFilter{}
	switch strings.TrimSpace(msg.CommandArguments()) {
	case "today":
		filter.Window = repository.WindowToday
	case "week":
		filter.Window = repository.WindowNext7Days
	case "upcoming":
		filter.Window = repository.WindowUpcoming
	}

	tasks, err := b.tasks.Tasks(ctx, filter)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return b.sendText(msg.Chat.ID, "No tasks found.")
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Tasks</b>\n")
	for _, task := range tasks {
		sb.WriteString(formatTask(task, time.Now()))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) error {
	title := strings.TrimSpace(msg.CommandArguments())
	if title == "" {
		return b.sendText(msg.Chat.ID, "Usage: /add <title>")
	}

	task, err := b.tasks.Create(ctx, service.TaskInput{Title: title})
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not create task: %v", err))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Created task #%d: %s", task.ID, html.EscapeString(task.Title)))
}

func (b *Bot) handleToggle(ctx context.Context, msg *tgbotapi.Message, completed bool) error {
	id, err := parseTaskID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /done <id> or /undone <id>")
	}

	task, err := b.tasks.ToggleCompletion(ctx, id, completed)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not update task: %v", err))
	}
	if task == nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Task #%d not found.", id))
	}
	if completed {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("🎉 Completed #%d: %s", task.ID, html.EscapeString(task.Title)))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("↩️ Reopened #%d: %s", task.ID, html.EscapeString(task.Title)))
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	id, err := parseTaskID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /rm <id>")
	}
	if err := b.tasks.Delete(ctx, id); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not delete task: %v", err))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Deleted task #%d.", id))
}

func (b *Bot) handleLists(ctx context.Context, msg *tgbotapi.Message) error {
	lists, err := b.lists.Lists(ctx)
	if err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString("📂 <b>Lists</b>\n")
	for _, list := range lists {
		sb.WriteString(fmt.Sprintf("• %s <i>(%s)</i>\n", html.EscapeString(list.Name), list.Slug))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	stats, err := b.gamification.Stats(ctx)
	if err != nil {
		return err
	}
	text := fmt.Sprintf(
		"🏅 <b>Level %d</b> — %d XP\n🔥 Streak: %d (best %d)",
		stats.Level, stats.XP, stats.CurrentStreak, stats.LongestStreak,
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleAchievements(ctx context.Context, msg *tgbotapi.Message) error {
	unlocks, err := b.store.Stats.Unlocks(ctx)
	if err != nil {
		return err
	}
	if len(unlocks) == 0 {
		return b.sendText(msg.Chat.ID, "No achievements unlocked yet.")
	}

	var sb strings.Builder
	sb.WriteString("🏆 <b>Achievements</b>\n")
	for _, unlock := range unlocks {
		if unlock.Achievement == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf(
			"%s %s — %s (%s)\n",
			unlock.Achievement.Icon,
			html.EscapeString(unlock.Achievement.Name),
			html.EscapeString(unlock.Achievement.Description),
			unlock.UnlockedAt.Format("02 Jan 2006"),
		))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleAgenda(ctx context.Context, msg *tgbotapi.Message) error {
	summary, err := b.reminders.AgendaSummary(ctx, time.Now())
	if err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, summary)
}

func (b *Bot) sendText(chatID int64, text string) error {
	out := tgbotapi.NewMessage(chatID, text)
	out.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(out); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func parseTaskID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return uint(id), nil
}

func formatTask(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	switch {
	case task.IsCompleted:
		icon = "✅"
	case task.DueDate != nil && task.DueDate.Before(now):
		icon = "⚠️"
	case task.DueDate != nil && task.DueDate.Sub(now) <= 48*time.Hour:
		icon = "⏳"
	}

	sb.WriteString(fmt.Sprintf("%s #%d %s", icon, task.ID, html.EscapeString(strings.TrimSpace(task.Title))))
	if task.Priority != "" && task.Priority != model.PriorityNone {
		sb.WriteString(fmt.Sprintf(" <i>[%s]</i>", task.Priority))
	}
	if task.DueDate != nil {
		sb.WriteString(fmt.Sprintf(" — due %s", task.DueDate.In(now.Location()).Format("02 Jan")))
	}
	if len(task.Labels) > 0 {
		names := make([]string, 0, len(task.Labels))
		for _, label := range task.Labels {
			names = append(names, html.EscapeString(label.Name))
		}
		sb.WriteString(fmt.Sprintf(" 🏷 %s", strings.Join(names, ", ")))
	}
	if len(task.Blockers) > 0 {
		sb.WriteString(fmt.Sprintf(" ⛔ blocked by %d", len(task.Blockers)))
	}
	sb.WriteByte('\n')
	return sb.String()
}
