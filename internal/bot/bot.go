// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bot implements the Telegram front end: free-text messages are
// matched against the knowledge base and answered with the best solution,
// including any attached photo and video file_ids. An upload mode echoes
// file_ids back so engineers can paste them into the sheet.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/pdiddy/support-engine/internal/kb"
	"github.com/pdiddy/support-engine/internal/match"
	"github.com/pdiddy/support-engine/pkg/types"
)

// now is overridden in tests to control upload mode expiry.
var now = time.Now

// API is the subset of the Telegram client the bot uses. The real client is
// *tgbotapi.BotAPI; tests substitute a recorder.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot answers support queries over Telegram long polling.
type Bot struct {
	api          API
	store        *kb.Store
	objects      types.SynonymTable
	minScore     float64
	topN         int
	uploadWindow time.Duration
	log          *zap.Logger

	mu          sync.Mutex
	uploadUntil map[int64]time.Time
}

// New builds a bot over an already-constructed Telegram client and store.
func New(api API, store *kb.Store, cfg types.Config, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	minScore := cfg.Match.MinScore
	if minScore <= 0 {
		minScore = types.DefaultMinScore
	}
	topN := cfg.Match.TopN
	if topN <= 0 {
		topN = types.DefaultTopN
	}
	window := cfg.Bot.UploadWindow
	if window <= 0 {
		window = types.DefaultUploadWindow
	}
	return &Bot{
		api:          api,
		store:        store,
		objects:      cfg.Objects,
		minScore:     minScore,
		topN:         topN,
		uploadWindow: window,
		log:          log,
		uploadUntil:  make(map[int64]time.Time),
	}
}

// Run polls for updates until ctx is cancelled. Pending updates accumulated
// while the bot was down are dropped before polling starts.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("dropping pending updates: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("bot started")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	case msg.Video != nil || isVideoDocument(msg.Document) || len(msg.Photo) > 0:
		b.handleMedia(msg)
	default:
		if query := strings.TrimSpace(msg.Text); query != "" {
			b.answer(msg, query)
		}
	}
}

// handleCommand dispatches bot commands. Unknown commands are ignored.
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(msg, greetingText)
	case "help":
		b.reply(msg, helpText)
	case "reload":
		if err := b.store.Refresh(ctx, true); err != nil {
			b.log.Warn("reload failed", zap.Error(err))
		}
		// The reply always reports the serving record count, even when the
		// fetch failed and the previous generation is still in place.
		b.reply(msg, fmt.Sprintf("База обновлена. Записей: %d", b.store.Len()))
	case "upload":
		if msg.From == nil {
			return
		}
		b.enableUpload(msg.From.ID)
		b.reply(msg, uploadText)
	}
}

// handleMedia echoes file_ids while upload mode is active for the sender;
// otherwise a caption, if present, is treated as a search query.
func (b *Bot) handleMedia(msg *tgbotapi.Message) {
	if msg.From != nil && b.uploadActive(msg.From.ID) {
		label, fileID := mediaFileID(msg)
		if fileID == "" {
			return
		}
		reply := tgbotapi.NewMessage(msg.Chat.ID,
			fmt.Sprintf("%s file_id для таблицы:\n\n<code>%s</code>", label, fileID))
		reply.ParseMode = tgbotapi.ModeHTML
		if _, err := b.api.Send(reply); err != nil {
			b.log.Warn("sending file_id failed", zap.Error(err))
		}
		return
	}

	if caption := strings.TrimSpace(msg.Caption); caption != "" {
		b.answer(msg, caption)
	}
}

// answer runs the query against the knowledge base and sends the formatted
// reply, then any photo and video attachments of the matched record.
func (b *Bot) answer(msg *tgbotapi.Message, query string) {
	records, err := b.store.Records()
	if err != nil {
		b.reply(msg, emptyText)
		return
	}

	from := ""
	if msg.From != nil {
		from = msg.From.FirstName
	}
	b.log.Info("query received", zap.String("from", from), zap.String("query", query))

	objectCode := match.DetectObjectCode(query, b.objects)
	matches := match.Rank(query, records, b.topN, objectCode)
	text, videoIDs, photoIDs := FormatReply(matches, b.minScore)

	b.reply(msg, text)
	for _, id := range photoIDs {
		if _, err := b.api.Send(tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileID(id))); err != nil {
			b.log.Warn("sending photo failed", zap.String("file_id", id), zap.Error(err))
		}
	}
	for _, id := range videoIDs {
		if _, err := b.api.Send(tgbotapi.NewVideo(msg.Chat.ID, tgbotapi.FileID(id))); err != nil {
			b.log.Warn("sending video failed", zap.String("file_id", id), zap.Error(err))
		}
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, text)); err != nil {
		b.log.Warn("sending reply failed", zap.Error(err))
	}
}

func (b *Bot) enableUpload(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploadUntil[userID] = now().Add(b.uploadWindow)
}

func (b *Bot) uploadActive(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return now().Before(b.uploadUntil[userID])
}

// mediaFileID picks the file_id to echo. Videos and video documents share
// the Видео label; for photos Telegram sends several sizes and the last one
// is the largest.
func mediaFileID(msg *tgbotapi.Message) (label, fileID string) {
	switch {
	case msg.Video != nil:
		return "Видео", msg.Video.FileID
	case msg.Document != nil:
		return "Видео", msg.Document.FileID
	case len(msg.Photo) > 0:
		return "Фото", msg.Photo[len(msg.Photo)-1].FileID
	}
	return "", ""
}

func isVideoDocument(doc *tgbotapi.Document) bool {
	return doc != nil && strings.HasPrefix(doc.MimeType, "video/")
}
