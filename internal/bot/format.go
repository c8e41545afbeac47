// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bot

import (
	"fmt"
	"strings"

	"github.com/pdiddy/support-engine/internal/match"
	"github.com/pdiddy/support-engine/pkg/types"
)

const (
	greetingText = "Привет! Я бот техподдержки Орион 🛠\n\n" +
		"Опишите проблему — я поищу решение в базе знаний.\n" +
		"Для справки: /help"

	helpText = "Я — бот техподдержки Орион.\n\n" +
		"Просто напишите описание проблемы, и я постараюсь найти решение.\n\n" +
		"Примеры:\n" +
		"• «розовый цвет проектора»\n" +
		"• «нет звука в зале кп»\n" +
		"• «не работает платформа»\n\n" +
		"Команды:\n" +
		"/start — приветствие\n" +
		"/help — эта справка\n" +
		"/reload — обновить базу знаний\n" +
		"/upload — режим загрузки видео/фото (5 мин)\n"

	uploadText = "Режим загрузки включён на 5 минут.\n" +
		"Отправьте видео или фото — я верну file_id для таблицы."

	emptyText = "База знаний пуста. Попробуйте /reload или обратитесь к инженеру."

	notFoundText = "К сожалению, я не нашёл подходящего решения.\n" +
		"Попробуйте переформулировать вопрос или обратитесь к дежурному инженеру."
)

// FormatReply renders the best match at or above minScore as a chat reply,
// returning the text plus the record's video and photo file_ids. With no
// acceptable match it returns the not-found text and no attachments.
func FormatReply(matches []match.Match, minScore float64) (text string, videoIDs, photoIDs []string) {
	best, ok := bestMatch(matches, minScore)
	if !ok {
		return notFoundText, nil, nil
	}
	rec := best.Record

	header := "▸ Найдено"
	if obj := rec.Get(types.FieldObject); obj != "" {
		header += fmt.Sprintf("  [%s]", strings.ToUpper(obj))
	}
	header += fmt.Sprintf("  (совпадение %.0f%%)", best.Score*100)

	lines := []string{header}
	if problem := rec.Problem(); problem != "" {
		lines = append(lines, "Проблема: "+problem)
	}
	if solution := rec.Solution(); solution != "" {
		lines = append(lines, "✅ Решение: "+solution)
	}
	if second := rec.SecondSolution(); strings.TrimSpace(second) != "" {
		lines = append(lines, "✅ Решение 2: "+second)
	}

	return strings.Join(lines, "\n"), rec.VideoIDs(), rec.PhotoIDs()
}

// bestMatch returns the first match at or above minScore. Matches arrive
// sorted by score, so the first acceptable one is the best.
func bestMatch(matches []match.Match, minScore float64) (match.Match, bool) {
	for _, m := range matches {
		if m.Score >= minScore {
			return m, true
		}
	}
	return match.Match{}, false
}
