package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabtrainer/internal/importer"
	"github.com/example/vocabtrainer/internal/study"
	"github.com/example/vocabtrainer/pkg/models"
)

const helpText = `Commands:
/learn — study new words (up to your daily quota)
/review — review words that are due
/stats — progress dashboard
/history — recent daily activity
/vocabs — list vocabularies
/delvocab <name> — delete a vocabulary
/quota <n> — set the daily new-word quota
/import <name> — import a word list (CSV, JSON or XLSX) into a vocabulary`

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.Document != nil {
		return b.handleDocument(ctx, msg.Document)
	}
	if !msg.IsCommand() {
		return b.reply("Send /help to see what I can do.")
	}

	switch msg.Command() {
	case "start", "help":
		return b.reply(helpText)
	case "learn":
		return b.handleLearn(ctx)
	case "review":
		return b.handleReview(ctx)
	case "stats":
		return b.handleStats(ctx)
	case "history":
		return b.handleHistory(ctx)
	case "vocabs":
		return b.handleVocabs(ctx)
	case "delvocab":
		return b.handleDeleteVocab(ctx, strings.TrimSpace(msg.CommandArguments()))
	case "quota":
		return b.handleQuota(ctx, strings.TrimSpace(msg.CommandArguments()))
	case "import":
		return b.handleImport(strings.TrimSpace(msg.CommandArguments()))
	default:
		return b.reply("Unknown command. Send /help for the list.")
	}
}

func (b *Bot) handleLearn(ctx context.Context) error {
	session, err := b.study.StartLearningSession(ctx)
	if err != nil {
		return err
	}
	if session.Len() == 0 {
		return b.reply("No new words right now — either today's quota is done or every word has been started. 🎉")
	}
	b.session = session
	if err := b.reply(fmt.Sprintf("Learning session: %d new word(s).", session.Len())); err != nil {
		return err
	}
	return b.sendCurrentCard()
}

func (b *Bot) handleReview(ctx context.Context) error {
	session, err := b.study.StartReviewSession(ctx)
	if err != nil {
		return err
	}
	if session.Len() == 0 {
		return b.reply("Nothing is due for review. Come back later. ✅")
	}
	b.session = session
	if err := b.reply(fmt.Sprintf("Review session: %d word(s) due.", session.Len())); err != nil {
		return err
	}
	return b.sendCurrentCard()
}

func (b *Bot) sendCurrentCard() error {
	card, ok := b.session.Current()
	if !ok {
		return nil
	}

	var text strings.Builder
	fmt.Fprintf(&text, "(%d/%d) %s", b.session.Len()-b.session.Remaining()+1, b.session.Len(), card.Word.Term)
	if card.Word.Phonetic != "" {
		fmt.Fprintf(&text, "  [%s]", card.Word.Phonetic)
	}
	if b.session.Kind() == study.SessionLearning {
		text.WriteString("\n\n" + cardAnswer(card.Word))
	}

	msg := tgbotapi.NewMessage(b.cfg.ChatID, text.String())
	rows := [][]tgbotapi.InlineKeyboardButton{confidenceRow()}
	if b.session.Kind() == study.SessionReview {
		rows = append([][]tgbotapi.InlineKeyboardButton{{
			tgbotapi.NewInlineKeyboardButtonData("👁 Show answer", "show"),
		}}, rows...)
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return b.send(msg)
}

func confidenceRow() []tgbotapi.InlineKeyboardButton {
	return []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("❌ Unknown", "resp:unknown"),
		tgbotapi.NewInlineKeyboardButtonData("🤔 Fuzzy", "resp:fuzzy"),
		tgbotapi.NewInlineKeyboardButtonData("✅ Known", "resp:known"),
	}
}

func cardAnswer(w models.Word) string {
	var text strings.Builder
	text.WriteString(w.Translation)
	if w.Example != "" {
		text.WriteString("\n" + w.Example)
	}
	if len(w.Tags) > 0 {
		text.WriteString("\n#" + strings.Join(w.Tags, " #"))
	}
	return text.String()
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	// Answer immediately to clear the loading state on the button.
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	if b.session == nil {
		return b.reply("No active session. Send /learn or /review to start one.")
	}

	switch {
	case callback.Data == "show":
		card, ok := b.session.Current()
		if !ok {
			return nil
		}
		edit := tgbotapi.NewEditMessageText(b.cfg.ChatID, callback.Message.MessageID,
			callback.Message.Text+"\n\n"+cardAnswer(card.Word))
		markup := tgbotapi.NewInlineKeyboardMarkup(confidenceRow())
		edit.ReplyMarkup = &markup
		return b.send(edit)
	case strings.HasPrefix(callback.Data, "resp:"):
		return b.handleResponse(ctx, models.Confidence(strings.TrimPrefix(callback.Data, "resp:")))
	default:
		return nil
	}
}

func (b *Bot) handleResponse(ctx context.Context, confidence models.Confidence) error {
	_, err := b.session.Respond(ctx, confidence)
	if errors.Is(err, study.ErrSessionDone) {
		return nil
	}
	if err != nil {
		// The cursor did not advance; the same card can be retried.
		if sendErr := b.reply("Saving that response failed, please answer the card again."); sendErr != nil {
			return sendErr
		}
		return err
	}

	if b.session.Done() {
		kind := "review"
		if b.session.Kind() == study.SessionLearning {
			kind = "learning"
		}
		done := b.session.Len()
		b.session = nil
		return b.reply(fmt.Sprintf("Session complete: %d word(s) in this %s session. 🎉", done, kind))
	}
	return b.sendCurrentCard()
}

func (b *Bot) handleStats(ctx context.Context) error {
	summary, err := b.study.Summary(ctx)
	if err != nil {
		return err
	}
	completions, err := b.study.VocabularyCompletion(ctx)
	if err != nil {
		return err
	}

	var text strings.Builder
	fmt.Fprintf(&text, "📊 Words: %d total · %d mastered · %d learning · %d new\n",
		summary.TotalWords, summary.MasteredWords, summary.LearningWords, summary.NewWords)
	fmt.Fprintf(&text, "Today: %d card(s) · Streak: %d day(s)\n", summary.TodayActivity, summary.CurrentStreak)
	for _, c := range completions {
		fmt.Fprintf(&text, "\n📚 %s: %d/%d mastered (%.0f%%)", c.Name, c.MasteredWords, c.TotalWords, c.CompletionPercent)
	}
	return b.reply(text.String())
}

func (b *Bot) handleHistory(ctx context.Context) error {
	history, err := b.study.History(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return b.reply("No activity recorded yet.")
	}
	if len(history) > 7 {
		history = history[:7]
	}
	var text strings.Builder
	text.WriteString("Recent days:\n")
	for _, day := range history {
		fmt.Fprintf(&text, "%s — %d learned · %d reviewed · streak %d\n",
			day.Date, day.NewWordsLearned, day.WordsReviewed, day.Streak)
	}
	return b.reply(text.String())
}

func (b *Bot) handleVocabs(ctx context.Context) error {
	vocabs, err := b.store.Vocabularies.List(ctx)
	if err != nil {
		return err
	}
	if len(vocabs) == 0 {
		return b.reply("No vocabularies yet. Use /import <name> to create one from a word list.")
	}
	var text strings.Builder
	for _, v := range vocabs {
		fmt.Fprintf(&text, "📚 %s — %d word(s)\n", v.Name, len(v.Words))
	}
	return b.reply(text.String())
}

func (b *Bot) handleDeleteVocab(ctx context.Context, name string) error {
	if name == "" {
		return b.reply("Usage: /delvocab <name>")
	}
	vocabs, err := b.store.Vocabularies.List(ctx)
	if err != nil {
		return err
	}
	for _, v := range vocabs {
		if strings.EqualFold(v.Name, name) {
			if err := b.store.Vocabularies.Delete(ctx, v.ID); err != nil {
				return err
			}
			return b.reply(fmt.Sprintf("Deleted vocabulary %q.", v.Name))
		}
	}
	return b.reply(fmt.Sprintf("No vocabulary named %q.", name))
}

func (b *Bot) handleQuota(ctx context.Context, arg string) error {
	settings, err := b.store.Settings.Get(ctx)
	if err != nil {
		return err
	}
	if arg == "" {
		return b.reply(fmt.Sprintf("Daily new-word quota: %d. Use /quota <n> to change it.", settings.DailyNewWords))
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return b.reply("The quota must be a positive number.")
	}
	settings.DailyNewWords = n
	if err := b.store.Settings.Put(ctx, settings); err != nil {
		return err
	}
	return b.reply(fmt.Sprintf("Daily new-word quota set to %d.", n))
}

func (b *Bot) handleImport(name string) error {
	if name == "" {
		return b.reply("Usage: /import <vocabulary name>, then send the file.")
	}
	b.pendingImport = name
	return b.reply(fmt.Sprintf("Send a CSV, JSON or XLSX file to import into %q.", name))
}

func (b *Bot) handleDocument(ctx context.Context, doc *tgbotapi.Document) error {
	if b.pendingImport == "" {
		return b.reply("Tell me where to import first: /import <vocabulary name>.")
	}
	format, err := importer.FormatForPath(doc.FileName)
	if err != nil {
		return b.reply("I can only import .csv, .json or .xlsx files.")
	}

	fileURL, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return fmt.Errorf("failed to resolve file: %w", err)
	}
	resp, err := http.Get(fileURL)
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	result, err := b.imp.ImportReader(ctx, resp.Body, format, b.pendingImport)
	if err != nil {
		return err
	}
	b.pendingImport = ""

	var text strings.Builder
	fmt.Fprintf(&text, "Imported %d word(s), skipped %d duplicate(s).", result.Created, result.Skipped)
	if result.VocabularyCreated {
		text.WriteString("\nCreated a new vocabulary for them.")
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(&text, "\n%d row(s) had problems:", len(result.Errors))
		for i, e := range result.Errors {
			if i == 5 {
				text.WriteString("\n…")
				break
			}
			text.WriteString("\n" + e)
		}
	}
	return b.reply(text.String())
}
