package main

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/pivolan/sales_insights/chartspec"
	"github.com/pivolan/sales_insights/intent"
	"github.com/pivolan/sales_insights/summary"
)

func (h *botHandler) handleCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	switch message.Command() {
	case "start", "help":
		h.send(tgbotapi.NewMessage(chatID, helpText))
	case "summary":
		msg := tgbotapi.NewMessage(chatID, "<pre>\n"+summary.Table(h.svc.Summary())+"\n</pre>")
		msg.ParseMode = tgbotapi.ModeHTML
		h.send(msg)
	case "columns":
		table := h.svc.Table()
		text := fmt.Sprintf("%d rows from %s\n%s", table.Len(), h.svc.Source(), strings.Join(table.Columns, ", "))
		h.send(tgbotapi.NewMessage(chatID, text))
	case "explain":
		h.send(tgbotapi.NewMessage(chatID, h.explain(message.CommandArguments())))
	default:
		h.send(tgbotapi.NewMessage(chatID, "Unknown command. Send /help for the list."))
	}
}

// explain describes how a query is resolved and what will be drawn.
func (h *botHandler) explain(query string) string {
	a := h.svc.Answer(strings.TrimSpace(query))
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %q\n", a.Query)
	fmt.Fprintf(&b, "Rule: %s\n", a.Rule)
	fmt.Fprintf(&b, "Intent: %s\n", a.Intent)
	if a.Spec.Fallback {
		fmt.Fprintf(&b, "Missing columns %s, drawing %s instead\n",
			strings.Join(h.missing(chartspec.RequiredFields(a.Intent)), ", "), a.Spec.Intent)
	}
	fmt.Fprintf(&b, "Chart: %s %q from %s", a.Spec.Kind, a.Spec.Title, a.Spec.Data.Description)
	if a.Rule == intent.RuleFallback {
		b.WriteString("\nNo keyword matched.")
	}
	return b.String()
}

func (h *botHandler) missing(fields []string) []string {
	var out []string
	for _, f := range fields {
		if !h.svc.Table().Has(f) {
			out = append(out, f)
		}
	}
	return out
}
