package main

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	uuid "github.com/satori/go.uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pivolan/sales_insights/insight"
	"github.com/pivolan/sales_insights/plot"
	"github.com/pivolan/sales_insights/summary"
)

const helpText = `Hi! 👋

Ask me about the sales data and I will answer with a chart.

Examples:
- "Show the trend of sales over time"
- "Compare sales by region"
- "Customer satisfaction"
- "Profit by category"
- "Sales by salesperson"
- "Products with a big discount"

Anything else shows total sales by product category.

Commands:
/summary - dataset summary
/columns - columns of the dataset
/explain <query> - which rule a query matches`

// sender is the part of the Telegram API the bot uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type botHandler struct {
	svc *insight.Service
	log *zap.Logger
	api sender
}

func newBotCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Answer queries sent to a Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, svc, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer log.Sync()
			if cfg.TgToken == "" {
				return errors.New("TG_TOKEN is not set")
			}
			bot, err := tgbotapi.NewBotAPI(cfg.TgToken)
			if err != nil {
				return fmt.Errorf("tg error: %w", err)
			}
			log.Info("authorized", zap.String("account", bot.Self.UserName))

			u := tgbotapi.NewUpdate(0)
			u.Timeout = 60
			updates, err := bot.GetUpdatesChan(u)
			if err != nil {
				return fmt.Errorf("get updates: %w", err)
			}
			h := &botHandler{svc: svc, log: log, api: bot}
			for update := range updates {
				if update.Message == nil || update.Message.Text == "" {
					continue
				}
				go h.handleText(update.Message)
			}
			return nil
		},
	}
}

func (h *botHandler) handleText(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if message.IsCommand() {
		h.handleCommand(message)
		return
	}

	id := uuid.NewV4().String()
	a := h.svc.Answer(strings.TrimSpace(message.Text))
	h.log.Info("query",
		zap.String("request_id", id),
		zap.Int64("chat_id", chatID),
		zap.String("rule", a.Rule),
		zap.String("intent", string(a.Spec.Intent)),
		zap.Bool("fallback", a.Spec.Fallback),
	)

	caption := a.Spec.Title + "\n" + summary.Format(a.Summary)
	graph, err := plot.Render(a.Spec)
	switch {
	case errors.Is(err, plot.ErrNoData):
		h.send(tgbotapi.NewMessage(chatID, "Nothing to chart. "+caption))
	case err != nil:
		h.log.Error("render chart", zap.String("request_id", id), zap.Error(err))
		h.send(tgbotapi.NewMessage(chatID, "Could not draw the chart, try again later."))
	default:
		h.sendGraph(graph, string(a.Spec.Intent), caption, chatID)
	}
}

func (h *botHandler) send(c tgbotapi.Chattable) {
	if _, err := h.api.Send(c); err != nil {
		h.log.Warn("send failed", zap.Error(err))
	}
}
