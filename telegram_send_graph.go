package main

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

// Larger images go out as documents so Telegram does not recompress them.
const maxSizePhoto = 150000

// sendGraph sends a rendered chart with its caption.
func (h *botHandler) sendGraph(graph []byte, name, caption string, chatID int64) {
	pngFile := tgbotapi.FileBytes{
		Name:  fmt.Sprintf("%s_%s.png", strings.ToLower(name), time.Now().Format("20060102-150405")),
		Bytes: graph,
	}

	var msg tgbotapi.Chattable
	if len(graph) < maxSizePhoto {
		photo := tgbotapi.NewPhotoUpload(chatID, pngFile)
		photo.Caption = caption
		msg = photo
	} else {
		doc := tgbotapi.NewDocumentUpload(chatID, pngFile)
		doc.Caption = caption
		msg = doc
	}

	if _, err := h.api.Send(msg); err != nil {
		h.log.Warn("cannot send chart", zap.String("chart", name), zap.Error(err))
		h.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Could not send the chart: %v", err)))
	}
}
