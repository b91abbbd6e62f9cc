package server

import (
	"context"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newscast/pkg/telegram"
)

// processUpdates handles queued updates one at a time, in arrival order
func (s *Server) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case upd := <-s.updates:
			s.handleUpdate(ctx, upd)
		}
	}
}

// handleUpdate routes private chat messages and button presses to the command handler.
// Group and channel traffic is ignored.
func (s *Server) handleUpdate(ctx context.Context, upd telegram.Update) {
	if cq := upd.CallbackQuery; cq != nil {
		if err := s.callbacks.AnswerCallback(ctx, cq.ID, ""); err != nil {
			lgr.Printf("[WARN] can't answer callback %s: %v", cq.ID, err)
		}
		if cq.Message == nil || !cq.Message.Chat.IsPrivate() {
			return
		}
		if err := s.commands.Handle(ctx, cq.From.ID, cq.Message.Chat.ID, cq.Data); err != nil {
			lgr.Printf("[WARN] callback %q from %d failed: %v", cq.Data, cq.From.ID, err)
		}
		return
	}

	msg := upd.Message
	if msg == nil {
		msg = upd.EditedMessage
	}
	if msg == nil || msg.From == nil || !msg.Chat.IsPrivate() {
		lgr.Printf("[DEBUG] skip update %d", upd.UpdateID)
		return
	}
	if err := s.commands.Handle(ctx, msg.From.ID, msg.Chat.ID, msg.Text); err != nil {
		lgr.Printf("[WARN] message from %d failed: %v", msg.From.ID, err)
	}
}
