package usecase

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/prepgrid/interview-practice/domain"
	"github.com/prepgrid/interview-practice/utils/log"
)

// StartTranscriptLogger subscribes to the transcript topic and logs every
// interview turn. Observability only: it never touches session state, and
// nothing is persisted. Runs until ctx is done.
func StartTranscriptLogger(ctx context.Context, broker domain.MessageBroker) error {
	messages, err := broker.Subscribe(ctx, domain.TranscriptTopic, "")
	if err != nil {
		return err
	}

	go func() {
		log.WithCtx(ctx).Info("🎧 Transcript logger listening", zap.String("topic", domain.TranscriptTopic))
		for {
			select {
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event domain.TranscriptEvent
				if err := json.Unmarshal(msg.Payload, &event); err != nil {
					log.WithCtx(ctx).Error("Failed to unmarshal transcript event", zap.Error(err))
					continue
				}
				log.WithCtx(ctx).Info("📝 Interview turn",
					zap.String("session_id", event.SessionID),
					zap.String("role", string(event.Role)),
					zap.String("label", string(event.Label)),
					zap.Bool("followup", event.Followup),
					zap.String("question", event.Question))
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
