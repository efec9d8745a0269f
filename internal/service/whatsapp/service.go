// Package whatsapp answers farmer text commands received through the Meta
// WhatsApp webhook and pushes outbound notifications.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/commands"
	client "github.com/mamadbah2/herdbook/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// Replies for the cases the dispatcher cannot answer.
const (
	replyUnlinked    = "This number is not linked to a farm yet."
	replyBadNumber   = "Could not read that number. Example: milk 120.5"
	replyUnavailable = "Sorry, your records are unavailable right now. Please try again later."
)

// MessagingService describes the operations the HTTP layer and the scheduler
// can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// OwnerDirectory resolves the farm owner behind a phone number.
type OwnerDirectory interface {
	OwnerForPhone(phone string) (uuid.UUID, bool)
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	directory  OwnerDirectory
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, directory OwnerDirectory, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		directory:  directory,
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook processes inbound webhook payloads.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
			for _, st := range change.Value.Statuses {
				if st.Status == "failed" {
					s.logger.Warn("outbound message not delivered",
						zap.String("message_id", st.ID),
						zap.String("recipient", st.RecipientID))
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	text := extractMessageText(msg)
	if text == "" {
		s.logger.Debug("ignoring message without text", zap.String("type", msg.Type))
		return nil
	}

	owner, ok := s.directory.OwnerForPhone(msg.From)
	if !ok {
		s.logger.Warn("message from unlinked number", zap.String("from", msg.From))
		return s.send(ctx, msg.From, replyUnlinked)
	}

	cmd := models.ParseCommand(text)
	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply, err := s.dispatcher.HandleCommand(ctx, cmd, owner)
	switch {
	case err == nil:
	case errors.Is(err, commands.ErrUnsupportedCommand):
		reply = commands.HelpText
	case errors.Is(err, commands.ErrInvalidArguments):
		reply = replyBadNumber
	case errors.Is(err, models.ErrValidation):
		reply = err.Error()
	default:
		s.logger.Error("command failed", zap.String("command", string(cmd.Type)), zap.Stringer("owner", owner), zap.Error(err))
		reply = replyUnavailable
	}

	return s.send(ctx, msg.From, reply)
}

// SendOutbound lets the scheduler and operators push notifications.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	return err
}

func (s *MetaWhatsAppService) send(ctx context.Context, to, body string) error {
	return s.SendOutbound(ctx, models.OutboundMessageRequest{To: to, Message: body})
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}

	if msg.Interactive != nil {
		if msg.Interactive.ButtonReply != nil {
			return msg.Interactive.ButtonReply.ID
		}
		if msg.Interactive.ListReply != nil {
			return msg.Interactive.ListReply.ID
		}
	}

	return ""
}
