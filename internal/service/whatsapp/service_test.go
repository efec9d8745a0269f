package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/commands"
	client "github.com/mamadbah2/herdbook/pkg/clients/whatsapp"
)

type clientMock struct {
	sent []client.SendTextMessageRequest
	err  error
}

func (m *clientMock) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, req)
	return &client.SendTextMessageResponse{}, nil
}

type dispatcherMock struct {
	reply string
	err   error
	owner uuid.UUID
	cmd   models.Command
}

func (m *dispatcherMock) HandleCommand(_ context.Context, cmd models.Command, owner uuid.UUID) (string, error) {
	m.cmd = cmd
	m.owner = owner
	return m.reply, m.err
}

func textPayload(from, body string) models.WebhookPayload {
	return models.WebhookPayload{Entry: []models.WebhookEntry{{
		Changes: []models.WebhookChange{{
			Value: models.WebhookValue{Messages: []models.InboundMessage{{
				From: from,
				ID:   "wamid.1",
				Type: "text",
				Text: &models.TextBody{Body: body},
			}}},
		}},
	}}}
}

func newTestService(c client.Client, d commands.Dispatcher, owner uuid.UUID) *MetaWhatsAppService {
	directory := config.DigestConfig{Recipients: []config.Recipient{{Phone: "221770000000", Owner: owner}}}
	return NewMetaWhatsAppService(config.WhatsAppConfig{VerifyToken: "verify"}, c, d, directory, nil)
}

func TestVerifyWebhookToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(&clientMock{}, &dispatcherMock{}, uuid.New())

	got, err := svc.VerifyWebhookToken("subscribe", "verify", "challenge")
	require.NoError(t, err)
	assert.Equal(t, "challenge", got)

	_, err = svc.VerifyWebhookToken("subscribe", "wrong", "challenge")
	assert.Error(t, err)

	_, err = svc.VerifyWebhookToken("unsubscribe", "verify", "challenge")
	assert.Error(t, err)
}

func TestHandleWebhook_DispatchesForLinkedOwner(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	c := &clientMock{}
	d := &dispatcherMock{reply: "Income 1.00"}
	svc := newTestService(c, d, owner)

	require.NoError(t, svc.HandleWebhook(context.Background(), textPayload("221770000000", "balance")))

	assert.Equal(t, owner, d.owner)
	assert.Equal(t, models.CommandBalance, d.cmd.Type)
	require.Len(t, c.sent, 1)
	assert.Equal(t, "221770000000", c.sent[0].To)
	assert.Equal(t, "Income 1.00", c.sent[0].Body)
}

func TestHandleWebhook_Replies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from string
		err  error
		want string
	}{
		{name: "unlinked", from: "100", want: replyUnlinked},
		{name: "unknown command", from: "221770000000", err: commands.ErrUnsupportedCommand, want: commands.HelpText},
		{name: "bad number", from: "221770000000", err: commands.ErrInvalidArguments, want: replyBadNumber},
		{name: "validation", from: "221770000000", err: models.NewValidationError("quantity", "must not be negative"), want: "validation: quantity: must not be negative"},
		{name: "backend down", from: "221770000000", err: models.ErrBackend, want: replyUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &clientMock{}
			svc := newTestService(c, &dispatcherMock{err: tt.err}, uuid.New())

			require.NoError(t, svc.HandleWebhook(context.Background(), textPayload(tt.from, "milk")))
			require.Len(t, c.sent, 1)
			assert.Equal(t, tt.want, c.sent[0].Body)
		})
	}
}

func TestHandleWebhook_SendFailure(t *testing.T) {
	t.Parallel()

	svc := newTestService(&clientMock{err: errors.New("meta down")}, &dispatcherMock{reply: "ok"}, uuid.New())

	err := svc.HandleWebhook(context.Background(), textPayload("221770000000", "help"))
	assert.Error(t, err)
}

func TestHandleWebhook_IgnoresStatusOnlyPayload(t *testing.T) {
	t.Parallel()

	c := &clientMock{}
	svc := newTestService(c, &dispatcherMock{}, uuid.New())

	payload := models.WebhookPayload{Entry: []models.WebhookEntry{{
		Changes: []models.WebhookChange{{Value: models.WebhookValue{Statuses: []models.MessageStatus{
			{ID: "1", Status: "read", RecipientID: "221770000000"},
			{ID: "2", Status: "failed", RecipientID: "221770000000"},
		}}}},
	}}}
	require.NoError(t, svc.HandleWebhook(context.Background(), payload))
	assert.Empty(t, c.sent)
}

func TestHandleWebhook_QuickReplyButton(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	c := &clientMock{}
	d := &dispatcherMock{reply: "Balance: 10.00"}
	svc := newTestService(c, d, owner)

	payload := models.WebhookPayload{Entry: []models.WebhookEntry{{
		Changes: []models.WebhookChange{{
			Value: models.WebhookValue{Messages: []models.InboundMessage{{
				From:        "221770000000",
				Type:        "interactive",
				Interactive: &models.QuickReply{Type: "button_reply", ButtonReply: &models.ReplyEntry{ID: "balance", Title: "Balance"}},
			}}},
		}},
	}}}

	require.NoError(t, svc.HandleWebhook(context.Background(), payload))
	assert.Equal(t, models.CommandBalance, d.cmd.Type)
	require.Len(t, c.sent, 1)
	assert.Equal(t, "Balance: 10.00", c.sent[0].Body)
}
