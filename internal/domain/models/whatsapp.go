package models

// WebhookPayload is the part of a WhatsApp Cloud API callback the command
// service reads. Media is ignored.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []InboundMessage `json:"messages"`
	Statuses         []MessageStatus  `json:"statuses"`
}

// MessageStatus reports delivery of a message we sent.
type MessageStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// InboundMessage is a farmer text or a tap on a quick reply button.
type InboundMessage struct {
	From        string      `json:"from"`
	ID          string      `json:"id"`
	Timestamp   string      `json:"timestamp"`
	Type        string      `json:"type"`
	Text        *TextBody   `json:"text,omitempty"`
	Interactive *QuickReply `json:"interactive,omitempty"`
}

type TextBody struct {
	Body string `json:"body"`
}

// QuickReply carries the id of the pressed button or list row. Ids are
// command words such as "alerts" or "balance".
type QuickReply struct {
	Type        string      `json:"type"`
	ButtonReply *ReplyEntry `json:"button_reply,omitempty"`
	ListReply   *ReplyEntry `json:"list_reply,omitempty"`
}

type ReplyEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
