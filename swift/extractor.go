// Package swift извлекает поля из сообщений SWIFT MT103 фиксированными
// регулярными выражениями и хранит разобранные сообщения в SQLite.
package swift

import (
	"regexp"
	"strings"
	"time"

	"screener/normalization"
)

var (
	referencePattern = regexp.MustCompile(`:20:([^\n]+)`)
	typePattern      = regexp.MustCompile(`:23B:([^\n]+)`)
	valuePattern     = regexp.MustCompile(`:32A:(\d{6})([A-Z]{3})([\d,]+)`)
	purposePattern   = regexp.MustCompile(`:70:([^\n]+)`)
	feesPattern      = regexp.MustCompile(`:71A:([^\n]+)`)

	// Отправитель: счёт, опциональный ИНН, имя и адрес до следующего тега.
	// RE2 не поддерживает lookahead, поэтому следующий тег входит в
	// шаблон, а извлекаются только группы.
	senderWithINNPattern = regexp.MustCompile(`:50K:\s*/(\d+)\s*\nINN(\d+)\s*\n([^\n]+)\n([\s\S]*?):\d{2}[A-Z]:`)
	senderPattern        = regexp.MustCompile(`:50K:\s*/(\d+)\s*\n([^\n]+)\n([\s\S]*?):\d{2}[A-Z]:`)
	senderBarePattern    = regexp.MustCompile(`:50K:(?:\s*/)?(\d+)\s*\n([^\n]+)`)

	receiverAccountPattern = regexp.MustCompile(`:59:\s*/(\d+)`)
	receiverDetailsPattern = regexp.MustCompile(`:59:\s*/\d+\s*\n(?:INN(\d+)(?:\.KPP(\d+))?\s*\n)?([^\n]+)`)
)

// Message разобранные поля сообщения MT103
type Message struct {
	TransactionReference string `json:"transaction_reference"`
	TransactionType      string `json:"transaction_type"`
	TransactionDate      string `json:"transaction_date"`
	TransactionCurrency  string `json:"transaction_currency"`
	TransactionAmount    string `json:"transaction_amount"`
	SenderAccount        string `json:"sender_account"`
	SenderINN            string `json:"sender_inn"`
	SenderName           string `json:"sender_name"`
	SenderAddress        string `json:"sender_address"`
	ReceiverAccount      string `json:"receiver_account"`
	ReceiverINN          string `json:"receiver_inn"`
	ReceiverKPP          string `json:"receiver_kpp"`
	ReceiverName         string `json:"receiver_name"`
	TransactionPurpose   string `json:"transaction_purpose"`
	TransactionFees      string `json:"transaction_fees"`
}

// Extract разбирает сообщение MT103. Отсутствующие поля дают пустые
// значения: частично заполненное сообщение не считается ошибкой.
func Extract(message string) Message {
	message = strings.ReplaceAll(message, "\r", "\n")
	message = strings.ReplaceAll(message, "\n\n", "\n")

	var msg Message

	msg.TransactionReference = firstGroup(referencePattern, message)
	msg.TransactionType = firstGroup(typePattern, message)
	msg.TransactionPurpose = firstGroup(purposePattern, message)
	msg.TransactionFees = firstGroup(feesPattern, message)

	if match := valuePattern.FindStringSubmatch(message); match != nil {
		if date, err := time.Parse("060102", match[1]); err == nil {
			msg.TransactionDate = date.Format("2006-01-02")
		}
		msg.TransactionCurrency = match[2]
		msg.TransactionAmount = strings.ReplaceAll(match[3], ",", ".")
	}

	extractSender(message, &msg)
	extractReceiver(message, &msg)

	return msg
}

func extractSender(message string, msg *Message) {
	if match := senderWithINNPattern.FindStringSubmatch(message); match != nil {
		msg.SenderAccount = strings.TrimSpace(match[1])
		msg.SenderINN = strings.TrimSpace(match[2])
		msg.SenderName = normalization.CleanName(strings.TrimSpace(match[3]))
		msg.SenderAddress = cleanAddress(match[4])
		return
	}

	if match := senderPattern.FindStringSubmatch(message); match != nil {
		msg.SenderAccount = strings.TrimSpace(match[1])
		msg.SenderName = normalization.CleanName(strings.TrimSpace(match[2]))
		msg.SenderAddress = cleanAddress(match[3])
		return
	}

	if match := senderBarePattern.FindStringSubmatch(message); match != nil {
		msg.SenderAccount = strings.TrimSpace(match[1])
		msg.SenderName = normalization.CleanName(strings.TrimSpace(match[2]))
	}
}

func extractReceiver(message string, msg *Message) {
	msg.ReceiverAccount = firstGroup(receiverAccountPattern, message)

	if match := receiverDetailsPattern.FindStringSubmatch(message); match != nil {
		msg.ReceiverINN = strings.TrimSpace(match[1])
		msg.ReceiverKPP = strings.TrimSpace(match[2])
		msg.ReceiverName = normalization.CleanName(strings.TrimSpace(match[3]))
	}
}

// cleanAddress превращает многострочный адрес в одну транслитерированную
// строку с разделителем «, »
func cleanAddress(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	raw = strings.ReplaceAll(raw, "\n", ", ")
	return normalization.Transliterate(strings.TrimSpace(raw))
}

func firstGroup(pattern *regexp.Regexp, s string) string {
	if match := pattern.FindStringSubmatch(s); match != nil {
		return strings.TrimSpace(match[1])
	}
	return ""
}
