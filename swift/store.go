package swift

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// StoredMessage сохраненное сообщение с результатами проверки контрагентов
type StoredMessage struct {
	ID           int64           `json:"id"`
	Message      Message         `json:"message"`
	CompanyInfo  json.RawMessage `json:"company_info,omitempty"`
	ReceiverInfo json.RawMessage `json:"receiver_info,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Store хранилище разобранных сообщений MT103
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore открывает БД сообщений и создает схему при необходимости
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open swift database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize swift schema: %w", err)
	}

	return store, nil
}

// Close закрывает соединение с БД
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS swift_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_reference TEXT NOT NULL UNIQUE,
		transaction_type TEXT,
		transaction_date TEXT,
		transaction_currency TEXT,
		transaction_amount TEXT,
		sender_account TEXT,
		sender_inn TEXT,
		sender_name TEXT,
		sender_address TEXT,
		receiver_account TEXT,
		receiver_inn TEXT,
		receiver_kpp TEXT,
		receiver_name TEXT,
		transaction_purpose TEXT,
		transaction_fees TEXT,
		company_info TEXT,
		receiver_info TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_swift_messages_reference ON swift_messages(transaction_reference);
	`
	_, err := s.db.Exec(query)
	return err
}

// Save сохраняет сообщение вместе с результатами проверки отправителя и
// получателя. Повторная ссылка транзакции не считается ошибкой: запись
// пропускается, возвращается false.
func (s *Store) Save(ctx context.Context, msg Message, companyInfo, receiverInfo json.RawMessage) (bool, error) {
	if msg.TransactionReference == "" {
		return false, fmt.Errorf("message has no transaction reference")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM swift_messages WHERE transaction_reference = ?`,
		msg.TransactionReference).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate reference: %w", err)
	}
	if exists > 0 {
		return false, nil
	}

	query := `
		INSERT INTO swift_messages (
			transaction_reference, transaction_type, transaction_date,
			transaction_currency, transaction_amount,
			sender_account, sender_inn, sender_name, sender_address,
			receiver_account, receiver_inn, receiver_kpp, receiver_name,
			transaction_purpose, transaction_fees,
			company_info, receiver_info, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		msg.TransactionReference,
		msg.TransactionType,
		msg.TransactionDate,
		msg.TransactionCurrency,
		msg.TransactionAmount,
		msg.SenderAccount,
		msg.SenderINN,
		msg.SenderName,
		msg.SenderAddress,
		msg.ReceiverAccount,
		msg.ReceiverINN,
		msg.ReceiverKPP,
		msg.ReceiverName,
		msg.TransactionPurpose,
		msg.TransactionFees,
		nullableJSON(companyInfo),
		nullableJSON(receiverInfo),
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("failed to save swift message: %w", err)
	}

	return true, nil
}

// List возвращает сохраненные сообщения, новые первыми
func (s *Store) List(ctx context.Context, limit int) ([]StoredMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	query := `
		SELECT id, transaction_reference, transaction_type, transaction_date,
			transaction_currency, transaction_amount,
			sender_account, sender_inn, sender_name, sender_address,
			receiver_account, receiver_inn, receiver_kpp, receiver_name,
			transaction_purpose, transaction_fees,
			company_info, receiver_info, created_at
		FROM swift_messages
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list swift messages: %w", err)
	}
	defer rows.Close()

	messages := make([]StoredMessage, 0)
	for rows.Next() {
		var stored StoredMessage
		var companyInfo, receiverInfo sql.NullString
		var createdAt string

		err := rows.Scan(
			&stored.ID,
			&stored.Message.TransactionReference,
			&stored.Message.TransactionType,
			&stored.Message.TransactionDate,
			&stored.Message.TransactionCurrency,
			&stored.Message.TransactionAmount,
			&stored.Message.SenderAccount,
			&stored.Message.SenderINN,
			&stored.Message.SenderName,
			&stored.Message.SenderAddress,
			&stored.Message.ReceiverAccount,
			&stored.Message.ReceiverINN,
			&stored.Message.ReceiverKPP,
			&stored.Message.ReceiverName,
			&stored.Message.TransactionPurpose,
			&stored.Message.TransactionFees,
			&companyInfo,
			&receiverInfo,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan swift message: %w", err)
		}

		if companyInfo.Valid && companyInfo.String != "" {
			stored.CompanyInfo = json.RawMessage(companyInfo.String)
		}
		if receiverInfo.Valid && receiverInfo.String != "" {
			stored.ReceiverInfo = json.RawMessage(receiverInfo.String)
		}
		if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
			stored.CreatedAt = parsed
		}

		messages = append(messages, stored)
	}

	return messages, rows.Err()
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
