package database

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SystemSetting represents a configuration setting stored in the database
type SystemSetting struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	ValueType   string    `json:"value_type"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	IsSensitive bool      `json:"is_sensitive"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var ErrSettingNotFound = errors.New("setting not found")

// MaskedValue replaces sensitive values in listings. Submitting it back
// leaves the stored value unchanged.
const MaskedValue = "••••••••"

// encrypt encrypts a string value
func encrypt(plaintext string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts an encrypted string value
func decrypt(ciphertext string, key []byte) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// GetSetting retrieves a single setting by key
func (db *DB) GetSetting(ctx context.Context, key string, encryptionKey []byte) (*SystemSetting, error) {
	var s SystemSetting
	err := db.Pool.QueryRow(ctx, `
		SELECT key, value, value_type, category, description, is_sensitive, created_at, updated_at
		FROM system_settings
		WHERE key = $1
	`, key).Scan(&s.Key, &s.Value, &s.ValueType, &s.Category, &s.Description, &s.IsSensitive, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	// Decrypt if encrypted
	if s.ValueType == "encrypted" && s.Value != "" && encryptionKey != nil {
		decrypted, err := decrypt(s.Value, encryptionKey)
		if err == nil {
			s.Value = decrypted
		}
		// If decryption fails, return empty (might be unencrypted old value)
	}

	return &s, nil
}

// GetSettingString retrieves a setting as a string
func (db *DB) GetSettingString(ctx context.Context, key string, defaultValue string, encryptionKey []byte) string {
	setting, err := db.GetSetting(ctx, key, encryptionKey)
	if err != nil {
		return defaultValue
	}
	if setting.Value == "" {
		return defaultValue
	}
	return setting.Value
}

// GetSettingBool retrieves a setting as a boolean
func (db *DB) GetSettingBool(ctx context.Context, key string, defaultValue bool, encryptionKey []byte) bool {
	setting, err := db.GetSetting(ctx, key, encryptionKey)
	if err != nil {
		return defaultValue
	}
	val, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return defaultValue
	}
	return val
}

// GetSettingsByCategory retrieves all settings in a category
func (db *DB) GetSettingsByCategory(ctx context.Context, category string, encryptionKey []byte) ([]SystemSetting, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT key, value, value_type, category, description, is_sensitive, created_at, updated_at
		FROM system_settings
		WHERE category = $1
		ORDER BY key
	`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings by category: %w", err)
	}
	defer rows.Close()

	var settings []SystemSetting
	for rows.Next() {
		var s SystemSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.ValueType, &s.Category, &s.Description, &s.IsSensitive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}

		// Decrypt if encrypted
		if s.ValueType == "encrypted" && s.Value != "" && encryptionKey != nil {
			decrypted, err := decrypt(s.Value, encryptionKey)
			if err == nil {
				s.Value = decrypted
			}
		}

		// Mask sensitive values for output (show only if explicitly requested)
		if s.IsSensitive && s.Value != "" {
			s.Value = MaskedValue
		}

		settings = append(settings, s)
	}

	return settings, nil
}

// GetAllSettings retrieves all settings
func (db *DB) GetAllSettings(ctx context.Context, encryptionKey []byte) (map[string][]SystemSetting, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT key, value, value_type, category, description, is_sensitive, created_at, updated_at
		FROM system_settings
		ORDER BY category, key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all settings: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]SystemSetting)
	for rows.Next() {
		var s SystemSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.ValueType, &s.Category, &s.Description, &s.IsSensitive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}

		// Mask sensitive values
		if s.IsSensitive && s.Value != "" {
			s.Value = MaskedValue
		}

		result[s.Category] = append(result[s.Category], s)
	}

	return result, nil
}

// SetSetting updates an existing setting. Unknown keys are rejected and a
// submitted MaskedValue leaves the stored value untouched.
func (db *DB) SetSetting(ctx context.Context, key, value string, encryptionKey []byte) error {
	return setSetting(ctx, db.Pool, key, value, encryptionKey)
}

type settingsExecer interface {
	rowQuerier
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func setSetting(ctx context.Context, q settingsExecer, key, value string, encryptionKey []byte) error {
	if value == MaskedValue {
		return nil
	}

	var valueType string
	err := q.QueryRow(ctx, `SELECT value_type FROM system_settings WHERE key = $1`, key).Scan(&valueType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSettingNotFound
		}
		return fmt.Errorf("failed to get setting: %w", err)
	}

	finalValue, err := prepareSettingValue(valueType, value, encryptionKey)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		UPDATE system_settings SET value = $2, updated_at = NOW() WHERE key = $1
	`, key, finalValue)
	return err
}

// SetSettings updates multiple settings in one transaction
func (db *DB) SetSettings(ctx context.Context, settings map[string]string, encryptionKey []byte) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := setSetting(ctx, tx, key, settings[key], encryptionKey); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return tx.Commit(ctx)
}

// ErrInvalidSettingValue is returned when a value does not fit the setting's type
var ErrInvalidSettingValue = errors.New("invalid setting value")

// prepareSettingValue validates value against valueType and returns what is stored.
func prepareSettingValue(valueType, value string, encryptionKey []byte) (string, error) {
	switch valueType {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return "", fmt.Errorf("%w: %q is not a number", ErrInvalidSettingValue, value)
		}
	case "bool":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not true or false", ErrInvalidSettingValue, value)
		}
		return strconv.FormatBool(v), nil
	case "json":
		if !json.Valid([]byte(value)) {
			return "", fmt.Errorf("%w: not valid JSON", ErrInvalidSettingValue)
		}
	case "encrypted":
		if value == "" || encryptionKey == nil {
			return value, nil
		}
		encrypted, err := encrypt(value, encryptionKey)
		if err != nil {
			return "", fmt.Errorf("failed to encrypt value: %w", err)
		}
		return encrypted, nil
	}
	return value, nil
}

// TelegramConfig holds the order notification channel settings
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// Configured reports whether both the token and the chat are set.
func (c *TelegramConfig) Configured() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// GetTelegramConfig retrieves the decrypted Telegram settings
func (db *DB) GetTelegramConfig(ctx context.Context, encryptionKey []byte) (*TelegramConfig, error) {
	config := &TelegramConfig{
		ChatID: db.GetSettingString(ctx, "telegram_chat_id", "", encryptionKey),
	}

	setting, err := db.GetSetting(ctx, "telegram_bot_token", encryptionKey)
	if err != nil && !errors.Is(err, ErrSettingNotFound) {
		return nil, err
	}
	if err == nil {
		config.BotToken = setting.Value
	}

	return config, nil
}

// OrdersEnabled reports whether orders are accepted
func (db *DB) OrdersEnabled(ctx context.Context) bool {
	return db.GetSettingBool(ctx, "orders_enabled", false, nil)
}
