// Package telegram is a minimal Telegram Bot API client covering what the
// service needs: sendMessage for notifications and getUpdates for the bot's
// long-poll loop.
package telegram
